package datetime_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/is0692vs/chronoclip/internal/datetime"
	"github.com/is0692vs/chronoclip/internal/domain"
)

var jst = time.FixedZone("JST", 9*60*60)

// refInstant is mid-2025, so year-omitted dates default to 2025.
var refInstant = time.Date(2025, 6, 15, 12, 0, 0, 0, jst)

func newResolver(t *testing.T, natural datetime.NaturalParser) *datetime.Resolver {
	t.Helper()
	return datetime.New(datetime.Config{Location: jst}, natural, nil)
}

// fakeNaturalParser is a hand-rolled natural-language capability.
type fakeNaturalParser struct {
	results []datetime.ParsedDate
	err     error
	calls   int
}

func (f *fakeNaturalParser) Parse(
	ctx context.Context,
	text string,
	ref time.Time,
	opts datetime.ParseOptions,
) ([]datetime.ParsedDate, error) {
	f.calls++
	return f.results, f.err
}

func TestResolve_YearQualifiedWithWeekdayAndTime(t *testing.T) {
	t.Parallel()

	r := newResolver(t, nil)
	c := r.Resolve(context.Background(), "2025年10月11日 (土) 15:00 開場16:00 開始", refInstant)

	require.NotNil(t, c)
	assert.Equal(t, domain.KindDateTime, c.Kind)
	assert.Equal(t, "2025-10-11T15:00:00+09:00", c.StartISO)
	assert.Equal(t, "2025-10-11T18:00:00+09:00", c.EndISO)
	assert.InDelta(t, 0.7, c.Confidence, 1e-9)
	assert.Equal(t, datetime.StrategyYearQualified, c.SourceStrategy)
}

func TestResolve_MonthDayDefaultsToReferenceYear(t *testing.T) {
	t.Parallel()

	r := newResolver(t, nil)
	c := r.Resolve(context.Background(), "8月27日 18:00", refInstant)

	require.NotNil(t, c)
	assert.Equal(t, domain.KindDateTime, c.Kind)
	assert.Equal(t, "2025-08-27T18:00:00+09:00", c.StartISO)
	assert.Equal(t, datetime.StrategyMonthDay, c.SourceStrategy)
}

func TestResolve_EraDate(t *testing.T) {
	t.Parallel()

	r := newResolver(t, nil)
	c := r.Resolve(context.Background(), "令和7年8月27日", refInstant)

	require.NotNil(t, c)
	assert.Equal(t, domain.KindDate, c.Kind)
	assert.Equal(t, "2025-08-27", c.StartISO)
	assert.Equal(t, "2025-08-27", c.EndISO)
	assert.Empty(t, c.Timezone)
	assert.InDelta(t, 0.6, c.Confidence, 1e-9)
	assert.Equal(t, datetime.StrategyEra, c.SourceStrategy)
}

func TestResolve_EraFirstYearToken(t *testing.T) {
	t.Parallel()

	r := newResolver(t, nil)
	c := r.Resolve(context.Background(), "令和元年5月1日", refInstant)

	require.NotNil(t, c)
	assert.Equal(t, "2019-05-01", c.StartISO)
}

func TestResolve_PatternPriorityIndependentOfPosition(t *testing.T) {
	t.Parallel()

	// A bare month/day appears first in the text; the ISO date later in
	// the text must still win because ISO is the higher-priority pattern.
	r := newResolver(t, nil)
	c := r.Resolve(context.Background(), "開催は3月5日ではなく 2025-10-11 です", refInstant)

	require.NotNil(t, c)
	assert.Equal(t, datetime.StrategyISO, c.SourceStrategy)
	assert.Equal(t, "2025-10-11", c.StartISO)
}

func TestResolve_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		wantStart string
		wantKind  domain.DateKind
		strategy  string
	}{
		{
			name:      "iso with time",
			text:      "2025-10-11T15:00 から",
			wantStart: "2025-10-11T15:00:00+09:00",
			wantKind:  domain.KindDateTime,
			strategy:  datetime.StrategyISO,
		},
		{
			name:      "year-qualified without time",
			text:      "2025年10月11日に開催",
			wantStart: "2025-10-11",
			wantKind:  domain.KindDate,
			strategy:  datetime.StrategyYearQualifiedDate,
		},
		{
			name:      "year-qualified time without weekday",
			text:      "2025年10月11日 15:00",
			wantStart: "2025-10-11T15:00:00+09:00",
			wantKind:  domain.KindDateTime,
			strategy:  datetime.StrategyYearQualified,
		},
		{
			name:      "month-day hour-minute notation",
			text:      "8月27日 18時30分",
			wantStart: "2025-08-27T18:30:00+09:00",
			wantKind:  domain.KindDateTime,
			strategy:  datetime.StrategyMonthDay,
		},
		{
			name:      "month-day hour notation without minutes",
			text:      "8月27日18時",
			wantStart: "2025-08-27T18:00:00+09:00",
			wantKind:  domain.KindDateTime,
			strategy:  datetime.StrategyMonthDay,
		},
		{
			name:      "slash numeric with year",
			text:      "2025/10/11 14:30",
			wantStart: "2025-10-11T14:30:00+09:00",
			wantKind:  domain.KindDateTime,
			strategy:  datetime.StrategySlashNumeric,
		},
		{
			name:      "slash numeric without year",
			text:      "10/11 14:30",
			wantStart: "2025-10-11T14:30:00+09:00",
			wantKind:  domain.KindDateTime,
			strategy:  datetime.StrategySlashNumeric,
		},
		{
			name:      "era with time",
			text:      "令和7年8月27日 19:00",
			wantStart: "2025-08-27T19:00:00+09:00",
			wantKind:  domain.KindDateTime,
			strategy:  datetime.StrategyEra,
		},
		{
			name:      "latin month with meridiem",
			text:      "Doors open Oct 11, 2025 3pm",
			wantStart: "2025-10-11T15:00:00+09:00",
			wantKind:  domain.KindDateTime,
			strategy:  datetime.StrategyLatinMonth,
		},
		{
			name:      "latin month date only",
			text:      "October 11, 2025",
			wantStart: "2025-10-11",
			wantKind:  domain.KindDate,
			strategy:  datetime.StrategyLatinMonth,
		},
		{
			name:      "full-width digits and colon",
			text:      "８月２７日 １８：００",
			wantStart: "2025-08-27T18:00:00+09:00",
			wantKind:  domain.KindDateTime,
			strategy:  datetime.StrategyMonthDay,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newResolver(t, nil)
			c := r.Resolve(context.Background(), tt.text, refInstant)

			require.NotNil(t, c, "expected a candidate for %q", tt.text)
			assert.Equal(t, tt.wantStart, c.StartISO)
			assert.Equal(t, tt.wantKind, c.Kind)
			assert.Equal(t, tt.strategy, c.SourceStrategy)
		})
	}
}

func TestResolve_NoDateReturnsNil(t *testing.T) {
	t.Parallel()

	r := newResolver(t, nil)
	assert.Nil(t, r.Resolve(context.Background(), "nothing datelike in here", refInstant))
	assert.Nil(t, r.Resolve(context.Background(), "", refInstant))
	assert.Nil(t, r.Resolve(context.Background(), "   \n\t ", refInstant))
}

func TestResolve_ValidityGateRejectsImpossibleDates(t *testing.T) {
	t.Parallel()

	r := newResolver(t, nil)

	// February 30th round-trips to March 2nd, so the gate must reject it
	// and, with no other pattern matching, resolution yields nil.
	assert.Nil(t, r.Resolve(context.Background(), "2025-02-30", refInstant))
	assert.Nil(t, r.Resolve(context.Background(), "2025年13月1日 (土) 15:00", refInstant))
}

func TestResolve_MonthDayRejectedInsideFullerForms(t *testing.T) {
	t.Parallel()

	r := newResolver(t, nil)

	// The 8月27日 inside the era form must not surface as a bare
	// month/day match for the current year.
	c := r.Resolve(context.Background(), "令和7年8月27日", refInstant)
	require.NotNil(t, c)
	assert.Equal(t, datetime.StrategyEra, c.SourceStrategy)
}

func TestResolve_NaturalLanguageWinsOverPatterns(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 10, 11, 15, 0, 0, 0, jst)
	natural := &fakeNaturalParser{
		results: []datetime.ParsedDate{{Start: start, HasClockTime: true}},
	}
	r := newResolver(t, natural)

	c := r.Resolve(context.Background(), "2025年10月11日 (土) 15:00", refInstant)
	require.NotNil(t, c)
	assert.Equal(t, datetime.StrategyNatural, c.SourceStrategy)
	assert.InDelta(t, 0.9, c.Confidence, 1e-9)
	assert.Equal(t, 1, natural.calls)
}

func TestResolve_NaturalLanguageDateOnlyConfidence(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 10, 11, 0, 0, 0, 0, jst)
	natural := &fakeNaturalParser{
		results: []datetime.ParsedDate{{Start: start, HasClockTime: false}},
	}
	r := newResolver(t, natural)

	c := r.Resolve(context.Background(), "next month's meetup", refInstant)
	require.NotNil(t, c)
	assert.Equal(t, domain.KindDate, c.Kind)
	assert.InDelta(t, 0.8, c.Confidence, 1e-9)
}

func TestResolve_NaturalLanguageErrorFallsBackToPatterns(t *testing.T) {
	t.Parallel()

	natural := &fakeNaturalParser{err: errors.New("parser exploded")}
	r := newResolver(t, natural)

	c := r.Resolve(context.Background(), "8月27日 18:00", refInstant)
	require.NotNil(t, c)
	assert.Equal(t, datetime.StrategyMonthDay, c.SourceStrategy)
}

func TestResolve_ConfidenceOrdering(t *testing.T) {
	t.Parallel()

	// natural-language > time-bearing pattern > date-only pattern
	start := time.Date(2025, 10, 11, 15, 0, 0, 0, jst)
	withNatural := newResolver(t, &fakeNaturalParser{
		results: []datetime.ParsedDate{{Start: start, HasClockTime: true}},
	})
	patternsOnly := newResolver(t, nil)

	text := "2025年10月11日 (土) 15:00"
	naturalCand := withNatural.Resolve(context.Background(), text, refInstant)
	timeCand := patternsOnly.Resolve(context.Background(), text, refInstant)
	dateCand := patternsOnly.Resolve(context.Background(), "2025年10月11日", refInstant)

	require.NotNil(t, naturalCand)
	require.NotNil(t, timeCand)
	require.NotNil(t, dateCand)
	assert.Greater(t, naturalCand.Confidence, timeCand.Confidence)
	assert.Greater(t, timeCand.Confidence, dateCand.Confidence)
}

func TestPushToNextYear(t *testing.T) {
	t.Parallel()

	r := newResolver(t, nil)

	// 1月5日 defaults to the reference year even though it is already
	// past; Resolve never pushes implicitly.
	past := r.Resolve(context.Background(), "1月5日", refInstant)
	require.NotNil(t, past)
	assert.Equal(t, "2025-01-05", past.StartISO)

	pushed := r.PushToNextYear(past, refInstant)
	require.NotNil(t, pushed)
	assert.Equal(t, "2026-01-05", pushed.StartISO)
	assert.Equal(t, "2026-01-05", pushed.EndISO)

	// Future candidates are left alone.
	future := r.Resolve(context.Background(), "8月27日", refInstant)
	require.NotNil(t, future)
	assert.Same(t, future, r.PushToNextYear(future, refInstant))

	assert.Nil(t, r.PushToNextYear(nil, refInstant))
}

func TestResolve_EndNeverBeforeStart(t *testing.T) {
	t.Parallel()

	r := newResolver(t, nil)
	c := r.Resolve(context.Background(), "2025-10-11 23:30", refInstant)

	require.NotNil(t, c)
	start, err := time.Parse(time.RFC3339, c.StartISO)
	require.NoError(t, err)
	end, err := time.Parse(time.RFC3339, c.EndISO)
	require.NoError(t, err)
	assert.False(t, end.Before(start))
}
