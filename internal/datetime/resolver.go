// Package datetime resolves date/time candidates from unstructured text.
//
// Resolution runs a strategy chain: a locale-aware natural-language parsing
// capability first, then a fixed-priority pattern fallback chain. The first
// strategy to produce a candidate that survives the validity gate wins.
// Resolution never fails outward; it returns nil when nothing matched.
package datetime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/is0692vs/chronoclip/internal/domain"
	"github.com/is0692vs/chronoclip/internal/logger"
	"github.com/is0692vs/chronoclip/internal/normalize"
)

// Confidence scores per strategy. Natural-language results always outrank
// pattern results, and time-bearing results outrank date-only ones.
const (
	confidenceNaturalTime = 0.9
	confidenceNaturalDate = 0.8
	confidencePatternTime = 0.7
	confidencePatternDate = 0.6
)

// DefaultEventDuration is assumed when a candidate has a start time but no
// end time.
const DefaultEventDuration = 3 * time.Hour

// ParseOptions configures a natural-language parse request.
type ParseOptions struct {
	// ForwardBias resolves year-less dates to the nearest future occurrence.
	ForwardBias bool
}

// ParsedDate is one result from the natural-language capability.
type ParsedDate struct {
	// Start is the resolved start instant
	Start time.Time
	// End is the resolved end instant, nil when the text carried none
	End *time.Time
	// HasClockTime reports whether a clock time was captured from the text
	HasClockTime bool
}

// NaturalParser is the injected locale-aware date/time parsing capability.
// Implementations may return no results; errors are treated as no-match.
type NaturalParser interface {
	Parse(ctx context.Context, text string, ref time.Time, opts ParseOptions) ([]ParsedDate, error)
}

// Config holds resolver settings.
type Config struct {
	// EventDuration is added to a captured start time to produce the end
	EventDuration time.Duration
	// Location is the timezone applied to pattern-resolved clock times
	Location *time.Location
}

// Resolver resolves DateCandidates from text.
type Resolver struct {
	cfg     Config
	natural NaturalParser
	log     logger.Interface
}

// New creates a Resolver. The natural-language capability is optional and
// resolved once here; pass nil to run the pattern chain only.
func New(cfg Config, natural NaturalParser, log logger.Interface) *Resolver {
	if cfg.EventDuration <= 0 {
		cfg.EventDuration = DefaultEventDuration
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Resolver{cfg: cfg, natural: natural, log: log.WithComponent("datetime")}
}

// Resolve resolves a date/time candidate from text relative to ref. It
// returns nil when no strategy matched or every match failed the validity
// gate. Internal strategy errors are caught and treated as no-match; the
// method never panics outward.
func (r *Resolver) Resolve(ctx context.Context, text string, ref time.Time) (candidate *domain.DateCandidate) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("date resolution panic recovered", "panic", rec)
			candidate = nil
		}
	}()

	text = normalize.Normalize(text)
	if text == "" {
		return nil
	}

	if r.natural != nil {
		if c := r.resolveNatural(ctx, text, ref); c != nil {
			return c
		}
	}
	return r.resolvePatterns(text, ref)
}

// resolveNatural delegates to the natural-language capability with forward
// date bias and converts its first result.
func (r *Resolver) resolveNatural(ctx context.Context, text string, ref time.Time) *domain.DateCandidate {
	results, err := r.natural.Parse(ctx, text, ref, ParseOptions{ForwardBias: true})
	if err != nil {
		r.log.Debug("natural-language parse failed", "error", err)
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	first := results[0]
	start := first.Start
	if !validDate(start.Year(), int(start.Month()), start.Day()) {
		return nil
	}

	if first.HasClockTime {
		end := start.Add(r.cfg.EventDuration)
		if first.End != nil && first.End.After(start) {
			end = *first.End
		}
		return r.timeCandidate(start, end, confidenceNaturalTime, StrategyNatural)
	}
	return dateCandidate(start.Year(), int(start.Month()), start.Day(), confidenceNaturalDate, StrategyNatural)
}

// resolvePatterns runs the fallback chain. The first pattern with a
// surviving occurrence wins regardless of where later patterns would match
// in the text; only the first surviving occurrence of that pattern is used.
func (r *Resolver) resolvePatterns(text string, ref time.Time) *domain.DateCandidate {
	for i := range patternChain {
		p := &patternChain[i]
		match, ok := firstOccurrence(p, text)
		if !ok {
			continue
		}
		if match.yearDefaulted {
			match.year = ref.Year()
		}
		// A gate failure discards the candidate and moves to the next
		// pattern, not the next occurrence.
		if !validDate(match.year, match.month, match.day) {
			continue
		}
		r.log.Debug("pattern matched", "pattern", p.name, "text", trimForLog(text))
		if match.hasTime {
			if match.hour > 23 || match.minute > 59 {
				continue
			}
			start := time.Date(match.year, time.Month(match.month), match.day,
				match.hour, match.minute, 0, 0, r.cfg.Location)
			return r.timeCandidate(start, start.Add(r.cfg.EventDuration), confidencePatternTime, p.name)
		}
		return dateCandidate(match.year, match.month, match.day, confidencePatternDate, p.name)
	}
	r.log.Debug("date resolution exhausted", "error", domain.ErrParseFailure, "text", trimForLog(text))
	return nil
}

// firstOccurrence returns the first occurrence of p in text that passes
// the pattern's own guards.
func firstOccurrence(p *pattern, text string) (dateMatch, bool) {
	for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
		if match, ok := p.extract(text, m); ok {
			return match, true
		}
	}
	return dateMatch{}, false
}

// validDate gates a calendar triple: month and day ranges, plus a
// round-trip reconstruction that must reproduce the same year/month/day
// (rejects e.g. February 30th, which time.Date would normalize away).
func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// timeCandidate builds a time-bearing candidate: absolute instants with an
// explicit timezone.
func (r *Resolver) timeCandidate(start, end time.Time, confidence float64, strategy string) *domain.DateCandidate {
	if end.Before(start) {
		end = start
	}
	return &domain.DateCandidate{
		Kind:           domain.KindDateTime,
		StartISO:       start.In(r.cfg.Location).Format(time.RFC3339),
		EndISO:         end.In(r.cfg.Location).Format(time.RFC3339),
		Timezone:       r.cfg.Location.String(),
		Confidence:     confidence,
		SourceStrategy: strategy,
	}
}

// dateCandidate builds an all-day candidate: a timezone-free calendar date
// with end date equal to start date.
func dateCandidate(year, month, day int, confidence float64, strategy string) *domain.DateCandidate {
	iso := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	return &domain.DateCandidate{
		Kind:           domain.KindDate,
		StartISO:       iso,
		EndISO:         iso,
		Confidence:     confidence,
		SourceStrategy: strategy,
	}
}

// PushToNextYear returns a copy of the candidate moved one year forward
// when its start is already past relative to ref. Resolve never applies
// this implicitly; year-omitted forms default to ref's year and callers
// decide whether to push.
func (r *Resolver) PushToNextYear(candidate *domain.DateCandidate, ref time.Time) *domain.DateCandidate {
	if candidate == nil {
		return nil
	}

	layout := time.RFC3339
	if candidate.Kind == domain.KindDate {
		layout = "2006-01-02"
	}
	start, err := time.ParseInLocation(layout, candidate.StartISO, r.cfg.Location)
	if err != nil {
		return candidate
	}
	if candidate.Kind == domain.KindDate {
		// Compare calendar dates, not instants.
		refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, r.cfg.Location)
		if !start.Before(refDay) {
			return candidate
		}
	} else if !start.Before(ref) {
		return candidate
	}

	end, err := time.ParseInLocation(layout, candidate.EndISO, r.cfg.Location)
	if err != nil {
		end = start
	}

	pushed := *candidate
	pushed.StartISO = start.AddDate(1, 0, 0).Format(layout)
	pushed.EndISO = end.AddDate(1, 0, 0).Format(layout)
	return &pushed
}

// trimForLog truncates text for debug logging.
func trimForLog(text string) string {
	const maxLen = 80
	if len(text) <= maxLen {
		return text
	}
	return strings.ToValidUTF8(text[:maxLen], "") + "..."
}
