// Package nlpdate adapts the go-dateparser library to the pipeline's
// natural-language date parsing capability.
package nlpdate

import (
	"context"
	"time"

	dps "github.com/markusmobius/go-dateparser"

	"github.com/is0692vs/chronoclip/internal/datetime"
)

// Parser implements datetime.NaturalParser on top of go-dateparser.
type Parser struct {
	languages []string
	location  *time.Location
}

// Compile-time capability check.
var _ datetime.NaturalParser = (*Parser)(nil)

// New creates a Parser restricted to the given languages (ISO 639-1
// codes). An empty list lets the library detect the language itself.
func New(languages []string, location *time.Location) *Parser {
	if location == nil {
		location = time.Local
	}
	return &Parser{languages: languages, location: location}
}

// Parse resolves date expressions in text relative to ref. Forward bias
// maps to the library's preference for future dates, so year-less dates
// resolve to their nearest future occurrence.
func (p *Parser) Parse(
	ctx context.Context,
	text string,
	ref time.Time,
	opts datetime.ParseOptions,
) ([]datetime.ParsedDate, error) {
	cfg := &dps.Configuration{
		CurrentTime:        ref,
		DefaultTimezone:    p.location,
		Languages:          p.languages,
		ReturnTimeAsPeriod: true,
	}
	if opts.ForwardBias {
		cfg.PreferredDateSource = dps.Future
	}

	parsed, err := dps.Parse(cfg, text)
	if err != nil {
		return nil, err
	}
	if parsed.Time.IsZero() {
		return nil, nil
	}

	return []datetime.ParsedDate{{
		Start:        parsed.Time,
		HasClockTime: parsed.Period.IsTime(),
	}}, nil
}
