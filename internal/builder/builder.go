// Package builder orchestrates the extraction pipeline into a final
// event candidate.
//
// The builder's contract is "always returns a candidate": every internal
// failure short of a malformed call (no text and no node) is recovered,
// logged, and attached to the candidate's provenance.
package builder

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/is0692vs/chronoclip/internal/collector"
	"github.com/is0692vs/chronoclip/internal/datetime"
	"github.com/is0692vs/chronoclip/internal/dom"
	"github.com/is0692vs/chronoclip/internal/domain"
	"github.com/is0692vs/chronoclip/internal/logger"
	"github.com/is0692vs/chronoclip/internal/normalize"
	"github.com/is0692vs/chronoclip/internal/rules"
)

const (
	// maxTitleLength is where selection-derived titles get truncated.
	maxTitleLength = 30
	// ellipsis marks a truncated title.
	ellipsis = "…"
	// genericTitle is the last-resort title label.
	genericTitle = "Untitled event"

	// Description neighbour paragraphs must have normalized length
	// strictly between these bounds.
	minDescriptionParagraph = 20
	maxDescriptionParagraph = 200
	// maxDescriptionNeighbours caps neighbour paragraphs joined into
	// the description.
	maxDescriptionNeighbours = 2
)

// Fields is the output of the optional site-aware extraction delegate.
type Fields struct {
	Title       string
	Description string
	DateText    string
	Location    string
}

// SiteExtractor is the optional site-aware extraction delegate. Absence
// or failure is recovered via local heuristics, never surfaced.
type SiteExtractor interface {
	Extract(ctx context.Context, rule *domain.SiteRule, root dom.Node) (*Fields, error)
}

// PageMeta carries page-level metadata into an extraction.
type PageMeta struct {
	// URL of the page the selection came from
	URL string
	// Title of the page document
	Title string
}

// Builder produces event candidates from selections.
type Builder struct {
	collector *collector.Collector
	resolver  *datetime.Resolver
	registry  *rules.Registry
	site      SiteExtractor
	stopwords []string
	now       func() time.Time
	log       logger.Interface
}

// Option configures a Builder.
type Option func(*Builder)

// WithSiteExtractor injects the optional site-aware extraction delegate.
// Resolved once here, never probed at call sites.
func WithSiteExtractor(site SiteExtractor) Option {
	return func(b *Builder) { b.site = site }
}

// WithStopwords sets the noise word list used to filter description
// paragraphs.
func WithStopwords(stopwords []string) Option {
	return func(b *Builder) { b.stopwords = stopwords }
}

// WithClock overrides the reference-instant source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// New creates a Builder.
func New(
	contextCollector *collector.Collector,
	resolver *datetime.Resolver,
	registry *rules.Registry,
	log logger.Interface,
	opts ...Option,
) *Builder {
	if log == nil {
		log = logger.NewNoOp()
	}
	b := &Builder{
		collector: contextCollector,
		resolver:  resolver,
		registry:  registry,
		now:       time.Now,
		log:       log.WithComponent("builder"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build turns a selection and its node handle into an event candidate.
// It fails only on a malformed call with neither text nor node; every
// other error is recovered into a best-effort candidate with the
// triggering error recorded in provenance.
func (b *Builder) Build(
	ctx context.Context,
	selectionText string,
	node dom.Node,
	meta PageMeta,
) (candidate *domain.EventCandidate, err error) {
	if strings.TrimSpace(selectionText) == "" && node == nil {
		return nil, domain.ErrContextUnavailable
	}

	ref := b.now()
	defer func() {
		if rec := recover(); rec != nil {
			b.log.Error("extraction panic recovered", "panic", rec)
			candidate = b.fallbackCandidate(selectionText, meta, ref, fmt.Sprintf("panic: %v", rec))
			err = nil
		}
	}()

	pageContext := b.collector.Collect(node, selectionText)
	provenance := domain.Provenance{ExtractedAt: ref}

	date := b.resolveDate(ctx, pageContext, ref, &provenance)

	var fields *Fields
	if rule := b.resolveRule(meta.URL); rule != nil {
		provenance.RuleID = rule.ID
		fields = b.extractSiteFields(ctx, rule, node, &provenance)
	}

	// A site rule may point at date text the neighbourhood walk missed.
	if date == nil && fields != nil && fields.DateText != "" {
		if date = b.resolver.Resolve(ctx, fields.DateText, ref); date != nil {
			provenance.DateStrategy = date.SourceStrategy
			provenance.DateSource = "site-rule"
		}
	}
	if date != nil {
		provenance.DateStrategy = date.SourceStrategy
	}

	title := b.chooseTitle(fields, pageContext, &provenance)
	description := b.chooseDescription(fields, pageContext, &provenance)

	return &domain.EventCandidate{
		Title:       title,
		Description: description,
		Date:        date,
		SourceURL:   meta.URL,
		Provenance:  provenance,
	}, nil
}

// resolveDate runs the date resolver over text sources in fixed order:
// selection, heading, each neighbour paragraph, parent. The first non-nil
// result wins; sources are never fused.
func (b *Builder) resolveDate(
	ctx context.Context,
	pageContext *domain.PageContext,
	ref time.Time,
	provenance *domain.Provenance,
) *domain.DateCandidate {
	type source struct {
		name string
		text string
	}

	sources := []source{{name: "selection", text: pageContext.NormalizedSelection}}
	if pageContext.Heading != nil {
		sources = append(sources, source{name: "heading", text: pageContext.Heading.Text})
	}
	for i, neighbour := range pageContext.Neighbours {
		sources = append(sources, source{
			name: fmt.Sprintf("neighbour[%d]", i),
			text: neighbour.Text,
		})
	}
	sources = append(sources, source{name: "parent", text: pageContext.ParentText})

	for _, src := range sources {
		if src.text == "" {
			continue
		}
		if date := b.resolver.Resolve(ctx, src.text, ref); date != nil {
			provenance.DateSource = src.name
			return date
		}
	}
	return nil
}

// resolveRule looks up the site rule for the page's domain.
func (b *Builder) resolveRule(pageURL string) *domain.SiteRule {
	if b.registry == nil || pageURL == "" {
		return nil
	}
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Hostname() == "" {
		return nil
	}
	return b.registry.Resolve(parsed.Hostname())
}

// extractSiteFields runs the optional delegate. Unavailability or failure
// degrades to local heuristics and is recorded in provenance.
func (b *Builder) extractSiteFields(
	ctx context.Context,
	rule *domain.SiteRule,
	node dom.Node,
	provenance *domain.Provenance,
) *Fields {
	if b.site == nil || node == nil || len(rule.Selectors) == 0 {
		return nil
	}
	fields, err := b.site.Extract(ctx, rule, node)
	if err != nil {
		b.log.Warn("site extractor failed, using local heuristics",
			"rule", rule.DomainPattern, "error", err)
		provenance.Errors = append(provenance.Errors,
			fmt.Sprintf("%v: %v", domain.ErrDelegateUnavailable, err))
		return nil
	}
	return fields
}

// chooseTitle picks the candidate title: site rule, nearest heading,
// truncated first line of the selection, generic label.
func (b *Builder) chooseTitle(
	fields *Fields,
	pageContext *domain.PageContext,
	provenance *domain.Provenance,
) string {
	if fields != nil && fields.Title != "" {
		provenance.TitleSource = "site-rule"
		return normalize.Normalize(fields.Title)
	}
	if pageContext.Heading != nil && pageContext.Heading.Text != "" {
		provenance.TitleSource = "heading"
		return pageContext.Heading.Text
	}
	if firstLine := normalize.FirstLine(pageContext.NormalizedSelection); firstLine != "" {
		provenance.TitleSource = "selection"
		return truncate(firstLine, maxTitleLength)
	}
	provenance.TitleSource = "generic"
	return genericTitle
}

// chooseDescription picks the candidate description: site rule, else the
// normalized selection joined with up to two neighbour paragraphs of
// useful length.
func (b *Builder) chooseDescription(
	fields *Fields,
	pageContext *domain.PageContext,
	provenance *domain.Provenance,
) string {
	if fields != nil && fields.Description != "" {
		provenance.DescriptionSource = "site-rule"
		return normalize.Normalize(fields.Description)
	}

	var parts []string
	if pageContext.NormalizedSelection != "" {
		parts = append(parts, pageContext.NormalizedSelection)
	}
	kept := 0
	for _, neighbour := range pageContext.Neighbours {
		if kept >= maxDescriptionNeighbours {
			break
		}
		length := len([]rune(neighbour.Text))
		if length <= minDescriptionParagraph || length >= maxDescriptionParagraph {
			continue
		}
		if normalize.IsNoise(neighbour.Text, b.stopwords) {
			continue
		}
		parts = append(parts, neighbour.Text)
		kept++
	}

	provenance.DescriptionSource = "selection"
	if kept > 0 {
		provenance.DescriptionSource = "selection+neighbours"
	}
	return strings.Join(parts, "\n\n")
}

// fallbackCandidate is the best-effort result after a recovered panic.
func (b *Builder) fallbackCandidate(
	selectionText string,
	meta PageMeta,
	ref time.Time,
	cause string,
) *domain.EventCandidate {
	normalized := normalize.Normalize(selectionText)
	title := truncate(normalize.FirstLine(normalized), maxTitleLength)
	titleSource := "selection"
	if title == "" {
		title = genericTitle
		titleSource = "generic"
	}
	return &domain.EventCandidate{
		Title:       title,
		Description: normalized,
		SourceURL:   meta.URL,
		Provenance: domain.Provenance{
			TitleSource:       titleSource,
			DescriptionSource: "selection",
			Errors:            []string{cause},
			ExtractedAt:       ref,
		},
	}
}

// truncate shortens text to max runes, marking the cut with an ellipsis.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + ellipsis
}
