// Package extractor implements the site-aware field extraction delegate:
// selector-driven extraction using a resolved site rule's field-selector
// map.
package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/is0692vs/chronoclip/internal/builder"
	"github.com/is0692vs/chronoclip/internal/dom"
	"github.com/is0692vs/chronoclip/internal/domain"
	"github.com/is0692vs/chronoclip/internal/logger"
)

// Field names recognized in a rule's selector map.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDate        = "date"
	FieldLocation    = "location"
)

// SelectorExtractor applies a site rule's CSS selectors to a document.
type SelectorExtractor struct {
	log logger.Interface
}

var _ builder.SiteExtractor = (*SelectorExtractor)(nil)

// New creates a SelectorExtractor.
func New(log logger.Interface) *SelectorExtractor {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &SelectorExtractor{log: log.WithComponent("extractor")}
}

// Extract pulls the rule's fields out of the document containing root.
// The node handle must support document-wide queries; handles that don't
// surface as delegate unavailability, which the builder recovers from.
func (e *SelectorExtractor) Extract(
	ctx context.Context,
	rule *domain.SiteRule,
	root dom.Node,
) (*builder.Fields, error) {
	queryable, ok := root.(dom.Queryable)
	if !ok {
		return nil, fmt.Errorf("%w: node handle does not support queries", domain.ErrDelegateUnavailable)
	}

	fields := &builder.Fields{
		Title:       extractText(queryable, rule.Selectors[FieldTitle]),
		Description: extractText(queryable, rule.Selectors[FieldDescription]),
		DateText:    extractText(queryable, rule.Selectors[FieldDate]),
		Location:    extractText(queryable, rule.Selectors[FieldLocation]),
	}
	e.log.Debug("site fields extracted",
		"rule", rule.DomainPattern,
		"title_found", fields.Title != "",
		"date_found", fields.DateText != "")
	return fields, nil
}

// extractText returns the text of the first element matching any of the
// comma-separated selectors, or "".
func extractText(queryable dom.Queryable, selector string) string {
	if selector == "" {
		return ""
	}
	for _, sel := range strings.Split(selector, ",") {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		if node := queryable.Query(sel); node != nil {
			if text := node.Text(); text != "" {
				return text
			}
		}
	}
	return ""
}
