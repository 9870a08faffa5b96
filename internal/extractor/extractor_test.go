package extractor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/is0692vs/chronoclip/internal/dom"
	"github.com/is0692vs/chronoclip/internal/domain"
	"github.com/is0692vs/chronoclip/internal/extractor"
)

const eventHTML = `<html><body>
<div id="event">
  <h1 class="event_title">Autumn Orchestra Night</h1>
  <p class="description">A full orchestra performance at the city hall.</p>
  <span class="dtstart">2025年10月11日 (土) 15:00</span>
  <span class="place_name">City Hall</span>
  <p class="sel">selected text</p>
</div>
</body></html>`

// inertNode is a Node without the query capability.
type inertNode struct{}

func (inertNode) Tag() string           { return "div" }
func (inertNode) ID() string            { return "" }
func (inertNode) Classes() []string     { return nil }
func (inertNode) Parent() dom.Node      { return nil }
func (inertNode) PrevSibling() dom.Node { return nil }
func (inertNode) NextSibling() dom.Node { return nil }
func (inertNode) Text() string          { return "" }

func (inertNode) Closest(func(dom.Node) bool) dom.Node { return nil }

func TestExtract(t *testing.T) {
	t.Parallel()

	node, err := dom.FromHTML(eventHTML, ".sel")
	require.NoError(t, err)

	rule := &domain.SiteRule{
		DomainPattern: "example.com",
		Selectors: map[string]string{
			extractor.FieldTitle:       "h1.event_title",
			extractor.FieldDescription: ".description",
			extractor.FieldDate:        ".dtstart",
			extractor.FieldLocation:    ".place_name",
		},
	}

	fields, err := extractor.New(nil).Extract(context.Background(), rule, node)
	require.NoError(t, err)
	assert.Equal(t, "Autumn Orchestra Night", fields.Title)
	assert.Equal(t, "A full orchestra performance at the city hall.", fields.Description)
	assert.Equal(t, "2025年10月11日 (土) 15:00", fields.DateText)
	assert.Equal(t, "City Hall", fields.Location)
}

func TestExtract_FallbackSelectors(t *testing.T) {
	t.Parallel()

	node, err := dom.FromHTML(eventHTML, ".sel")
	require.NoError(t, err)

	// The first selector in the list has no match; the second does.
	rule := &domain.SiteRule{
		DomainPattern: "example.com",
		Selectors: map[string]string{
			extractor.FieldTitle: ".missing-title, h1.event_title",
		},
	}

	fields, err := extractor.New(nil).Extract(context.Background(), rule, node)
	require.NoError(t, err)
	assert.Equal(t, "Autumn Orchestra Night", fields.Title)
	assert.Empty(t, fields.DateText)
}

func TestExtract_NoMatches(t *testing.T) {
	t.Parallel()

	node, err := dom.FromHTML(eventHTML, ".sel")
	require.NoError(t, err)

	rule := &domain.SiteRule{
		DomainPattern: "example.com",
		Selectors:     map[string]string{extractor.FieldTitle: ".nope"},
	}

	fields, err := extractor.New(nil).Extract(context.Background(), rule, node)
	require.NoError(t, err)
	assert.Empty(t, fields.Title)
}

func TestExtract_NodeWithoutQuerySupport(t *testing.T) {
	t.Parallel()

	rule := &domain.SiteRule{
		DomainPattern: "example.com",
		Selectors:     map[string]string{extractor.FieldTitle: "h1"},
	}

	_, err := extractor.New(nil).Extract(context.Background(), rule, inertNode{})
	assert.ErrorIs(t, err, domain.ErrDelegateUnavailable)
}
