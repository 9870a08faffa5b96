// Package collector gathers the structural neighbourhood around a selection.
//
// Collection walks the document tree through the dom.Node accessor only,
// never the live document, and is bounded by fixed hop, sibling, and depth
// limits so it always terminates without external timeouts.
package collector

import (
	"strings"

	"github.com/is0692vs/chronoclip/internal/dom"
	"github.com/is0692vs/chronoclip/internal/domain"
	"github.com/is0692vs/chronoclip/internal/logger"
	"github.com/is0692vs/chronoclip/internal/normalize"
)

const (
	// maxPathDepth caps how many ancestors a structural path includes.
	maxPathDepth = 5
	// maxClassQualifiers caps class-like qualifiers per path segment.
	maxClassQualifiers = 2
	// maxHeadingHops bounds the upward search for the nearest heading.
	maxHeadingHops = 5
	// maxNeighboursPerSide caps sibling paragraphs kept per direction.
	maxNeighboursPerSide = 3
	// minNeighbourLength is the raw text length a sibling must exceed.
	minNeighbourLength = 10
)

var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// Collector collects page context around a selection node.
type Collector struct {
	log logger.Interface
}

// New creates a Collector.
func New(log logger.Interface) *Collector {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Collector{log: log.WithComponent("collector")}
}

// Collect gathers the normalized selection, nearest heading, parent text,
// and neighbouring paragraphs around node. It is read-only and never
// fails: a missing or empty container yields empty fields.
func (c *Collector) Collect(node dom.Node, selectionText string) *domain.PageContext {
	pageContext := &domain.PageContext{
		NormalizedSelection: normalize.Normalize(selectionText),
	}
	if node == nil {
		return pageContext
	}

	pageContext.Path = StructuralPath(node)
	pageContext.Heading = c.nearestHeading(node)
	if parent := node.Parent(); parent != nil {
		pageContext.ParentText = normalize.Normalize(parent.Text())
	}
	pageContext.Neighbours = c.collectNeighbours(node)

	return pageContext
}

// StructuralPath renders a CSS-like path for node: ancestors joined by
// " > ", stopping at (and including) the first ancestor with a unique
// identifier, otherwise carrying up to two class qualifiers per segment,
// capped at maxPathDepth elements.
func StructuralPath(node dom.Node) string {
	var segments []string
	current := node
	for current != nil && len(segments) < maxPathDepth {
		segment := current.Tag()
		if id := current.ID(); id != "" {
			segments = append(segments, segment+"#"+id)
			break
		}
		classes := current.Classes()
		if len(classes) > maxClassQualifiers {
			classes = classes[:maxClassQualifiers]
		}
		for _, class := range classes {
			segment += "." + class
		}
		segments = append(segments, segment)
		current = current.Parent()
	}

	// Walked leaf-first; paths read root-first.
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, " > ")
}

// nearestHeading walks in previous-sibling-then-parent order and returns
// the first heading element reached within maxHeadingHops, or nil.
func (c *Collector) nearestHeading(node dom.Node) *domain.HeadingContext {
	current := node
	for hops := 1; hops <= maxHeadingHops; hops++ {
		if prev := current.PrevSibling(); prev != nil {
			current = prev
		} else if parent := current.Parent(); parent != nil {
			current = parent
		} else {
			return nil
		}

		if level, ok := headingLevels[current.Tag()]; ok {
			return &domain.HeadingContext{
				Text:     normalize.Normalize(current.Text()),
				Level:    level,
				Distance: hops,
				Path:     StructuralPath(current),
			}
		}
	}
	return nil
}

// collectNeighbours scans up to maxNeighboursPerSide siblings in each
// direction, keeping only those whose raw text length exceeds
// minNeighbourLength.
func (c *Collector) collectNeighbours(node dom.Node) []domain.NeighbourParagraph {
	var neighbours []domain.NeighbourParagraph

	current := node
	for i := 0; i < maxNeighboursPerSide; i++ {
		current = current.PrevSibling()
		if current == nil {
			break
		}
		if paragraph, ok := neighbourOf(current, domain.PositionBefore); ok {
			neighbours = append(neighbours, paragraph)
		}
	}

	current = node
	for i := 0; i < maxNeighboursPerSide; i++ {
		current = current.NextSibling()
		if current == nil {
			break
		}
		if paragraph, ok := neighbourOf(current, domain.PositionAfter); ok {
			neighbours = append(neighbours, paragraph)
		}
	}

	return neighbours
}

// neighbourOf builds a NeighbourParagraph when the sibling carries enough
// raw text to be worth keeping.
func neighbourOf(node dom.Node, position domain.NeighbourPosition) (domain.NeighbourParagraph, bool) {
	raw := node.Text()
	if len(raw) <= minNeighbourLength {
		return domain.NeighbourParagraph{}, false
	}
	return domain.NeighbourParagraph{
		Position: position,
		Text:     normalize.Normalize(raw),
		Path:     StructuralPath(node),
	}, true
}
