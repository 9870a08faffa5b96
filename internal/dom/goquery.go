package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// goqueryNode implements Node on top of a goquery selection.
type goqueryNode struct {
	sel *goquery.Selection
}

// FromSelection wraps a goquery selection as a Node. Empty selections
// yield nil, matching the "missing node" case of the accessor contract.
func FromSelection(sel *goquery.Selection) Node {
	if sel == nil || sel.Length() == 0 {
		return nil
	}
	return &goqueryNode{sel: sel.First()}
}

// FromHTML parses an HTML document and returns the node matching selector.
// An empty selector targets the document body.
func FromHTML(html, selector string) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	if selector == "" {
		selector = "body"
	}
	node := FromSelection(doc.Find(selector))
	if node == nil {
		return nil, fmt.Errorf("no element matches selector %q", selector)
	}
	return node, nil
}

// Tag returns the lowercase element name.
func (n *goqueryNode) Tag() string {
	return strings.ToLower(goquery.NodeName(n.sel))
}

// ID returns the id attribute, or "".
func (n *goqueryNode) ID() string {
	return n.sel.AttrOr("id", "")
}

// Classes returns the element's class list.
func (n *goqueryNode) Classes() []string {
	attr, ok := n.sel.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(attr)
}

// Parent returns the parent element, or nil at the root.
func (n *goqueryNode) Parent() Node {
	parent := n.sel.Parent()
	// goquery reports #document as the parent of <html>; the accessor
	// contract ends at the last real element.
	if goquery.NodeName(parent) == "#document" {
		return nil
	}
	return FromSelection(parent)
}

// PrevSibling returns the previous element sibling, or nil.
func (n *goqueryNode) PrevSibling() Node {
	return FromSelection(n.sel.Prev())
}

// NextSibling returns the next element sibling, or nil.
func (n *goqueryNode) NextSibling() Node {
	return FromSelection(n.sel.Next())
}

// Text returns the element's text content with ends trimmed.
func (n *goqueryNode) Text() string {
	return strings.TrimSpace(n.sel.Text())
}

// Query returns the first element in the whole document matching the CSS
// selector, or nil.
func (n *goqueryNode) Query(selector string) Node {
	root := n.sel.Parents().Last()
	if root.Length() == 0 {
		root = n.sel
	}
	return FromSelection(root.Find(selector))
}

// Closest walks upward from the node and returns the first match.
func (n *goqueryNode) Closest(pred func(Node) bool) Node {
	var current Node = n
	for current != nil {
		if pred(current) {
			return current
		}
		current = current.Parent()
	}
	return nil
}
