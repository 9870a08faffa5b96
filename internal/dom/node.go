// Package dom abstracts document-tree access for the extraction pipeline.
//
// The pipeline never touches a live document; it walks an opaque Node
// handle supplied by the caller. The goquery-backed implementation in this
// package covers server-side extraction from fetched HTML.
package dom

// Node is an opaque handle into a document tree. Implementations are
// read-only; walking a Node must never mutate the underlying document.
type Node interface {
	// Tag returns the lowercase element name, e.g. "div" or "h2".
	Tag() string
	// ID returns the element's unique identifier, or "" when absent.
	ID() string
	// Classes returns the element's class-like qualifiers.
	Classes() []string
	// Parent returns the parent element, or nil at the document root.
	Parent() Node
	// PrevSibling returns the previous element sibling, or nil.
	PrevSibling() Node
	// NextSibling returns the next element sibling, or nil.
	NextSibling() Node
	// Text returns the element's text content with ends trimmed.
	Text() string
	// Closest walks from the node upward and returns the first node
	// (including the node itself) matching the predicate, or nil.
	Closest(pred func(Node) bool) Node
}

// Queryable is an optional capability: document-wide CSS selector lookup.
// Site-rule driven extraction requires it; implementations that cannot
// query simply don't implement it and the pipeline falls back to local
// heuristics.
type Queryable interface {
	// Query returns the first element in the node's document matching
	// the CSS selector, or nil.
	Query(selector string) Node
}
