package domain

import "errors"

// Error taxonomy for the extraction pipeline. Only ErrContextUnavailable on
// a malformed call surfaces to callers of the builder; everything else is
// recovered through documented fallbacks.
var (
	// ErrParseFailure is returned when no date strategy matched or every
	// candidate failed the validity gate.
	ErrParseFailure = errors.New("no date strategy matched")

	// ErrContextUnavailable is returned when neither selection text nor a
	// node handle was supplied.
	ErrContextUnavailable = errors.New("context unavailable: no selection text and no node")

	// ErrRuleStoreUnavailable is returned when rule persistence I/O fails.
	// The registry degrades to its last-good merged view.
	ErrRuleStoreUnavailable = errors.New("rule store unavailable")

	// ErrDelegateUnavailable is returned when the site-aware extractor is
	// missing or failed; the builder falls back to local heuristics.
	ErrDelegateUnavailable = errors.New("site extractor unavailable")
)
