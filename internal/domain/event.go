// Package domain provides domain models shared across the extraction pipeline.
package domain

import "time"

// DateKind distinguishes all-day candidates from time-bearing ones.
type DateKind string

const (
	// KindDate is an all-day candidate carrying a calendar date only.
	KindDate DateKind = "date"
	// KindDateTime is a candidate carrying an absolute instant.
	KindDateTime DateKind = "datetime"
)

// RawSelection is an immutable snapshot of the user's selection.
type RawSelection struct {
	// Text is the raw selected text
	Text string `json:"text"`
	// PageURL is the URL of the page the selection came from
	PageURL string `json:"page_url"`
	// PageTitle is the document title of the page
	PageTitle string `json:"page_title"`
}

// DateCandidate is a resolved date/time produced by exactly one strategy.
type DateCandidate struct {
	// Kind is date for all-day candidates, datetime for time-bearing ones
	Kind DateKind `json:"kind"`
	// StartISO is the start as RFC 3339 (datetime) or YYYY-MM-DD (date)
	StartISO string `json:"start"`
	// EndISO is the end in the same format as StartISO; never before it
	EndISO string `json:"end"`
	// Timezone is the IANA zone name; empty for all-day candidates
	Timezone string `json:"timezone,omitempty"`
	// Confidence is the strategy trust score in [0,1]
	Confidence float64 `json:"confidence"`
	// SourceStrategy names the strategy that produced the candidate
	SourceStrategy string `json:"source_strategy"`
}

// HeadingContext is the nearest heading found above the selection.
type HeadingContext struct {
	// Text is the normalized heading text
	Text string `json:"text"`
	// Level is the heading level, 1 through 6
	Level int `json:"level"`
	// Distance is the number of hops taken to reach the heading
	Distance int `json:"distance"`
	// Path is the structural path of the heading element
	Path string `json:"path"`
}

// NeighbourPosition marks whether a paragraph precedes or follows the selection.
type NeighbourPosition string

const (
	// PositionBefore marks a paragraph preceding the selection container.
	PositionBefore NeighbourPosition = "before"
	// PositionAfter marks a paragraph following the selection container.
	PositionAfter NeighbourPosition = "after"
)

// NeighbourParagraph is a sibling text block near the selection container.
type NeighbourParagraph struct {
	// Position is before or after relative to the selection container
	Position NeighbourPosition `json:"position"`
	// Text is the normalized paragraph text
	Text string `json:"text"`
	// Path is the structural path of the paragraph element
	Path string `json:"path"`
}

// PageContext is the structural neighbourhood collected around a selection.
type PageContext struct {
	// NormalizedSelection is the canonicalized selection text
	NormalizedSelection string `json:"normalized_selection"`
	// Heading is the nearest heading, nil when none was found in range
	Heading *HeadingContext `json:"heading,omitempty"`
	// ParentText is the normalized text of the selection's parent element
	ParentText string `json:"parent_text,omitempty"`
	// Neighbours are sibling paragraphs, at most three per side
	Neighbours []NeighbourParagraph `json:"neighbours,omitempty"`
	// Path is the structural path of the selection container
	Path string `json:"path,omitempty"`
}

// Provenance records where each field of a candidate came from.
type Provenance struct {
	// TitleSource names the origin of the title (rule, heading, selection, generic)
	TitleSource string `json:"title_source"`
	// DescriptionSource names the origin of the description
	DescriptionSource string `json:"description_source"`
	// DateStrategy is the winning date strategy, empty when no date resolved
	DateStrategy string `json:"date_strategy,omitempty"`
	// DateSource names the text source the date was resolved from
	DateSource string `json:"date_source,omitempty"`
	// RuleID is the ID of the site rule applied, if any
	RuleID string `json:"rule_id,omitempty"`
	// Errors holds recovered internal errors, never fatal to the caller
	Errors []string `json:"errors,omitempty"`
	// ExtractedAt is when the extraction ran
	ExtractedAt time.Time `json:"extracted_at"`
}

// EventCandidate is the final merged extraction result. The caller owns it.
type EventCandidate struct {
	// Title of the candidate event
	Title string `json:"title"`
	// Description of the candidate event
	Description string `json:"description,omitempty"`
	// Date is the resolved date candidate, nil when no strategy matched
	Date *DateCandidate `json:"date,omitempty"`
	// SourceURL is the page the candidate was extracted from
	SourceURL string `json:"source_url,omitempty"`
	// Provenance records field origins and recovered errors
	Provenance Provenance `json:"provenance"`
}
