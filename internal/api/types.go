// Package api implements the HTTP API for the extraction service.
package api

import "github.com/is0692vs/chronoclip/internal/domain"

// ExtractRequest asks for an event candidate from page content. Exactly
// one of URL and HTML must be provided.
type ExtractRequest struct {
	// URL of the page to fetch and extract from
	URL string `json:"url"`
	// HTML body to extract from, as an alternative to URL
	HTML string `json:"html"`
	// Selection is the selected text; optional when HTML carries the event
	Selection string `json:"selection"`
	// Selector narrows extraction to a document region; defaults to body
	Selector string `json:"selector"`
	// PageURL overrides the source URL recorded on the candidate
	PageURL string `json:"page_url"`
	// PageTitle is the document title, used as context
	PageTitle string `json:"page_title"`
}

// ExtractResponse wraps the extracted candidate.
type ExtractResponse struct {
	Candidate *domain.EventCandidate `json:"candidate"`
}

// RuleRequest creates or replaces a user rule.
type RuleRequest struct {
	Domain          string            `json:"domain" binding:"required"`
	Priority        int               `json:"priority"`
	Selectors       map[string]string `json:"selectors"`
	Enabled         *bool             `json:"enabled"`
	AllowSubdomains bool              `json:"allow_subdomains"`
}

// RulesListResponse lists the merged rule view.
type RulesListResponse struct {
	Rules []domain.SiteRule `json:"rules"`
	Total int               `json:"total"`
}
