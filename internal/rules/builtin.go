package rules

import "github.com/is0692vs/chronoclip/internal/domain"

// DefaultBuiltinRules returns the rules seeded at startup for event sites
// the extractor knows well. The wildcard is appended by the registry when
// missing, so it does not need to appear here.
func DefaultBuiltinRules() []domain.SiteRule {
	return []domain.SiteRule{
		{
			DomainPattern:   "connpass.com",
			Priority:        10,
			Enabled:         true,
			AllowSubdomains: true,
			Selectors: map[string]string{
				"title":       "h1.event_title, .event_title",
				"description": ".event_detail_area .description, #editor_area",
				"date":        ".event_schedule_area .dtstart, .event_date",
				"location":    ".event_place .adr, .place_name",
			},
		},
		{
			DomainPattern:   "peatix.com",
			Priority:        10,
			Enabled:         true,
			AllowSubdomains: true,
			Selectors: map[string]string{
				"title":       ".event-summary__title, h1",
				"description": ".event-description",
				"date":        ".event-summary__date, time",
				"location":    ".event-summary__venue",
			},
		},
		{
			DomainPattern:   "eventbrite.com",
			Priority:        10,
			Enabled:         true,
			AllowSubdomains: true,
			Selectors: map[string]string{
				"title":       "h1.event-title, h1",
				"description": ".event-description, [data-testid='summary']",
				"date":        ".date-info__full-datetime, time",
				"location":    ".location-info__address",
			},
		},
		{
			DomainPattern:   "meetup.com",
			Priority:        10,
			Enabled:         true,
			AllowSubdomains: true,
			Selectors: map[string]string{
				"title":       "h1",
				"description": "#event-details",
				"date":        "time",
				"location":    "[data-testid='venue-name']",
			},
		},
	}
}
