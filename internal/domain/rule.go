package domain

// RuleOrigin identifies which store a site rule belongs to.
type RuleOrigin string

const (
	// OriginBuiltin marks rules seeded at startup; the builtin store is
	// sealed once seeding completes.
	OriginBuiltin RuleOrigin = "builtin"
	// OriginUser marks mutable, persisted user rules. User rules override
	// builtin rules for the same normalized domain.
	OriginUser RuleOrigin = "user"
)

// WildcardDomain is the catch-all rule key applied when no more specific
// domain rule matches. A wildcard rule is always present at lowest priority.
const WildcardDomain = "*"

// SiteRule describes how to extract event fields on a given domain.
type SiteRule struct {
	// ID is a stable unique identifier for the rule
	ID string `json:"id" db:"id"`
	// DomainPattern is the normalized domain the rule applies to
	DomainPattern string `json:"domain_pattern" db:"domain_pattern"`
	// Priority orders rules when several could apply; higher wins
	Priority int `json:"priority" db:"priority"`
	// Selectors maps event fields (title, description, date, location)
	// to CSS selectors
	Selectors map[string]string `json:"selectors"`
	// Origin is builtin or user
	Origin RuleOrigin `json:"origin" db:"origin"`
	// Enabled toggles the rule without removing it
	Enabled bool `json:"enabled" db:"enabled"`
	// AllowSubdomains lets subdomains without their own rule inherit this one
	AllowSubdomains bool `json:"allow_subdomains" db:"allow_subdomains"`
}

// IsWildcard reports whether the rule is the catch-all rule.
func (r *SiteRule) IsWildcard() bool {
	return r.DomainPattern == WildcardDomain
}
