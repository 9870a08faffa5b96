// Package rules maintains domain-keyed extraction rules from two origins,
// builtin and user, and resolves the effective rule for a domain.
//
// The registry is read-mostly. Mutations rebuild the merged view as a new
// immutable snapshot and swap it in; concurrent readers observe either the
// pre- or post-update view, never a partial one. User rules always override
// builtin rules for the same normalized domain.
package rules

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/is0692vs/chronoclip/internal/domain"
	"github.com/is0692vs/chronoclip/internal/logger"
)

// Store is the injected persistence capability for user rules. Both
// operations may block; they take a context.
type Store interface {
	// Load returns the persisted user rules. Origin is implied.
	Load(ctx context.Context) ([]domain.SiteRule, error)
	// Save replaces the persisted user rules.
	Save(ctx context.Context, rules []domain.SiteRule) error
}

// snapshot is an immutable merged view of both origins.
type snapshot struct {
	merged map[string]domain.SiteRule
}

// Registry holds builtin and user rules and their merged view.
type Registry struct {
	mu      sync.RWMutex
	builtin map[string]domain.SiteRule
	user    map[string]domain.SiteRule
	view    *snapshot
	store   Store
	log     logger.Interface
}

// NewRegistry seeds the builtin store, seals it, loads user rules from the
// store, and computes the initial merged view. A store load failure is
// non-fatal: the registry starts with builtin rules only and logs the
// failure. A wildcard rule is guaranteed present.
func NewRegistry(ctx context.Context, builtinRules []domain.SiteRule, store Store, log logger.Interface) *Registry {
	if log == nil {
		log = logger.NewNoOp()
	}
	r := &Registry{
		builtin: make(map[string]domain.SiteRule),
		user:    make(map[string]domain.SiteRule),
		store:   store,
		log:     log.WithComponent("rules"),
	}

	for _, rule := range builtinRules {
		rule.Origin = domain.OriginBuiltin
		r.seedBuiltin(rule)
	}
	if _, ok := r.builtin[domain.WildcardDomain]; !ok {
		r.seedBuiltin(wildcardRule())
	}

	r.loadUserLocked(ctx)
	r.view = r.rebuild()
	return r
}

// seedBuiltin normalizes and inserts a builtin rule. Only called during
// construction; the builtin store is sealed afterwards.
func (r *Registry) seedBuiltin(rule domain.SiteRule) {
	key := rule.DomainPattern
	if !rule.IsWildcard() {
		key = NormalizeDomain(rule.DomainPattern)
	}
	if key == "" {
		return
	}
	rule.DomainPattern = key
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	r.builtin[key] = rule
}

// loadUserLocked loads user rules from the store into r.user. Failures
// keep whatever view is current and are logged as non-fatal.
func (r *Registry) loadUserLocked(ctx context.Context) {
	if r.store == nil {
		return
	}
	loaded, err := r.store.Load(ctx)
	if err != nil {
		r.log.Warn("user rule store load failed, keeping last-good view", "error", err)
		return
	}
	user := make(map[string]domain.SiteRule, len(loaded))
	for _, rule := range loaded {
		key := NormalizeDomain(rule.DomainPattern)
		if key == "" {
			continue
		}
		rule.DomainPattern = key
		rule.Origin = domain.OriginUser
		if rule.ID == "" {
			rule.ID = uuid.NewString()
		}
		user[key] = rule
	}
	r.user = user
}

// Reload re-reads user rules from the store and swaps in a fresh merged
// view. A load failure retains the last-good view and is logged, not
// returned: persistence trouble never fails a caller.
func (r *Registry) Reload(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadUserLocked(ctx)
	r.view = r.rebuild()
}

// rebuild computes a new merged snapshot: builtin first, user overlaid so
// user entries win ties for the same domain.
func (r *Registry) rebuild() *snapshot {
	merged := make(map[string]domain.SiteRule, len(r.builtin)+len(r.user))
	for key, rule := range r.builtin {
		merged[key] = rule
	}
	for key, rule := range r.user {
		merged[key] = rule
	}
	return &snapshot{merged: merged}
}

// current returns the active snapshot.
func (r *Registry) current() *snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view
}

// Resolve returns the effective rule for a domain: exact enabled match,
// else the first enabled ancestor domain rule that permits subdomain
// inheritance, else the wildcard rule. Returns nil only if the wildcard
// itself is disabled.
func (r *Registry) Resolve(domainName string) *domain.SiteRule {
	key := NormalizeDomain(domainName)
	snap := r.current()

	if rule, ok := snap.merged[key]; ok && rule.Enabled {
		return &rule
	}

	labels := strings.Split(key, ".")
	for i := 1; i <= len(labels)-2; i++ {
		parent := strings.Join(labels[i:], ".")
		if rule, ok := snap.merged[parent]; ok && rule.Enabled && rule.AllowSubdomains {
			return &rule
		}
	}

	if rule, ok := snap.merged[domain.WildcardDomain]; ok && rule.Enabled {
		return &rule
	}
	return nil
}

// Add upserts a rule into the origin-specific store. The builtin store is
// sealed after startup, so only user mutations are accepted here. User
// writes go through the persistence store before the new merged view
// becomes authoritative.
func (r *Registry) Add(ctx context.Context, domainName string, rule domain.SiteRule, origin domain.RuleOrigin) error {
	if origin == domain.OriginBuiltin {
		return ErrBuiltinSealed
	}
	key := NormalizeDomain(domainName)
	if key == "" {
		return fmt.Errorf("%w: %q", ErrInvalidDomain, domainName)
	}

	rule.DomainPattern = key
	rule.Origin = domain.OriginUser
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user := cloneRules(r.user)
	user[key] = rule
	if err := r.persistLocked(ctx, user); err != nil {
		return err
	}
	r.user = user
	r.view = r.rebuild()
	return nil
}

// Remove deletes a rule from the named store only. Builtin removals are
// rejected; the builtin store is fixed at startup.
func (r *Registry) Remove(ctx context.Context, domainName string, origin domain.RuleOrigin) error {
	if origin == domain.OriginBuiltin {
		return ErrBuiltinSealed
	}
	key := NormalizeDomain(domainName)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.user[key]; !ok {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, key)
	}
	user := cloneRules(r.user)
	delete(user, key)
	if err := r.persistLocked(ctx, user); err != nil {
		return err
	}
	r.user = user
	r.view = r.rebuild()
	return nil
}

// persistLocked writes the prospective user store. On failure the caller
// keeps the last-good view.
func (r *Registry) persistLocked(ctx context.Context, user map[string]domain.SiteRule) error {
	if r.store == nil {
		return nil
	}
	rules := make([]domain.SiteRule, 0, len(user))
	for _, rule := range user {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].DomainPattern < rules[j].DomainPattern })
	if err := r.store.Save(ctx, rules); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRuleStoreUnavailable, err)
	}
	return nil
}

// Rules returns the merged view sorted by domain, wildcard last.
func (r *Registry) Rules() []domain.SiteRule {
	snap := r.current()
	rules := make([]domain.SiteRule, 0, len(snap.merged))
	for _, rule := range snap.merged {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].IsWildcard() != rules[j].IsWildcard() {
			return !rules[i].IsWildcard()
		}
		return rules[i].DomainPattern < rules[j].DomainPattern
	})
	return rules
}

// NormalizeDomain lowercases a domain and strips one leading "www." label.
func NormalizeDomain(domainName string) string {
	normalized := strings.ToLower(strings.TrimSpace(domainName))
	normalized = strings.TrimSuffix(normalized, ".")
	normalized = strings.TrimPrefix(normalized, "www.")
	return normalized
}

// wildcardRule is the catch-all applied when nothing more specific
// matches; it carries no selectors, so extraction falls back to local
// heuristics.
func wildcardRule() domain.SiteRule {
	return domain.SiteRule{
		ID:            uuid.NewString(),
		DomainPattern: domain.WildcardDomain,
		Priority:      -1,
		Enabled:       true,
	}
}

func cloneRules(rules map[string]domain.SiteRule) map[string]domain.SiteRule {
	cloned := make(map[string]domain.SiteRule, len(rules)+1)
	for key, rule := range rules {
		cloned[key] = rule
	}
	return cloned
}
