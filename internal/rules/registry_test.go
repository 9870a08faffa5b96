package rules_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/is0692vs/chronoclip/internal/domain"
	"github.com/is0692vs/chronoclip/internal/rules"
)

// memStore is an in-memory Store with switchable failure.
type memStore struct {
	rules   []domain.SiteRule
	loadErr error
	saveErr error
	saves   int
}

func (s *memStore) Load(ctx context.Context) ([]domain.SiteRule, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.rules, nil
}

func (s *memStore) Save(ctx context.Context, saved []domain.SiteRule) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.rules = saved
	return nil
}

func testBuiltins() []domain.SiteRule {
	return []domain.SiteRule{
		{
			DomainPattern:   "example.com",
			Priority:        10,
			Enabled:         true,
			AllowSubdomains: true,
			Selectors:       map[string]string{"title": "h1"},
		},
		{
			DomainPattern:   "strict.test",
			Priority:        10,
			Enabled:         true,
			AllowSubdomains: false,
			Selectors:       map[string]string{"title": ".name"},
		},
	}
}

func TestResolve_ExactMatch(t *testing.T) {
	t.Parallel()

	r := rules.NewRegistry(context.Background(), testBuiltins(), nil, nil)

	got := r.Resolve("example.com")
	require.NotNil(t, got)
	assert.Equal(t, "example.com", got.DomainPattern)
	assert.Equal(t, domain.OriginBuiltin, got.Origin)
}

func TestResolve_DomainNormalization(t *testing.T) {
	t.Parallel()

	r := rules.NewRegistry(context.Background(), testBuiltins(), nil, nil)

	for _, name := range []string{"EXAMPLE.COM", "www.example.com", "WWW.Example.Com", "example.com."} {
		got := r.Resolve(name)
		require.NotNil(t, got, "input %q", name)
		assert.Equal(t, "example.com", got.DomainPattern, "input %q", name)
	}
}

func TestResolve_SubdomainInheritance(t *testing.T) {
	t.Parallel()

	r := rules.NewRegistry(context.Background(), testBuiltins(), nil, nil)

	got := r.Resolve("tickets.shop.example.com")
	require.NotNil(t, got)
	assert.Equal(t, "example.com", got.DomainPattern)

	// Inheritance is opt-in per rule; a non-inheriting rule's subdomains
	// fall through to the wildcard.
	got = r.Resolve("sub.strict.test")
	require.NotNil(t, got)
	assert.True(t, got.IsWildcard())
}

func TestResolve_WildcardFallback(t *testing.T) {
	t.Parallel()

	r := rules.NewRegistry(context.Background(), testBuiltins(), nil, nil)

	got := r.Resolve("unknown.invalid")
	require.NotNil(t, got)
	assert.True(t, got.IsWildcard())
	assert.Empty(t, got.Selectors)
}

func TestResolve_DisabledRuleSkipped(t *testing.T) {
	t.Parallel()

	builtins := testBuiltins()
	builtins[0].Enabled = false
	r := rules.NewRegistry(context.Background(), builtins, nil, nil)

	got := r.Resolve("example.com")
	require.NotNil(t, got)
	assert.True(t, got.IsWildcard())
}

func TestAdd_UserOverridesBuiltin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := &memStore{}
	r := rules.NewRegistry(ctx, testBuiltins(), store, nil)

	err := r.Add(ctx, "www.Example.COM", domain.SiteRule{
		Priority:  20,
		Enabled:   true,
		Selectors: map[string]string{"title": ".user-title"},
	}, domain.OriginUser)
	require.NoError(t, err)

	got := r.Resolve("example.com")
	require.NotNil(t, got)
	assert.Equal(t, domain.OriginUser, got.Origin)
	assert.Equal(t, ".user-title", got.Selectors["title"])
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, 1, store.saves)
}

func TestAdd_BuiltinSealed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := rules.NewRegistry(ctx, testBuiltins(), nil, nil)

	err := r.Add(ctx, "new.test", domain.SiteRule{Enabled: true}, domain.OriginBuiltin)
	assert.ErrorIs(t, err, rules.ErrBuiltinSealed)

	err = r.Remove(ctx, "example.com", domain.OriginBuiltin)
	assert.ErrorIs(t, err, rules.ErrBuiltinSealed)
}

func TestAdd_InvalidDomain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := rules.NewRegistry(ctx, testBuiltins(), nil, nil)

	err := r.Add(ctx, "   ", domain.SiteRule{Enabled: true}, domain.OriginUser)
	assert.ErrorIs(t, err, rules.ErrInvalidDomain)
}

func TestAdd_PersistFailureKeepsLastGoodView(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := &memStore{saveErr: errors.New("disk full")}
	r := rules.NewRegistry(ctx, testBuiltins(), store, nil)

	err := r.Add(ctx, "example.com", domain.SiteRule{
		Enabled:   true,
		Selectors: map[string]string{"title": ".broken"},
	}, domain.OriginUser)
	require.ErrorIs(t, err, domain.ErrRuleStoreUnavailable)

	// The failed write must not leak into the merged view.
	got := r.Resolve("example.com")
	require.NotNil(t, got)
	assert.Equal(t, domain.OriginBuiltin, got.Origin)
	assert.Equal(t, "h1", got.Selectors["title"])
}

func TestRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := &memStore{}
	r := rules.NewRegistry(ctx, testBuiltins(), store, nil)

	require.NoError(t, r.Add(ctx, "example.com", domain.SiteRule{
		Enabled:   true,
		Selectors: map[string]string{"title": ".user-title"},
	}, domain.OriginUser))

	// Removing the user rule uncovers the builtin again.
	require.NoError(t, r.Remove(ctx, "example.com", domain.OriginUser))
	got := r.Resolve("example.com")
	require.NotNil(t, got)
	assert.Equal(t, domain.OriginBuiltin, got.Origin)

	err := r.Remove(ctx, "example.com", domain.OriginUser)
	assert.ErrorIs(t, err, rules.ErrRuleNotFound)
}

func TestNewRegistry_StoreLoadFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	store := &memStore{loadErr: errors.New("corrupt store")}
	r := rules.NewRegistry(context.Background(), testBuiltins(), store, nil)

	got := r.Resolve("example.com")
	require.NotNil(t, got)
	assert.Equal(t, domain.OriginBuiltin, got.Origin)
}

func TestReload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := &memStore{}
	r := rules.NewRegistry(ctx, testBuiltins(), store, nil)

	// A rule written behind the registry's back appears after Reload.
	store.rules = []domain.SiteRule{{
		DomainPattern: "fresh.test",
		Enabled:       true,
		Selectors:     map[string]string{"title": "h1"},
	}}
	r.Reload(ctx)

	got := r.Resolve("fresh.test")
	require.NotNil(t, got)
	assert.Equal(t, domain.OriginUser, got.Origin)

	// A failing reload keeps the last-good view.
	store.loadErr = errors.New("transient")
	r.Reload(ctx)
	got = r.Resolve("fresh.test")
	require.NotNil(t, got)
	assert.Equal(t, "fresh.test", got.DomainPattern)
}

func TestRules_SortedWildcardLast(t *testing.T) {
	t.Parallel()

	r := rules.NewRegistry(context.Background(), testBuiltins(), nil, nil)

	all := r.Rules()
	require.Len(t, all, 3)
	assert.Equal(t, "example.com", all[0].DomainPattern)
	assert.Equal(t, "strict.test", all[1].DomainPattern)
	assert.True(t, all[2].IsWildcard())
}

func TestNormalizeDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Example.COM", "example.com"},
		{"www.example.com", "example.com"},
		{"www.www.example.com", "www.example.com"},
		{"example.com.", "example.com"},
		{"  example.com  ", "example.com"},
		{"*", "*"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rules.NormalizeDomain(tt.in), "input %q", tt.in)
	}
}

func TestDefaultBuiltinRules(t *testing.T) {
	t.Parallel()

	r := rules.NewRegistry(context.Background(), rules.DefaultBuiltinRules(), nil, nil)

	got := r.Resolve("connpass.com")
	require.NotNil(t, got)
	assert.Equal(t, domain.OriginBuiltin, got.Origin)
	assert.NotEmpty(t, got.Selectors["date"])

	// Builtin event-site rules inherit to subdomains.
	got = r.Resolve("chronoclip.connpass.com")
	require.NotNil(t, got)
	assert.Equal(t, "connpass.com", got.DomainPattern)
}
