package rules_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/is0692vs/chronoclip/internal/domain"
	"github.com/is0692vs/chronoclip/internal/rules"
)

func TestFileStore_LoadMissingFile(t *testing.T) {
	t.Parallel()

	store := rules.NewFileStore(filepath.Join(t.TempDir(), "rules.json"))
	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "rules.json")
	store := rules.NewFileStore(path)

	saved := []domain.SiteRule{
		{
			ID:              "r-1",
			DomainPattern:   "example.com",
			Priority:        20,
			Enabled:         true,
			AllowSubdomains: true,
			Selectors:       map[string]string{"title": "h1.event", "date": ".dtstart"},
		},
		{
			ID:            "r-2",
			DomainPattern: "other.test",
			Enabled:       false,
		},
	}
	require.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "example.com", loaded[0].DomainPattern)
	assert.Equal(t, 20, loaded[0].Priority)
	assert.True(t, loaded[0].AllowSubdomains)
	assert.Equal(t, "h1.event", loaded[0].Selectors["title"])
	assert.Equal(t, "other.test", loaded[1].DomainPattern)
	assert.False(t, loaded[1].Enabled)

	// No temp file left behind after the rename.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := rules.NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := rules.NewFileStore(filepath.Join(t.TempDir(), "rules.json"))

	require.NoError(t, store.Save(ctx, []domain.SiteRule{
		{ID: "r-1", DomainPattern: "a.test", Enabled: true},
		{ID: "r-2", DomainPattern: "b.test", Enabled: true},
	}))
	require.NoError(t, store.Save(ctx, []domain.SiteRule{
		{ID: "r-2", DomainPattern: "b.test", Enabled: true},
	}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "b.test", loaded[0].DomainPattern)
}
