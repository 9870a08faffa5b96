package rules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/is0692vs/chronoclip/internal/domain"
)

// persistedRule is the on-disk shape of a user rule. Origin is implied by
// the store, so it is not persisted.
type persistedRule struct {
	ID              string            `json:"id"`
	DomainPattern   string            `json:"domain_pattern"`
	Priority        int               `json:"priority"`
	Selectors       map[string]string `json:"selectors,omitempty"`
	Enabled         bool              `json:"enabled"`
	AllowSubdomains bool              `json:"allow_subdomains"`
}

// FileStore persists user rules as a JSON file.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed store at path. The file is created
// lazily on the first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted user rules. A missing file yields no rules.
func (s *FileStore) Load(ctx context.Context) ([]domain.SiteRule, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rule store: %w", err)
	}

	var persisted []persistedRule
	if err := json.Unmarshal(data, &persisted); err != nil {
		return nil, fmt.Errorf("decode rule store: %w", err)
	}

	rules := make([]domain.SiteRule, 0, len(persisted))
	for _, p := range persisted {
		rules = append(rules, domain.SiteRule{
			ID:              p.ID,
			DomainPattern:   p.DomainPattern,
			Priority:        p.Priority,
			Selectors:       p.Selectors,
			Enabled:         p.Enabled,
			AllowSubdomains: p.AllowSubdomains,
		})
	}
	return rules, nil
}

// Save replaces the persisted user rules. The write goes to a temp file
// first and is renamed into place so a crash cannot leave a torn file.
func (s *FileStore) Save(ctx context.Context, rules []domain.SiteRule) error {
	persisted := make([]persistedRule, 0, len(rules))
	for _, rule := range rules {
		persisted = append(persisted, persistedRule{
			ID:              rule.ID,
			DomainPattern:   rule.DomainPattern,
			Priority:        rule.Priority,
			Selectors:       rule.Selectors,
			Enabled:         rule.Enabled,
			AllowSubdomains: rule.AllowSubdomains,
		})
	}

	data, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rule store: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create rule store directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write rule store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace rule store: %w", err)
	}
	return nil
}
