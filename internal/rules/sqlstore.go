package rules

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"github.com/is0692vs/chronoclip/internal/domain"
)

const createRulesTable = `
CREATE TABLE IF NOT EXISTS site_rules (
	id               TEXT PRIMARY KEY,
	domain_pattern   TEXT NOT NULL UNIQUE,
	priority         INTEGER NOT NULL DEFAULT 0,
	selectors        TEXT NOT NULL DEFAULT '{}',
	enabled          INTEGER NOT NULL DEFAULT 1,
	allow_subdomains INTEGER NOT NULL DEFAULT 0
)`

// SQLStore persists user rules in a SQLite database.
type SQLStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore opens (and if needed initializes) a SQLite-backed store.
func NewSQLStore(dsn string) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open rule database: %w", err)
	}
	if _, err := db.Exec(createRulesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize rule database: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// ruleRow is the database shape of a rule; selectors are stored as JSON.
type ruleRow struct {
	ID              string `db:"id"`
	DomainPattern   string `db:"domain_pattern"`
	Priority        int    `db:"priority"`
	Selectors       string `db:"selectors"`
	Enabled         bool   `db:"enabled"`
	AllowSubdomains bool   `db:"allow_subdomains"`
}

// Load returns all persisted user rules.
func (s *SQLStore) Load(ctx context.Context) ([]domain.SiteRule, error) {
	var rows []ruleRow
	query := `SELECT id, domain_pattern, priority, selectors, enabled, allow_subdomains
		FROM site_rules ORDER BY domain_pattern`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	rules := make([]domain.SiteRule, 0, len(rows))
	for _, row := range rows {
		selectors := map[string]string{}
		if err := json.Unmarshal([]byte(row.Selectors), &selectors); err != nil {
			return nil, fmt.Errorf("decode selectors for %s: %w", row.DomainPattern, err)
		}
		rules = append(rules, domain.SiteRule{
			ID:              row.ID,
			DomainPattern:   row.DomainPattern,
			Priority:        row.Priority,
			Selectors:       selectors,
			Enabled:         row.Enabled,
			AllowSubdomains: row.AllowSubdomains,
		})
	}
	return rules, nil
}

// Save replaces all persisted user rules in one transaction.
func (s *SQLStore) Save(ctx context.Context, rules []domain.SiteRule) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rule save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM site_rules`); err != nil {
		return fmt.Errorf("clear rules: %w", err)
	}

	insert := `INSERT INTO site_rules (id, domain_pattern, priority, selectors, enabled, allow_subdomains)
		VALUES (?, ?, ?, ?, ?, ?)`
	for _, rule := range rules {
		selectors, err := json.Marshal(rule.Selectors)
		if err != nil {
			return fmt.Errorf("encode selectors for %s: %w", rule.DomainPattern, err)
		}
		if _, err := tx.ExecContext(ctx, insert,
			rule.ID, rule.DomainPattern, rule.Priority,
			string(selectors), rule.Enabled, rule.AllowSubdomains,
		); err != nil {
			return fmt.Errorf("insert rule %s: %w", rule.DomainPattern, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rule save: %w", err)
	}
	return nil
}
