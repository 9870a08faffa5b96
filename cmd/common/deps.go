// Package common wires the composition root shared by all commands.
//
// The rule registry is a single explicitly constructed instance shared by
// injection; nothing in the pipeline reaches for globals.
package common

import (
	"context"
	"fmt"

	"github.com/is0692vs/chronoclip/internal/builder"
	"github.com/is0692vs/chronoclip/internal/collector"
	"github.com/is0692vs/chronoclip/internal/config"
	rulestorecfg "github.com/is0692vs/chronoclip/internal/config/rulestore"
	"github.com/is0692vs/chronoclip/internal/datetime"
	"github.com/is0692vs/chronoclip/internal/extractor"
	"github.com/is0692vs/chronoclip/internal/fetch"
	"github.com/is0692vs/chronoclip/internal/logger"
	"github.com/is0692vs/chronoclip/internal/nlpdate"
	"github.com/is0692vs/chronoclip/internal/rules"
)

// Deps bundles the constructed pipeline for command use.
type Deps struct {
	Config   *config.Config
	Logger   logger.Interface
	Registry *rules.Registry
	Builder  *builder.Builder
	Fetcher  *fetch.Fetcher

	closers []func() error
}

// Build loads configuration and constructs the full pipeline.
func Build(ctx context.Context, cfgPath string, debug bool) (*Deps, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	location, err := cfg.Extractor.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	deps := &Deps{Config: cfg, Logger: log}

	store, err := deps.buildStore()
	if err != nil {
		return nil, err
	}
	registry := rules.NewRegistry(ctx, rules.DefaultBuiltinRules(), store, log)

	resolver := datetime.New(datetime.Config{
		EventDuration: cfg.Extractor.EventDuration,
		Location:      location,
	}, nlpdate.New(cfg.Extractor.Languages, location), log)

	deps.Registry = registry
	deps.Builder = builder.New(
		collector.New(log),
		resolver,
		registry,
		log,
		builder.WithSiteExtractor(extractor.New(log)),
		builder.WithStopwords(cfg.Extractor.Stopwords),
	)
	deps.Fetcher = fetch.New(log)
	return deps, nil
}

// buildStore constructs the configured user rule store.
func (d *Deps) buildStore() (rules.Store, error) {
	switch d.Config.RuleStore.Backend {
	case rulestorecfg.BackendSQLite:
		store, err := rules.NewSQLStore(d.Config.RuleStore.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite rule store: %w", err)
		}
		d.closers = append(d.closers, store.Close)
		return store, nil
	default:
		return rules.NewFileStore(d.Config.RuleStore.Path), nil
	}
}

// Close releases held resources.
func (d *Deps) Close() error {
	var firstErr error
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
