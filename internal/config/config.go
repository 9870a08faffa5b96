// Package config provides configuration management for the application.
// Values come from a YAML file, environment variables, and defaults, in
// that order of precedence, loaded through viper.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	extractorcfg "github.com/is0692vs/chronoclip/internal/config/extractor"
	rulestorecfg "github.com/is0692vs/chronoclip/internal/config/rulestore"
	servercfg "github.com/is0692vs/chronoclip/internal/config/server"
	"github.com/is0692vs/chronoclip/internal/logger"
)

// Config represents the application configuration.
type Config struct {
	// Extractor holds extraction pipeline settings
	Extractor *extractorcfg.Config `yaml:"extractor" mapstructure:"extractor"`
	// RuleStore holds user rule persistence settings
	RuleStore *rulestorecfg.Config `yaml:"rule_store" mapstructure:"rule_store"`
	// Server holds HTTP API settings
	Server *servercfg.Config `yaml:"server" mapstructure:"server"`
	// Logging holds logger settings
	Logging *logger.Config `yaml:"logging" mapstructure:"logging"`
}

// New creates a Config with all defaults applied.
func New() *Config {
	return &Config{
		Extractor: extractorcfg.New(),
		RuleStore: rulestorecfg.New(),
		Server:    servercfg.New(),
		Logging:   &logger.Config{Level: "info", Encoding: "console"},
	}
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.Extractor.Validate(); err != nil {
		return fmt.Errorf("extractor: %w", err)
	}
	if err := c.RuleStore.Validate(); err != nil {
		return fmt.Errorf("rule_store: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Load loads configuration from the given path (optional), the
// environment, and defaults. A missing config file is not an error;
// environment variables and defaults cover it.
func Load(path string) (*Config, error) {
	// .env is optional; godotenv never overwrites existing variables.
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("CHRONOCLIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := New()
	if err := decode(v.AllSettings(), cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// decode maps viper settings onto the config struct, converting duration
// strings and comma-separated lists along the way.
func decode(settings map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: cfg,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(settings)
}
