// Package extractor provides configuration for the extraction pipeline:
// default event duration, timezone, parser languages, and the noise word
// list used for text validity filtering.
package extractor

import (
	"errors"
	"fmt"
	"time"
)

// Default configuration values
const (
	// DefaultEventDuration is added to a captured start time when the
	// text carries no end time.
	DefaultEventDuration = 3 * time.Hour
	// DefaultTimezone anchors pattern-resolved clock times.
	DefaultTimezone = "Asia/Tokyo"
)

// DefaultLanguages are the natural-language parser languages.
var DefaultLanguages = []string{"en", "ja"}

// DefaultStopwords filter boilerplate fragments out of descriptions.
var DefaultStopwords = []string{
	"more", "details", "click", "here", "share", "tweet",
	"詳細", "こちら", "共有",
}

// Config holds extraction settings.
type Config struct {
	// EventDuration is the default event duration
	EventDuration time.Duration `yaml:"event_duration" mapstructure:"event_duration"`
	// Timezone is the IANA name of the default timezone
	Timezone string `yaml:"timezone" mapstructure:"timezone"`
	// Languages for the natural-language date parser (ISO 639-1)
	Languages []string `yaml:"languages" mapstructure:"languages"`
	// Stopwords is the noise word list for text validity filtering
	Stopwords []string `yaml:"stopwords" mapstructure:"stopwords"`
}

// New creates a Config with defaults applied.
func New() *Config {
	return &Config{
		EventDuration: DefaultEventDuration,
		Timezone:      DefaultTimezone,
		Languages:     DefaultLanguages,
		Stopwords:     DefaultStopwords,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.EventDuration <= 0 {
		return errors.New("event_duration must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
