// Package config loads and validates the application configuration.
//
// Configuration is validated once at load time; a run never starts with a
// partially valid config.
package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"

	"newsbrief/internal/feed"
)

// ValidationError reports an invalid configuration. Fatal at startup.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Config holds all settings for the pipeline.
type Config struct {
	LogLevel   string           `yaml:"logLevel"`
	Database   DatabaseConfig   `yaml:"database"`
	Collection CollectionConfig `yaml:"collection"`
	Retention  RetentionConfig  `yaml:"retention"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Report     ReportConfig     `yaml:"report"`
	Mail       MailConfig       `yaml:"mail"`
	Schedule   ScheduleConfig   `yaml:"schedule"`

	// Sources maps a category name to an ordered list of feed URLs.
	Sources map[string][]string `yaml:"sources"`
}

// DatabaseConfig describes the sqlite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CollectionConfig tunes the fetch loop.
type CollectionConfig struct {
	TimeoutSeconds        int `yaml:"timeoutSeconds"`
	RateLimitDelaySeconds int `yaml:"rateLimitDelaySeconds"`
	MaxPerSource          int `yaml:"maxPerSource"`
}

// RetentionConfig controls the age-based purge.
type RetentionConfig struct {
	Days int `yaml:"days"`
}

// AnalysisConfig optionally overrides the marker vocabularies.
// Empty lists keep the built-in defaults.
type AnalysisConfig struct {
	FactualMarkers     []string `yaml:"factualMarkers"`
	SpeculativeMarkers []string `yaml:"speculativeMarkers"`
}

// ReportConfig controls the rendered digest.
type ReportConfig struct {
	Path           string `yaml:"path"`
	Title          string `yaml:"title"`
	MaxSummaryLen  int    `yaml:"maxSummaryLen"`
	MaxPerCategory int    `yaml:"maxPerCategory"`
}

// MailConfig enables SMTP delivery of the digest.
type MailConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Password string `yaml:"password"`
}

// ScheduleConfig drives the cron runner.
type ScheduleConfig struct {
	Enabled bool   `yaml:"enabled"`
	Spec    string `yaml:"spec"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Database: DatabaseConfig{Path: "newsbrief.db"},
		Collection: CollectionConfig{
			TimeoutSeconds:        30,
			RateLimitDelaySeconds: 1,
			MaxPerSource:          50,
		},
		Retention: RetentionConfig{Days: 30},
		Report: ReportConfig{
			Path:           "newsbrief.html",
			Title:          "Personal News Digest",
			MaxSummaryLen:  300,
			MaxPerCategory: 20,
		},
		Schedule: ScheduleConfig{Spec: "0 8,18 * * *"},
		Sources: map[string][]string{
			"cybersecurity": {
				"https://krebsonsecurity.com/feed/",
				"https://www.darkreading.com/rss.xml",
			},
		},
	}
}

// EnvConfigPath names the environment variable consulted for the
// configuration file path when none is given explicitly.
const EnvConfigPath = "NEWSBRIEF_CONFIG"

// Load reads YAML configuration from path, overlaying the defaults.
// An empty path falls back to the NEWSBRIEF_CONFIG environment variable;
// when that is also empty the defaults apply. The result is always
// validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the category enumeration and source URL well-formedness.
// Rejecting bad sources here keeps ingestion free of category checks.
func (c *Config) Validate() error {
	for name, urls := range c.Sources {
		if _, err := feed.ParseCategory(name); err != nil {
			return &ValidationError{Field: "sources", Reason: err.Error()}
		}
		for _, raw := range urls {
			parsed, err := url.Parse(raw)
			if err != nil {
				return &ValidationError{
					Field:  "sources." + name,
					Reason: fmt.Sprintf("malformed URL %q: %v", raw, err),
				}
			}
			if parsed.Scheme != "https" {
				return &ValidationError{
					Field:  "sources." + name,
					Reason: fmt.Sprintf("source %q must use https", raw),
				}
			}
			if parsed.Host == "" {
				return &ValidationError{
					Field:  "sources." + name,
					Reason: fmt.Sprintf("source %q has no host", raw),
				}
			}
		}
	}

	if c.Retention.Days <= 0 {
		return &ValidationError{Field: "retention.days", Reason: "must be positive"}
	}
	if c.Collection.TimeoutSeconds <= 0 {
		return &ValidationError{Field: "collection.timeoutSeconds", Reason: "must be positive"}
	}
	return nil
}

// CategorySources returns the validated source mapping keyed by Category.
// Call only after Validate has succeeded.
func (c *Config) CategorySources() map[feed.Category][]string {
	out := make(map[feed.Category][]string, len(c.Sources))
	for name, urls := range c.Sources {
		out[feed.Category(name)] = urls
	}
	return out
}
