// Package config provides the configuration types shared by the CLI and
// the HTTP service.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/leapstack-labs/leapfluff/pkg/grammar"
	"github.com/leapstack-labs/leapfluff/pkg/lint"
)

// Config holds all configuration options.
type Config struct {
	Dialect     string         `koanf:"dialect"`
	Output      string         `koanf:"output"`
	Verbose     bool           `koanf:"verbose"`
	LogLevel    string         `koanf:"log_level"`
	Cache       CacheConfig    `koanf:"cache"`
	Indentation map[string]any `koanf:"indentation"`
	Server      ServerConfig   `koanf:"server"`
	Lint        LintConfig     `koanf:"lint"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// CacheConfig configures the on-disk parse result cache.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	LRUSize         int           `koanf:"lru_size"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Rules, when non-empty, restricts linting to these rule IDs
	Rules []string `koanf:"rules"`

	// Disabled contains rule IDs to disable
	Disabled []string `koanf:"disabled"`

	// Severity maps rule ID to severity override (error, warning, info, hint)
	Severity map[string]string `koanf:"severity"`

	// Options contains rule-specific options keyed by rule ID
	Options map[string]RuleOptions `koanf:"options"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any

// IndentConfig converts the indentation section into engine settings.
// Values may arrive as strings from the environment and are coerced.
func (c *Config) IndentConfig() (grammar.IndentConfig, error) {
	out := grammar.DefaultIndentConfig()
	for key, raw := range c.Indentation {
		v, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, fmt.Errorf("indentation.%s: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

// SlogLevel returns the configured log level. Verbose forces debug.
func (c *Config) SlogLevel() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}
	return ParseLogLevel(c.LogLevel)
}

// ParseLogLevel maps a level name onto a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// LintRules builds the analyzer configuration.
func (l LintConfig) LintRules() (*lint.Config, error) {
	cfg := lint.NewConfig()
	for _, id := range l.Rules {
		cfg.Only(strings.ToUpper(id))
	}
	for _, id := range l.Disabled {
		cfg.Disable(strings.ToUpper(id))
	}
	for id, name := range l.Severity {
		sev, err := lint.ParseSeverity(name)
		if err != nil {
			return nil, fmt.Errorf("lint.severity.%s: %w", id, err)
		}
		cfg.SetSeverity(strings.ToUpper(id), sev)
	}
	for id, opts := range l.Options {
		cfg.SetRuleOptions(strings.ToUpper(id), opts)
	}
	return cfg, nil
}
