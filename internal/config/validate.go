package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	"github.com/leapstack-labs/leapfluff/pkg/format"
)

// Validate checks if the configuration is valid. Dialects must be
// registered before calling it.
func (c *Config) Validate() error {
	var errs []error

	if c.Dialect != "" {
		if _, err := dialect.Lookup(c.Dialect); err != nil {
			errs = append(errs, err)
		}
	}
	if !isFormat(c.Output) {
		errs = append(errs, fmt.Errorf("output: %w %q (want one of %s)",
			format.ErrUnknownFormat, c.Output, strings.Join(format.Formats(), ", ")))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.IndentConfig(); err != nil {
		errs = append(errs, err)
	}
	if c.Server.LRUSize < 0 {
		errs = append(errs, fmt.Errorf("server.lru_size must not be negative, got %d", c.Server.LRUSize))
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		errs = append(errs, errors.New("cache.path is required when the cache is enabled"))
	}
	if _, err := c.Lint.LintRules(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func isFormat(name string) bool {
	for _, f := range format.Formats() {
		if f == name {
			return true
		}
	}
	return false
}
