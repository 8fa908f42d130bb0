// Package config loads the CLI configuration.
//
// The shared types live in internal/config and are re-exported here via
// type aliases so that commands only import one config package.
package config

import sharedcfg "github.com/leapstack-labs/leapfluff/internal/config"

// Config is an alias for the shared configuration.
type Config = sharedcfg.Config

// LintConfig is an alias for the shared lint configuration.
type LintConfig = sharedcfg.LintConfig

// EnvPrefix is the prefix of configuration environment variables.
// Nested keys are separated by a double underscore, so
// LEAPFLUFF_SERVER__LRU_SIZE sets server.lru_size.
const EnvPrefix = "LEAPFLUFF_"

// flagKeys maps flag names onto config keys where kebab-to-snake is not
// enough.
var flagKeys = map[string]string{
	"format":     "output",
	"cache-path": "cache.path",
	"addr":       "server.addr",
	"lru-size":   "server.lru_size",
	"indent":     "indentation",
	"rules":      "lint.rules",
	"disable":    "lint.disabled",
}

// skippedFlags never reach the config.
var skippedFlags = map[string]bool{
	"config": true,
	"help":   true,
}
