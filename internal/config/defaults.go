package config

import (
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	DefaultDialect         = "sqlite"
	DefaultOutput          = "human"
	DefaultLogLevel        = "info"
	DefaultCachePath       = ".leapfluff/cache.db"
	DefaultServerAddr      = ":8080"
	DefaultLRUSize         = 256
	DefaultShutdownTimeout = 10 * time.Second
)

// Defaults returns the lowest-precedence configuration layer.
func Defaults() map[string]any {
	return map[string]any{
		"dialect":                 DefaultDialect,
		"output":                  DefaultOutput,
		"verbose":                 false,
		"log_level":               DefaultLogLevel,
		"cache.enabled":           true,
		"cache.path":              DefaultCachePath,
		"server.addr":             DefaultServerAddr,
		"server.lru_size":         DefaultLRUSize,
		"server.shutdown_timeout": DefaultShutdownTimeout.String(),
	}
}

// Default returns a Config holding only the defaults.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err == nil {
		if cfg, err := Unmarshal(k); err == nil {
			return cfg
		}
	}
	return &Config{Dialect: DefaultDialect, Output: DefaultOutput, LogLevel: DefaultLogLevel}
}
