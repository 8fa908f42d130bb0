package lint

import "github.com/spf13/cast"

// GetOption extracts a typed option with a default value.
func GetOption[T any](opts map[string]any, key string, defaultVal T) T {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	if typed, ok := v.(T); ok {
		return typed
	}
	return defaultVal
}

// GetIntOption extracts an int option. Values from YAML, JSON or the
// environment arrive as int, float64 or string and are all accepted.
func GetIntOption(opts map[string]any, key string, defaultVal int) int {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return defaultVal
	}
	return n
}

// GetStringOption extracts a string option.
func GetStringOption(opts map[string]any, key string, defaultVal string) string {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return defaultVal
	}
	return s
}

// GetBoolOption extracts a bool option.
func GetBoolOption(opts map[string]any, key string, defaultVal bool) bool {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return defaultVal
	}
	return b
}

// GetStringSliceOption extracts a string slice option.
func GetStringSliceOption(opts map[string]any, key string, defaultVal []string) []string {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	s, err := cast.ToStringSliceE(v)
	if err != nil {
		return defaultVal
	}
	return s
}
