package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Dialect registry. Entries are built on first lookup.
var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]func() *Dialect)
)

// ErrDialectRequired is returned when a dialect is required but not provided.
var ErrDialectRequired = errors.New("dialect is required")

// ErrUnknownDialect is returned when a dialect name is not registered.
var ErrUnknownDialect = errors.New("unknown dialect")

// Get returns a dialect by name.
func Get(name string) (*Dialect, bool) {
	dialectsMu.RLock()
	load, ok := dialects[strings.ToLower(name)]
	dialectsMu.RUnlock()
	if !ok {
		return nil, false
	}
	return load(), true
}

// Lookup is Get with an error naming the registered dialects.
func Lookup(name string) (*Dialect, error) {
	if name == "" {
		return nil, ErrDialectRequired
	}
	d, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownDialect, name, strings.Join(List(), ", "))
	}
	return d, nil
}

// Register registers a built dialect in the global registry.
func Register(d *Dialect) {
	RegisterFunc(d.Name(), func() *Dialect { return d })
}

// RegisterFunc registers a dialect that is built by load on first use.
// Called by dialect implementations in their init() functions; load must be
// safe to call more than once and return the same dialect.
func RegisterFunc(name string, load func() *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(name)] = load
}

// List returns all registered dialect names (sorted).
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
