package grammar

import (
	"sort"
	"sync"
)

// SimpleHint is the set of first tokens a grammar can start with: either
// an uppercase raw value or a segment type. A nil hint means the grammar
// is too complex to describe and must always be tried.
type SimpleHint struct {
	Raws  map[string]struct{}
	Types map[string]struct{}
}

func newHint(raws []string, types []string) *SimpleHint {
	h := &SimpleHint{Raws: map[string]struct{}{}, Types: map[string]struct{}{}}
	for _, r := range raws {
		h.Raws[r] = struct{}{}
	}
	for _, t := range types {
		h.Types[t] = struct{}{}
	}
	return h
}

// union merges hints. Any nil input makes the union nil.
func union(hints ...*SimpleHint) *SimpleHint {
	out := newHint(nil, nil)
	for _, h := range hints {
		if h == nil {
			return nil
		}
		for r := range h.Raws {
			out.Raws[r] = struct{}{}
		}
		for t := range h.Types {
			out.Types[t] = struct{}{}
		}
	}
	return out
}

// Accepts reports whether a segment with the given uppercase raw and types
// could start this grammar.
func (h *SimpleHint) Accepts(rawUpper string, types []string) bool {
	if h == nil {
		return true
	}
	if _, ok := h.Raws[rawUpper]; ok {
		return true
	}
	for _, t := range types {
		if _, ok := h.Types[t]; ok {
			return true
		}
	}
	return false
}

// SortedRaws returns the raw values in order.
func (h *SimpleHint) SortedRaws() []string {
	return sortedKeys(h.Raws)
}

// SortedTypes returns the types in order.
func (h *SimpleHint) SortedTypes() []string {
	return sortedKeys(h.Types)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// HintCache memoises simple hints for one dialect.
type HintCache struct {
	m sync.Map
}

type hintEntry struct {
	hint *SimpleHint
}

func (c *HintCache) get(key string) (*SimpleHint, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	return v.(hintEntry).hint, true
}

func (c *HintCache) put(key string, h *SimpleHint) {
	if c == nil {
		return
	}
	c.m.Store(key, hintEntry{hint: h})
}
