package grammar

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// BracketPair describes one kind of bracket available to Bracketed.
type BracketPair struct {
	Type     string // e.g. "round"
	Start    string // rule name of the opening bracket
	End      string // rule name of the closing bracket
	Persists bool   // wrap matches in a bracketed node
}

// Library is the view of a dialect the engine needs: named rules, their
// node types and the bracket sets.
type Library interface {
	Name() string
	Grammar(name string) (Matcher, bool)
	SegmentType(name string) (string, bool)
	BracketPairs(set string) []BracketPair
	Hints() *HintCache
}

// IndentConfig switches Conditional metas on and off.
type IndentConfig map[string]bool

// DefaultIndentConfig returns the default indentation settings.
func DefaultIndentConfig() IndentConfig {
	return IndentConfig{
		"indented_joins":         false,
		"indented_using_on":      true,
		"indented_on_contents":   true,
		"indented_then":          true,
		"indented_then_contents": true,
		"indented_ctes":          false,
	}
}

// Stats counts the work done by one parse.
type Stats struct {
	Matches     int
	CacheHits   int
	CacheMisses int
	MaxDepth    int
}

type cacheKey struct {
	raw     string
	offset  int
	typ     string
	maxIdx  int
	matcher string
}

// Context carries the state of a single parse. It is not safe for
// concurrent use.
type Context struct {
	ctx     context.Context
	Dialect Library
	Indent  IndentConfig
	Logger  *slog.Logger
	RunID   string
	Stats   Stats

	terminators []Matcher
	depth       int
	cache       map[cacheKey]*MatchResult
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithIndentConfig overrides the indentation settings.
func WithIndentConfig(cfg IndentConfig) ContextOption {
	return func(c *Context) {
		merged := DefaultIndentConfig()
		for k, v := range cfg {
			merged[k] = v
		}
		c.Indent = merged
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) ContextOption {
	return func(c *Context) {
		if l != nil {
			c.Logger = l
		}
	}
}

// NewContext creates a parse context for the given dialect.
func NewContext(ctx context.Context, d Library, opts ...ContextOption) *Context {
	c := &Context{
		ctx:     ctx,
		Dialect: d,
		Indent:  DefaultIndentConfig(),
		Logger:  slog.New(slog.DiscardHandler),
		RunID:   uuid.NewString(),
		cache:   make(map[cacheKey]*MatchResult),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Err returns the cancellation error of the underlying context, if any.
func (c *Context) Err() error {
	if c.ctx == nil {
		return nil
	}
	return c.ctx.Err()
}

// Terminators returns the terminators currently in force.
func (c *Context) Terminators() []Matcher {
	return c.terminators
}

// Deeper enters a nested match. If clear is set the inherited terminators
// are dropped, and push is added to the active set. The returned function
// restores the previous state and must be called when the nested match is
// done.
func (c *Context) Deeper(clear bool, push []Matcher) func() {
	saved := c.terminators
	c.depth++
	if c.depth > c.Stats.MaxDepth {
		c.Stats.MaxDepth = c.depth
	}
	switch {
	case clear && len(c.terminators) > 0:
		c.terminators = append([]Matcher(nil), push...)
	case len(push) > 0:
		next := append([]Matcher(nil), c.terminators...)
		for _, t := range push {
			if !containsMatcher(next, t) {
				next = append(next, t)
			}
		}
		c.terminators = next
	}
	return func() {
		c.terminators = saved
		c.depth--
	}
}

func (c *Context) checkCache(k cacheKey) (*MatchResult, bool) {
	m, ok := c.cache[k]
	if ok {
		c.Stats.CacheHits++
	} else {
		c.Stats.CacheMisses++
	}
	return m, ok
}

func (c *Context) putCache(k cacheKey, m *MatchResult) {
	c.cache[k] = m
}

func locKey(segs []*segment.Segment, idx int) cacheKey {
	s := segs[idx]
	return cacheKey{raw: s.Raw, offset: s.Pos.Offset, typ: s.Type(), maxIdx: len(segs)}
}

// containsMatcher compares grammars structurally, so that two separately
// built Ref("CommaSegment") values count as the same terminator.
func containsMatcher(list []Matcher, m Matcher) bool {
	sig := m.String()
	for _, other := range list {
		if other == m || other.String() == sig {
			return true
		}
	}
	return false
}
