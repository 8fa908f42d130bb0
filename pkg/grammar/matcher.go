// Package grammar implements the grammar combinators used to describe SQL
// dialects, and the engine that matches them against lexed segments.
//
// Grammars are immutable once built and may be shared between dialects and
// goroutines. All per-parse state lives in a Context.
package grammar

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Matcher is implemented by every grammar.
type Matcher interface {
	// Match tries to match the grammar at segs[idx]. A result that matched
	// nothing means no match.
	Match(segs []*segment.Segment, idx int, ctx *Context) (*MatchResult, error)
	// Simple returns the first-token hint for the grammar, or nil. Crumbs
	// hold the rule names already being resolved, to break cycles.
	Simple(ctx *Context, crumbs []string) *SimpleHint
	// IsOptional reports whether the grammar may be skipped in a sequence.
	IsOptional() bool
	// Key identifies this grammar instance for caching.
	Key() string
	// String describes the grammar structurally.
	String() string
}

// ParseMode controls how eagerly a grammar claims segments.
type ParseMode int

// Parse modes.
const (
	// Strict fails unless the grammar matches exactly.
	Strict ParseMode = iota
	// Greedy claims everything up to the next terminator, marking anything
	// it cannot match as unparsable.
	Greedy
	// GreedyOnceStarted behaves like Strict until the first element
	// matches, and like Greedy afterwards.
	GreedyOnceStarted
)

func (m ParseMode) String() string {
	switch m {
	case Greedy:
		return "GREEDY"
	case GreedyOnceStarted:
		return "GREEDY_ONCE_STARTED"
	}
	return "STRICT"
}

// config holds the options shared by all composite grammars.
type config struct {
	optional     bool
	noGaps       bool
	terminators  []Matcher
	resetTerms   bool
	mode         ParseMode
	exclude      Matcher
	minTimes     int
	maxTimes     int
	maxPerElem   int
	delimiter    Matcher
	trailing     bool
	minDelims    int
	optDelimiter bool
	bracketType  string
	bracketSet   string
	startBracket Matcher
	endBracket   Matcher
}

// Option configures a grammar.
type Option func(*config)

// Optional marks the grammar as skippable within a sequence.
func Optional() Option { return func(c *config) { c.optional = true } }

// NoGaps disallows non-code between elements.
func NoGaps() Option { return func(c *config) { c.noGaps = true } }

// Terminators adds grammars that end a greedy scan.
func Terminators(terms ...any) Option {
	return func(c *config) { c.terminators = append(c.terminators, resolveAll(terms)...) }
}

// ResetTerminators drops terminators inherited from the parent.
func ResetTerminators() Option { return func(c *config) { c.resetTerms = true } }

// Mode sets the parse mode.
func Mode(m ParseMode) Option { return func(c *config) { c.mode = m } }

// Exclude prevents a match wherever x matches first.
func Exclude(x any) Option { return func(c *config) { c.exclude = resolve(x) } }

// MinTimes sets the minimum repetitions of AnyNumberOf.
func MinTimes(n int) Option { return func(c *config) { c.minTimes = n } }

// MaxTimes sets the maximum repetitions of AnyNumberOf. Zero is unbounded.
func MaxTimes(n int) Option { return func(c *config) { c.maxTimes = n } }

// MaxTimesPerElement caps how often each option of AnyNumberOf may match.
func MaxTimesPerElement(n int) Option { return func(c *config) { c.maxPerElem = n } }

// Delimiter sets the delimiter of Delimited.
func Delimiter(x any) Option { return func(c *config) { c.delimiter = resolve(x) } }

// AllowTrailing accepts a trailing delimiter in Delimited.
func AllowTrailing() Option { return func(c *config) { c.trailing = true } }

// MinDelimiters sets the minimum number of delimiters in Delimited.
func MinDelimiters(n int) Option { return func(c *config) { c.minDelims = n } }

// OptionalDelimiter lets Delimited accept adjacent elements without a
// delimiter between them.
func OptionalDelimiter() Option { return func(c *config) { c.optDelimiter = true } }

// BracketType selects the bracket pair used by Bracketed.
func BracketType(t string) Option { return func(c *config) { c.bracketType = t } }

// BracketPairsSet selects the dialect set holding bracket pairs.
func BracketPairsSet(set string) Option { return func(c *config) { c.bracketSet = set } }

// StartBracket overrides the opening bracket of Bracketed.
func StartBracket(x any) Option { return func(c *config) { c.startBracket = resolve(x) } }

// EndBracket overrides the closing bracket of Bracketed.
func EndBracket(x any) Option { return func(c *config) { c.endBracket = resolve(x) } }

// base is embedded by the composite grammars.
type base struct {
	config
	key      string
	kind     string
	elements []Matcher
	desc     string
}

func newBase(kind string, args []any) base {
	b := base{kind: kind, key: uuid.NewString()}
	b.config.bracketType = "round"
	b.config.bracketSet = "bracket_pairs"
	for _, a := range args {
		if opt, ok := a.(Option); ok {
			opt(&b.config)
			continue
		}
		b.elements = append(b.elements, resolve(a))
	}
	b.desc = describe(kind, b.elements, &b.config)
	return b
}

func (b *base) Key() string      { return b.key }
func (b *base) String() string   { return b.desc }
func (b *base) IsOptional() bool { return b.optional }

// Elements returns the direct child grammars.
func (b *base) Elements() []Matcher { return b.elements }

func (b *base) allowGaps() bool { return !b.noGaps }

// subMatchers lists every grammar referenced by b, for tree walks.
func (b *base) subMatchers() []Matcher {
	out := append([]Matcher(nil), b.elements...)
	out = append(out, b.terminators...)
	for _, m := range []Matcher{b.exclude, b.delimiter, b.startBracket, b.endBracket} {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

func describe(kind string, elems []Matcher, c *config) string {
	parts := make([]string, 0, len(elems)+4)
	for _, e := range elems {
		parts = append(parts, e.String())
	}
	if c.optional {
		parts = append(parts, "optional")
	}
	if c.noGaps {
		parts = append(parts, "no_gaps")
	}
	if c.mode != Strict {
		parts = append(parts, "mode="+c.mode.String())
	}
	if c.exclude != nil {
		parts = append(parts, "exclude="+c.exclude.String())
	}
	if c.delimiter != nil {
		parts = append(parts, "delimiter="+c.delimiter.String())
	}
	if c.minTimes > 0 {
		parts = append(parts, fmt.Sprintf("min=%d", c.minTimes))
	}
	if c.maxTimes > 0 {
		parts = append(parts, fmt.Sprintf("max=%d", c.maxTimes))
	}
	if len(c.terminators) > 0 {
		terms := make([]string, len(c.terminators))
		for i, t := range c.terminators {
			terms[i] = t.String()
		}
		parts = append(parts, "terminators=["+strings.Join(terms, ", ")+"]")
	}
	return kind + "(" + strings.Join(parts, ", ") + ")"
}

// resolve turns a constructor argument into a Matcher. Strings are
// keyword references.
func resolve(a any) Matcher {
	switch v := a.(type) {
	case Matcher:
		return v
	case string:
		return Keyword(v)
	}
	panic(fmt.Sprintf("grammar: cannot use %T as a grammar element", a))
}

func resolveAll(args []any) []Matcher {
	out := make([]Matcher, 0, len(args))
	for _, a := range args {
		out = append(out, resolve(a))
	}
	return out
}

type container interface {
	subMatchers() []Matcher
}

// Walk visits m and every grammar nested in it, without following Refs.
// Returning false from fn skips the children of the current grammar.
func Walk(m Matcher, fn func(Matcher) bool) {
	if m == nil || !fn(m) {
		return
	}
	if c, ok := m.(container); ok {
		for _, sub := range c.subMatchers() {
			Walk(sub, fn)
		}
	}
}

// RefNames returns the distinct rule names referenced by m.
func RefNames(m Matcher) []string {
	seen := map[string]struct{}{}
	var out []string
	Walk(m, func(g Matcher) bool {
		if r, ok := g.(*Ref); ok {
			if _, dup := seen[r.name]; !dup {
				seen[r.name] = struct{}{}
				out = append(out, r.name)
			}
		}
		return true
	})
	return out
}

// InsertInto returns a copy of a composite grammar with extra elements
// appended. It panics for leaf grammars.
func InsertInto(m Matcher, elems ...any) Matcher {
	extra := resolveAll(elems)
	clone := func(b base) base {
		b.key = uuid.NewString()
		b.elements = append(append([]Matcher(nil), b.elements...), extra...)
		b.desc = describe(b.kind, b.elements, &b.config)
		return b
	}
	switch g := m.(type) {
	case *Sequence:
		return &Sequence{base: clone(g.base)}
	case *Bracketed:
		return &Bracketed{base: clone(g.base)}
	case *AnyNumberOf:
		return &AnyNumberOf{base: clone(g.base)}
	case *Delimited:
		return &Delimited{base: clone(g.base)}
	}
	panic(fmt.Sprintf("grammar: cannot insert into %T", m))
}

// describeSegment renders a segment for unparsable descriptions.
func describeSegment(s *segment.Segment) string {
	if s == nil {
		return "nothing"
	}
	return fmt.Sprintf("<%s: ([L:%3d, P:%3d]) %q>", s.Type(), s.Pos.Line, s.Pos.Column, s.Text())
}
