// Package dialect provides SQL dialect definitions for the grammar engine.
//
// A dialect bundles the lexer matchers, the grammar library (rule name to
// grammar, plus the node type of segment rules), keyword sets and bracket
// pairs. Concrete dialects are registered from pkg/dialects/*/ packages.
package dialect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapfluff/pkg/grammar"
	"github.com/leapstack-labs/leapfluff/pkg/lexer"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Well-known set names.
const (
	ReservedKeywords   = "reserved_keywords"
	UnreservedKeywords = "unreserved_keywords"
	BracketPairs       = "bracket_pairs"
)

// RootRule is the rule a file is parsed with.
const RootRule = "FileSegment"

// Generator builds a rule from the finished dialect, typically from one of
// its keyword sets.
type Generator func(d *Dialect) grammar.Matcher

// Dialect is an immutable, built dialect. It implements grammar.Library.
type Dialect struct {
	name     string
	inherits string
	matchers lexer.Matchers
	lex      *lexer.Lexer

	rules       map[string]grammar.Matcher
	types       map[string]string
	sets        map[string]map[string]struct{}
	bracketSets map[string][]grammar.BracketPair
	generators  map[string]Generator
	hints       grammar.HintCache
}

// Name returns the dialect name.
func (d *Dialect) Name() string { return d.name }

// Inherits returns the name of the dialect this one was copied from, if
// any.
func (d *Dialect) Inherits() string { return d.inherits }

// Grammar returns the named rule.
func (d *Dialect) Grammar(name string) (grammar.Matcher, bool) {
	m, ok := d.rules[name]
	return m, ok
}

// SegmentType returns the node type of a segment rule. Grammars and
// parsers have none.
func (d *Dialect) SegmentType(name string) (string, bool) {
	t, ok := d.types[name]
	return t, ok
}

// BracketPairs returns the bracket pairs of the named set.
func (d *Dialect) BracketPairs(set string) []grammar.BracketPair {
	return d.bracketSets[set]
}

// Hints returns the dialect's simple hint cache.
func (d *Dialect) Hints() *grammar.HintCache { return &d.hints }

// Root returns the grammar files are parsed with.
func (d *Dialect) Root() grammar.Matcher {
	return d.rules[RootRule]
}

// Lexer returns the dialect lexer.
func (d *Dialect) Lexer() *lexer.Lexer { return d.lex }

// Rules returns every rule name in order.
func (d *Dialect) Rules() []string {
	names := make([]string, 0, len(d.rules))
	for n := range d.rules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Set returns the sorted values of a named set.
func (d *Dialect) Set(name string) []string {
	s := d.sets[name]
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// InSet reports whether v, compared in upper case, belongs to the set.
func (d *Dialect) InSet(name, v string) bool {
	_, ok := d.sets[name][strings.ToUpper(v)]
	return ok
}

// IsReservedWord reports whether word is a reserved keyword.
func (d *Dialect) IsReservedWord(word string) bool {
	return d.InSet(ReservedKeywords, word)
}

// ---------- Builder ----------

// Builder provides a fluent API for constructing dialects. Builder methods
// panic on inconsistent definitions, since dialects are built during
// package initialisation.
type Builder struct {
	d          *Dialect
	generators map[string]Generator
}

// NewDialect starts an empty dialect.
func NewDialect(name string) *Builder {
	return &Builder{
		d: &Dialect{
			name:        name,
			rules:       map[string]grammar.Matcher{},
			types:       map[string]string{},
			sets:        map[string]map[string]struct{}{},
			bracketSets: map[string][]grammar.BracketPair{},
		},
		generators: map[string]Generator{},
	}
}

// Extend starts a dialect as a copy of base. Grammars are shared; sets and
// tables are copied.
func Extend(base *Dialect, name string) *Builder {
	b := NewDialect(name)
	b.d.inherits = base.name
	b.d.matchers = append(lexer.Matchers(nil), base.matchers...)
	for k, v := range base.rules {
		b.d.rules[k] = v
	}
	for k, v := range base.types {
		b.d.types[k] = v
	}
	for k, v := range base.sets {
		cp := make(map[string]struct{}, len(v))
		for e := range v {
			cp[e] = struct{}{}
		}
		b.d.sets[k] = cp
	}
	for k, v := range base.bracketSets {
		b.d.bracketSets[k] = append([]grammar.BracketPair(nil), v...)
	}
	// Generated rules are rebuilt from the copy's own sets.
	for k, gen := range base.generators {
		delete(b.d.rules, k)
		b.generators[k] = gen
	}
	return b
}

// Lexer sets the lexer matchers.
func (b *Builder) Lexer(m lexer.Matchers) *Builder {
	b.d.matchers = m
	return b
}

// PatchLexer replaces lexer matchers by name.
func (b *Builder) PatchLexer(repl ...*lexer.Matcher) *Builder {
	b.d.matchers = b.d.matchers.Patch(repl...)
	return b
}

// InsertLexerBefore inserts lexer matchers before the named one.
func (b *Builder) InsertLexerBefore(name string, extra ...*lexer.Matcher) *Builder {
	b.d.matchers = b.d.matchers.InsertBefore(name, extra...)
	return b
}

// Add defines new grammar rules. Defining an existing rule panics.
func (b *Builder) Add(rules map[string]grammar.Matcher) *Builder {
	for name, m := range rules {
		if b.exists(name) {
			panic(fmt.Sprintf("dialect %s: rule %s already defined", b.d.name, name))
		}
		b.d.rules[name] = m
	}
	return b
}

// Replace redefines existing grammar rules, keeping their node type.
func (b *Builder) Replace(rules map[string]grammar.Matcher) *Builder {
	for name, m := range rules {
		if !b.exists(name) {
			panic(fmt.Sprintf("dialect %s: cannot replace undefined rule %s", b.d.name, name))
		}
		delete(b.generators, name)
		b.d.rules[name] = m
	}
	return b
}

// Segment defines or redefines a segment rule: a grammar whose matches are
// wrapped in a node of type typ.
func (b *Builder) Segment(name, typ string, m grammar.Matcher) *Builder {
	delete(b.generators, name)
	b.d.rules[name] = m
	b.d.types[name] = typ
	return b
}

// Generate defines a rule built when the dialect is finished.
func (b *Builder) Generate(name string, gen Generator) *Builder {
	delete(b.d.rules, name)
	b.generators[name] = gen
	return b
}

// GenerateSegment is Generate for a segment rule.
func (b *Builder) GenerateSegment(name, typ string, gen Generator) *Builder {
	b.Generate(name, gen)
	b.d.types[name] = typ
	return b
}

// UpdateSet adds values to a named set. Values are stored in upper case.
func (b *Builder) UpdateSet(name string, values ...string) *Builder {
	s, ok := b.d.sets[name]
	if !ok {
		s = map[string]struct{}{}
		b.d.sets[name] = s
	}
	for _, v := range values {
		s[strings.ToUpper(strings.TrimSpace(v))] = struct{}{}
	}
	return b
}

// ReplaceSet sets a named set to exactly the given values.
func (b *Builder) ReplaceSet(name string, values ...string) *Builder {
	delete(b.d.sets, name)
	return b.UpdateSet(name, values...)
}

// RemoveFromSet drops values from a named set.
func (b *Builder) RemoveFromSet(name string, values ...string) *Builder {
	for _, v := range values {
		delete(b.d.sets[name], strings.ToUpper(v))
	}
	return b
}

// Brackets sets the bracket pairs of a set.
func (b *Builder) Brackets(set string, pairs ...grammar.BracketPair) *Builder {
	b.d.bracketSets[set] = pairs
	return b
}

func (b *Builder) exists(name string) bool {
	if _, ok := b.d.rules[name]; ok {
		return true
	}
	_, ok := b.generators[name]
	return ok
}

// Build expands keyword sets into keyword segment rules, evaluates the
// generators and returns the finished dialect.
func (b *Builder) Build() *Dialect {
	d := b.d

	// Keywords referenced by rules but missing from both keyword sets are
	// treated as unreserved.
	b.collectKeywords(d.rules)
	b.expandKeywords()

	names := make([]string, 0, len(b.generators))
	for n := range b.generators {
		names = append(names, n)
	}
	sort.Strings(names)
	generated := make(map[string]grammar.Matcher, len(names))
	for _, n := range names {
		generated[n] = b.generators[n](d)
	}
	for n, m := range generated {
		d.rules[n] = m
	}
	b.collectKeywords(generated)
	b.expandKeywords()

	d.generators = b.generators
	d.lex = lexer.New(d.matchers)
	b.d = nil
	return d
}

func (b *Builder) collectKeywords(rules map[string]grammar.Matcher) {
	for _, m := range rules {
		for _, ref := range grammar.RefNames(m) {
			kw, ok := strings.CutSuffix(ref, "KeywordSegment")
			if !ok || kw == "" {
				continue
			}
			if _, defined := b.d.rules[ref]; defined {
				continue
			}
			up := strings.ToUpper(kw)
			if b.d.InSet(ReservedKeywords, up) || b.d.InSet(UnreservedKeywords, up) {
				continue
			}
			b.UpdateSet(UnreservedKeywords, up)
		}
	}
}

func (b *Builder) expandKeywords() {
	for _, set := range []string{UnreservedKeywords, ReservedKeywords} {
		for kw := range b.d.sets[set] {
			name := grammar.KeywordRule(kw)
			if _, ok := b.d.rules[name]; ok {
				continue
			}
			b.d.rules[name] = grammar.NewStringParser(kw, segment.Keyword, grammar.WithType("keyword"))
		}
	}
}
