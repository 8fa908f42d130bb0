package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Meta inserts an indentation marker. It consumes nothing.
type Meta struct {
	key  string
	kind segment.MetaKind
}

func newMeta(kind segment.MetaKind) *Meta {
	return &Meta{key: uuid.NewString(), kind: kind}
}

// Indent returns a grammar inserting an indent.
func Indent() *Meta { return newMeta(segment.MetaIndent) }

// Dedent returns a grammar inserting a dedent.
func Dedent() *Meta { return newMeta(segment.MetaDedent) }

// ImplicitIndent returns a grammar inserting an implicit indent.
func ImplicitIndent() *Meta { return newMeta(segment.MetaImplicitIndent) }

// Kind returns the meta kind inserted.
func (m *Meta) Kind() segment.MetaKind { return m.kind }

func (m *Meta) Key() string                           { return m.key }
func (m *Meta) IsOptional() bool                      { return true }
func (m *Meta) Simple(*Context, []string) *SimpleHint { return newHint(nil, nil) }
func (m *Meta) String() string                        { return metaName(m.kind) }

func (m *Meta) Match(_ []*segment.Segment, idx int, _ *Context) (*MatchResult, error) {
	return &MatchResult{Start: idx, Stop: idx, Inserts: []Insert{{Idx: idx, Meta: m.kind}}}, nil
}

func metaName(k segment.MetaKind) string {
	switch k {
	case segment.MetaDedent:
		return "Dedent"
	case segment.MetaImplicitIndent:
		return "ImplicitIndent"
	}
	return "Indent"
}

// Conditional inserts a meta only when the indentation config matches
// every rule.
type Conditional struct {
	key   string
	meta  segment.MetaKind
	rules map[string]bool
	desc  string
}

// NewConditional returns a conditional meta. It panics without rules.
func NewConditional(meta *Meta, rules map[string]bool) *Conditional {
	if len(rules) == 0 {
		panic("grammar: Conditional requires rules")
	}
	names := make([]string, 0, len(rules))
	for k, v := range rules {
		names = append(names, fmt.Sprintf("%s=%t", k, v))
	}
	sort.Strings(names)
	return &Conditional{
		key:   uuid.NewString(),
		meta:  meta.kind,
		rules: rules,
		desc:  "Conditional(" + metaName(meta.kind) + ", " + strings.Join(names, ", ") + ")",
	}
}

func (c *Conditional) enabled(ctx *Context) bool {
	for rule, want := range c.rules {
		if ctx.Indent[rule] != want {
			return false
		}
	}
	return true
}

func (c *Conditional) Key() string                           { return c.key }
func (c *Conditional) IsOptional() bool                      { return true }
func (c *Conditional) Simple(*Context, []string) *SimpleHint { return newHint(nil, nil) }
func (c *Conditional) String() string                        { return c.desc }

func (c *Conditional) Match(_ []*segment.Segment, idx int, ctx *Context) (*MatchResult, error) {
	if !c.enabled(ctx) {
		return EmptyAt(idx), nil
	}
	return &MatchResult{Start: idx, Stop: idx, Inserts: []Insert{{Idx: idx, Meta: c.meta}}}, nil
}

// nothing never matches. It stands in for rules a dialect leaves empty.
type nothing struct {
	key string
}

// Nothing returns a grammar that never matches.
func Nothing() Matcher { return &nothing{key: uuid.NewString()} }

func (n *nothing) Key() string                           { return n.key }
func (n *nothing) IsOptional() bool                      { return false }
func (n *nothing) Simple(*Context, []string) *SimpleHint { return newHint(nil, nil) }
func (n *nothing) String() string                        { return "Nothing()" }

func (n *nothing) Match(_ []*segment.Segment, idx int, _ *Context) (*MatchResult, error) {
	return EmptyAt(idx), nil
}

// Anything claims everything up to the next terminator, keeping brackets
// balanced.
type Anything struct {
	base
}

// NewAnything returns an Anything grammar.
func NewAnything(opts ...Option) *Anything {
	args := make([]any, len(opts))
	for i, o := range opts {
		args[i] = o
	}
	return &Anything{base: newBase("Anything", args)}
}

func (a *Anything) Simple(*Context, []string) *SimpleHint { return nil }

func (a *Anything) Match(segs []*segment.Segment, idx int, ctx *Context) (*MatchResult, error) {
	terms := append([]Matcher(nil), a.terminators...)
	if !a.resetTerms {
		terms = append(terms, ctx.Terminators()...)
	}
	if len(terms) == 0 {
		return &MatchResult{Start: idx, Stop: len(segs)}, nil
	}
	return greedyMatch(segs, idx, ctx, terms, false, true)
}

// nonCode matches a run of whitespace, newlines and comments.
type nonCode struct {
	key string
}

// NonCode returns a grammar matching the non-code segments at the
// current position.
func NonCode() Matcher { return &nonCode{key: "noncode"} }

func (n *nonCode) Key() string                           { return n.key }
func (n *nonCode) IsOptional() bool                      { return false }
func (n *nonCode) Simple(*Context, []string) *SimpleHint { return nil }
func (n *nonCode) String() string                        { return "NonCode()" }

func (n *nonCode) Match(segs []*segment.Segment, idx int, _ *Context) (*MatchResult, error) {
	stop := idx
	for stop < len(segs) && !segs[stop].IsCode() {
		stop++
	}
	return &MatchResult{Start: idx, Stop: stop}, nil
}
