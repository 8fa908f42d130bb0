package grammar

import (
	"strings"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Ref refers to a rule of the dialect by name. The rule is resolved at
// match time, so dialects can replace rules that other rules refer to.
type Ref struct {
	base
	name string
}

// NewRef returns a reference to the named rule.
func NewRef(name string, opts ...Option) *Ref {
	args := make([]any, len(opts))
	for i, o := range opts {
		args[i] = o
	}
	r := &Ref{base: newBase("Ref", args), name: name}
	if rest := strings.TrimSuffix(strings.TrimPrefix(r.desc, "Ref("), ")"); rest != "" {
		r.desc = "Ref(" + name + ", " + rest + ")"
	} else {
		r.desc = "Ref(" + name + ")"
	}
	return r
}

// Keyword returns a reference to the keyword segment for kw, so that
// Keyword("select") refers to "SelectKeywordSegment".
func Keyword(kw string, opts ...Option) *Ref {
	return NewRef(KeywordRule(kw), opts...)
}

// KeywordRule returns the rule name of a keyword segment.
func KeywordRule(kw string) string {
	if kw == "" {
		return "KeywordSegment"
	}
	return strings.ToUpper(kw[:1]) + strings.ToLower(kw[1:]) + "KeywordSegment"
}

// Name returns the referenced rule name.
func (r *Ref) Name() string { return r.name }

func (r *Ref) resolve(ctx *Context) (Matcher, error) {
	elem, ok := ctx.Dialect.Grammar(r.name)
	if !ok {
		return nil, &ParseError{Message: "grammar " + r.name + " not found in dialect " + ctx.Dialect.Name(), Err: ErrUnknownRule}
	}
	return elem, nil
}

// Simple resolves the rule and returns its hint. A rule that refers back
// to itself before consuming anything has no hint.
func (r *Ref) Simple(ctx *Context, crumbs []string) *SimpleHint {
	for _, c := range crumbs {
		if c == r.name {
			return nil
		}
	}
	cache := ctx.Dialect.Hints()
	if h, ok := cache.get(r.name); ok {
		return h
	}
	elem, err := r.resolve(ctx)
	if err != nil {
		return nil
	}
	h := elem.Simple(ctx, append(append([]string(nil), crumbs...), r.name))
	cache.put(r.name, h)
	return h
}

func (r *Ref) Match(segs []*segment.Segment, idx int, ctx *Context) (*MatchResult, error) {
	elem, err := r.resolve(ctx)
	if err != nil {
		return nil, err
	}

	restore := ctx.Deeper(r.resetTerms, r.terminators)
	defer restore()

	if r.exclude != nil {
		ex, err := r.exclude.Match(segs, idx, ctx)
		if err != nil {
			return nil, err
		}
		if ex.Matched() {
			return EmptyAt(idx), nil
		}
	}

	res, err := elem.Match(segs, idx, ctx)
	if err != nil {
		return nil, err
	}
	if typ, ok := ctx.Dialect.SegmentType(r.name); ok {
		return res.Wrap(NodeClass(typ)), nil
	}
	return res, nil
}
