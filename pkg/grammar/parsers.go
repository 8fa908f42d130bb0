package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/google/uuid"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// parser is the shared part of the leaf grammars. Every parser matches a
// single segment and re-types it as its raw class.
type parser struct {
	key      string
	class    segment.RawClass
	types    []string
	optional bool
}

func newParser(class segment.RawClass, typ string) parser {
	p := parser{key: uuid.NewString(), class: class}
	if typ != "" {
		p.types = []string{typ}
	}
	return p
}

func (p *parser) Key() string      { return p.key }
func (p *parser) IsOptional() bool { return p.optional }

func (p *parser) matchAt(idx int) *MatchResult {
	class := p.class
	return &MatchResult{
		Start: idx,
		Stop:  idx + 1,
		Class: &Class{Raw: &class, RawTypes: p.types},
	}
}

// ParserOption configures a leaf parser.
type ParserOption func(*parserConfig)

type parserConfig struct {
	typ          string
	optional     bool
	antiTemplate string
}

// WithType sets the instance type of matched segments.
func WithType(t string) ParserOption { return func(c *parserConfig) { c.typ = t } }

// OptionalParser marks the parser as skippable within a sequence.
func OptionalParser() ParserOption { return func(c *parserConfig) { c.optional = true } }

// AntiTemplate rejects raws that also match the given expression.
func AntiTemplate(re string) ParserOption { return func(c *parserConfig) { c.antiTemplate = re } }

func parserOpts(opts []ParserOption) parserConfig {
	var c parserConfig
	for _, o := range opts {
		o(&c)
	}
	return c
}

// StringParser matches a code segment whose raw equals the template,
// ignoring case.
type StringParser struct {
	parser
	template string
}

// NewStringParser returns a parser for a single literal.
func NewStringParser(template string, class segment.RawClass, opts ...ParserOption) *StringParser {
	c := parserOpts(opts)
	p := &StringParser{parser: newParser(class, c.typ), template: strings.ToUpper(template)}
	p.optional = c.optional
	return p
}

// Template returns the uppercase literal.
func (p *StringParser) Template() string { return p.template }

func (p *StringParser) Match(segs []*segment.Segment, idx int, _ *Context) (*MatchResult, error) {
	if idx < len(segs) && segs[idx].IsCode() && segs[idx].RawUpper() == p.template {
		return p.matchAt(idx), nil
	}
	return EmptyAt(idx), nil
}

func (p *StringParser) Simple(*Context, []string) *SimpleHint {
	return newHint([]string{p.template}, nil)
}

func (p *StringParser) String() string {
	return fmt.Sprintf("StringParser(%q, %s)", p.template, strings.Join(p.types, "|"))
}

// MultiStringParser matches a code segment whose raw is any of the
// templates.
type MultiStringParser struct {
	parser
	templates map[string]struct{}
	desc      string
}

// NewMultiStringParser returns a parser for a set of literals.
func NewMultiStringParser(templates []string, class segment.RawClass, opts ...ParserOption) *MultiStringParser {
	c := parserOpts(opts)
	p := &MultiStringParser{parser: newParser(class, c.typ), templates: map[string]struct{}{}}
	p.optional = c.optional
	upper := make([]string, 0, len(templates))
	for _, t := range templates {
		u := strings.ToUpper(t)
		p.templates[u] = struct{}{}
		upper = append(upper, u)
	}
	sort.Strings(upper)
	p.desc = fmt.Sprintf("MultiStringParser(%s, %s)", strings.Join(upper, "|"), strings.Join(p.types, "|"))
	return p
}

func (p *MultiStringParser) Match(segs []*segment.Segment, idx int, _ *Context) (*MatchResult, error) {
	if idx < len(segs) && segs[idx].IsCode() {
		if _, ok := p.templates[segs[idx].RawUpper()]; ok {
			return p.matchAt(idx), nil
		}
	}
	return EmptyAt(idx), nil
}

func (p *MultiStringParser) Simple(*Context, []string) *SimpleHint {
	return newHint(sortedKeys(p.templates), nil)
}

func (p *MultiStringParser) String() string { return p.desc }

// TypedParser matches a segment that already carries the template type.
type TypedParser struct {
	parser
	template string
}

// NewTypedParser returns a parser for segments of the given type. The
// template type is kept on the result so that it can be matched again.
func NewTypedParser(template string, class segment.RawClass, opts ...ParserOption) *TypedParser {
	c := parserOpts(opts)
	p := &TypedParser{parser: newParser(class, c.typ), template: template}
	p.optional = c.optional
	p.types = append(p.types, template)
	return p
}

func (p *TypedParser) Match(segs []*segment.Segment, idx int, _ *Context) (*MatchResult, error) {
	if idx < len(segs) && segs[idx].IsType(p.template) {
		return p.matchAt(idx), nil
	}
	return EmptyAt(idx), nil
}

func (p *TypedParser) Simple(*Context, []string) *SimpleHint {
	return newHint(nil, []string{p.template})
}

func (p *TypedParser) String() string {
	return fmt.Sprintf("TypedParser(%s, %s)", p.template, strings.Join(p.types, "|"))
}

// RegexParser matches a code segment whose uppercase raw fully matches the
// template and does not match the anti-template.
type RegexParser struct {
	parser
	template string
	anti     string
	re       *regexp2.Regexp
	antiRe   *regexp2.Regexp
}

// NewRegexParser returns a parser for a regular expression. Matching is
// case insensitive.
func NewRegexParser(template string, class segment.RawClass, opts ...ParserOption) *RegexParser {
	c := parserOpts(opts)
	p := &RegexParser{
		parser:   newParser(class, c.typ),
		template: template,
		anti:     c.antiTemplate,
		re:       regexp2.MustCompile(`\A(?:`+template+`)\z`, regexp2.IgnoreCase),
	}
	p.optional = c.optional
	if c.antiTemplate != "" {
		p.antiRe = regexp2.MustCompile(`\A(?:`+c.antiTemplate+`)`, regexp2.IgnoreCase)
	}
	return p
}

func (p *RegexParser) Match(segs []*segment.Segment, idx int, _ *Context) (*MatchResult, error) {
	if idx >= len(segs) || !segs[idx].IsCode() {
		return EmptyAt(idx), nil
	}
	raw := segs[idx].RawUpper()
	if ok, err := p.re.MatchString(raw); err != nil || !ok {
		return EmptyAt(idx), nil
	}
	if p.antiRe != nil {
		if bad, err := p.antiRe.MatchString(raw); err == nil && bad {
			return EmptyAt(idx), nil
		}
	}
	return p.matchAt(idx), nil
}

// Simple returns nil: a regex cannot be reduced to a first-token set.
func (p *RegexParser) Simple(*Context, []string) *SimpleHint { return nil }

func (p *RegexParser) String() string {
	return fmt.Sprintf("RegexParser(%q, %s)", p.template, strings.Join(p.types, "|"))
}

// Token matches a segment of the given type and keeps it unchanged.
type Token struct {
	key      string
	typ      string
	optional bool
}

// NewToken returns a Token grammar.
func NewToken(typ string) *Token {
	return &Token{key: uuid.NewString(), typ: typ}
}

func (t *Token) Key() string      { return t.key }
func (t *Token) IsOptional() bool { return t.optional }
func (t *Token) String() string   { return fmt.Sprintf("Token(%s)", t.typ) }

func (t *Token) Match(segs []*segment.Segment, idx int, _ *Context) (*MatchResult, error) {
	if idx < len(segs) && segs[idx].IsType(t.typ) {
		return &MatchResult{Start: idx, Stop: idx + 1}, nil
	}
	return EmptyAt(idx), nil
}

func (t *Token) Simple(*Context, []string) *SimpleHint {
	return newHint(nil, []string{t.typ})
}
