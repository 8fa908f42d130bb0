package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Matcher recognises one kind of token at the start of the remaining input.
type Matcher struct {
	Name  string
	Class segment.RawClass
	// Type overrides the instance type of produced segments. Defaults to
	// Name.
	Type string

	literal  []rune
	pattern  string
	anchored *regexp2.Regexp
	search   *regexp2.Regexp

	subdivider  *Matcher
	trimPostDiv *Matcher
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithType sets the instance type of produced segments.
func WithType(t string) Option {
	return func(m *Matcher) { m.Type = t }
}

// WithSubdivider splits matched text on the subdivider, emitting the
// subdivider matches as their own segments.
func WithSubdivider(sub *Matcher) Option {
	return func(m *Matcher) { m.subdivider = sub }
}

// WithTrimPostSubdivide splits leading and trailing runs of trim from each
// subdivided piece.
func WithTrimPostSubdivide(trim *Matcher) Option {
	return func(m *Matcher) { m.trimPostDiv = trim }
}

// String returns a matcher for a fixed string.
func String(name, template string, class segment.RawClass, opts ...Option) *Matcher {
	m := &Matcher{Name: name, Class: class, literal: []rune(template)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Regex returns a matcher for a regular expression. The expression is
// anchored at the current position and may use lookaround.
func Regex(name, pattern string, class segment.RawClass, opts ...Option) *Matcher {
	m := &Matcher{
		Name:     name,
		Class:    class,
		pattern:  pattern,
		anchored: regexp2.MustCompile(`\G(?:`+pattern+`)`, regexp2.None),
		search:   regexp2.MustCompile(pattern, regexp2.None),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Pattern returns the template of the matcher: the literal for string
// matchers and the expression for regex matchers.
func (m *Matcher) Pattern() string {
	if m.literal != nil {
		return string(m.literal)
	}
	return m.pattern
}

// IsRegex reports whether the matcher is regex based.
func (m *Matcher) IsRegex() bool { return m.anchored != nil }

func (m *Matcher) instanceType() string {
	if m.Type != "" {
		return m.Type
	}
	return m.Name
}

// matchAt returns the number of runes matched at pos, or 0.
func (m *Matcher) matchAt(input []rune, pos int) int {
	if m.anchored == nil {
		if len(m.literal) == 0 || len(input)-pos < len(m.literal) {
			return 0
		}
		for i, r := range m.literal {
			if input[pos+i] != r {
				return 0
			}
		}
		return len(m.literal)
	}
	match, err := m.anchored.FindRunesMatchStartingAt(input, pos)
	if err != nil || match == nil || match.Index != pos {
		return 0
	}
	return match.Length
}

// searchIn finds the first match of the matcher inside s, returning byte
// offsets.
func (m *Matcher) searchIn(s string) (start, end int, ok bool) {
	if m.anchored == nil {
		idx := strings.Index(s, string(m.literal))
		if idx < 0 {
			return 0, 0, false
		}
		return idx, idx + len(string(m.literal)), true
	}
	runes, offsets := decode(s)
	match, err := m.search.FindRunesMatch(runes)
	if err != nil || match == nil || match.Length == 0 {
		return 0, 0, false
	}
	return offsets[match.Index], offsets[match.Index+match.Length], true
}

// decode splits s into runes and records the byte offset of each one,
// plus a final entry for len(s). Invalid UTF-8 bytes decode to one
// replacement rune each, so slicing s by the offsets keeps the original
// bytes.
func decode(s string) ([]rune, []int) {
	runes := make([]rune, 0, len(s))
	offsets := make([]int, 0, len(s)+1)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		runes = append(runes, r)
		offsets = append(offsets, i)
		i += size
	}
	return runes, append(offsets, len(s))
}

type element struct {
	raw     string
	matcher *Matcher
}

// elements splits matched text according to the subdivider and trim
// settings.
func (m *Matcher) elements(raw string) []element {
	if m.subdivider == nil {
		return []element{{raw: raw, matcher: m}}
	}
	var out []element
	buf := raw
	for buf != "" {
		start, end, ok := m.subdivider.searchIn(buf)
		if !ok {
			out = append(out, m.trim(buf)...)
			break
		}
		out = append(out, m.trim(buf[:start])...)
		out = append(out, element{raw: buf[start:end], matcher: m.subdivider})
		buf = buf[end:]
	}
	return out
}

func (m *Matcher) trim(s string) []element {
	var out []element
	content := ""
	buf := s
	if m.trimPostDiv != nil {
	scan:
		for buf != "" {
			start, end, ok := m.trimPostDiv.searchIn(buf)
			switch {
			case !ok:
				break scan
			case start == 0:
				out = append(out, element{raw: buf[:end], matcher: m.trimPostDiv})
				buf = buf[end:]
			case end == len(buf):
				out = append(out,
					element{raw: content + buf[:start], matcher: m},
					element{raw: buf[start:end], matcher: m.trimPostDiv},
				)
				content, buf = "", ""
			default:
				content += buf[:end]
				buf = buf[end:]
			}
		}
	}
	if content+buf != "" {
		out = append(out, element{raw: content + buf, matcher: m})
	}
	return out
}

func (m *Matcher) String() string {
	if m.anchored == nil {
		return fmt.Sprintf("<StringMatcher %s %q>", m.Name, string(m.literal))
	}
	return fmt.Sprintf("<RegexMatcher %s %q>", m.Name, m.pattern)
}

// Matchers is an ordered matcher list. Earlier matchers take precedence.
type Matchers []*Matcher

// Names returns the matcher names in order.
func (ms Matchers) Names() []string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name
	}
	return names
}

// Patch returns a copy of ms with matchers replaced by name.
func (ms Matchers) Patch(replacements ...*Matcher) Matchers {
	byName := make(map[string]*Matcher, len(replacements))
	for _, r := range replacements {
		byName[r.Name] = r
	}
	out := make(Matchers, len(ms))
	for i, m := range ms {
		if r, ok := byName[m.Name]; ok {
			out[i] = r
			continue
		}
		out[i] = m
	}
	return out
}

// InsertBefore returns a copy of ms with extra matchers inserted ahead of
// the named matcher. It panics if the name is unknown, as that is a
// dialect definition bug.
func (ms Matchers) InsertBefore(name string, extra ...*Matcher) Matchers {
	for i, m := range ms {
		if m.Name != name {
			continue
		}
		out := make(Matchers, 0, len(ms)+len(extra))
		out = append(out, ms[:i]...)
		out = append(out, extra...)
		out = append(out, ms[i:]...)
		return out
	}
	panic(fmt.Sprintf("lexer: no matcher named %q", name))
}
