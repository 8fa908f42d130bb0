package grammar

import (
	"context"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
	"github.com/leapstack-labs/leapfluff/pkg/token"
)

// testLibrary is a minimal dialect. Any "<Word>KeywordSegment" rule is
// created on first use.
type testLibrary struct {
	rules map[string]Matcher
	types map[string]string
	pairs []BracketPair
	hints HintCache
}

func newTestLibrary() *testLibrary {
	return &testLibrary{
		rules: map[string]Matcher{
			"CommaSegment":              NewStringParser(",", segment.Symbol, WithType("comma")),
			"StartBracketSegment":       NewStringParser("(", segment.Symbol, WithType("start_bracket")),
			"EndBracketSegment":         NewStringParser(")", segment.Symbol, WithType("end_bracket")),
			"StartSquareBracketSegment": NewStringParser("[", segment.Symbol, WithType("start_square_bracket")),
			"EndSquareBracketSegment":   NewStringParser("]", segment.Symbol, WithType("end_square_bracket")),
			"NakedIdentifierSegment": NewRegexParser(`[A-Z_][A-Z0-9_]*`, segment.Identifier,
				WithType("naked_identifier"), AntiTemplate(`^(SELECT|FROM)$`)),
		},
		types: map[string]string{},
		pairs: []BracketPair{
			{Type: "round", Start: "StartBracketSegment", End: "EndBracketSegment", Persists: true},
			{Type: "square", Start: "StartSquareBracketSegment", End: "EndSquareBracketSegment", Persists: true},
		},
	}
}

func (l *testLibrary) define(name, typ string, m Matcher) {
	l.rules[name] = m
	if typ != "" {
		l.types[name] = typ
	}
}

func (l *testLibrary) Name() string { return "test" }

func (l *testLibrary) Grammar(name string) (Matcher, bool) {
	if m, ok := l.rules[name]; ok {
		return m, true
	}
	if kw, ok := strings.CutSuffix(name, "KeywordSegment"); ok && kw != "" {
		m := NewStringParser(kw, segment.Keyword, WithType("keyword"))
		l.rules[name] = m
		return m, true
	}
	return nil, false
}

func (l *testLibrary) SegmentType(name string) (string, bool) {
	t, ok := l.types[name]
	return t, ok
}

func (l *testLibrary) BracketPairs(set string) []BracketPair {
	if set != "bracket_pairs" {
		return nil
	}
	return l.pairs
}

func (l *testLibrary) Hints() *HintCache { return &l.hints }

// split cuts sql into words, runs of spaces, newlines and single symbols.
func split(sql string) []*segment.Segment {
	isWord := func(r rune) bool { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
	var out []*segment.Segment
	pos := token.Start
	rs := []rune(sql)
	for i := 0; i < len(rs); {
		j := i + 1
		class := segment.Symbol
		switch r := rs[i]; {
		case r == '\n':
			class = segment.Newline
		case r == ' ':
			for j < len(rs) && rs[j] == ' ' {
				j++
			}
			class = segment.Whitespace
		case isWord(r):
			for j < len(rs) && isWord(rs[j]) {
				j++
			}
			class = segment.Word
		}
		raw := string(rs[i:j])
		out = append(out, segment.NewRaw(class, raw, pos))
		pos = pos.Advance(raw)
		i = j
	}
	return out
}

func newTestContext(lib *testLibrary, opts ...ContextOption) *Context {
	return NewContext(context.Background(), lib, opts...)
}

// matchSQL matches m at the start of sql.
func matchSQL(t *testing.T, lib *testLibrary, m Matcher, sql string, opts ...ContextOption) (*MatchResult, []*segment.Segment) {
	t.Helper()
	segs := split(sql)
	res, err := m.Match(segs, 0, newTestContext(lib, opts...))
	require.NoError(t, err)
	return res, segs
}

// applied builds the result and returns the types of the top-level
// segments.
func applied(t *testing.T, res *MatchResult, segs []*segment.Segment) ([]*segment.Segment, []string) {
	t.Helper()
	built, err := res.Apply(segs)
	require.NoError(t, err)
	types := make([]string, len(built))
	for i, s := range built {
		types[i] = s.Type()
	}
	return built, types
}
