package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

const naked = "NakedIdentifierSegment"

// ---------- Parser Tests ----------

func TestStringParser(t *testing.T) {
	lib := newTestLibrary()
	p := NewStringParser("select", segment.Keyword, WithType("keyword"))

	tests := []struct {
		name string
		sql  string
		want bool
	}{
		{"upper", "SELECT", true},
		{"mixed case", "SeLeCt", true},
		{"other word", "selects", false},
		{"whitespace", " select", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := matchSQL(t, lib, p, tt.sql)
			assert.Equal(t, tt.want, res.Matched())
		})
	}
}

func TestRegexParserAntiTemplate(t *testing.T) {
	lib := newTestLibrary()
	ident, _ := lib.Grammar(naked)

	res, segs := matchSQL(t, lib, ident, "my_col")
	require.True(t, res.Matched())
	built, types := applied(t, res, segs)
	assert.Equal(t, []string{"naked_identifier"}, types)
	assert.True(t, built[0].IsType("identifier"))

	res, _ = matchSQL(t, lib, ident, "from")
	assert.False(t, res.Matched())
}

func TestTypedParserAndToken(t *testing.T) {
	lib := newTestLibrary()
	segs := split("x")

	typed := NewTypedParser("word", segment.Literal, WithType("numeric_literal"))
	res, err := typed.Match(segs, 0, newTestContext(lib))
	require.NoError(t, err)
	built, err := res.Apply(segs)
	require.NoError(t, err)
	assert.Equal(t, "numeric_literal", built[0].Type())
	assert.True(t, built[0].IsType("word", "literal"))

	tok := NewToken("word")
	res, err = tok.Match(segs, 0, newTestContext(lib))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Len())
	assert.Nil(t, res.Class)
}

// ---------- Sequence Tests ----------

func TestSequence(t *testing.T) {
	lib := newTestLibrary()
	lib.define("SelectStatementSegment", "select_statement", Seq("select", NewRef(naked)))
	ref := NewRef("SelectStatementSegment")

	res, segs := matchSQL(t, lib, ref, "select a")
	require.True(t, res.Matched())
	built, types := applied(t, res, segs)
	assert.Equal(t, []string{"select_statement"}, types)
	assert.Equal(t, "select a", built[0].Text())

	var childTypes []string
	for _, c := range built[0].Children {
		childTypes = append(childTypes, c.Type())
	}
	assert.Equal(t, []string{"keyword", "whitespace", "naked_identifier"}, childTypes)

	res, _ = matchSQL(t, lib, ref, "select from")
	assert.False(t, res.Matched())
}

func TestSequenceNoGaps(t *testing.T) {
	lib := newTestLibrary()
	g := Seq(NewRef(naked), NewRef("CommaSegment"), NoGaps())

	res, _ := matchSQL(t, lib, g, "a,")
	assert.Equal(t, 2, res.Stop)

	res, _ = matchSQL(t, lib, g, "a ,")
	assert.False(t, res.Matched())
}

func TestSequenceMetas(t *testing.T) {
	lib := newTestLibrary()
	g := Seq("select", Indent(), NewRef(naked), Dedent())

	res, segs := matchSQL(t, lib, g, "select a")
	_, types := applied(t, res, segs)
	assert.Equal(t, []string{"keyword", "indent", "whitespace", "naked_identifier", "dedent"}, types)
}

func TestSequenceConditional(t *testing.T) {
	lib := newTestLibrary()
	g := Seq("select", NewConditional(Indent(), map[string]bool{"indented_joins": true}), NewRef(naked))

	res, segs := matchSQL(t, lib, g, "select a")
	_, types := applied(t, res, segs)
	assert.Equal(t, []string{"keyword", "whitespace", "naked_identifier"}, types)

	res, segs = matchSQL(t, lib, g, "select a", WithIndentConfig(IndentConfig{"indented_joins": true}))
	_, types = applied(t, res, segs)
	assert.Equal(t, []string{"keyword", "indent", "whitespace", "naked_identifier"}, types)
}

func TestSequenceGreedy(t *testing.T) {
	lib := newTestLibrary()
	g := Seq("select", NewRef(naked), Mode(Greedy))

	t.Run("leftover code is unparsable", func(t *testing.T) {
		res, segs := matchSQL(t, lib, g, "select a b")
		require.Equal(t, len(segs), res.Stop)
		built, types := applied(t, res, segs)
		assert.Equal(t, []string{"keyword", "whitespace", "naked_identifier", "whitespace", "unparsable"}, types)
		assert.Equal(t, "Nothing here.", built[4].Expected)
	})

	t.Run("failed start is unparsable", func(t *testing.T) {
		res, segs := matchSQL(t, lib, g, "from a")
		require.NotNil(t, res.Class)
		assert.Equal(t, segment.TypeUnparsable, res.Class.Node)
		assert.Equal(t, len(segs), res.Stop)
		assert.Contains(t, res.Class.Expected, "to start sequence")
	})

	t.Run("once started waits for first element", func(t *testing.T) {
		once := Seq("select", NewRef(naked), Mode(GreedyOnceStarted))
		res, _ := matchSQL(t, lib, once, "from a")
		assert.False(t, res.Matched())
	})
}

// ---------- AnyNumberOf Tests ----------

func TestOneOfLongest(t *testing.T) {
	lib := newTestLibrary()
	g := OneOf("a", Seq("a", "b"))

	res, _ := matchSQL(t, lib, g, "a b c")
	assert.Equal(t, 3, res.Stop)

	res, _ = matchSQL(t, lib, g, "a c")
	assert.Equal(t, 1, res.Stop)

	assert.False(t, g.IsOptional())
}

func TestAnyNumberOf(t *testing.T) {
	lib := newTestLibrary()
	sql := "a b a c"

	tests := []struct {
		name     string
		g        Matcher
		wantStop int
		matched  bool
	}{
		{"unbounded", AnyOf("a", "b"), 5, true},
		{"max times", AnyOf("a", "b", MaxTimes(2)), 3, true},
		{"min times not reached", AnyOf("a", "b", MinTimes(4)), 0, false},
		{"set stops at repeat", AnySetOf("a", "b"), 3, true},
		{"excluded", AnyOf("a", "b", Exclude("a")), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := matchSQL(t, lib, tt.g, sql)
			assert.Equal(t, tt.matched, res.Matched())
			assert.Equal(t, tt.wantStop, res.Stop)
		})
	}
}

func TestOptionallyBracketed(t *testing.T) {
	lib := newTestLibrary()
	g := OptionallyBracketed(NewRef(naked))

	res, segs := matchSQL(t, lib, g, "(a)")
	_, types := applied(t, res, segs)
	assert.Equal(t, []string{"bracketed"}, types)

	res, segs = matchSQL(t, lib, g, "a")
	_, types = applied(t, res, segs)
	assert.Equal(t, []string{"naked_identifier"}, types)
}

// ---------- Delimited Tests ----------

func TestDelimited(t *testing.T) {
	lib := newTestLibrary()

	tests := []struct {
		name     string
		g        Matcher
		sql      string
		wantStop int
	}{
		{"list", NewDelimited(NewRef(naked)), "a, b, c", 7},
		{"trailing rejected", NewDelimited(NewRef(naked)), "a, b,", 4},
		{"trailing allowed", NewDelimited(NewRef(naked), AllowTrailing()), "a, b,", 5},
		{"min delimiters", NewDelimited(NewRef(naked), MinDelimiters(3)), "a, b, c", 0},
		{"terminator", NewDelimited(NewRef(naked), Terminators("b")), "a, b", 1},
		{"custom delimiter", NewDelimited(NewRef(naked), Delimiter("and")), "x and y", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := matchSQL(t, lib, tt.g, tt.sql)
			assert.Equal(t, tt.wantStop, res.Stop)
		})
	}
}

func TestDelimitedChildren(t *testing.T) {
	lib := newTestLibrary()
	res, segs := matchSQL(t, lib, NewDelimited(NewRef(naked)), "a, b")
	_, types := applied(t, res, segs)
	assert.Equal(t, []string{"naked_identifier", "comma", "whitespace", "naked_identifier"}, types)
}

// ---------- Bracketed Tests ----------

func TestBracketed(t *testing.T) {
	lib := newTestLibrary()
	g := Brackets(NewRef(naked))

	res, segs := matchSQL(t, lib, g, "( a )")
	built, types := applied(t, res, segs)
	require.Equal(t, []string{"bracketed"}, types)

	var inner []string
	for _, c := range built[0].Children {
		inner = append(inner, c.Type())
	}
	assert.Equal(t, []string{"start_bracket", "indent", "whitespace", "naked_identifier", "whitespace", "dedent", "end_bracket"}, inner)
	assert.Equal(t, "( a )", built[0].Text())
}

func TestBracketedSquare(t *testing.T) {
	lib := newTestLibrary()
	res, _ := matchSQL(t, lib, Brackets(NewRef(naked), BracketType("square")), "[a]")
	assert.Equal(t, 3, res.Stop)

	res, _ = matchSQL(t, lib, Brackets(NewRef(naked), BracketType("square")), "(a)")
	assert.False(t, res.Matched())
}

func TestBracketedUnclosed(t *testing.T) {
	lib := newTestLibrary()

	res, _ := matchSQL(t, lib, Brackets(NewRef(naked)), "( a")
	assert.False(t, res.Matched())

	segs := split("( a")
	_, err := Brackets(NewRef(naked), Mode(Greedy)).Match(segs, 0, newTestContext(lib))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrMsgUnclosedBracket, perr.Message)
	assert.Equal(t, 1, perr.Pos.Column)
}

// ---------- Ref Tests ----------

func TestRefUnknownRule(t *testing.T) {
	lib := newTestLibrary()
	_, err := NewRef("MissingSegment").Match(split("a"), 0, newTestContext(lib))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownRule))
}

func TestKeywordRule(t *testing.T) {
	assert.Equal(t, "SelectKeywordSegment", KeywordRule("select"))
	assert.Equal(t, "QueryKeywordSegment", KeywordRule("QUERY"))
	assert.Equal(t, "Ref(SelectKeywordSegment, optional)", Keyword("select", Optional()).String())
}

func TestRefNames(t *testing.T) {
	g := Seq("select", OneOf(NewRef(naked), NewRef("StarSegment")), NewDelimited(NewRef(naked)))
	assert.Equal(t, []string{"SelectKeywordSegment", naked, "StarSegment", "CommaSegment"}, RefNames(g))
}

func TestInsertInto(t *testing.T) {
	lib := newTestLibrary()
	orig := Seq("select", NewRef(naked))

	g := InsertInto(orig, "from", NewRef(naked))
	require.IsType(t, &Sequence{}, g)
	assert.NotEqual(t, orig.Key(), g.Key())
	assert.Len(t, orig.Elements(), 2)
	assert.Len(t, g.(*Sequence).Elements(), 4)
	assert.NotEqual(t, orig.String(), g.String())

	res, _ := matchSQL(t, lib, g, "select a from b")
	assert.Equal(t, 7, res.Stop)
	res, _ = matchSQL(t, lib, orig, "select a from b")
	assert.Equal(t, 3, res.Stop)

	assert.Panics(t, func() { InsertInto(NewRef(naked), "x") })
}

// ---------- Hint Tests ----------

func TestSimpleHints(t *testing.T) {
	lib := newTestLibrary()
	ctx := newTestContext(lib)

	h := Seq(Keyword("a", Optional()), "b", "c").Simple(ctx, nil)
	require.NotNil(t, h)
	assert.Equal(t, []string{"A", "B"}, h.SortedRaws())

	assert.Nil(t, NewRef(naked).Simple(ctx, nil))

	lib.define("LoopSegment", "", OneOf(NewRef("LoopSegment"), "x"))
	assert.Nil(t, NewRef("LoopSegment").Simple(ctx, nil))

	h = Brackets(NewRef(naked)).Simple(ctx, nil)
	require.NotNil(t, h)
	assert.Equal(t, []string{"("}, h.SortedRaws())
}

func TestIsKeywordHint(t *testing.T) {
	tests := []struct {
		name string
		hint *SimpleHint
		want bool
	}{
		{"nil", nil, false},
		{"empty", newHint(nil, nil), false},
		{"keywords", newHint([]string{"FROM", "WHERE"}, nil), true},
		{"symbol", newHint([]string{"("}, nil), false},
		{"underscore", newHint([]string{"ORDER_BY"}, nil), false},
		{"typed", newHint([]string{"FROM"}, []string{"keyword"}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isKeywordHint(tt.hint))
		})
	}
}

// ---------- Algorithm Tests ----------

func TestTrimToTerminator(t *testing.T) {
	lib := newTestLibrary()
	ctx := newTestContext(lib)
	segs := split("a b from c")

	stop, err := trimToTerminator(segs, 0, []Matcher{Keyword("from")}, ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stop)

	stop, err = trimToTerminator(segs, 4, []Matcher{Keyword("from")}, ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stop)
}

func TestAnythingStopsAtTerminator(t *testing.T) {
	lib := newTestLibrary()

	res, _ := matchSQL(t, lib, NewAnything(Terminators("from")), "a (from) b from c")
	assert.Equal(t, 7, res.Stop)

	res, segs := matchSQL(t, lib, NewAnything(), "a b")
	assert.Equal(t, len(segs), res.Stop)
}

func TestContextDeeper(t *testing.T) {
	ctx := newTestContext(newTestLibrary())

	restore := ctx.Deeper(false, []Matcher{NewRef("CommaSegment")})
	assert.Len(t, ctx.Terminators(), 1)

	inner := ctx.Deeper(false, []Matcher{NewRef("CommaSegment"), Keyword("from")})
	assert.Len(t, ctx.Terminators(), 2)

	cleared := ctx.Deeper(true, []Matcher{Keyword("where")})
	assert.Len(t, ctx.Terminators(), 1)
	assert.Equal(t, 3, ctx.Stats.MaxDepth)

	cleared()
	inner()
	restore()
	assert.Empty(t, ctx.Terminators())
}

func TestMatchResultApplyOverlap(t *testing.T) {
	segs := split("a b")
	res := &MatchResult{
		Start: 0,
		Stop:  3,
		Children: []*MatchResult{
			{Start: 0, Stop: 2, Class: NodeClass("x")},
			{Start: 1, Stop: 3, Class: NodeClass("y")},
		},
	}
	_, err := res.Apply(segs)
	assert.ErrorIs(t, err, ErrOverlap)
}
