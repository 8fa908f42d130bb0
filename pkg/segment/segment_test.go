package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfluff/pkg/token"
)

// tree builds "SELECT a" as select_statement(keyword, whitespace, column).
func tree() *Segment {
	sel := NewRaw(Keyword, "SELECT", token.Start, "keyword")
	ws := NewRaw(Whitespace, " ", token.Start.Advance("SELECT"))
	col := NewRaw(Identifier, "a", token.Start.Advance("SELECT "), "naked_identifier")
	ref := NewNode("column_reference", []*Segment{col})
	return NewNode("select_statement", []*Segment{
		sel,
		NewMeta(MetaIndent, ws.Pos),
		ws,
		ref,
		NewMeta(MetaDedent, ref.End()),
	})
}

func TestNewRaw_Types(t *testing.T) {
	tests := []struct {
		name     string
		seg      *Segment
		wantType string
		types    []string
		code     bool
	}{
		{
			name:     "instance type first",
			seg:      NewRaw(Identifier, "a", token.Start, "naked_identifier"),
			wantType: "naked_identifier",
			types:    []string{"naked_identifier", "identifier"},
			code:     true,
		},
		{
			name:     "duplicate dropped",
			seg:      NewRaw(Keyword, "SELECT", token.Start, "keyword"),
			wantType: "keyword",
			types:    []string{"keyword"},
			code:     true,
		},
		{
			name:     "class type only",
			seg:      NewRaw(Whitespace, " ", token.Start),
			wantType: "whitespace",
			types:    []string{"whitespace"},
		},
		{
			name:     "literal keyword",
			seg:      NewRaw(LiteralKeyword, "NULL", token.Start, "null_literal"),
			wantType: "null_literal",
			types:    []string{"null_literal", "literal", "keyword"},
			code:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.seg.Type())
			assert.Equal(t, tt.types, tt.seg.Types)
			assert.Equal(t, tt.code, tt.seg.IsCode())
			assert.True(t, tt.seg.IsRaw())
		})
	}
}

func TestSegment_Text(t *testing.T) {
	root := tree()
	assert.Equal(t, "SELECT a", root.Text())
	assert.Equal(t, "SELECT A", root.RawUpper())
	assert.Equal(t, token.Position{Line: 1, Column: 9, Offset: 8}, root.End())

	span := root.Span()
	assert.Equal(t, token.Start, span.Start)
	assert.True(t, span.Contains(7))
	assert.False(t, span.Contains(8))
}

func TestSegment_Walk(t *testing.T) {
	root := tree()

	var visited []string
	root.Walk(func(s *Segment) bool {
		visited = append(visited, s.Type())
		return !s.IsType("column_reference")
	})
	assert.Equal(t, []string{"select_statement", "keyword", "indent", "whitespace", "column_reference", "dedent"}, visited,
		"returning false skips the children")

	raws := root.RawSegments()
	require.Len(t, raws, 5)
	assert.True(t, raws[1].IsMeta())
	assert.Equal(t, "a", raws[3].Raw)
}

func TestSegment_Queries(t *testing.T) {
	root := tree()

	assert.Len(t, root.Find("identifier"), 1)
	assert.Len(t, root.Find("select_statement", "keyword"), 2)
	assert.NotNil(t, root.Child("column_reference"))
	assert.Nil(t, root.Child("naked_identifier"), "Child only looks one level down")

	code := root.CodeChildren()
	require.Len(t, code, 2)
	assert.Equal(t, "keyword", code[0].Type())
	assert.Equal(t, "column_reference", code[1].Type())
}

func TestSegment_Flags(t *testing.T) {
	nl := NewRaw(Newline, "\n", token.Start)
	assert.True(t, nl.IsNewline())
	assert.True(t, nl.IsWhitespace())
	assert.False(t, nl.IsCode())

	c := NewRaw(Comment, "-- hi", token.Start, "inline_comment")
	assert.True(t, c.IsComment())
	assert.False(t, c.IsWhitespace())
	assert.True(t, c.IsType("comment"))

	node := NewNode("expression", []*Segment{NewRaw(Whitespace, " ", token.Start)})
	assert.False(t, node.IsCode(), "a node is code only if a descendant is")
	assert.False(t, node.IsWhitespace())

	re := Retype(NewRaw(Code, "x", token.Start), Keyword, "keyword")
	assert.Equal(t, "keyword", re.Type())
	assert.Equal(t, "x", re.Raw)
}

func TestMeta(t *testing.T) {
	tests := []struct {
		kind     MetaKind
		typ      string
		indent   int
		implicit bool
	}{
		{MetaIndent, TypeIndent, 1, false},
		{MetaImplicitIndent, TypeIndent, 1, true},
		{MetaDedent, TypeDedent, -1, false},
		{MetaEndOfFile, TypeEndOfFile, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			m := NewMeta(tt.kind, token.Start)
			assert.Equal(t, tt.typ, m.Type())
			assert.Equal(t, tt.indent, m.Indent)
			assert.Equal(t, tt.implicit, m.Implicit)
			assert.False(t, m.IsCode())
			assert.Empty(t, m.Text())
		})
	}
}

func TestNewUnparsable(t *testing.T) {
	u := NewUnparsable([]*Segment{NewRaw(Code, "x", token.Position{Line: 2, Column: 3, Offset: 9})}, "SelectStatementSegment")
	assert.Equal(t, TypeUnparsable, u.Type())
	assert.Equal(t, "SelectStatementSegment", u.Expected)
	assert.Equal(t, 2, u.Pos.Line)

	empty := NewNode("file", nil)
	assert.False(t, empty.Pos.IsValid())
}
