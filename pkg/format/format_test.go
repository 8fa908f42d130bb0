package format

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	_ "github.com/leapstack-labs/leapfluff/pkg/dialects/sqlite"
	"github.com/leapstack-labs/leapfluff/pkg/parser"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
	"github.com/leapstack-labs/leapfluff/pkg/token"
)

func at(col int) token.Position {
	return token.Position{Line: 1, Column: col, Offset: col - 1}
}

// selectOne builds the tree of "SELECT 1" by hand.
func selectOne() *segment.Segment {
	clause := segment.NewNode("select_clause", []*segment.Segment{
		segment.NewRaw(segment.Keyword, "SELECT", at(1)),
		segment.NewMeta(segment.MetaIndent, at(7)),
		segment.NewRaw(segment.Whitespace, " ", at(7)),
		segment.NewRaw(segment.Literal, "1", at(8), "numeric_literal"),
		segment.NewMeta(segment.MetaDedent, at(9)),
	})
	return segment.NewNode(segment.TypeFile, []*segment.Segment{clause})
}

func line(col, depth int, label, raw string) string {
	prefix := fmt.Sprintf("%-20s|", fmt.Sprintf("[L:%3d, P:%3d]", 1, col))
	padded := strings.Repeat(" ", depth*4) + label
	if raw == "" {
		return prefix + padded + "\n"
	}
	return prefix + fmt.Sprintf("%-60s  %s", padded, raw) + "\n"
}

func TestRenderHuman(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "default",
			opts: Options{},
			want: line(1, 0, "file:", "") +
				line(1, 1, "select_clause:", "") +
				line(1, 2, "keyword:", "'SELECT'") +
				line(7, 2, "whitespace:", "' '") +
				line(8, 2, "numeric_literal:", "'1'"),
		},
		{
			name: "metas",
			opts: Options{Format: Human, Metas: true},
			want: line(1, 0, "file:", "") +
				line(1, 1, "select_clause:", "") +
				line(1, 2, "keyword:", "'SELECT'") +
				line(7, 2, "[META] indent:", "") +
				line(7, 2, "whitespace:", "' '") +
				line(8, 2, "numeric_literal:", "'1'") +
				line(9, 2, "[META] dedent:", ""),
		},
		{
			name: "code only",
			opts: Options{Format: Human, CodeOnly: true, Metas: true},
			want: line(1, 0, "file:", "") +
				line(1, 1, "select_clause:", "") +
				line(1, 2, "keyword:", "'SELECT'") +
				line(8, 2, "numeric_literal:", "'1'"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String(selectOne(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderHumanUnparsable(t *testing.T) {
	bad := segment.NewUnparsable([]*segment.Segment{
		segment.NewRaw(segment.Word, "oops", at(1)),
	}, "Nothing else in FileSegment.")
	tree := segment.NewNode(segment.TypeFile, []*segment.Segment{bad})

	got, err := String(tree, Options{})
	require.NoError(t, err)
	assert.Contains(t, got, "|    unparsable:")
	assert.Contains(t, got, "!! Expected: 'Nothing else in FileSegment.'")
	assert.Contains(t, got, "word:")
}

func TestQuoteRaw(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT", "'SELECT'"},
		{"\n", `'\n'`},
		{"it's", `"it's"`},
		{`'"`, `'\'"'`},
		{`a\b`, `'a\\b'`},
		{"\x00", `'\x00'`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quoteRaw(tt.in), tt.in)
	}
}

func TestRecordJSON(t *testing.T) {
	raw, err := json.Marshal(NewRecord(selectOne(), false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"file":{"select_clause":{"keyword":"SELECT","whitespace":" ","numeric_literal":"1"}}}`, string(raw))
	assert.Equal(t, `{"file":{"select_clause":{"keyword":"SELECT","whitespace":" ","numeric_literal":"1"}}}`, string(raw))

	raw, err = json.Marshal(NewRecord(selectOne(), true))
	require.NoError(t, err)
	assert.Equal(t, `{"file":{"select_clause":{"keyword":"SELECT","numeric_literal":"1"}}}`, string(raw))
}

func TestRecordDuplicateTypes(t *testing.T) {
	tree := segment.NewNode(segment.TypeFile, []*segment.Segment{
		segment.NewRaw(segment.Keyword, "BEGIN", at(1)),
		segment.NewRaw(segment.Symbol, ";", at(6), "statement_terminator"),
		segment.NewRaw(segment.Keyword, "COMMIT", at(7)),
		segment.NewNode("empty", nil),
	})
	raw, err := json.Marshal(NewRecord(tree, false))
	require.NoError(t, err)
	assert.Equal(t,
		`{"file":[{"keyword":"BEGIN"},{"statement_terminator":";"},{"keyword":"COMMIT"},{"empty":null}]}`,
		string(raw))
}

func TestRenderYAML(t *testing.T) {
	got, err := String(selectOne(), Options{Format: YAML})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, map[string]any{
		"file": map[string]any{
			"select_clause": map[string]any{
				"keyword":         "SELECT",
				"whitespace":      " ",
				"numeric_literal": "1",
			},
		},
	}, decoded)
	assert.True(t, strings.HasPrefix(got, "file:\n  select_clause:\n    keyword: SELECT\n"), got)
}

func TestRenderJSONIndented(t *testing.T) {
	got, err := String(selectOne(), Options{Format: JSON, CodeOnly: true})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, "}\n"))
	assert.Contains(t, got, "\n  \"file\": {")
	assert.JSONEq(t, `{"file":{"select_clause":{"keyword":"SELECT","numeric_literal":"1"}}}`, got)
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := String(selectOne(), Options{Format: "xml"})
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRenderParsedTree(t *testing.T) {
	res, err := parser.Parse(context.Background(), "SELECT a FROM t;\n", parser.Options{Dialect: "sqlite"})
	require.NoError(t, err)

	for _, f := range Formats() {
		t.Run(f, func(t *testing.T) {
			got, err := String(res.Tree, Options{Format: f, CodeOnly: true})
			require.NoError(t, err)
			assert.Contains(t, got, "select_clause")
			assert.Contains(t, got, "statement_terminator")
			assert.NotContains(t, got, "newline")
		})
	}
}
