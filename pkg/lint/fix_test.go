package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/leapfluff/pkg/token"
)

func edit(start, end int, text string) Diagnostic {
	return Diagnostic{Fixes: []Fix{{TextEdits: []TextEdit{{
		Pos:     token.Position{Offset: start},
		EndPos:  token.Position{Offset: end},
		NewText: text,
	}}}}}
}

func TestApplyFixes(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		diags   []Diagnostic
		want    string
		applied int
	}{
		{
			name: "no fixes",
			src:  "select 1",
			want: "select 1",
		},
		{
			name:    "replacements in any order",
			src:     "select a from t",
			diags:   []Diagnostic{edit(0, 6, "SELECT"), edit(9, 13, "FROM")},
			want:    "SELECT a FROM t",
			applied: 2,
		},
		{
			name:    "insertion",
			src:     "FROM t u",
			diags:   []Diagnostic{edit(7, 7, "AS ")},
			want:    "FROM t AS u",
			applied: 1,
		},
		{
			name:    "overlapping edit is skipped",
			src:     "abcdef",
			diags:   []Diagnostic{edit(1, 4, "X"), edit(2, 5, "Y")},
			want:    "abYf",
			applied: 1,
		},
		{
			name:    "out of range edit is skipped",
			src:     "abc",
			diags:   []Diagnostic{edit(1, 9, "X")},
			want:    "abc",
			applied: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := ApplyFixes(tt.src, tt.diags)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.applied, n)
		})
	}
}
