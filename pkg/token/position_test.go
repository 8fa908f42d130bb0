package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionAdvance(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Position
	}{
		{"empty", "", Position{Line: 1, Column: 1, Offset: 0}},
		{"single line", "SELECT", Position{Line: 1, Column: 7, Offset: 6}},
		{"newline", "a\n", Position{Line: 2, Column: 1, Offset: 2}},
		{"multi line", "a\nbc\nd", Position{Line: 3, Column: 2, Offset: 6}},
		{"multibyte", "é", Position{Line: 1, Column: 2, Offset: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Start.Advance(tt.raw))
		})
	}
}

func TestSpan(t *testing.T) {
	s := Span{Start: Start, End: Start.Advance("abc")}
	assert.True(t, s.IsValid())
	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(3))
	assert.False(t, Span{}.IsValid())
	assert.Equal(t, "1:4", s.End.String())
}
