package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
	"github.com/leapstack-labs/leapfluff/pkg/token"
)

// maxSnippet bounds the source text quoted in a violation.
const maxSnippet = 40

// ParseError reports a section of the input the grammar could not
// account for.
type ParseError struct {
	Pos      token.Position
	Message  string
	Expected string
	Snippet  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Violations returns one ParseError per unparsable node in the tree, in
// source order.
func (r *Result) Violations() []*ParseError {
	if r == nil || r.Tree == nil {
		return nil
	}
	var out []*ParseError
	r.Tree.Walk(func(s *segment.Segment) bool {
		if !s.IsType(segment.TypeUnparsable) {
			return true
		}
		snippet := snip(s.Text())
		out = append(out, &ParseError{
			Pos:      s.Pos,
			Message:  fmt.Sprintf("Found unparsable section: %q", snippet),
			Expected: s.Expected,
			Snippet:  snippet,
		})
		return false
	})
	return out
}

// HasErrors reports whether the input lexed and parsed cleanly.
func (r *Result) HasErrors() bool {
	return len(r.LexErrors) > 0 || len(r.Violations()) > 0
}

func snip(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= maxSnippet {
		return s
	}
	return string(r[:maxSnippet-3]) + "..."
}
