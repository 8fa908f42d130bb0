// Package verify cross-checks the grammar against a real database engine.
// Each top-level statement is parsed and also handed to the engine; the
// two verdicts should agree.
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapfluff/pkg/adapter"
	"github.com/leapstack-labs/leapfluff/pkg/parser"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
	"github.com/leapstack-labs/leapfluff/pkg/token"
)

// Outcome is the verdict pair for one statement.
type Outcome struct {
	Pos token.Position `json:"pos"`
	SQL string         `json:"sql"`
	// Parsed is true when the grammar accounted for the whole statement.
	Parsed bool `json:"parsed"`
	// Accepted is true unless the engine reported a syntax error.
	Accepted bool   `json:"accepted"`
	Message  string `json:"message,omitempty"`
}

// Agrees reports whether the grammar and the engine reached the same
// verdict.
func (o Outcome) Agrees() bool {
	return o.Parsed == o.Accepted
}

// Kind names the disagreement, if any.
func (o Outcome) Kind() string {
	switch {
	case o.Agrees():
		return "agree"
	case o.Accepted:
		return "grammar too strict"
	default:
		return "grammar too lax"
	}
}

// Units splits a parse tree into the pieces sent to the engine: every
// top-level statement, plus any unparsable section outside one.
func Units(tree *segment.Segment) []*segment.Segment {
	if tree == nil {
		return nil
	}
	var out []*segment.Segment
	tree.Walk(func(s *segment.Segment) bool {
		if s.IsType("statement") || s.IsType(segment.TypeUnparsable) {
			out = append(out, s)
			return false
		}
		return true
	})
	return out
}

// Run checks every unit of res against engine. It stops at the first
// engine failure that is not a verdict, such as a lost connection.
func Run(ctx context.Context, engine adapter.Adapter, res *parser.Result) ([]Outcome, error) {
	units := Units(res.Tree)
	out := make([]Outcome, 0, len(units))
	for _, u := range units {
		sql := strings.TrimSpace(u.Text())
		if sql == "" {
			continue
		}
		v, err := engine.Check(ctx, sql)
		if err != nil {
			return out, fmt.Errorf("check statement at %s: %w", u.Pos, err)
		}
		out = append(out, Outcome{
			Pos:      u.Pos,
			SQL:      sql,
			Parsed:   !containsUnparsable(u),
			Accepted: v.Accepted,
			Message:  v.Message,
		})
	}
	return out, nil
}

// Mismatches counts outcomes where the verdicts differ.
func Mismatches(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.Agrees() {
			n++
		}
	}
	return n
}

func containsUnparsable(s *segment.Segment) bool {
	found := false
	s.Walk(func(c *segment.Segment) bool {
		if c.IsType(segment.TypeUnparsable) {
			found = true
		}
		return !found
	})
	return found
}
