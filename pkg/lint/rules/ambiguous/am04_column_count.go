package ambiguous

import (
	"fmt"

	"github.com/leapstack-labs/leapfluff/pkg/lint"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

func init() {
	lint.Register(ColumnCountMismatch)
}

// ColumnCountMismatch warns about mismatched column counts in set operations.
var ColumnCountMismatch = lint.RuleDef{
	ID:          "AM04",
	Name:        "ambiguous.column_count",
	Group:       "ambiguous",
	Description: "Mismatched column counts in set operation.",
	Severity:    lint.SeverityError,
	Check:       checkColumnCountMismatch,
	BadExample:  "SELECT a, b FROM t UNION SELECT a FROM u",
	GoodExample: "SELECT a, b FROM t UNION SELECT a, b FROM u",
}

func checkColumnCountMismatch(stmt *segment.Segment, _ lint.DialectInfo, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, set := range stmt.Find("set_expression") {
		branches := setBranches(set)
		if len(branches) < 2 {
			continue
		}
		first := countColumns(branches[0])
		if first < 0 {
			continue
		}
		for i := 1; i < len(branches); i++ {
			count := countColumns(branches[i])
			if count < 0 || count == first {
				continue
			}
			diags = append(diags, lint.At(branches[i], "AM04", lint.SeverityError,
				fmt.Sprintf("Column count mismatch in set operation: first query has %d columns, query %d has %d columns", first, i+1, count)))
		}
	}
	return diags
}

// setBranches returns the select statements combined by a set expression,
// looking through brackets.
func setBranches(set *segment.Segment) []*segment.Segment {
	var out []*segment.Segment
	for _, c := range set.Children {
		for c != nil && c.IsType("bracketed") {
			c = c.Child("select_statement", "bracketed")
		}
		if c != nil && c.IsType("select_statement") {
			out = append(out, c)
		}
	}
	return out
}

// countColumns returns the number of select targets, or -1 when a wildcard
// makes the count unknowable without a schema.
func countColumns(sel *segment.Segment) int {
	clause := sel.Child("select_clause")
	if clause == nil {
		return -1
	}
	count := 0
	for _, el := range clause.Children {
		if !el.IsType("select_clause_element") {
			continue
		}
		if len(el.Find("wildcard_expression")) > 0 {
			return -1
		}
		count++
	}
	return count
}
