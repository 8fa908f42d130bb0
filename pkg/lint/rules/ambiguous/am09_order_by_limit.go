package ambiguous

import (
	"github.com/leapstack-labs/leapfluff/pkg/lint"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

func init() {
	lint.Register(OrderByLimitWithUnion)
}

// OrderByLimitWithUnion warns about ORDER BY/LIMIT ambiguity with set operations.
var OrderByLimitWithUnion = lint.RuleDef{
	ID:          "AM09",
	Name:        "ambiguous.order_by_limit",
	Group:       "ambiguous",
	Description: "ORDER BY/LIMIT with set operation may have unexpected scope.",
	Severity:    lint.SeverityWarning,
	Check:       checkOrderByLimitWithUnion,
	Rationale:   "A trailing ORDER BY or LIMIT applies to the whole set operation, not to the last branch.",
	BadExample:  "SELECT a FROM t UNION SELECT a FROM u ORDER BY a",
	GoodExample: "SELECT * FROM (SELECT a FROM t UNION SELECT a FROM u) ORDER BY a",
}

func checkOrderByLimitWithUnion(stmt *segment.Segment, _ lint.DialectInfo, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, set := range stmt.Find("set_expression") {
		for _, c := range set.Children {
			switch {
			case c.IsType("orderby_clause"):
				diags = append(diags, lint.At(c, "AM09", lint.SeverityWarning,
					"ORDER BY applies to the whole set operation; wrap it in a subquery to make the scope explicit"))
			case c.IsType("limit_clause"):
				diags = append(diags, lint.At(c, "AM09", lint.SeverityWarning,
					"LIMIT applies to the whole set operation; wrap it in a subquery to make the scope explicit"))
			}
		}
	}
	return diags
}
