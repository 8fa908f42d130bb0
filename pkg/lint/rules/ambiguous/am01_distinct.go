package ambiguous

import (
	"github.com/leapstack-labs/leapfluff/pkg/lint"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

func init() {
	lint.Register(DistinctWithGroupBy)
}

// DistinctWithGroupBy detects redundant DISTINCT with GROUP BY.
var DistinctWithGroupBy = lint.RuleDef{
	ID:          "AM01",
	Name:        "ambiguous.distinct",
	Group:       "ambiguous",
	Description: "Using DISTINCT with GROUP BY is redundant.",
	Severity:    lint.SeverityWarning,
	Check:       checkDistinctWithGroupBy,
	BadExample:  "SELECT DISTINCT a FROM t GROUP BY a",
	GoodExample: "SELECT a FROM t GROUP BY a",
}

func checkDistinctWithGroupBy(stmt *segment.Segment, _ lint.DialectInfo, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, sel := range stmt.Find("select_statement") {
		if sel.Child("groupby_clause") == nil {
			continue
		}
		clause := sel.Child("select_clause")
		if clause == nil {
			continue
		}
		mod := clause.Child("select_clause_modifier")
		if mod == nil || mod.RawUpper() != "DISTINCT" {
			continue
		}
		diags = append(diags, lint.At(mod, "AM01", lint.SeverityWarning,
			"Using DISTINCT with GROUP BY is redundant; GROUP BY already produces unique rows"))
	}
	return diags
}
