package aliasing

import (
	"github.com/leapstack-labs/leapfluff/pkg/lint"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

func init() {
	lint.Register(ImplicitColumnAlias)
}

// ImplicitColumnAlias enforces the alias policy on select targets.
var ImplicitColumnAlias = lint.RuleDef{
	ID:          "AL02",
	Name:        "aliasing.column",
	Group:       "aliasing",
	Description: "Implicit/explicit aliasing of columns.",
	Severity:    lint.SeverityWarning,
	Check:       checkColumnAlias,
	ConfigKeys:  []string{"aliasing"},
	BadExample:  "SELECT price * qty total FROM orders",
	GoodExample: "SELECT price * qty AS total FROM orders",
}

func checkColumnAlias(stmt *segment.Segment, _ lint.DialectInfo, opts map[string]any) []lint.Diagnostic {
	return checkAliases(stmt, "select_clause_element", "columns", opts)
}
