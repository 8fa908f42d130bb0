package aliasing

import (
	"github.com/leapstack-labs/leapfluff/pkg/lint"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

func init() {
	lint.Register(ImplicitTableAlias)
}

// ImplicitTableAlias enforces the alias policy on tables in FROM and JOIN.
var ImplicitTableAlias = lint.RuleDef{
	ID:          "AL01",
	Name:        "aliasing.table",
	Group:       "aliasing",
	Description: "Implicit/explicit aliasing of tables.",
	Severity:    lint.SeverityWarning,
	Check:       checkTableAlias,
	ConfigKeys:  []string{"aliasing"},
	Rationale:   "Implicit aliasing of a table is easy to miss when reading a query; an explicit AS makes the alias obvious.",
	BadExample:  "SELECT u.id FROM users u",
	GoodExample: "SELECT u.id FROM users AS u",
}

func checkTableAlias(stmt *segment.Segment, _ lint.DialectInfo, opts map[string]any) []lint.Diagnostic {
	return checkAliases(stmt, "from_expression_element", "tables", opts)
}
