// Package lint checks parse trees against a registry of rules.
//
// Rules are plain RuleDef values whose Check function receives one
// statement node of the tree. They register themselves from init()
// functions, so callers import the rule packages for side effects:
//
//	import _ "github.com/leapstack-labs/leapfluff/pkg/lint/rules"
//
// # Rule Categories
//
//   - PRS: unparsable sections, reported by the analyzer itself
//   - AL (Aliasing): alias usage
//   - AM (Ambiguous): ambiguous constructs
//   - CP (Capitalisation): keyword case
//   - CV (Convention): coding conventions
//
// # Configuration
//
//	config := lint.NewConfig()
//	config.Disable("AM01")
//	config.SetSeverity("CV01", lint.SeverityError)
//	config.SetRuleOptions("CP01", map[string]any{"capitalisation_policy": "upper"})
//
// # Running
//
//	res, _ := parser.Parse(ctx, sql, parser.Options{Dialect: "sqlite"})
//	diags := lint.NewAnalyzer(config).Analyze(res, d)
package lint
