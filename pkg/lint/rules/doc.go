// Package rules provides lint rule implementations that work on parse trees.
//
// Rules are organized by category:
//   - aliasing: Rules about table and column aliasing (AL01-AL02)
//   - ambiguous: Rules detecting ambiguous SQL constructs (AM01, AM04, AM09)
//   - capitalisation: Rules about keyword case (CP01)
//   - convention: Rules about SQL conventions (CV01)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/leapfluff/pkg/lint/rules"
//
// Individual rule categories can also be imported:
//
//	import _ "github.com/leapstack-labs/leapfluff/pkg/lint/rules/ambiguous"
package rules
