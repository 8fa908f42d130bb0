package aliasing

import (
	"github.com/leapstack-labs/leapfluff/pkg/lint"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Alias policies accepted by the "aliasing" option.
const (
	PolicyExplicit = "explicit"
	PolicyImplicit = "implicit"
)

// checkAliases reports alias_expression nodes under parents of parentType
// that do not follow the configured policy.
func checkAliases(stmt *segment.Segment, parentType, what string, opts map[string]any) []lint.Diagnostic {
	policy := lint.GetStringOption(opts, "aliasing", PolicyExplicit)

	var diags []lint.Diagnostic
	for _, parent := range stmt.Find(parentType) {
		alias := parent.Child("alias_expression")
		if alias == nil {
			continue
		}
		code := alias.CodeChildren()
		if len(code) == 0 {
			continue
		}
		first := code[0]
		explicit := first.IsType("keyword") && first.RawUpper() == "AS"

		switch {
		case policy == PolicyExplicit && !explicit:
			d := lint.At(alias, "", lint.SeverityWarning, "Implicit aliasing of "+what+" not allowed. Use explicit `AS` clause.")
			d.Fixes = []lint.Fix{{
				Description: "Add AS",
				TextEdits:   []lint.TextEdit{{Pos: first.Pos, EndPos: first.Pos, NewText: "AS "}},
			}}
			diags = append(diags, d)
		case policy == PolicyImplicit && explicit && len(code) > 1:
			d := lint.At(alias, "", lint.SeverityWarning, "Explicit aliasing of "+what+" not allowed. Remove the `AS` keyword.")
			d.Fixes = []lint.Fix{{
				Description: "Remove AS",
				TextEdits:   []lint.TextEdit{{Pos: first.Pos, EndPos: code[1].Pos, NewText: ""}},
			}}
			diags = append(diags, d)
		}
	}
	return diags
}
