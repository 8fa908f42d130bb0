package convention

import (
	"github.com/leapstack-labs/leapfluff/pkg/lint"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

func init() {
	lint.Register(NotEqualOperator)
}

// Styles accepted by the "preferred_not_equal_style" option.
const (
	StyleConsistent = "consistent"
	StyleCStyle     = "c_style"
	StyleANSI       = "ansi"
)

// NotEqualOperator requires one not-equal operator form across a file.
var NotEqualOperator = lint.RuleDef{
	ID:          "CV01",
	Name:        "convention.not_equal",
	Group:       "convention",
	Description: "Consistent usage of != or <> for \"not equal to\" operator.",
	Severity:    lint.SeverityHint,
	Check:       checkNotEqualOperator,
	Scope:       lint.ScopeFile,
	ConfigKeys:  []string{"preferred_not_equal_style"},
	BadExample:  "SELECT * FROM t WHERE a != 1 AND b <> 2",
	GoodExample: "SELECT * FROM t WHERE a != 1 AND b != 2",
}

func checkNotEqualOperator(file *segment.Segment, _ lint.DialectInfo, opts map[string]any) []lint.Diagnostic {
	style := lint.GetStringOption(opts, "preferred_not_equal_style", StyleConsistent)

	var diags []lint.Diagnostic
	file.Walk(func(s *segment.Segment) bool {
		if s.Kind != segment.KindNode || !s.IsType("comparison_operator") {
			return true
		}
		var got string
		switch s.Text() {
		case "!=":
			got = StyleCStyle
		case "<>":
			got = StyleANSI
		default:
			return false
		}
		if style == StyleConsistent {
			style = got
			return false
		}
		if got == style {
			return false
		}
		want := "!="
		if style == StyleANSI {
			want = "<>"
		}
		d := lint.At(s, "CV01", lint.SeverityHint, "Use '"+want+"' instead of '"+s.Text()+"'.")
		d.Fixes = []lint.Fix{lint.Replace(s, "Change to "+want, want)}
		diags = append(diags, d)
		return false
	})
	return diags
}
