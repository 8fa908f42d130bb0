package capitalisation

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leapfluff/pkg/lint"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

func init() {
	lint.Register(KeywordCase)
}

// Capitalisation policies accepted by the "capitalisation_policy" option.
const (
	PolicyConsistent = "consistent"
	PolicyUpper      = "upper"
	PolicyLower      = "lower"
	PolicyCapitalise = "capitalise"
)

// KeywordCase requires keywords to share one case across a file.
var KeywordCase = lint.RuleDef{
	ID:          "CP01",
	Name:        "capitalisation.keywords",
	Group:       "capitalisation",
	Description: "Inconsistent capitalisation of keywords.",
	Severity:    lint.SeverityWarning,
	Check:       checkKeywordCase,
	Scope:       lint.ScopeFile,
	ConfigKeys:  []string{"capitalisation_policy"},
	BadExample:  "SELECT a from t",
	GoodExample: "SELECT a FROM t",
}

const mixed = "mixed"

var title = cases.Title(language.Und)

func checkKeywordCase(file *segment.Segment, _ lint.DialectInfo, opts map[string]any) []lint.Diagnostic {
	policy := strings.ToLower(lint.GetStringOption(opts, "capitalisation_policy", PolicyConsistent))

	var diags []lint.Diagnostic
	for _, kw := range keywords(file) {
		style := caseOf(kw.Raw)
		if style == "" {
			continue
		}
		if policy == PolicyConsistent {
			if style != mixed {
				policy = style
			}
			continue
		}
		if fits(kw.Raw, policy) {
			continue
		}
		want := apply(kw.Raw, policy)
		d := lint.At(kw, "CP01", lint.SeverityWarning,
			fmt.Sprintf("Keywords must be %s case.", describe(policy)))
		d.Fixes = []lint.Fix{lint.Replace(kw, "Change to "+want, want)}
		diags = append(diags, d)
	}
	return diags
}

// keywords returns the raw keyword segments of a tree. Literal keywords
// such as NULL and TRUE are left to their own policy.
func keywords(tree *segment.Segment) []*segment.Segment {
	var out []*segment.Segment
	tree.Walk(func(s *segment.Segment) bool {
		if s.IsRaw() && s.IsType("keyword") && !s.IsType("literal") {
			out = append(out, s)
		}
		return true
	})
	return out
}

// caseOf classifies a word. Words whose case cannot be told apart (single
// letters, digits) return "".
func caseOf(word string) string {
	upper, lower := strings.ToUpper(word), strings.ToLower(word)
	if upper == lower {
		return ""
	}
	switch word {
	case upper:
		if len([]rune(word)) == 1 {
			return ""
		}
		return PolicyUpper
	case lower:
		return PolicyLower
	case title.String(word):
		return PolicyCapitalise
	}
	return mixed
}

func fits(word, policy string) bool {
	return apply(word, policy) == word
}

func apply(word, policy string) string {
	switch policy {
	case PolicyUpper:
		return strings.ToUpper(word)
	case PolicyLower:
		return strings.ToLower(word)
	case PolicyCapitalise:
		return title.String(word)
	}
	return strings.ToUpper(word)
}

func describe(policy string) string {
	switch policy {
	case PolicyLower:
		return "lower"
	case PolicyCapitalise:
		return "capitalised"
	}
	return "upper"
}
