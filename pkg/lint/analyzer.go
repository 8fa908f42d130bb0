package lint

import (
	"sort"

	"github.com/leapstack-labs/leapfluff/pkg/parser"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Built-in rule IDs reported by the analyzer rather than a registered rule.
const (
	ParseRuleID = "PRS"
	LexRuleID   = "LXR"
)

// Analyzer runs lint rules against parsed SQL.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// Analyze lints a parse result. Lex and parse problems are reported first
// as LXR and PRS diagnostics, then every registered rule that applies to
// the dialect runs over each top-level statement, or once over the file
// for ScopeFile rules. Diagnostics are ordered by position.
func (a *Analyzer) Analyze(res *parser.Result, d DialectInfo) []Diagnostic {
	var diags []Diagnostic

	if !a.config.IsDisabled(LexRuleID) {
		for _, le := range res.LexErrors {
			diags = append(diags, Diagnostic{
				RuleID:   LexRuleID,
				Severity: a.config.GetSeverity(LexRuleID, SeverityError),
				Message:  le.Message,
				Pos:      le.Pos,
				EndPos:   le.Pos,
			})
		}
	}
	if !a.config.IsDisabled(ParseRuleID) {
		for _, v := range res.Violations() {
			diags = append(diags, Diagnostic{
				RuleID:   ParseRuleID,
				Severity: a.config.GetSeverity(ParseRuleID, SeverityError),
				Message:  v.Message,
				Pos:      v.Pos,
				EndPos:   v.Pos,
			})
		}
	}

	stmts := Statements(res.Tree)
	for _, rule := range GetByDialect(d.Name()) {
		if a.config.IsDisabled(rule.ID) {
			continue
		}
		sev := a.config.GetSeverity(rule.ID, rule.Severity)
		opts := a.config.GetRuleOptions(rule.ID)
		targets := stmts
		if rule.Scope == ScopeFile {
			targets = []*segment.Segment{res.Tree}
		}
		for _, stmt := range targets {
			for _, diag := range rule.Check(stmt, d, opts) {
				diag.RuleID = rule.ID
				diag.Severity = sev
				diags = append(diags, diag)
			}
		}
	}

	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Pos.Offset != diags[j].Pos.Offset {
			return diags[i].Pos.Offset < diags[j].Pos.Offset
		}
		return diags[i].RuleID < diags[j].RuleID
	})
	return diags
}

// Statements returns the outermost statement nodes of a tree.
func Statements(tree *segment.Segment) []*segment.Segment {
	if tree == nil {
		return nil
	}
	var out []*segment.Segment
	tree.Walk(func(s *segment.Segment) bool {
		if s.IsType("statement") {
			out = append(out, s)
			return false
		}
		return true
	})
	return out
}
