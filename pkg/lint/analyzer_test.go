package lint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	_ "github.com/leapstack-labs/leapfluff/pkg/dialects/sqlite"
	"github.com/leapstack-labs/leapfluff/pkg/lint"
	"github.com/leapstack-labs/leapfluff/pkg/parser"
	"github.com/leapstack-labs/leapfluff/pkg/segment"
)

// Test rules live in their own group so they never collide with the
// built-in rule set.
func init() {
	lint.Register(lint.RuleDef{
		ID:          "TST01",
		Name:        "test.statements",
		Group:       "test",
		Description: "Flags every statement.",
		Severity:    lint.SeverityInfo,
		Check: func(stmt *segment.Segment, _ lint.DialectInfo, opts map[string]any) []lint.Diagnostic {
			msg := lint.GetStringOption(opts, "message", "statement")
			return []lint.Diagnostic{lint.At(stmt, "", lint.SeverityInfo, msg)}
		},
	})
	lint.Register(lint.RuleDef{
		ID:       "TST02",
		Name:     "test.file",
		Group:    "test",
		Severity: lint.SeverityHint,
		Scope:    lint.ScopeFile,
		Check: func(file *segment.Segment, _ lint.DialectInfo, _ map[string]any) []lint.Diagnostic {
			return []lint.Diagnostic{lint.At(file, "", lint.SeverityHint, file.Type())}
		},
	})
	lint.Register(lint.RuleDef{
		ID:       "TST03",
		Name:     "test.postgres_only",
		Group:    "test",
		Dialects: []string{"postgres"},
		Check: func(stmt *segment.Segment, _ lint.DialectInfo, _ map[string]any) []lint.Diagnostic {
			return []lint.Diagnostic{lint.At(stmt, "", lint.SeverityError, "never")}
		},
	})
}

func analyze(t *testing.T, sql string, cfg *lint.Config) []lint.Diagnostic {
	t.Helper()
	d, err := dialect.Lookup("sqlite")
	require.NoError(t, err)
	res, err := parser.ParseDialect(context.Background(), d, sql, parser.Options{})
	require.NoError(t, err)
	return lint.NewAnalyzer(cfg).Analyze(res, d)
}

func byRule(diags []lint.Diagnostic, id string) []lint.Diagnostic {
	var out []lint.Diagnostic
	for _, d := range diags {
		if d.RuleID == id {
			out = append(out, d)
		}
	}
	return out
}

func TestAnalyzer_StatementScope(t *testing.T) {
	diags := analyze(t, "SELECT 1;\nSELECT 2;", lint.NewConfig().Only("TST01"))
	require.Len(t, diags, 2)

	assert.Equal(t, "TST01", diags[0].RuleID)
	assert.Equal(t, lint.SeverityInfo, diags[0].Severity)
	assert.Equal(t, 1, diags[0].Pos.Line)
	assert.Equal(t, 2, diags[1].Pos.Line)
	assert.Equal(t, "statement", diags[0].Message)
}

func TestAnalyzer_FileScope(t *testing.T) {
	diags := analyze(t, "SELECT 1;\nSELECT 2;", lint.NewConfig().Only("TST02"))
	require.Len(t, diags, 1)
	assert.Equal(t, segment.TypeFile, diags[0].Message)
}

func TestAnalyzer_DialectFilter(t *testing.T) {
	diags := analyze(t, "SELECT 1;", lint.NewConfig().Only("TST03"))
	assert.Empty(t, diags)
}

func TestAnalyzer_Config(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *lint.Config
		wantLen int
		check   func(t *testing.T, diags []lint.Diagnostic)
	}{
		{
			name:    "disabled",
			cfg:     lint.NewConfig().Only("TST01").Disable("TST01"),
			wantLen: 0,
		},
		{
			name:    "severity override",
			cfg:     lint.NewConfig().Only("TST01").SetSeverity("TST01", lint.SeverityError),
			wantLen: 1,
			check: func(t *testing.T, diags []lint.Diagnostic) {
				assert.Equal(t, lint.SeverityError, diags[0].Severity)
			},
		},
		{
			name:    "rule options",
			cfg:     lint.NewConfig().Only("TST01").SetRuleOptions("TST01", map[string]any{"message": "custom"}),
			wantLen: 1,
			check: func(t *testing.T, diags []lint.Diagnostic) {
				assert.Equal(t, "custom", diags[0].Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := analyze(t, "SELECT 1;", tt.cfg)
			require.Len(t, diags, tt.wantLen)
			if tt.check != nil {
				tt.check(t, diags)
			}
		})
	}
}

func TestAnalyzer_ParseAndLexErrors(t *testing.T) {
	diags := analyze(t, "SELECT 1; this is not sql", lint.NewConfig().Only(lint.ParseRuleID))
	require.NotEmpty(t, diags)
	assert.Equal(t, lint.ParseRuleID, diags[0].RuleID)
	assert.Equal(t, lint.SeverityError, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "unparsable")

	diags = analyze(t, "SELECT 1 \x00", lint.NewConfig().Only(lint.LexRuleID))
	require.NotEmpty(t, diags)
	assert.Equal(t, lint.LexRuleID, diags[0].RuleID)

	diags = analyze(t, "SELECT 1; this is not sql", lint.NewConfig().Only("TST01").Disable(lint.ParseRuleID))
	assert.Empty(t, byRule(diags, lint.ParseRuleID))
}

func TestAnalyzer_Ordering(t *testing.T) {
	diags := analyze(t, "SELECT 1;\nSELECT 2;", lint.NewConfig().Only("TST01", "TST02"))
	require.Len(t, diags, 3)
	for i := 1; i < len(diags); i++ {
		assert.LessOrEqual(t, diags[i-1].Pos.Offset, diags[i].Pos.Offset)
	}
	// Same offset: ordered by rule ID.
	assert.Equal(t, "TST01", diags[0].RuleID)
	assert.Equal(t, "TST02", diags[1].RuleID)
}

func TestStatements(t *testing.T) {
	d, err := dialect.Lookup("sqlite")
	require.NoError(t, err)
	res, err := parser.ParseDialect(context.Background(), d, "WITH c AS (SELECT 1) SELECT * FROM c; SELECT 2;", parser.Options{})
	require.NoError(t, err)

	stmts := lint.Statements(res.Tree)
	require.Len(t, stmts, 2)
	assert.Equal(t, "SELECT 2", stmts[1].Text())
	assert.Nil(t, lint.Statements(nil))
}
