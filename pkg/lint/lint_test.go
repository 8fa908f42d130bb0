package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfluff/pkg/lint"
)

func TestSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want lint.Severity
	}{
		{"error", lint.SeverityError},
		{"Warning", lint.SeverityWarning},
		{"warn", lint.SeverityWarning},
		{" info ", lint.SeverityInfo},
		{"hint", lint.SeverityHint},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := lint.ParseSeverity(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := lint.ParseSeverity("fatal")
	assert.Error(t, err)
	assert.Equal(t, "unknown", lint.Severity(42).String())

	text, err := lint.SeverityWarning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warning", string(text))
}

func TestRuleDef_AppliesTo(t *testing.T) {
	all := lint.RuleDef{ID: "X"}
	assert.True(t, all.AppliesTo("sqlite"))

	pg := lint.RuleDef{ID: "Y", Dialects: []string{"Postgres"}}
	assert.True(t, pg.AppliesTo("postgres"))
	assert.False(t, pg.AppliesTo("sqlite"))
}

func TestRegistry(t *testing.T) {
	all := lint.GetAll()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}
	assert.Equal(t, len(all), lint.Count())

	rule, ok := lint.GetByID("TST01")
	require.True(t, ok)
	assert.Equal(t, "test.statements", rule.Name)

	_, ok = lint.GetByID("NOPE")
	assert.False(t, ok)

	assert.Len(t, lint.GetByGroup("test"), 3)

	for _, r := range lint.GetByDialect("sqlite") {
		assert.NotEqual(t, "TST03", r.ID)
	}
}

func TestOptions(t *testing.T) {
	opts := map[string]any{
		"n":     "7",
		"f":     3.0,
		"s":     "upper",
		"b":     "true",
		"list":  []any{"a", "b"},
		"typed": 12,
	}

	assert.Equal(t, 7, lint.GetIntOption(opts, "n", 0))
	assert.Equal(t, 3, lint.GetIntOption(opts, "f", 0))
	assert.Equal(t, 5, lint.GetIntOption(opts, "missing", 5))
	assert.Equal(t, "upper", lint.GetStringOption(opts, "s", "lower"))
	assert.Equal(t, "lower", lint.GetStringOption(nil, "s", "lower"))
	assert.True(t, lint.GetBoolOption(opts, "b", false))
	assert.Equal(t, []string{"a", "b"}, lint.GetStringSliceOption(opts, "list", nil))
	assert.Equal(t, 12, lint.GetOption(opts, "typed", 0))
	assert.Equal(t, "x", lint.GetOption(opts, "typed", "x"))
}

func TestConfig_NilSafe(t *testing.T) {
	var cfg *lint.Config
	assert.False(t, cfg.IsDisabled("AM01"))
	assert.Equal(t, lint.SeverityHint, cfg.GetSeverity("AM01", lint.SeverityHint))
	assert.Nil(t, cfg.GetRuleOptions("AM01"))
}
