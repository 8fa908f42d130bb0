package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfluff/internal/cli/config"
	"github.com/leapstack-labs/leapfluff/internal/cli/testutil"
	logtest "github.com/leapstack-labs/leapfluff/internal/testutil"
	"github.com/leapstack-labs/leapfluff/internal/verify"
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
	"github.com/leapstack-labs/leapfluff/pkg/lint"
)

func jsonConfig() *config.Config {
	cfg := testutil.TestConfig()
	cfg.Output = "json"
	return cfg
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		name  string
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{name: "parse", cmd: NewParseCommand(), use: "parse [files...|-]", flags: []string{"code-only", "metas", "watch"}},
		{name: "lex", cmd: NewLexCommand(), use: "lex [file|-]"},
		{name: "lint", cmd: NewLintCommand(), use: "lint [files...|-]", flags: []string{"rules", "disable", "fix"}},
		{name: "rules", cmd: NewRulesCommand(), use: "rules [rule-id]", flags: []string{"group"}},
		{name: "grammar", cmd: NewGrammarCommand(), use: "grammar"},
		{name: "dialects", cmd: NewDialectsCommand(), use: "dialects"},
		{name: "verify", cmd: NewVerifyCommand(), use: "verify [file|-]", flags: []string{"engine", "dsn"}},
		{name: "serve", cmd: NewServeCommand(), use: "serve", flags: []string{"addr", "lru-size"}},
		{name: "repl", cmd: NewReplCommand(), use: "repl"},
		{name: "cache", cmd: NewCacheCommand(), use: "cache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestSubcommands(t *testing.T) {
	names := func(cmd *cobra.Command) []string {
		var out []string
		for _, c := range cmd.Commands() {
			out = append(out, c.Name())
		}
		return out
	}
	assert.ElementsMatch(t, []string{"list", "show", "check"}, names(NewGrammarCommand()))
	assert.ElementsMatch(t, []string{"stats", "clear"}, names(NewCacheCommand()))
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		wantErr  error
		wantOut  []string
		wantErrS []string
	}{
		{
			name:    "json from stdin",
			stdin:   "SELECT 1;",
			wantOut: []string{`"file"`, `"select_statement"`},
		},
		{
			name:    "code only",
			stdin:   "SELECT 1;\n",
			args:    []string{"--code-only"},
			wantOut: []string{`"select_statement"`},
		},
		{
			name:     "unparsable",
			stdin:    "this is not sql",
			wantErr:  ErrUnparsable,
			wantOut:  []string{`"unparsable"`},
			wantErrS: []string{"PRS", "<stdin>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := testutil.Execute(t, NewParseCommand(), jsonConfig(), tt.stdin, tt.args...)
			if tt.wantErr != nil {
				require.ErrorIs(t, res.Err, tt.wantErr)
			} else {
				require.NoError(t, res.Err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, res.Out, want)
			}
			for _, want := range tt.wantErrS {
				assert.Contains(t, res.ErrOut, want)
			}
			testutil.AssertNoANSI(t, res.Out)
		})
	}
}

func TestParseCommand_MultipleFiles(t *testing.T) {
	dir := testutil.SetupTestProject(t, map[string]string{
		"a.sql": "SELECT 1;\n",
		"b.sql": "SELECT 2;\n",
	})

	res := testutil.Execute(t, NewParseCommand(), nil, "",
		filepath.Join(dir, "a.sql"), filepath.Join(dir, "b.sql"))
	require.NoError(t, res.Err)

	first := strings.Index(res.Out, "==== parsing "+filepath.Join(dir, "a.sql"))
	second := strings.Index(res.Out, "==== parsing "+filepath.Join(dir, "b.sql"))
	require.GreaterOrEqual(t, first, 0)
	assert.Greater(t, second, first, "inputs render in argument order")
}

func TestParseCommand_Cache(t *testing.T) {
	cfg := jsonConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Path = filepath.Join(t.TempDir(), "cache.db")

	first := testutil.Execute(t, NewParseCommand(), cfg, "SELECT 1;")
	require.NoError(t, first.Err)
	second := testutil.Execute(t, NewParseCommand(), cfg, "SELECT 1;")
	require.NoError(t, second.Err)
	assert.Equal(t, first.Out, second.Out, "cached output matches a fresh parse")

	stats := testutil.Execute(t, NewCacheCommand(), cfg, "", "stats")
	require.NoError(t, stats.Err)
	var got struct {
		Dialects []struct {
			Dialect string `json:"Dialect"`
			Entries int    `json:"Entries"`
		} `json:"dialects"`
	}
	require.NoError(t, json.Unmarshal([]byte(stats.Out), &got))
	require.Len(t, got.Dialects, 1)
	assert.Equal(t, "sqlite", got.Dialects[0].Dialect)
	assert.Equal(t, 1, got.Dialects[0].Entries)

	cleared := testutil.Execute(t, NewCacheCommand(), cfg, "", "clear")
	require.NoError(t, cleared.Err)
	assert.Contains(t, cleared.Out, "1 cache entry removed")
}

func TestCacheCommand_EmptyStats(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.Cache.Path = filepath.Join(t.TempDir(), "cache.db")

	res := testutil.Execute(t, NewCacheCommand(), cfg, "", "stats")
	require.NoError(t, res.Err)
	assert.Contains(t, strings.ToLower(res.Out), "total")
}

func TestLexCommand(t *testing.T) {
	res := testutil.Execute(t, NewLexCommand(), jsonConfig(), "SELECT 1")
	require.NoError(t, res.Err)

	var tokens []lexedToken
	require.NoError(t, json.Unmarshal([]byte(res.Out), &tokens))
	require.NotEmpty(t, tokens)
	assert.Equal(t, "SELECT", tokens[0].Raw)
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 1, tokens[0].Column)
}

func TestLintCommand(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		disabled []string
		wantErr  bool
		wantOut  []string
	}{
		{name: "clean", sql: "SELECT a FROM t\n", wantOut: []string{"PASS"}},
		{name: "capitalisation", sql: "SELECT a from t\n", wantErr: true, wantOut: []string{"FAIL", "CP01"}},
		{name: "rule disabled", sql: "SELECT a from t\n", disabled: []string{"CP01"}, wantOut: []string{"PASS"}},
		{name: "unparsable", sql: "this is not sql\n", wantErr: true, wantOut: []string{"PRS"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testutil.TestConfig()
			cfg.Lint.Disabled = tt.disabled
			res := testutil.Execute(t, NewLintCommand(), cfg, tt.sql)
			if tt.wantErr {
				require.ErrorIs(t, res.Err, ErrLintViolations)
			} else {
				require.NoError(t, res.Err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, res.Out, want)
			}
		})
	}
}

func TestLintCommand_JSON(t *testing.T) {
	res := testutil.Execute(t, NewLintCommand(), jsonConfig(), "SELECT a from t\n")
	require.ErrorIs(t, res.Err, ErrLintViolations)
	assert.NotContains(t, res.Out, "Usage:")
	assert.NotContains(t, res.ErrOut, "Usage:")

	var report []fileDiagnostics
	require.NoError(t, json.Unmarshal([]byte(res.Out), &report))
	require.Len(t, report, 1)
	assert.Equal(t, stdinName, report[0].File)
	require.Len(t, report[0].Diagnostics, 1)
	assert.Equal(t, "CP01", report[0].Diagnostics[0].RuleID)
	assert.Equal(t, lint.SeverityWarning, report[0].Diagnostics[0].Severity)
}

func TestLintCommand_Fix(t *testing.T) {
	dir := testutil.SetupTestProject(t, map[string]string{"q.sql": "SELECT a from t\n"})
	path := filepath.Join(dir, "q.sql")

	res := testutil.Execute(t, NewLintCommand(), nil, "", "--fix", path)
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "PASS")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t\n", string(b))
}

func TestRulesCommand(t *testing.T) {
	t.Run("list json", func(t *testing.T) {
		res := testutil.Execute(t, NewRulesCommand(), jsonConfig(), "")
		require.NoError(t, res.Err)
		var infos []ruleInfo
		require.NoError(t, json.Unmarshal([]byte(res.Out), &infos))
		ids := make([]string, 0, len(infos))
		for _, i := range infos {
			ids = append(ids, i.ID)
		}
		assert.Subset(t, ids, []string{"AL01", "AM01", "CP01", "CV01"})
	})

	t.Run("group", func(t *testing.T) {
		res := testutil.Execute(t, NewRulesCommand(), jsonConfig(), "", "--group", "aliasing")
		require.NoError(t, res.Err)
		var infos []ruleInfo
		require.NoError(t, json.Unmarshal([]byte(res.Out), &infos))
		require.NotEmpty(t, infos)
		for _, i := range infos {
			assert.Equal(t, "aliasing", i.Group)
		}
	})

	t.Run("detail", func(t *testing.T) {
		res := testutil.Execute(t, NewRulesCommand(), nil, "", "cp01")
		require.NoError(t, res.Err)
		assert.Contains(t, res.Out, "CP01")
	})

	t.Run("unknown", func(t *testing.T) {
		res := testutil.Execute(t, NewRulesCommand(), nil, "", "ZZ99")
		require.Error(t, res.Err)
		assert.Contains(t, res.Err.Error(), "ZZ99")
	})
}

func TestGrammarCommand(t *testing.T) {
	t.Run("show", func(t *testing.T) {
		res := testutil.Execute(t, NewGrammarCommand(), jsonConfig(), "", "show", "SelectStatementSegment")
		require.NoError(t, res.Err)
		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(res.Out), &got))
		assert.Equal(t, "sqlite", got["dialect"])
		assert.Equal(t, "select_statement", got["type"])
	})

	t.Run("show unknown", func(t *testing.T) {
		res := testutil.Execute(t, NewGrammarCommand(), nil, "", "show", "NoSuchSegment")
		require.ErrorIs(t, res.Err, grammar.ErrUnknownRule)
	})

	t.Run("list segments", func(t *testing.T) {
		res := testutil.Execute(t, NewGrammarCommand(), nil, "", "list", "--segments")
		require.NoError(t, res.Err)
		assert.Contains(t, res.Out, "SelectStatementSegment")
		assert.Contains(t, res.Out, "select_statement")
	})

	t.Run("check all", func(t *testing.T) {
		res := testutil.Execute(t, NewGrammarCommand(), nil, "", "check", "--all")
		require.NoError(t, res.Err)
		assert.Contains(t, res.Out, "sqlite:")
		assert.Contains(t, res.Out, "ansi:")
	})
}

func TestDialectsCommand(t *testing.T) {
	res := testutil.Execute(t, NewDialectsCommand(), jsonConfig(), "")
	require.NoError(t, res.Err)

	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Out), &infos))
	var names []string
	for _, i := range infos {
		names = append(names, i["name"].(string))
	}
	assert.Subset(t, names, []string{"ansi", "sqlite"})
}

func TestVerifyCommand(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{name: "agree", sql: "SELECT 1;\nCREATE TABLE t (a INTEGER);\n"},
		{name: "engine semantics ignored", sql: "SELECT a FROM missing_table;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := testutil.Execute(t, NewVerifyCommand(), jsonConfig(), tt.sql)
			require.NoError(t, res.Err)

			var outcomes []verify.Outcome
			require.NoError(t, json.Unmarshal([]byte(res.Out), &outcomes))
			require.NotEmpty(t, outcomes)
			for _, o := range outcomes {
				assert.True(t, o.Agrees(), "%q: %s", o.SQL, o.Kind())
			}
		})
	}
}

func TestVerifyCommand_UnknownEngine(t *testing.T) {
	res := testutil.Execute(t, NewVerifyCommand(), nil, "SELECT 1;", "--engine", "oracle")
	require.Error(t, res.Err)
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "SELECT 1", shorten("SELECT\n   1"))
	long := "SELECT " + strings.Repeat("a, ", 40) + "b FROM t"
	got := shorten(long)
	assert.Len(t, []rune(got), maxSQLColumn)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestReplSession(t *testing.T) {
	tr := testutil.NewTestRenderer(false)
	cfg := testutil.TestConfig()
	s := &replSession{
		cc:     &CommandContext{Cfg: cfg, Logger: logtest.NewTestLogger(t), Renderer: tr.Renderer},
		format: "json",
	}
	s.popts.Dialect = cfg.Dialect

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	done, more := s.eval(cmd, "SELECT")
	assert.False(t, done)
	assert.True(t, more, "statement continues until a semicolon")
	assert.Empty(t, tr.Output())

	done, more = s.eval(cmd, "1;")
	assert.False(t, done)
	assert.False(t, more)
	assert.Contains(t, tr.Output(), `"select_statement"`)

	_, _ = s.eval(cmd, ".dialect ansi")
	assert.Equal(t, "ansi", s.popts.Dialect)

	_, _ = s.eval(cmd, ".dialect klingon")
	assert.Equal(t, "ansi", s.popts.Dialect)
	assert.Contains(t, tr.ErrorOutput(), "klingon")

	_, _ = s.eval(cmd, ".format yaml")
	assert.Equal(t, "yaml", s.format)

	_, _ = s.eval(cmd, ".code")
	assert.True(t, s.codeOnly)

	done, _ = s.eval(cmd, ".quit")
	assert.True(t, done)
}

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantOut []string
	}{
		{name: "release", version: "1.2.3", wantOut: []string{"leapfluff v1.2.3", "sqlite"}},
		{name: "dev", version: "dev", wantOut: []string{"leapfluff vdev"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := testutil.Execute(t, NewVersionCommand(tt.version), nil, "")
			require.NoError(t, res.Err)
			for _, want := range tt.wantOut {
				assert.Contains(t, res.Out, want)
			}
		})
	}
}
