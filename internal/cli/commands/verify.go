package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfluff/internal/verify"
	"github.com/leapstack-labs/leapfluff/pkg/adapter"
	_ "github.com/leapstack-labs/leapfluff/pkg/adapters/duckdb"   // register duckdb
	_ "github.com/leapstack-labs/leapfluff/pkg/adapters/postgres" // register postgres
	_ "github.com/leapstack-labs/leapfluff/pkg/adapters/sqlite"   // register sqlite
	"github.com/leapstack-labs/leapfluff/pkg/format"
	"github.com/leapstack-labs/leapfluff/pkg/parser"
)

// ErrVerifyMismatch is returned when the grammar and the engine disagree.
var ErrVerifyMismatch = errors.New("grammar and engine disagree")

// maxSQLColumn bounds the statement text shown in the verify table.
const maxSQLColumn = 48

// VerifyOptions holds options for the verify command.
type VerifyOptions struct {
	Engine string
	DSN    string
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand() *cobra.Command {
	opts := &VerifyOptions{}
	cmd := &cobra.Command{
		Use:   "verify [file|-]",
		Short: "Compare the grammar's verdicts with a real database engine",
		Long: `Parse SQL and hand every statement to a database engine as well.

The engine compiles each statement without running it. A statement the
engine rejects with a syntax error should be unparsable, and one it
accepts should parse. Semantic errors such as a missing table count as
accepted. The command exits non-zero when any verdicts differ.`,
		Example: `  # Check against an in-memory SQLite database
  leapfluff verify queries.sql

  # Check against PostgreSQL with the ansi dialect
  leapfluff verify --engine postgres --dsn "host=localhost dbname=test" -d ansi queries.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Engine, "engine", "sqlite", "Engine to check against: "+strings.Join(adapter.ListAdapters(), ", "))
	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "Engine database path or connection string (default in-memory)")

	_ = cmd.RegisterFlagCompletionFunc("engine", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return adapter.ListAdapters(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runVerify(cmd *cobra.Command, args []string, opts *VerifyOptions) error {
	ctx := cmd.Context()
	cc := NewCommandContext(cmd)
	popts, err := cc.ParseOptions()
	if err != nil {
		return err
	}
	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}

	engine, err := adapter.NewAdapter(adapter.Config{Type: opts.Engine, Path: opts.DSN}, cc.Logger)
	if err != nil {
		return err
	}
	if err := engine.Connect(ctx, adapter.Config{Type: opts.Engine, Path: opts.DSN}); err != nil {
		return err
	}
	defer func() { _ = engine.Close() }()

	if !strings.EqualFold(engine.DialectName(), cc.Cfg.Dialect) {
		cc.Renderer.Warn(fmt.Sprintf("engine %s pairs with the %s dialect, parsing with %s", opts.Engine, engine.DialectName(), cc.Cfg.Dialect))
	}

	res, err := parser.Parse(ctx, inputs[0].SQL, popts)
	if err != nil {
		return err
	}
	outcomes, err := verify.Run(ctx, engine, res)
	if err != nil {
		return err
	}

	r := cc.Renderer
	if strings.EqualFold(cc.Cfg.Output, format.JSON) {
		if err := r.JSON(outcomes); err != nil {
			return err
		}
	} else {
		s := r.Styles()
		t := r.Table()
		t.AppendHeader(table.Row{"Line", "Grammar", "Engine", "Verdict", "Statement"})
		for _, o := range outcomes {
			grammarVerdict := s.Success.Render("parsed")
			if !o.Parsed {
				grammarVerdict = s.Error.Render("unparsable")
			}
			engineVerdict := s.Success.Render("accepted")
			if !o.Accepted {
				engineVerdict = s.Error.Render("rejected")
			}
			verdict := s.Success.Render(o.Kind())
			if !o.Agrees() {
				verdict = s.Warning.Render(o.Kind())
			}
			t.AppendRow(table.Row{o.Pos.Line, grammarVerdict, engineVerdict, verdict, shorten(o.SQL)})
		}
		t.Render()
	}

	if n := verify.Mismatches(outcomes); n > 0 {
		return fmt.Errorf("%w: %d of %d statements", ErrVerifyMismatch, n, len(outcomes))
	}
	return nil
}

func shorten(sql string) string {
	sql = strings.Join(strings.Fields(sql), " ")
	r := []rune(sql)
	if len(r) <= maxSQLColumn {
		return sql
	}
	return string(r[:maxSQLColumn-3]) + "..."
}
