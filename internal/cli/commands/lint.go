package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfluff/pkg/format"
	"github.com/leapstack-labs/leapfluff/pkg/lint"
	_ "github.com/leapstack-labs/leapfluff/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/leapfluff/pkg/parser"
)

// ErrLintViolations is returned when lint reports any diagnostic.
var ErrLintViolations = errors.New("lint violations found")

// LintOptions holds options for the lint command.
type LintOptions struct {
	Fix bool
}

type fileDiagnostics struct {
	File        string            `json:"file"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [files...|-]",
		Short: "Run lint rules on SQL files",
		Long: `Analyze SQL files for style and correctness issues.

Unparsable sections are reported as PRS and lexing errors as LXR. Rules
can be configured in .leapfluff.yaml under the lint key.`,
		Example: `  # Lint a file
  leapfluff lint query.sql

  # Only run the aliasing rules
  leapfluff lint --rules AL01,AL02 query.sql

  # Apply the suggested fixes in place
  leapfluff lint --fix query.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringSlice("rules", nil, "Run only these rule IDs")
	cmd.Flags().StringSlice("disable", nil, "Rule IDs to disable")
	cmd.Flags().BoolVar(&opts.Fix, "fix", false, "Apply fixes to the files in place")

	return cmd
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	cc := NewCommandContext(cmd)
	d, err := cc.Dialect()
	if err != nil {
		return err
	}
	popts, err := cc.ParseOptions()
	if err != nil {
		return err
	}
	rules, err := cc.Cfg.Lint.LintRules()
	if err != nil {
		return err
	}
	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}

	results, err := parseAll(cmd.Context(), inputs, popts)
	if err != nil {
		return err
	}

	analyzer := lint.NewAnalyzer(rules)
	report := make([]fileDiagnostics, 0, len(inputs))
	total := 0
	for i, in := range inputs {
		diags := analyzer.Analyze(results[i], d)
		if opts.Fix && in.Name != stdinName {
			fixed, n := lint.ApplyFixes(in.SQL, diags)
			if n > 0 {
				if err := os.WriteFile(in.Name, []byte(fixed), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", in.Name, err)
				}
				cc.Logger.Info("applied fixes", "file", in.Name, "edits", n)
				res, err := parser.Parse(cmd.Context(), fixed, popts)
				if err != nil {
					return err
				}
				diags = analyzer.Analyze(res, d)
			}
		}
		if diags == nil {
			diags = []lint.Diagnostic{}
		}
		total += len(diags)
		report = append(report, fileDiagnostics{File: in.Name, Diagnostics: diags})
	}

	r := cc.Renderer
	if strings.EqualFold(cc.Cfg.Output, format.JSON) {
		if err := r.JSON(report); err != nil {
			return err
		}
	} else {
		for _, fd := range report {
			status := r.Styles().Success.Render("PASS")
			if len(fd.Diagnostics) > 0 {
				status = r.Styles().Error.Render("FAIL")
			}
			r.Printf("== [%s] %s\n", fd.File, status)
			for _, diag := range fd.Diagnostics {
				r.Printf("%s | %s\n", diag.String(), r.Severity(diag.Severity))
			}
		}
	}

	if total > 0 {
		return fmt.Errorf("%w: %d", ErrLintViolations, total)
	}
	return nil
}
