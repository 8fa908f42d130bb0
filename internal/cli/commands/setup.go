package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapfluff/internal/cli/config"
	"github.com/leapstack-labs/leapfluff/internal/cli/output"
	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	_ "github.com/leapstack-labs/leapfluff/pkg/dialects/ansi"   // register ansi
	_ "github.com/leapstack-labs/leapfluff/pkg/dialects/sqlite" // register sqlite
	"github.com/leapstack-labs/leapfluff/pkg/parser"
)

// stdinName labels input read from standard input.
const stdinName = "<stdin>"

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:      config.GetConfig(cmd.Context()),
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	}
}

// Dialect returns the configured dialect.
func (c *CommandContext) Dialect() (*dialect.Dialect, error) {
	return dialect.Lookup(c.Cfg.Dialect)
}

// ParseOptions returns parser options from the config.
func (c *CommandContext) ParseOptions() (parser.Options, error) {
	indent, err := c.Cfg.IndentConfig()
	if err != nil {
		return parser.Options{}, err
	}
	return parser.Options{Dialect: c.Cfg.Dialect, Indent: indent, Logger: c.Logger}, nil
}

// input is one SQL source named on the command line.
type input struct {
	Name string
	SQL  string
}

// readInputs reads the named files, or standard input when there are none
// or the name is "-".
func readInputs(cmd *cobra.Command, args []string) ([]input, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	out := make([]input, 0, len(args))
	for _, name := range args {
		in, err := readInput(cmd.InOrStdin(), name)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

func readInput(stdin io.Reader, name string) (input, error) {
	if name == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return input{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return input{Name: stdinName, SQL: string(b)}, nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return input{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return input{Name: name, SQL: string(b)}, nil
}

// parseAll parses inputs concurrently. Results keep the input order.
func parseAll(ctx context.Context, inputs []input, opts parser.Options) ([]*parser.Result, error) {
	results := make([]*parser.Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, in := range inputs {
		g.Go(func() error {
			res, err := parser.Parse(gctx, in.SQL, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", in.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
