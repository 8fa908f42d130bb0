package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	"github.com/leapstack-labs/leapfluff/pkg/format"
	"github.com/leapstack-labs/leapfluff/pkg/parser"
)

const (
	replPrompt     = "leapfluff> "
	replContPrompt = "    ...> "
)

// NewReplCommand creates the interactive parse shell.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse SQL interactively",
		Long: `Start an interactive shell that parses each statement as it is entered.

Statements end with a semicolon. Type .help for the dot-commands.`,
		Args: cobra.NoArgs,
		RunE: runRepl,
	}
}

// replSession is the state carried between REPL lines.
type replSession struct {
	cc       *CommandContext
	popts    parser.Options
	format   string
	codeOnly bool
	buf      strings.Builder
}

func runRepl(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)
	popts, err := cc.ParseOptions()
	if err != nil {
		return err
	}
	s := &replSession{cc: cc, popts: popts, format: cc.Cfg.Output}

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".leapfluff_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	cc.Renderer.Printf("leapfluff (dialect: %s)\n", popts.Dialect)
	cc.Renderer.Println("Type .help for commands, .quit to exit")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		done, more := s.eval(cmd, line)
		if done {
			return nil
		}
		if more {
			rl.SetPrompt(replContPrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}
}

// eval handles one input line. It reports whether the session should end
// and whether a statement is still being accumulated.
func (s *replSession) eval(cmd *cobra.Command, line string) (done, more bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, s.buf.Len() > 0
	}
	if s.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return s.dot(line), false
	}

	s.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.buf.WriteString("\n")
		return false, true
	}
	sql := s.buf.String()
	s.buf.Reset()

	if err := s.parse(cmd, sql); err != nil {
		s.cc.Renderer.Warn(err.Error())
	}
	return false, false
}

func (s *replSession) parse(cmd *cobra.Command, sql string) error {
	res, err := parser.Parse(cmd.Context(), sql, s.popts)
	if err != nil {
		return err
	}
	r := s.cc.Renderer
	err = format.Render(r.Writer(), res.Tree, format.Options{
		Format:   s.format,
		CodeOnly: s.codeOnly,
		Styler:   r.TreeStyler(),
	})
	if err != nil {
		return err
	}
	for _, v := range res.Violations() {
		r.Warn(fmt.Sprintf("L:%3d | P:%3d | PRS | %s", v.Pos.Line, v.Pos.Column, v.Message))
	}
	return nil
}

// dot runs a dot-command and reports whether the session should end.
func (s *replSession) dot(line string) bool {
	r := s.cc.Renderer
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		r.Println(replHelp)

	case ".dialect":
		if len(parts) < 2 {
			r.Println(s.popts.Dialect)
			return false
		}
		d, err := dialect.Lookup(parts[1])
		if err != nil {
			r.Warn(err.Error())
			return false
		}
		s.popts.Dialect = d.Name()
		r.Success("dialect set to " + d.Name())

	case ".format":
		if len(parts) < 2 {
			r.Println(s.format)
			return false
		}
		switch f := strings.ToLower(parts[1]); f {
		case format.Human, format.JSON, format.YAML:
			s.format = f
			r.Success("format set to " + f)
		default:
			r.Warn("unknown format " + parts[1] + " (human, json, yaml)")
		}

	case ".code":
		s.codeOnly = !s.codeOnly
		r.Success(fmt.Sprintf("code only: %t", s.codeOnly))

	default:
		r.Warn(fmt.Sprintf("Unknown command: %s (type .help for commands)", parts[0]))
	}
	return false
}

const replHelp = `
Commands:
  .help            Show this help message
  .dialect [name]  Show or change the dialect
  .format [name]   Show or change the output format (human, json, yaml)
  .code            Toggle code-only output
  .quit / .exit    Exit the REPL

Statements must end with a semicolon (;).`

func (s *replSession) completer() *readline.PrefixCompleter {
	names := dialect.List()
	dialects := make([]readline.PrefixCompleterInterface, 0, len(names))
	for _, n := range names {
		dialects = append(dialects, readline.PcItem(n))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".dialect", dialects...),
		readline.PcItem(".format",
			readline.PcItem(format.Human),
			readline.PcItem(format.JSON),
			readline.PcItem(format.YAML),
		),
		readline.PcItem(".code"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
