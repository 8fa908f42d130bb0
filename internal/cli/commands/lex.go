package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfluff/pkg/format"
)

// ErrLex is returned when the lexer could not account for some input.
var ErrLex = errors.New("lexing failed")

type lexedToken struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Type   string `json:"type"`
	Raw    string `json:"raw"`
}

// NewLexCommand creates the lex command.
func NewLexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lex [file|-]",
		Short: "Print the tokens of a SQL file",
		Long: `Lex SQL with the configured dialect and print one row per token.

With --format json the tokens are printed as a JSON array.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLex,
	}
}

func runLex(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	d, err := cc.Dialect()
	if err != nil {
		return err
	}
	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}
	in := inputs[0]

	segs, lexErrs := d.Lexer().Lex(in.SQL)
	tokens := make([]lexedToken, 0, len(segs))
	for _, s := range segs {
		tokens = append(tokens, lexedToken{Line: s.Pos.Line, Column: s.Pos.Column, Type: s.Type(), Raw: s.Raw})
	}

	r := cc.Renderer
	if strings.EqualFold(cc.Cfg.Output, format.JSON) {
		if err := r.JSON(tokens); err != nil {
			return err
		}
	} else {
		t := r.Table()
		t.AppendHeader(table.Row{"#", "Line", "Col", "Type", "Raw"})
		for i, tok := range tokens {
			t.AppendRow(table.Row{i + 1, tok.Line, tok.Column, r.Styles().SegmentType.Render(tok.Type), strconv.Quote(tok.Raw)})
		}
		t.Render()
	}

	for _, le := range lexErrs {
		_, _ = fmt.Fprintf(r.ErrWriter(), "%s L:%3d | P:%3d | LXR | %s\n", in.Name, le.Pos.Line, le.Pos.Column, le.Message)
	}
	if len(lexErrs) > 0 {
		return fmt.Errorf("%w: %d error(s)", ErrLex, len(lexErrs))
	}
	return nil
}
