package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	"github.com/leapstack-labs/leapfluff/pkg/format"
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
)

// NewGrammarCommand creates the grammar command and its subcommands.
func NewGrammarCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Inspect the grammar library of a dialect",
	}
	cmd.AddCommand(newGrammarListCommand(), newGrammarShowCommand(), newGrammarCheckCommand())
	return cmd
}

func newGrammarListCommand() *cobra.Command {
	var segmentsOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the rules of the configured dialect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			d, err := cc.Dialect()
			if err != nil {
				return err
			}

			t := cc.Renderer.Table()
			t.AppendHeader(table.Row{"Rule", "Type", "Refs"})
			for _, name := range d.Rules() {
				typ, isSegment := d.SegmentType(name)
				if segmentsOnly && !isSegment {
					continue
				}
				m, _ := d.Grammar(name)
				t.AppendRow(table.Row{name, typ, len(grammar.RefNames(m))})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&segmentsOnly, "segments", false, "Only list segment rules")
	return cmd
}

func newGrammarShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one rule of the configured dialect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			d, err := cc.Dialect()
			if err != nil {
				return err
			}
			name := args[0]
			m, ok := d.Grammar(name)
			if !ok {
				return fmt.Errorf("%w: %s", grammar.ErrUnknownRule, name)
			}
			typ, _ := d.SegmentType(name)
			refs := grammar.RefNames(m)

			r := cc.Renderer
			if strings.EqualFold(cc.Cfg.Output, format.JSON) {
				return r.JSON(map[string]any{
					"dialect": d.Name(),
					"name":    name,
					"type":    typ,
					"grammar": m.String(),
					"refs":    refs,
				})
			}

			s := r.Styles()
			r.Println(s.Header.Render(name))
			if typ != "" {
				r.Printf("%s %s\n", s.Muted.Render("type:"), s.SegmentType.Render(typ))
			}
			r.Printf("%s %s\n", s.Muted.Render("grammar:"), m.String())
			if len(refs) > 0 {
				r.Printf("%s %s\n", s.Muted.Render("refs:"), strings.Join(refs, ", "))
			}
			return nil
		},
	}
}

func newGrammarCheckCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that every referenced rule exists and the root rule is sound",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			names := []string{cc.Cfg.Dialect}
			if all {
				names = dialect.List()
			}

			var failed []string
			for _, name := range names {
				d, err := dialect.Lookup(name)
				if err != nil {
					return err
				}
				if err := dialect.Validate(d); err != nil {
					cc.Renderer.Warn(fmt.Sprintf("%s:\n%v", d.Name(), err))
					failed = append(failed, d.Name())
					continue
				}
				cc.Renderer.Success(fmt.Sprintf("%s: %d rules OK", d.Name(), len(d.Rules())))
			}
			if len(failed) > 0 {
				return fmt.Errorf("%w: %s", dialect.ErrBrokenLibrary, strings.Join(failed, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Check every registered dialect")
	return cmd
}
