package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	"github.com/leapstack-labs/leapfluff/pkg/format"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the registered dialects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			infos := dialect.DescribeAll()
			if strings.EqualFold(cc.Cfg.Output, format.JSON) {
				return cc.Renderer.JSON(infos)
			}

			t := cc.Renderer.Table()
			t.AppendHeader(table.Row{"Name", "Label", "Inherits", "Rules", "Segments", "Reserved", "Unreserved"})
			for _, info := range infos {
				t.AppendRow(table.Row{info.Name, info.Display, info.Inherits, info.Rules, info.Segments, info.Reserved, info.Unreserved})
			}
			t.Render()
			return nil
		},
	}
}
