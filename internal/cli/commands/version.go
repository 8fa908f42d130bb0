package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfluff/pkg/dialect"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display leapfluff version, Go runtime and the registered dialects.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "leapfluff v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s/%s, dialects: %v\n",
				runtime.Version(), runtime.GOOS, runtime.GOARCH, dialect.List())
		},
	}
}
