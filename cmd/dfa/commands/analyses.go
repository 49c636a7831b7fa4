package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/pkg/analysis"
)

// analysesCmd represents the analyses command
var analysesCmd = &cobra.Command{
	Use:   "analyses",
	Short: "List the available analyses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, d := range analysis.Registered() {
			fmt.Fprintf(out, "%-10s %s", d.ID, d.Description)
			if len(d.Requires) > 0 {
				fmt.Fprintf(out, " (requires %s)", strings.Join(d.Requires, ", "))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(analysesCmd)
}
