package commands

import (
	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/pkg/constprop"
)

// constpropCmd represents the constprop command
var constpropCmd = &cobra.Command{
	Use:   "constprop <path>...",
	Short: "Show constant-propagation facts for every statement",
	Long: `Runs constant propagation and prints, for every statement, the value of
each int-like variable before and after it: a constant, or NAC when the
variable may hold more than one value. Variables not yet defined are omitted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := analyze(cmd, args, []string{constprop.ID}, false)
		return err
	},
}

func init() {
	constpropCmd.Flags().StringP("method", "m", "", "Only analyze methods with this name")
	RootCmd.AddCommand(constpropCmd)
}
