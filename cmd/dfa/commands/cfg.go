package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/pkg/report"
)

// cfgCmd represents the cfg command
var cfgCmd = &cobra.Command{
	Use:   "cfg <file> [method]",
	Short: "Print the control flow graph of a method",
	Long: `Loads an IR document and prints the nodes and edges of each method's
control flow graph, or only those of the named method.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		method := ""
		if len(args) == 2 {
			method = args[1]
		}
		units, err := loadUnits(args[:1], method)
		if err != nil {
			return err
		}

		reports := make([]*report.Report, len(units))
		for i, u := range units {
			reports[i] = report.New(u.Method)
			reports[i].Source = u.Source
			reports[i].Graph = report.FromCFG(u.CFG)
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if !jsonOutput {
			return report.Encode(cmd.OutOrStdout(), report.FormatText, reports)
		}

		graphs := make(map[string]*report.Graph, len(reports))
		for _, r := range reports {
			graphs[r.Method] = r.Graph
		}
		data, err := json.MarshalIndent(graphs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	cfgCmd.Flags().BoolP("json", "j", false, "Output as JSON, keyed by method name")
	RootCmd.AddCommand(cfgCmd)
}
