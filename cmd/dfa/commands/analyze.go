package commands

import (
	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/pkg/cache"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>...",
	Short: "Run the configured analyses over IR documents",
	Long: `Scans each path for IR documents (*.ir.yaml, *.ir.yml, *.ir.json), honoring
ignore files, and runs the configured analyses over every method found.
Directories are scanned recursively; files are loaded directly.

With --cache, reports are stored per document and reused while the document
and the options stay the same.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analyses := settings.Analyses
		if cmd.Flags().Changed("analyses") {
			flag, _ := cmd.Flags().GetString("analyses")
			analyses = splitAnalyses(flag)
		}
		graph, _ := cmd.Flags().GetBool("graph")

		_, err := analyze(cmd, args, analyses, graph)
		return err
	},
}

func init() {
	analyzeCmd.Flags().StringP("analyses", "a", "", "Comma-separated analyses to run (default from config)")
	analyzeCmd.Flags().StringP("method", "m", "", "Only analyze methods with this name")
	analyzeCmd.Flags().Bool("graph", false, "Include the control flow graph in the output")
	analyzeCmd.Flags().Bool("cache", false, "Reuse reports of unchanged documents")
	analyzeCmd.Flags().String("cache-file", cache.DefaultPath, "Report cache location")
	RootCmd.AddCommand(analyzeCmd)
}
