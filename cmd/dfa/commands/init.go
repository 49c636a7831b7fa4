package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/internal/config"
	"github.com/l3aro/go-dataflow/pkg/analysis"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/report"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a project configuration interactively",
	Long: `Guides you through choosing the analyses, solver and output format, and
writes them to .dfa/config.yaml in the current directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return runInit(cmd, force)
	},
}

func runInit(cmd *cobra.Command, force bool) error {
	path := config.ProjectConfigPath()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	cfg := config.DefaultConfig()

	var analysisOptions []huh.Option[string]
	for _, d := range analysis.Registered() {
		analysisOptions = append(analysisOptions, huh.NewOption(d.ID+" - "+d.Description, d.ID).Selected(true))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Analyses").
				Description("Analyses run by `dfa analyze`; requirements are added automatically").
				Options(analysisOptions...).
				Validate(func(ids []string) error {
					if len(ids) == 0 {
						return errors.New("select at least one analysis")
					}
					return nil
				}).
				Value(&cfg.Analyses),
			huh.NewSelect[string]().
				Title("Solver").
				Description("Fixpoint algorithm for forward analyses").
				Options(
					huh.NewOption("Worklist", string(dataflow.SolverWorklist)),
					huh.NewOption("Iterative", string(dataflow.SolverIterative)),
				).
				Value(&cfg.Solver),
			huh.NewSelect[string]().
				Title("Output format").
				Options(
					huh.NewOption("Text", string(report.FormatText)),
					huh.NewOption("JSON", string(report.FormatJSON)),
					huh.NewOption("MessagePack", string(report.FormatMsgpack)),
				).
				Value(&cfg.Format),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", abs)
	return nil
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	RootCmd.AddCommand(initCmd)
}
