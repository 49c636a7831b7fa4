// Package commands provides the CLI commands for the dfa tool.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/internal/config"
	"github.com/l3aro/go-dataflow/internal/log"
)

var (
	// settings is the configuration of the running command, loaded before it runs.
	settings = config.DefaultConfig()
	logger   = log.Default()
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dfa",
	Short: "dfa - Dataflow analyses over a three-address IR",
	Long: `dfa reads methods described as IR documents (*.ir.yaml, *.ir.json) and
runs intraprocedural dataflow analyses over their control flow graphs.

Commands:
  analyze     Run the configured analyses over documents or directories
  constprop   Show constant-propagation facts for every statement
  deadcode    Report unreachable code and dead assignments
  cfg         Print the control flow graph of a method
  analyses    List the available analyses
  init        Create a project configuration interactively

Use "dfa [command] --help" for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

// setup loads the configuration, applies persistent flag overrides and
// configures the logger.
func setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Changed("solver") {
		cfg.Solver, _ = flags.GetString("solver")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("json-logs") {
		cfg.JSONLogs, _ = flags.GetBool("json-logs")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	settings = cfg
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(cfg.Level())
	logger.SetJSONOutput(cfg.JSONLogs)
	return nil
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.String("config", "", "Config file path (default: .dfa/config.yaml, then ~/.dfa/config.yaml)")
	flags.StringP("format", "f", "", "Output format (text, json or msgpack)")
	flags.String("solver", "", "Fixpoint solver for forward analyses (iterative or worklist)")
	flags.IntP("workers", "w", 0, "Methods analyzed concurrently")
	flags.BoolP("verbose", "v", false, "Verbose logging")
	flags.Bool("json-logs", false, "Write logs as JSON")
}
