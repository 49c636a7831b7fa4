package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/pkg/deadcode"
)

// ErrDeadCode is returned by the deadcode command with --fail when dead code is found.
var ErrDeadCode = errors.New("dead code found")

// deadcodeCmd represents the deadcode command
var deadcodeCmd = &cobra.Command{
	Use:   "deadcode <path>...",
	Short: "Report unreachable code and dead assignments",
	Long: `Reports statements that can never execute, either because no path from
the method entry reaches them or because a branch condition is a known
constant, and assignments whose value is never used and whose right-hand
side has no side effect.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := analyze(cmd, args, []string{deadcode.ID}, false)
		if err != nil {
			return err
		}

		fail, _ := cmd.Flags().GetBool("fail")
		if !fail {
			return nil
		}
		total := 0
		for _, r := range reports {
			total += len(r.DeadCode)
		}
		if total > 0 {
			return fmt.Errorf("%w: %d statements", ErrDeadCode, total)
		}
		return nil
	},
}

func init() {
	deadcodeCmd.Flags().StringP("method", "m", "", "Only analyze methods with this name")
	deadcodeCmd.Flags().Bool("fail", false, "Exit with an error when any dead code is found")
	RootCmd.AddCommand(deadcodeCmd)
}
