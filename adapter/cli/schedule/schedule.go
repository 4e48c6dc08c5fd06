// Package schedule implements the `calendra schedule` command group: run,
// validate, and history, one subcommand file per verb.
package schedule

import (
	"github.com/spf13/cobra"
)

// Cmd is the `calendra schedule` command group.
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the goal-driven calendar scheduler",
}

func init() {
	Cmd.AddCommand(runCmd)
	Cmd.AddCommand(validateCmd)
	Cmd.AddCommand(historyCmd)
}
