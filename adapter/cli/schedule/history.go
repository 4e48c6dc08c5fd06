package schedule

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calendraio/calendra/adapter/cli"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent scheduling runs",
	Long: `Lists the most recently finished scheduling runs from local run
history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Scheduler == nil {
			return fmt.Errorf("scheduler service is not available")
		}

		runs, err := app.Scheduler.History(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list run history: %w", err)
		}

		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no scheduling runs recorded yet")
			return nil
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-36s  %-20s  %8s  %11s  %s\n", "RUN ID", "FINISHED", "HOURS", "IMPOSSIBLE", "SPAN")
		for _, r := range runs {
			fmt.Fprintf(w, "%-36s  %-20s  %8d  %11d  %s to %s\n",
				r.ID().String(),
				r.FinishedAt.Format("2006-01-02 15:04:05"),
				r.ScheduledHours,
				r.ImpossibleCount,
				r.CalendarStart.Format("2006-01-02"),
				r.CalendarEnd.Format("2006-01-02"),
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to list")
}
