package schedule

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/calendraio/calendra/adapter/cli"
	"github.com/calendraio/calendra/internal/scheduling/application/dto"
	"github.com/calendraio/calendra/internal/scheduling/application/services"
)

var runInputFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Schedule goals over a calendar span and print the FinalTasks JSON",
	Long: `Reads an Input document
from --file or stdin, places every goal's activities onto the calendar, and
prints the resulting FinalTasks as JSON.

Examples:
  calendra schedule run --file goals.json
  cat goals.json | calendra schedule run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(runInputFile)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		in, err := dto.ParseInput(raw)
		if err != nil {
			return fmt.Errorf("invalid input: %w", err)
		}

		app := cli.GetApp()
		if app == nil || app.Scheduler == nil {
			return fmt.Errorf("scheduler service is not available")
		}

		inputHash := services.HashInput(raw)
		final, err := app.Scheduler.Run(cmd.Context(), inputHash, in)
		if err != nil {
			return fmt.Errorf("scheduling run failed: %w", err)
		}

		out, err := dto.MarshalJSON(final)
		if err != nil {
			return fmt.Errorf("failed to render output: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runInputFile, "file", "f", "", "path to the Input JSON document (default: stdin)")
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
