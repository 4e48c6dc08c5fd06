package schedule

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calendraio/calendra/internal/scheduling/application/dto"
)

const naiveDisplayLayout = "2006-01-02T15:04:05"

var validateInputFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an Input document without scheduling it",
	Long: `Parses and validates an Input document (schema, deadline-before-start,
unknown child/after_goals references, cyclic children graphs) without
running the placer. Exits non-zero and prints the InvalidInput reason on
failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(validateInputFile)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		in, err := dto.ParseInput(raw)
		if err != nil {
			return fmt.Errorf("invalid input: %w", err)
		}

		gs, _, err := dto.ToGoalSet(in)
		if err != nil {
			return fmt.Errorf("invalid input: %w", err)
		}
		if err := gs.Validate(); err != nil {
			return fmt.Errorf("invalid input: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "valid: %d goal(s), calendar span %s to %s\n",
			len(gs), in.CalendarStart.Format(naiveDisplayLayout), in.CalendarEnd.Format(naiveDisplayLayout))
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateInputFile, "file", "f", "", "path to the Input JSON document (default: stdin)")
}
