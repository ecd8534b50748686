package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-optimizer/internal/dataset"
	"github.com/noah-isme/timetable-optimizer/internal/timetable"
)

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a dataset for structural errors without scheduling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.requireDataset(); err != nil {
				return err
			}
			input, err := dataset.Load(opts.datasetPath)
			if err != nil {
				return err
			}
			if _, err := timetable.New(input); err != nil {
				return fmt.Errorf("invalid dataset: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dataset ok: %d classrooms, %d subjects, %d faculty, %d batches, %d time slots, %d fixed classes\n",
				len(input.Classrooms), len(input.Subjects), len(input.Faculty), len(input.Batches), len(input.TimeSlots), len(input.FixedClasses))
			return nil
		},
	}
}
