package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-optimizer/pkg/logger"
)

type rootOptions struct {
	datasetPath string
	verbose     bool
}

// NewRootCommand assembles the CLI command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "timetable-cli",
		Short: "Generate and check class timetables from a dataset file",
		Long: `timetable-cli runs the timetable optimizer against a YAML or JSON dataset
describing classrooms, subjects, faculty, batches and time slots.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.datasetPath, "file", "f", "", "Path to the dataset (YAML or JSON)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log each scheduling pass to stderr")

	root.AddCommand(newGenerateCommand(opts))
	root.AddCommand(newValidateCommand(opts))
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *rootOptions) requireDataset() error {
	if o.datasetPath == "" {
		return fmt.Errorf("a dataset is required, pass it with --file")
	}
	return nil
}

func (o *rootOptions) logger() *zap.Logger {
	l, err := logger.NewCLI(o.verbose)
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
