package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-optimizer/internal/dataset"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	"github.com/noah-isme/timetable-optimizer/internal/timetable"
	"github.com/noah-isme/timetable-optimizer/pkg/export"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputCSV   = "csv"
)

type generateOptions struct {
	count   int
	output  string
	workers int
}

func newGenerateCommand(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate ranked timetable candidates",
		Example: `  timetable-cli generate -f campus.yaml
  timetable-cli generate -f campus.yaml -n 5 -o json --workers 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.requireDataset(); err != nil {
				return err
			}
			switch opts.output {
			case outputTable, outputJSON, outputCSV:
			default:
				return fmt.Errorf("unknown output format %q (want table, json or csv)", opts.output)
			}

			input, err := dataset.Load(root.datasetPath)
			if err != nil {
				return err
			}
			log := root.logger()
			defer log.Sync() //nolint:errcheck

			optimizer, err := timetable.New(input, timetable.WithWorkers(opts.workers), timetable.WithLogger(log))
			if err != nil {
				return fmt.Errorf("invalid dataset: %w", err)
			}
			candidates, err := optimizer.Generate(commandContext(cmd), opts.count)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch opts.output {
			case outputJSON:
				return writeJSON(out, candidates)
			case outputCSV:
				return writeCSV(out, candidates)
			default:
				return writeTable(out, candidates)
			}
		},
	}
	cmd.Flags().IntVarP(&opts.count, "count", "n", 3, "Number of candidates to generate")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "Output format: table, json or csv")
	cmd.Flags().IntVar(&opts.workers, "workers", 1, "Scheduling passes run in parallel")
	return cmd
}

func writeJSON(w io.Writer, candidates []models.GeneratedTimetable) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(candidates)
}

var csvHeaders = []string{"candidate_id", "rank", "score", "day", "start_time", "end_time", "time_slot_id", "batch_id", "subject_id", "faculty_id", "classroom_id", "fixed"}

func writeCSV(w io.Writer, candidates []models.GeneratedTimetable) error {
	data := export.Dataset{Headers: csvHeaders}
	for rank, candidate := range candidates {
		for _, entry := range candidate.Entries {
			data.Rows = append(data.Rows, map[string]string{
				"candidate_id": candidate.ID,
				"rank":         strconv.Itoa(rank + 1),
				"score":        strconv.Itoa(candidate.Score),
				"day":          entry.Day,
				"start_time":   entry.TimeSlot.StartTime,
				"end_time":     entry.TimeSlot.EndTime,
				"time_slot_id": entry.TimeSlot.ID,
				"batch_id":     entry.BatchID,
				"subject_id":   entry.SubjectID,
				"faculty_id":   entry.FacultyID,
				"classroom_id": entry.ClassroomID,
				"fixed":        strconv.FormatBool(entry.Fixed),
			})
		}
	}
	return export.NewCSVExporter().Write(w, data)
}

func writeTable(w io.Writer, candidates []models.GeneratedTimetable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tID\tSTRATEGY\tSCORE\tENTRIES\tCONFLICTS\tUTILIZATION\tBALANCE\tPREFERENCE")
	for rank, c := range candidates {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			rank+1, c.ID, c.Strategy, c.Score, len(c.Entries), c.Metrics.ConflictCount,
			c.Metrics.ClassroomUtilization, c.Metrics.FacultyWorkloadBalance, c.Metrics.PreferenceMatch)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	if len(best.Conflicts) > 0 {
		fmt.Fprintf(w, "\nConflicts in %s:\n", best.ID)
		for _, conflict := range best.Conflicts {
			fmt.Fprintf(w, "  [%s/%s] %s\n", conflict.Severity, conflict.Type, conflict.Description)
		}
	}
	if len(best.Suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggestions:")
		for _, s := range best.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	return nil
}
