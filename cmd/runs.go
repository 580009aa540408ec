package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/studentperf/internal/store"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the training and prediction run log",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runQueryOpts(cmd)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.Events().QueryRuns(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query runs: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-7s  %-13s  %-9s  %-8s  %-10s  %-6s  %s\n",
			"Seq", "Timestamp", "Kind", "Algorithm", "Model", "Accuracy", "Label", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 100))

		for _, r := range runs {
			ok := "✓"
			if !r.Success {
				ok = "✗ " + r.ErrorMessage
			}
			acc := "-"
			if r.Accuracy != nil {
				acc = fmt.Sprintf("%.4f", *r.Accuracy)
			}
			model := r.ModelID
			if len(model) > 8 {
				model = model[:8]
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-7s  %-13s  %-9s  %-8s  %-10s  %-6d  %s\n",
				r.Sequence,
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				r.Kind,
				orEmpty(r.Algorithm),
				orEmpty(model),
				acc,
				orEmpty(r.Label),
				r.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var runsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize runs per kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.Events().QueryRuns(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query runs: %w", err)
		}

		type agg struct {
			total, failed int
			latency       []float64
			accuracy      []float64
		}
		byKind := map[string]*agg{store.RunTrain: {}, store.RunPredict: {}}
		for _, r := range runs {
			a, ok := byKind[r.Kind]
			if !ok {
				continue
			}
			a.total++
			if !r.Success {
				a.failed++
			}
			a.latency = append(a.latency, float64(r.LatencyMs))
			if r.Accuracy != nil {
				a.accuracy = append(a.accuracy, *r.Accuracy)
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-8s  %6s  %6s  %10s  %13s\n", "Kind", "Runs", "Failed", "Avg ms", "Avg accuracy")
		fmt.Fprintln(out, strings.Repeat("─", 52))
		for _, kind := range []string{store.RunTrain, store.RunPredict} {
			a := byKind[kind]
			lat, acc := "-", "-"
			if len(a.latency) > 0 {
				lat = fmt.Sprintf("%.1f", stat.Mean(a.latency, nil))
			}
			if len(a.accuracy) > 0 {
				acc = fmt.Sprintf("%.4f", stat.Mean(a.accuracy, nil))
			}
			fmt.Fprintf(out, "%-8s  %6d  %6d  %10s  %13s\n", kind, a.total, a.failed, lat, acc)
		}
		return nil
	},
}

// runQueryOpts reads the list filters.
func runQueryOpts(cmd *cobra.Command) (store.QueryOpts, error) {
	var opts store.QueryOpts
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	opts.Kind, _ = cmd.Flags().GetString("kind")
	if opts.Kind != "" && opts.Kind != store.RunTrain && opts.Kind != store.RunPredict {
		return opts, fmt.Errorf("invalid --kind %q: want %s or %s", opts.Kind, store.RunTrain, store.RunPredict)
	}
	if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
		opts.From = time.Now().Add(-since)
	}
	return opts, nil
}

func orEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	runsListCmd.Flags().Int("limit", 20, "Maximum number of runs to show")
	runsListCmd.Flags().String("kind", "", "Only show train or predict runs")
	runsListCmd.Flags().Duration("since", 0, "Only show runs newer than this (e.g. 24h)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsStatsCmd)
}
