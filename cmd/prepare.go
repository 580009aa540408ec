package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/studentperf/internal/pipeline"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Run feature preparation on the stored students and show the result",
	Long: "Prepare applies the missing value strategy, label policy and scaling that\n" +
		"train would use, without fitting a model. It reports how many rows survive,\n" +
		"the fitted scaler and the first rows of the feature matrix.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := trainConfig(cmd)
		if err != nil {
			return err
		}
		n, _ := cmd.Flags().GetInt("rows")
		if n < 0 {
			return fmt.Errorf("--rows must not be negative")
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		svc := pipeline.NewService(s.Students(), s.Models())
		p, opts, err := svc.Prepare(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("prepare: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Features: %s\n", strings.Join(p.Features, ", "))
		fmt.Fprintf(out, "Policy:   %s\n", opts.Policy.Name())
		fmt.Fprintf(out, "Missing:  %s\n", opts.Missing)
		fmt.Fprintf(out, "Rows:     %d kept, %d dropped\n", p.Rows(), p.Dropped)

		counts := map[string]int{}
		for _, label := range p.Target {
			counts[label]++
		}
		labels := make([]string, 0, len(counts))
		for label := range counts {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		parts := make([]string, len(labels))
		for i, label := range labels {
			parts[i] = fmt.Sprintf("%s %d", label, counts[label])
		}
		fmt.Fprintf(out, "Labels:   %s\n\n", strings.Join(parts, ", "))

		if p.Scaler == nil {
			fmt.Fprintln(out, "Scaling:  off")
		} else {
			fmt.Fprintf(out, "Scaling:  %s\n", p.Scaler.Method)
			fmt.Fprintf(out, "%-16s  %12s  %12s\n", "Feature", "Offset", "Scale")
			fmt.Fprintln(out, strings.Repeat("─", 44))
			for j, col := range p.Scaler.Columns {
				fmt.Fprintf(out, "%-16s  %12.4f  %12.4f\n", col, p.Scaler.Offset[j], p.Scaler.Scale[j])
			}
		}

		if n > p.Rows() {
			n = p.Rows()
		}
		if n == 0 {
			return nil
		}
		fmt.Fprintf(out, "\nFirst %d rows:\n", n)
		header := []string{fmt.Sprintf("%-4s", "Row")}
		for _, f := range p.Features {
			header = append(header, fmt.Sprintf("%10s", truncate(f, 10)))
		}
		header = append(header, "Label")
		fmt.Fprintln(out, strings.Join(header, "  "))
		fmt.Fprintln(out, strings.Repeat("─", 6+12*len(p.Features)+10))
		for i := 0; i < n; i++ {
			line := []string{fmt.Sprintf("%-4d", i+1)}
			for _, v := range mat.Row(nil, i, p.Matrix) {
				line = append(line, fmt.Sprintf("%10.4f", v))
			}
			line = append(line, p.Target[i])
			fmt.Fprintln(out, strings.Join(line, "  "))
		}
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func init() {
	f := prepareCmd.Flags()
	f.String("preset", "", "Feature preset: "+strings.Join(pipeline.PresetNames(), ", "))
	f.String("features", "", "Comma separated feature columns (overrides the preset)")
	f.String("policy", "", "Label policy: weighted, raw_score or stored")
	f.String("missing", "", "Missing value strategy: drop, mean or median")
	f.String("scaling", "", "Normalization: minmax or zscore")
	f.Bool("no-normalize", false, "Leave features unscaled")
	f.Int("rows", 5, "Number of matrix rows to show")
}
