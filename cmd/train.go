package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/studentperf/internal/pipeline"
	"github.com/abhisek/studentperf/internal/report"
	"github.com/abhisek/studentperf/internal/store"
	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a classifier on the stored students",
	Long: "Train prepares the stored students, fits a decision tree or naive Bayes\n" +
		"classifier on 80% of them, reports accuracy on the rest and saves the model.\n" +
		"Flags override STUDENTPERF_* environment variables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := trainConfig(cmd)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runner := pipeline.WithRunLog(pipeline.NewService(s.Students(), s.Models()), s.Events())
		res, err := runner.Train(cmd.Context(), pipeline.TrainRequest{Config: cfg})
		if err != nil {
			return fmt.Errorf("train: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Model:     %s\n", res.ModelID)
		fmt.Fprintf(out, "Algorithm: %s\n", res.Model.Algorithm)
		fmt.Fprintf(out, "Policy:    %s\n", res.Policy)
		fmt.Fprintf(out, "Features:  %s\n", strings.Join(res.Model.Features, ", "))
		fmt.Fprintf(out, "Rows:      %d used, %d dropped\n", res.Rows, res.Dropped)
		fmt.Fprintf(out, "Accuracy:  %.4f (baseline %.4f)\n\n", res.Accuracy, res.Model.Metrics.Baseline)

		tables := report.ModelAnalysis(&store.ModelRecord{ID: res.ModelID, Policy: res.Policy, Rows: res.Rows}, res.Model)
		fmt.Fprint(out, tables[len(tables)-1].String())
		return nil
	},
}

// trainConfig starts from the environment and applies explicitly set flags.
func trainConfig(cmd *cobra.Command) (pipeline.Config, error) {
	cfg := pipeline.ConfigFromEnv()
	f := cmd.Flags()

	if f.Changed("preset") {
		cfg.Preset, _ = f.GetString("preset")
	}
	if f.Changed("features") {
		v, _ := f.GetString("features")
		cfg.Features = pipeline.SplitList(v)
	}
	if f.Changed("policy") {
		cfg.Policy, _ = f.GetString("policy")
	}
	if f.Changed("algorithm") {
		cfg.Algorithm, _ = f.GetString("algorithm")
	}
	if f.Changed("missing") {
		cfg.Missing, _ = f.GetString("missing")
	}
	if f.Changed("scaling") {
		cfg.Scaling, _ = f.GetString("scaling")
		cfg.Normalize = true
	}
	if f.Changed("no-normalize") {
		off, _ := f.GetBool("no-normalize")
		cfg.Normalize = !off
	}
	if f.Changed("seed") {
		cfg.Seed, _ = f.GetUint64("seed")
	}
	if f.Changed("max-depth") {
		cfg.MaxDepth, _ = f.GetInt("max-depth")
	}
	if f.Changed("test-fraction") {
		cfg.TestFraction, _ = f.GetFloat64("test-fraction")
	}
	return cfg, cfg.Validate()
}

func init() {
	f := trainCmd.Flags()
	f.String("preset", "", "Feature preset: "+strings.Join(pipeline.PresetNames(), ", "))
	f.String("features", "", "Comma separated feature columns (overrides the preset)")
	f.String("policy", "", "Label policy: weighted, raw_score or stored")
	f.String("algorithm", "", "decision_tree or naive_bayes")
	f.String("missing", "", "Missing value strategy: drop, mean or median")
	f.String("scaling", "", "Normalization: minmax or zscore")
	f.Bool("no-normalize", false, "Train on unscaled features")
	f.Uint64("seed", 0, "Train/test shuffle seed")
	f.Int("max-depth", 0, "Maximum decision tree depth (0 = unlimited)")
	f.Float64("test-fraction", 0, "Share of rows held out for accuracy")
}
