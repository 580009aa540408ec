package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abhisek/studentperf/internal/classify"
	"github.com/abhisek/studentperf/internal/pipeline"
	"github.com/abhisek/studentperf/internal/report"
	"github.com/abhisek/studentperf/internal/store"
	"github.com/spf13/cobra"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect, export and import trained models",
}

var modelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved models, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		models, err := s.Models().List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list models: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(models) == 0 {
			fmt.Fprintln(out, "No models found.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-19s  %-13s  %-9s  %6s  %8s  %s\n",
			"ID", "Created", "Algorithm", "Policy", "Rows", "Accuracy", "Features")
		fmt.Fprintln(out, strings.Repeat("─", 120))
		for _, m := range models {
			fmt.Fprintf(out, "%-36s  %-19s  %-13s  %-9s  %6d  %8.4f  %s\n",
				m.ID,
				m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				m.Algorithm,
				m.Policy,
				m.Rows,
				m.Accuracy,
				strings.Join(m.Features, ","),
			)
		}
		return nil
	},
}

var modelShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a model's metrics and confusion matrix (default: latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		m, rec, err := pipeline.NewService(s.Students(), s.Models()).LoadModel(cmd.Context(), firstArg(args))
		if err != nil {
			return err
		}
		for i, t := range report.ModelAnalysis(rec, m) {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			fmt.Fprint(cmd.OutOrStdout(), t.String())
		}
		return nil
	},
}

var modelExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Write a model blob as JSON (default: latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		_, rec, err := pipeline.NewService(s.Students(), s.Models()).LoadModel(cmd.Context(), firstArg(args))
		if err != nil {
			return err
		}

		if outPath == "" {
			_, err := cmd.OutOrStdout().Write(rec.Data)
			return err
		}
		if err := os.WriteFile(outPath, rec.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported model %s to %s\n", rec.ID, outPath)
		return nil
	},
}

var modelImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Validate and store a model blob exported earlier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, _ := cmd.Flags().GetString("policy")

		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read model: %w", err)
		}

		m, err := classify.UnmarshalModel(data)
		if err != nil {
			return fmt.Errorf("invalid model blob: %w", err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rec := &store.ModelRecord{
			Algorithm: string(m.Algorithm),
			Policy:    policy,
			Features:  m.Features,
			Accuracy:  m.Metrics.Accuracy,
			Rows:      m.Metrics.TrainRows + m.Metrics.TestRows,
			Data:      data,
		}
		if err := s.Models().Save(cmd.Context(), rec); err != nil {
			return fmt.Errorf("save model: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported model %s (%s, %d features)\n", rec.ID, rec.Algorithm, len(rec.Features))
		return nil
	},
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	modelListCmd.Flags().Int("limit", 20, "Maximum number of models to show")
	modelExportCmd.Flags().String("out", "", "Output file (default: stdout)")
	modelImportCmd.Flags().String("policy", "imported", "Label policy the model was trained with")

	modelCmd.AddCommand(modelListCmd)
	modelCmd.AddCommand(modelShowCmd)
	modelCmd.AddCommand(modelExportCmd)
	modelCmd.AddCommand(modelImportCmd)
}
