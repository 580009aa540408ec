package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/studentperf/internal/chart"
	"github.com/abhisek/studentperf/internal/pipeline"
	"github.com/abhisek/studentperf/internal/report"
	"github.com/spf13/cobra"
)

var chartCmd = &cobra.Command{
	Use:   "chart <distribution|gender|absences>",
	Short: "Draw a chart of the stored students",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := chart.ParseKind(args[0])
		if err != nil {
			return err
		}
		width, _ := cmd.Flags().GetInt("width")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		students, err := s.Students().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list students: %w", err)
		}
		out, err := chart.Render(kind, students, width)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <summary|statistics|model>",
	Short: "Generate a report as text, CSV or XLSX",
	Long: "Report builds the performance summary, the per-attribute statistics or the\n" +
		"analysis of a saved model. Without --out the report is printed; with --out it\n" +
		"is written in --format (csv or xlsx).",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := report.ParseKind(args[0])
		if err != nil {
			return err
		}
		formatName, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")
		modelID, _ := cmd.Flags().GetString("model")

		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}
		if outPath == "" && cmd.Flags().Changed("format") && format == report.XLSX {
			return fmt.Errorf("xlsx reports need --out")
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		var tables []report.Table
		switch kind {
		case report.Summary, report.Statistics:
			students, err := s.Students().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list students: %w", err)
			}
			if kind == report.Summary {
				tables = append(tables, report.PerformanceSummary(students))
			} else {
				tables = append(tables, report.StudentStatistics(students))
			}
		case report.Model:
			m, rec, err := pipeline.NewService(s.Students(), s.Models()).LoadModel(cmd.Context(), modelID)
			if err != nil {
				return err
			}
			tables = report.ModelAnalysis(rec, m)
		}

		if outPath == "" {
			if cmd.Flags().Changed("format") && format == report.CSV {
				return report.WriteCSV(cmd.OutOrStdout(), tables...)
			}
			parts := make([]string, len(tables))
			for i, t := range tables {
				parts[i] = t.String()
			}
			fmt.Fprint(cmd.OutOrStdout(), strings.Join(parts, "\n"))
			return nil
		}

		if err := report.Write(outPath, format, tables...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s report to %s\n", kind, outPath)
		return nil
	},
}

func init() {
	chartCmd.Flags().Int("width", 80, "Chart width in columns")

	reportCmd.Flags().String("format", "csv", "Output format: csv or xlsx")
	reportCmd.Flags().String("out", "", "Output file (default: print as text)")
	reportCmd.Flags().String("model", "", "Model ID for the model report (default: latest)")
}
