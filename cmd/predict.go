package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/abhisek/studentperf/internal/dataset"
	"github.com/abhisek/studentperf/internal/pipeline"
	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict [value...]",
	Short: "Predict the performance category of one student",
	Long: "Predict classifies one student with a saved model (the latest unless --model\n" +
		"is given). Pass feature values either as --set name=value or positionally in\n" +
		"the model's feature order.",
	RunE: func(cmd *cobra.Command, args []string) error {
		modelID, _ := cmd.Flags().GetString("model")
		sets, _ := cmd.Flags().GetStringArray("set")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		svc := pipeline.NewService(s.Students(), s.Models())
		m, rec, err := svc.LoadModel(cmd.Context(), modelID)
		if err != nil {
			return err
		}

		values, err := predictValues(m.Features, sets, args)
		if err != nil {
			return err
		}

		runner := pipeline.WithRunLog(svc, s.Events())
		res, err := runner.Predict(cmd.Context(), pipeline.PredictRequest{ModelID: rec.ID, Values: values})
		if err != nil {
			return fmt.Errorf("predict: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Category: %s\n", res.Label)
		fmt.Fprintf(out, "Model:    %s (%s)\n\n", res.ModelID, res.Algorithm)

		labels := make([]string, 0, len(res.Probabilities))
		for l := range res.Probabilities {
			labels = append(labels, l)
		}
		sort.Slice(labels, func(i, j int) bool {
			return res.Probabilities[labels[i]] > res.Probabilities[labels[j]]
		})
		for _, l := range labels {
			fmt.Fprintf(out, "  %-10s %6.2f%%\n", l, 100*res.Probabilities[l])
		}
		return nil
	},
}

// predictValues merges name=value pairs and positional values into a named
// map. Positional values follow features in order.
func predictValues(features, sets, positional []string) (map[string]float64, error) {
	if len(positional) > len(features) {
		return nil, &dataset.DimensionMismatchError{Want: len(features), Got: len(positional)}
	}
	values := make(map[string]float64, len(features))
	for i, raw := range positional {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("value for %s: %w", features[i], err)
		}
		values[features[i]] = v
	}
	for _, kv := range sets {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: want name=value", kv)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("value for %s: %w", name, err)
		}
		values[strings.TrimSpace(name)] = v
	}
	return values, nil
}

func init() {
	predictCmd.Flags().String("model", "", "Model ID (default: latest)")
	predictCmd.Flags().StringArray("set", nil, "Feature value as name=value (repeatable)")
}
