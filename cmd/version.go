package cmd

import (
	"fmt"

	"github.com/abhisek/studentperf/internal/classify"
	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version and model format",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "studentperf", version)
		fmt.Fprintln(out, "model format", classify.BlobFormat)
	},
}
