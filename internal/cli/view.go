// internal/cli/view.go
package plsummary

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwiater/plsummary/internal/telemetry"
	"github.com/mwiater/plsummary/internal/tui"
)

var startViewer = tui.Start

// viewCmd opens the interactive terminal browser over a summary JSON
// written by the summarize command.
var viewCmd = &cobra.Command{
	Use:   "view SUMMARY_JSON",
	Short: "Browse a written summary interactively in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("unable to read summary %s: %w", args[0], err)
		}

		var summary telemetry.Summary
		if err := json.Unmarshal(data, &summary); err != nil {
			return fmt.Errorf("unable to parse summary %s: %w", args[0], err)
		}
		if len(summary) == 0 {
			return fmt.Errorf("summary %s contains no groups", args[0])
		}

		return startViewer(summary)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
