// internal/cli/platforms.go
package plsummary

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/plsummary/internal/telemetry"
)

// platformsCmd lists the distinct platform values in a CSV export,
// which helps correct a --platforms filter that matched nothing.
var platformsCmd = &cobra.Command{
	Use:   "platforms CSV_DATA",
	Short: "List the distinct platforms present in a telemetry CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := telemetry.LoadCSV(args[0])
		if err != nil {
			return err
		}

		counts, err := telemetry.PlatformCounts(rows)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)

		header := color.New(color.Bold).SprintFunc()
		cmd.Println(header(fmt.Sprintf("%d platforms in %s:", len(names), args[0])))
		for _, name := range names {
			cmd.Printf("  %s (%d rows)\n", name, counts[name])
		}

		if DebugEnabled() {
			pp.Println(counts)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}
