// internal/cli/summarize.go
package plsummary

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/plsummary/internal/logging"
	"github.com/mwiater/plsummary/internal/report"
	"github.com/mwiater/plsummary/internal/telemetry"
)

type summarizeOptions struct {
	timespan    int
	platforms   []string
	output      string
	chartOutput string
	noChart     bool
}

var summarizeOpts summarizeOptions

// summarizeCmd turns an exported telemetry CSV into summary JSON + charts.
var summarizeCmd = &cobra.Command{
	Use:   "summarize CSV_DATA",
	Short: "Generate a geomean summary from a telemetry CSV export",
	Long: `Read pageload telemetry in the CSV format returned by the telemetry
dashboard query, group it by platform/application/variant/pageload type,
bucket data points that landed within --timespan hours of each other, and
write the rolling geomean series as JSON plus an HTML chart page.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mergeSummarizeDefaults(cmd)

		dataPath := args[0]
		if _, err := os.Stat(dataPath); err != nil {
			return fmt.Errorf("the given data file doesn't exist: %s", dataPath)
		}

		rows, err := telemetry.LoadCSV(dataPath)
		if err != nil {
			return err
		}
		logging.LogEvent("Loaded %d data rows from %s", len(rows)-1, dataPath)

		orgData, err := telemetry.Organize(rows, summarizeOpts.platforms)
		if err != nil {
			return err
		}
		logging.DebugEvent("Organized data for %d platforms", len(orgData))

		summary, err := telemetry.Summarize(orgData, summarizeOpts.timespan)
		if err != nil {
			return err
		}

		dir, file, err := report.ResolveOutput(summarizeOpts.output)
		if err != nil {
			return err
		}

		jsonPath, err := report.WriteSummary(dir, file, summary)
		if err != nil {
			return err
		}
		cmd.Println(successLine("Summary written to " + jsonPath))

		if summarizeOpts.noChart {
			return nil
		}
		chartPath := summarizeOpts.chartOutput
		if chartPath == "" {
			chartPath = filepath.Join(dir, "charts.html")
		}
		if err := report.WriteCharts(summary, chartPath); err != nil {
			return err
		}
		cmd.Println(successLine("Charts written to " + chartPath))
		return nil
	},
}

var successLine = color.New(color.FgGreen).SprintFunc()

func init() {
	summarizeCmd.Flags().IntVar(&summarizeOpts.timespan, "timespan", 24, "Minimum time between each data point in hours")
	summarizeCmd.Flags().StringSliceVar(&summarizeOpts.platforms, "platforms", nil, "Platforms to summarize (default: all platforms)")
	summarizeCmd.Flags().StringVar(&summarizeOpts.output, "output", ".", "Where the summary JSON is saved; a path with a file suffix names the file, otherwise a directory holding summary.json")
	summarizeCmd.Flags().StringVar(&summarizeOpts.chartOutput, "chart-output", "", "Destination HTML chart path (default: charts.html next to the JSON)")
	summarizeCmd.Flags().BoolVar(&summarizeOpts.noChart, "no-chart", false, "Skip writing the HTML chart page")

	rootCmd.AddCommand(summarizeCmd)
}

// mergeSummarizeDefaults backfills unset flags from the loaded config
// so precedence is flags > config file > built-in defaults.
func mergeSummarizeDefaults(cmd *cobra.Command) {
	cfg := getConfig()
	if !cmd.Flags().Changed("timespan") && cfg.Timespan > 0 {
		summarizeOpts.timespan = cfg.Timespan
	}
	if !cmd.Flags().Changed("platforms") && len(cfg.Platforms) > 0 {
		summarizeOpts.platforms = cfg.Platforms
	}
	if !cmd.Flags().Changed("output") && cfg.Output != "" {
		summarizeOpts.output = cfg.Output
	}
	if !cmd.Flags().Changed("chart-output") && cfg.ChartOutput != "" {
		summarizeOpts.chartOutput = cfg.ChartOutput
	}
	if !cmd.Flags().Changed("no-chart") {
		summarizeOpts.noChart = cfg.NoChart
	}
}
