// internal/report/chart.go
package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mwiater/plsummary/internal/telemetry"
)

// WriteCharts renders one line chart per (platform, app, variant,
// pageload type) group onto a single self-contained HTML page. Charts
// appear in sorted group order so the page is stable across runs.
func WriteCharts(summary telemetry.Summary, path string) error {
	page := components.NewPage()
	page.PageTitle = "Pageload Summary"

	count := 0
	summary.Walk(func(platform, app, variant, plType string, series *telemetry.Series) {
		page.AddCharts(groupChart(platform, app, variant, plType, series))
		count++
	})
	if count == 0 {
		return fmt.Errorf("no summary groups to chart")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create chart page %s: %w", path, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("unable to render chart page %s: %w", path, err)
	}
	return nil
}

func groupChart(platform, app, variant, plType string, series *telemetry.Series) *charts.Line {
	if variant == "" {
		variant = "e10s"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    platform,
			Subtitle: fmt.Sprintf("%s-%s-%s", app, plType, variant),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Push time",
			Type: "category",
			AxisLabel: &opts.AxisLabel{
				Rotate: 25,
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Geomean",
			Type: "value",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "100%",
			Height: "400px",
		}),
	)

	xLabels := make([]string, len(series.Values))
	lineData := make([]opts.LineData, len(series.Values))
	for i, p := range series.Values {
		xLabels[i] = p.Time
		lineData[i] = opts.LineData{Value: p.Value}
	}

	line.SetXAxis(xLabels)
	line.AddSeries("geomean", lineData)
	return line
}
