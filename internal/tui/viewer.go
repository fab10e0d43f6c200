// internal/tui/viewer.go
// Package tui provides the interactive terminal browser for a
// previously written pageload summary.
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/plsummary/internal/telemetry"
	"github.com/mwiater/plsummary/internal/util"
)

const chartHeight = 12

// groupItem is one (platform, app, variant, pageload type) summary
// group in the selection list.
type groupItem struct {
	platform string
	app      string
	variant  string
	plType   string
	series   *telemetry.Series
}

func (i groupItem) Title() string {
	return fmt.Sprintf("%s · %s", i.platform, i.app)
}

func (i groupItem) Description() string {
	variant := i.variant
	if variant == "" {
		variant = "e10s"
	}
	return util.TruncateRunes(
		fmt.Sprintf("%s-%s · %d points", variant, i.plType, len(i.series.Values)), 60)
}

func (i groupItem) FilterValue() string {
	return fmt.Sprintf("%s %s %s %s", i.platform, i.app, i.variant, i.plType)
}

// viewState tracks which screen the viewer is on.
type viewState int

const (
	// viewGroupList is the state where the user picks a summary group.
	viewGroupList viewState = iota
	// viewSeries is the state showing the selected group's chart.
	viewSeries
)

// model is the viewer's Bubble Tea model.
type model struct {
	groupList     list.Model
	state         viewState
	selected      groupItem
	width, height int
}

func newModel(summary telemetry.Summary) model {
	var items []list.Item
	summary.Walk(func(platform, app, variant, plType string, series *telemetry.Series) {
		items = append(items, groupItem{
			platform: platform,
			app:      app,
			variant:  variant,
			plType:   plType,
			series:   series,
		})
	})

	groupList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	groupList.Title = "Pageload Summary"
	return model{groupList: groupList}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.groupList.SetSize(msg.Width-4, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		if m.groupList.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			if m.state == viewGroupList {
				if item, ok := m.groupList.SelectedItem().(groupItem); ok {
					m.selected = item
					m.state = viewSeries
				}
				return m, nil
			}
		case "esc":
			if m.state == viewSeries {
				m.state = viewGroupList
				return m, nil
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.groupList, cmd = m.groupList.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.state == viewSeries {
		return m.seriesView()
	}
	return lipgloss.NewStyle().Margin(1, 2).Render(m.groupList.View())
}

func (m model) seriesView() string {
	headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	statStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Padding(0, 1)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)

	item := m.selected
	header := headerStyle.Render(fmt.Sprintf("%s  %s", item.Title(), item.Description()))

	width := util.Max(m.width-6, 20)
	chart := renderChart(item.series.Values, width, chartHeight)

	points := item.series.Values
	if len(points) == 0 {
		help := helpStyle.Render("(esc to go back, q to quit)")
		return lipgloss.JoinVertical(lipgloss.Left, header, chart, help)
	}
	stats := statStyle.Render(fmt.Sprintf(
		"first %s  last %s  min %.2f  max %.2f  latest %.2f",
		points[0].Time, points[len(points)-1].Time,
		seriesMin(points), seriesMax(points), points[len(points)-1].Value,
	))
	help := helpStyle.Render("(esc to go back, q to quit)")

	return lipgloss.JoinVertical(lipgloss.Left, header, chart, stats, help)
}

// renderChart draws the series as a fixed-height terminal line chart.
// Points are sampled evenly when there are more points than columns.
func renderChart(points []telemetry.Point, width, height int) string {
	if len(points) == 0 {
		return "no data points"
	}

	cols := util.Min(len(points), width)
	sampled := make([]float64, cols)
	for c := 0; c < cols; c++ {
		sampled[c] = points[c*len(points)/cols].Value
	}

	lo, hi := sampled[0], sampled[0]
	for _, v := range sampled {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols))
	}
	for c, v := range sampled {
		row := int(math.Round((hi - v) / span * float64(height-1)))
		grid[row][c] = '●'
	}

	lineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	var b strings.Builder
	for r, rowRunes := range grid {
		b.WriteString(lineStyle.Render(string(rowRunes)))
		if r < height-1 {
			b.WriteByte('\n')
		}
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Render(b.String())
}

func seriesMin(points []telemetry.Point) float64 {
	m := points[0].Value
	for _, p := range points {
		m = math.Min(m, p.Value)
	}
	return m
}

func seriesMax(points []telemetry.Point) float64 {
	m := points[0].Value
	for _, p := range points {
		m = math.Max(m, p.Value)
	}
	return m
}

// Start runs the interactive viewer over the given summary.
func Start(summary telemetry.Summary) error {
	m := newModel(summary)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running summary viewer: %w", err)
	}
	return nil
}
