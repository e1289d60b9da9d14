// Package plot renders the reconstructed rank history as an HTML chart.
package plot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/rankhist/internal/history"
)

// Dark palette shared by every chart.
const (
	chartBackground = "#0a0a0a"
	chartText       = "#e7e5e4"
	chartTextMuted  = "#a8a29e"
	chartAxis       = "#44403c"
	chartGrid       = "#1c1917"
	seriesColor     = "#00d9ff"
)

// dataZoomEndPercent is the initial visible range of the zoom slider.
const dataZoomEndPercent = 100

// ChartOpts provides themed option builders for history charts.
type ChartOpts struct{}

// DefaultChartOpts returns the default dark-theme chart options.
func DefaultChartOpts() *ChartOpts {
	return &ChartOpts{}
}

// Init returns initialization options with the themed background.
func (c *ChartOpts) Init(width, height string) opts.Initialization {
	return opts.Initialization{
		Width:           width,
		Height:          height,
		BackgroundColor: chartBackground,
	}
}

// Title returns title options with themed text colors.
func (c *ChartOpts) Title(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: chartText},
		SubtitleStyle: &opts.TextStyle{Color: chartTextMuted},
	}
}

// XAxis returns x-axis options with themed colors.
func (c *ChartOpts) XAxis(name string) opts.XAxis {
	return opts.XAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Color: chartTextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: chartAxis}},
	}
}

// YAxis returns y-axis options with themed colors.
func (c *ChartOpts) YAxis(name string) opts.YAxis {
	return opts.YAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Color: chartTextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: chartAxis}},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: chartGrid},
		},
	}
}

// Tooltip returns tooltip options.
func (c *ChartOpts) Tooltip() opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}
}

// DataZoom returns standard data zoom options.
func (c *ChartOpts) DataZoom() []opts.DataZoom {
	return []opts.DataZoom{
		{Type: "slider", Start: 0, End: dataZoomEndPercent},
		{Type: "inside"},
	}
}

// BuildHistoryChart constructs the progression line chart. Benchmarks with
// harmonic-mean energy plot the energy series; the rest plot the rank index
// (rank + clamped progress).
func BuildHistoryChart(points []history.Point, rankNames []string, title string) *charts.Line {
	cOpts := DefaultChartOpts()

	yLabel := "Rank Index"
	seriesName := "Rank Progress"

	if history.HasEnergy(points) {
		yLabel = "Energy"
		seriesName = "Energy"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init("100%", "500px")),
		charts.WithTitleOpts(cOpts.Title(title, fmt.Sprintf("%d dates", len(points)))),
		charts.WithTooltipOpts(cOpts.Tooltip()),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithXAxisOpts(cOpts.XAxis("Date")),
		charts.WithYAxisOpts(cOpts.YAxis(yLabel)),
	)

	labels := make([]string, len(points))
	for i, point := range points {
		labels[i] = point.Date
	}

	line.SetXAxis(labels)
	line.AddSeries(seriesName, seriesData(points, rankNames),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: seriesColor}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: seriesColor}),
	)

	return line
}

// seriesData maps points to chart values for whichever series applies.
func seriesData(points []history.Point, rankNames []string) []opts.LineData {
	data := make([]opts.LineData, len(points))

	if history.HasEnergy(points) {
		for i, point := range points {
			value := 0.0
			if point.Energy != nil {
				value = *point.Energy
			}

			data[i] = opts.LineData{Value: value, Name: point.RankName}
		}

		return data
	}

	maxRankIndex := len(rankNames) - 1
	if maxRankIndex < 0 {
		maxRankIndex = int(^uint(0) >> 1)
	}

	for i, point := range points {
		data[i] = opts.LineData{Value: point.RankValue(maxRankIndex), Name: point.RankName}
	}

	return data
}

// Render writes the history chart as a standalone HTML page.
func Render(w io.Writer, points []history.Point, rankNames []string, title string) error {
	line := BuildHistoryChart(points, rankNames, title)

	err := line.Render(w)
	if err != nil {
		return fmt.Errorf("render history chart: %w", err)
	}

	return nil
}
