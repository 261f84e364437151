package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	htmlMaxAuthors  = 20
	htmlFullZoomPct = 100
)

// heatmapColors shades the activity matrix from idle to busiest.
var heatmapColors = []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"}

// WriteHTML writes an interactive chart page to the writer.
func WriteHTML(summary *Summary, writer io.Writer) error {
	page := components.NewPage()
	page.PageTitle = summary.Project

	page.AddCharts(
		buildLinesByDateChart(summary),
		buildCommitsByAuthorChart(summary),
		buildActivityHeatMap(summary),
		buildExtensionsPie(summary),
	)

	err := page.Render(writer)
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	return nil
}

func buildLinesByDateChart(summary *Summary) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Lines of Code",
			Subtitle: "Cumulative insertions minus deletions per day",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "slider", Start: 0, End: htmlFullZoomPct},
			opts.DataZoom{Type: "inside"},
		),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Lines"}),
	)

	labels := make([]string, len(summary.LinesByDate))
	data := make([]opts.LineData, len(summary.LinesByDate))

	for i, point := range summary.LinesByDate {
		labels[i] = point.Date
		data[i] = opts.LineData{Value: point.Count}
	}

	line.SetXAxis(labels)
	line.AddSeries("Lines", data)

	if len(summary.FilesByDate) == len(summary.LinesByDate) {
		files := make([]opts.LineData, len(summary.FilesByDate))
		for i, point := range summary.FilesByDate {
			files[i] = opts.LineData{Value: point.Count}
		}

		line.AddSeries("Files", files)
	}

	return line
}

func buildCommitsByAuthorChart(summary *Summary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Commits by Author",
			Subtitle: fmt.Sprintf("Top %d authors by commit count", htmlMaxAuthors),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Author"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Commits"}),
	)

	shown := min(len(summary.Authors), htmlMaxAuthors)

	labels := make([]string, shown)
	data := make([]opts.BarData, shown)

	for i, author := range summary.Authors[:shown] {
		labels[i] = author.Name
		data[i] = opts.BarData{Value: author.Commits}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("Commits", data)

	return bar
}

func buildActivityHeatMap(summary *Summary) *charts.HeatMap {
	hours := make([]string, 0, 24)
	for hour := range 24 {
		hours = append(hours, fmt.Sprintf("%02d", hour))
	}

	days := make([]string, 0, 7)
	for day := range 7 {
		days = append(days, time.Weekday(day).String()[:3])
	}

	var data []opts.HeatMapData

	maxCount := 0

	for day, row := range summary.Activity {
		for hour, count := range row {
			if count > maxCount {
				maxCount = count
			}

			data = append(data, opts.HeatMapData{Value: []any{hour, day, count}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Commit Activity",
			Subtitle: "Commits per weekday and hour, in each author's local time",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category", Data: hours,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category", Data: days,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true), Min: 0, Max: float32(maxCount),
			InRange: &opts.VisualMapInRange{Color: heatmapColors},
			Orient:  "horizontal", Left: "center", Bottom: "2%",
		}),
	)
	hm.AddSeries("Commits", data)

	return hm
}

func buildExtensionsPie(summary *Summary) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Files by Extension",
			Subtitle: "Tracked files in the final snapshot",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	data := make([]opts.PieData, len(summary.FilesByExtension))

	for i, entry := range summary.FilesByExtension {
		name := entry.Name
		if name == "" {
			name = "(none)"
		}

		data[i] = opts.PieData{Name: name, Value: entry.Count}
	}

	pie.AddSeries("Files", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c} ({d}%)",
			}),
		)

	return pie
}
