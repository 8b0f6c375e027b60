package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gantryworks/gantry/internal/model"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar draws the success/failure split as one stacked horizontal
// bar with counts underneath.
func renderStatusBar(b model.StatusBreakdown, width int) string {
	if width < 10 {
		width = 10
	}
	total := b.Total()
	if total == 0 {
		return helpStyle.Render("No tasks match the current filters")
	}

	successCells := int(float64(width) * float64(b.Success) / float64(total))
	if successCells > width {
		successCells = width
	}
	failureCells := width - successCells

	bar := successStyle.Render(strings.Repeat("█", successCells)) +
		failureStyle.Render(strings.Repeat("█", failureCells))

	counts := fmt.Sprintf("%s %d  %s %d",
		successStyle.Render("■ success"), b.Success,
		failureStyle.Render("■ failure"), b.Failure)

	return lipgloss.JoinVertical(lipgloss.Left, bar, counts)
}

// renderCodeChart draws the error-code distribution as a bar chart with a
// per-code legend.
func renderCodeChart(codes []model.CodeCount, width, height int) string {
	if len(codes) == 0 {
		return helpStyle.Render("No failures in selection")
	}

	legendWidth := 16
	chartWidth := width - legendWidth - 2
	if chartWidth < 12 {
		chartWidth = 12
	}
	if height < 3 {
		height = 3
	}

	bc := barchart.New(chartWidth, height,
		barchart.WithBarGap(1),
		barchart.WithNoAxis(),
	)
	for i, cc := range codes {
		bc.Push(barchart.BarData{
			Label: cc.Code,
			Values: []barchart.BarValue{
				{Name: cc.Code, Value: float64(cc.Count), Style: barStyle(seriesColor(i))},
			},
		})
	}
	bc.Draw()

	legendLines := make([]string, 0, len(codes))
	for i, cc := range codes {
		swatch := lipgloss.NewStyle().Foreground(seriesColor(i)).Render("■")
		legendLines = append(legendLines, fmt.Sprintf("%s %-6s %5d", swatch, cc.Code, cc.Count))
	}

	return joinChartWithLegend(bc.View(), legendLines, chartWidth, height)
}

// renderMachineChart draws tasks-per-machine as a bar chart with a legend.
func renderMachineChart(machines []model.MachineCount, width, height int) string {
	if len(machines) == 0 {
		return helpStyle.Render("No tasks match the current filters")
	}

	legendWidth := 16
	chartWidth := width - legendWidth - 2
	if chartWidth < 12 {
		chartWidth = 12
	}
	if height < 3 {
		height = 3
	}

	bc := barchart.New(chartWidth, height,
		barchart.WithBarGap(1),
		barchart.WithNoAxis(),
	)
	for i, mc := range machines {
		bc.Push(barchart.BarData{
			Label: mc.MachineID,
			Values: []barchart.BarValue{
				{Name: mc.MachineID, Value: float64(mc.Count), Style: barStyle(seriesColor(i))},
			},
		})
	}
	bc.Draw()

	legendLines := make([]string, 0, len(machines))
	for i, mc := range machines {
		swatch := lipgloss.NewStyle().Foreground(seriesColor(i)).Render("■")
		legendLines = append(legendLines, fmt.Sprintf("%s %-6s %5d", swatch, mc.MachineID, mc.Count))
	}

	return joinChartWithLegend(bc.View(), legendLines, chartWidth, height)
}

// durationBucket is one time slice of the duration-over-time chart.
type durationBucket struct {
	start       time.Time
	meanSeconds float64
	count       int
	hasFailure  bool
}

// bucketDurations slices the time-sorted series into at most n equal-width
// buckets and computes the per-bucket mean duration. Buckets with no samples
// are kept (zero mean) so the time axis stays evenly spaced.
func bucketDurations(series []model.DurationPoint, n int) []durationBucket {
	if len(series) == 0 || n <= 0 {
		return nil
	}

	first := series[0].Timestamp
	last := series[len(series)-1].Timestamp
	span := last.Sub(first)
	if span <= 0 {
		b := durationBucket{start: first}
		for _, p := range series {
			b.meanSeconds += p.DurationSeconds
			b.count++
			if p.Status == model.StatusFailure {
				b.hasFailure = true
			}
		}
		b.meanSeconds /= float64(b.count)
		return []durationBucket{b}
	}

	step := span / time.Duration(n)
	if step <= 0 {
		step = time.Nanosecond
	}

	buckets := make([]durationBucket, n)
	sums := make([]float64, n)
	for i := range buckets {
		buckets[i].start = first.Add(time.Duration(i) * step)
	}
	for _, p := range series {
		idx := int(p.Timestamp.Sub(first) / step)
		if idx >= n {
			idx = n - 1
		}
		sums[idx] += p.DurationSeconds
		buckets[idx].count++
		if p.Status == model.StatusFailure {
			buckets[idx].hasFailure = true
		}
	}
	for i := range buckets {
		if buckets[i].count > 0 {
			buckets[i].meanSeconds = sums[i] / float64(buckets[i].count)
		}
	}
	return buckets
}

// renderDurationChart draws per-bucket mean task duration over time. Buckets
// containing at least one failure render in the failure color.
func renderDurationChart(series []model.DurationPoint, width, height int) string {
	if len(series) == 0 {
		return helpStyle.Render("No tasks match the current filters")
	}
	if height < 4 {
		height = 4
	}

	chartWidth := width - 2
	if chartWidth < 20 {
		chartWidth = 20
	}

	// Two cells per bar (bar + gap).
	buckets := bucketDurations(series, chartWidth/2)

	bc := barchart.New(chartWidth, height-1,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)
	for _, b := range buckets {
		style := barStyle(ColorBlue)
		if b.hasFailure {
			style = barStyle(ColorRed)
		}
		bc.Push(barchart.BarData{
			Label: "",
			Values: []barchart.BarValue{
				{Name: "mean", Value: b.meanSeconds, Style: style},
			},
		})
	}
	bc.Draw()

	axis := fmt.Sprintf("%s → %s  (mean s/bucket, %s = bucket with failures)",
		series[0].Timestamp.Format("15:04"),
		series[len(series)-1].Timestamp.Format("15:04"),
		failureStyle.Render("█"))

	return lipgloss.JoinVertical(lipgloss.Left, bc.View(), helpStyle.Render(axis))
}

// joinChartWithLegend places a legend column to the right of chart output.
func joinChartWithLegend(chart string, legendLines []string, chartWidth, height int) string {
	chartLines := strings.Split(chart, "\n")
	for len(chartLines) < height {
		chartLines = append(chartLines, "")
	}
	for len(legendLines) < height {
		legendLines = append(legendLines, "")
	}

	combined := make([]string, 0, height)
	for i := 0; i < height; i++ {
		line := chartLines[i]
		if pad := chartWidth - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		combined = append(combined, line+"  "+legendLines[i])
	}
	return strings.Join(combined, "\n")
}
