package tui

import "github.com/charmbracelet/lipgloss"

// Dashboard palette.
var (
	ColorNavy   = lipgloss.Color("17")
	ColorBlue   = lipgloss.Color("39")
	ColorGreen  = lipgloss.Color("42")
	ColorRed    = lipgloss.Color("196")
	ColorYellow = lipgloss.Color("220")
	ColorOrange = lipgloss.Color("208")
	ColorGray   = lipgloss.Color("245")
	ColorWhite  = lipgloss.Color("255")
)

var (
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorNavy).
			Padding(0, 1)

	activeSectionStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBlue).
				Padding(0, 1)

	chartTitleStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	titleStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorWhite).
			Bold(true).
			Padding(0, 1)

	kpiLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	kpiValueStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	successStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	failureStyle = lipgloss.NewStyle().Foreground(ColorRed)

	toggleOnStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	toggleOffStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	toggleCursorStyle = lipgloss.NewStyle().
				Foreground(ColorWhite).
				Background(ColorNavy).
				Bold(true)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorWhite).
				Background(ColorNavy)

	errorTextStyle = lipgloss.NewStyle().Foreground(ColorRed)

	spinnerStyle = lipgloss.NewStyle().Foreground(ColorBlue)

	statusLineStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorWhite)
)

// Per-series bar styles for the ntcharts panels. Foreground and background
// match so solid bar cells render in the series color.
func barStyle(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(color).Background(color)
}

var chartSeriesColors = []lipgloss.Color{
	ColorBlue,
	ColorGreen,
	ColorYellow,
	ColorOrange,
	ColorRed,
	lipgloss.Color("135"),
	lipgloss.Color("51"),
	lipgloss.Color("213"),
}

// seriesColor cycles the palette for an arbitrary number of series.
func seriesColor(i int) lipgloss.Color {
	return chartSeriesColors[i%len(chartSeriesColors)]
}
