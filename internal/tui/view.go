package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gantryworks/gantry/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	minWidth  = 60
	minHeight = 24

	chartContentHeight = 7
)

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing dashboard..."
	}
	if m.width < minWidth || m.height < minHeight {
		return fmt.Sprintf("Terminal too small. Resize to at least %dx%d.", minWidth, minHeight)
	}
	if !m.haveData {
		if m.lastError != "" {
			return errorTextStyle.Render("gantry-tui: " + m.lastError)
		}
		return m.loading.View() + helpStyle.Render(" Loading dashboard...")
	}

	sections := []string{
		m.renderHeader(),
		m.renderKPICards(),
		m.renderCharts(),
		m.renderFilterBar(),
		m.renderTable(),
		m.renderStatusLine(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *DashboardModel) renderHeader() string {
	title := titleStyle.Render("Warehouse Monitoring Dashboard")

	info := m.snap.info
	meta := fmt.Sprintf("%d tasks · seed %d · window %s – %s",
		info.TaskCount,
		info.Seed,
		info.Window.Start.Format("Jan 2 15:04"),
		info.Window.End.Format("Jan 2 15:04"))

	dot := successStyle.Render("●")
	if !m.lastFetchOK || time.Since(m.lastFetchAt) > 3*m.updateInterval {
		dot = failureStyle.Render("●")
	}

	right := helpStyle.Render(meta) + " " + dot
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + right
}

func (m *DashboardModel) renderKPICards() string {
	ov := m.snap.overview

	cards := []struct {
		label string
		value string
		style lipgloss.Style
	}{
		{"Total Tasks", fmt.Sprintf("%d", ov.TotalTasks), kpiValueStyle},
		{"Success Rate", fmt.Sprintf("%.1f%%", ov.SuccessRate*100), successStyle.Bold(true)},
		{"Avg Duration", fmt.Sprintf("%.1fs", ov.AverageDuration), kpiValueStyle},
		{"Failures", fmt.Sprintf("%d", ov.TotalFailures), failureStyle.Bold(true)},
	}

	cardWidth := (m.width-2)/len(cards) - 2
	if cardWidth < 12 {
		cardWidth = 12
	}

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		body := lipgloss.JoinVertical(lipgloss.Left,
			kpiLabelStyle.Render(c.label),
			c.style.Render(c.value))
		rendered = append(rendered, sectionStyle.Width(cardWidth).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *DashboardModel) renderCharts() string {
	panelWidth := (m.width-2)/2 - 2
	if panelWidth < 28 {
		panelWidth = 28
	}
	contentWidth := panelWidth - 2

	panel := func(title, content string) string {
		return sectionStyle.Width(panelWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, chartTitleStyle.Render(title), content))
	}

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		panel("Status Breakdown", renderStatusBar(m.snap.breakdown, contentWidth)),
		" ",
		panel("Incident Frequency by Error Code", renderCodeChart(m.snap.codes, contentWidth, chartContentHeight)),
	)
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		panel("Machine Workload", renderMachineChart(m.snap.machines, contentWidth, chartContentHeight)),
		" ",
		panel("Task Duration Over Time", renderDurationChart(m.snap.series, contentWidth, chartContentHeight)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow)
}

func (m *DashboardModel) renderFilterBar() string {
	rows := []string{
		m.renderPresetRow(),
		m.renderToggleRow("Machines", m.machines, m.machineCursor, m.focus == focusMachines),
		m.renderToggleRow("Codes   ", m.codes, m.codeCursor, m.focus == focusCodes),
	}

	style := sectionStyle
	if m.focus != focusTable {
		style = activeSectionStyle
	}
	return style.Width(m.width - 2).Render(strings.Join(rows, "\n"))
}

func (m *DashboardModel) renderPresetRow() string {
	parts := make([]string, 0, len(windowPresets))
	for i, p := range windowPresets {
		label := p.label
		switch {
		case i == m.presetIdx && m.focus == focusWindow:
			label = toggleCursorStyle.Render("[" + label + "]")
		case i == m.presetIdx:
			label = toggleOnStyle.Render("[" + label + "]")
		default:
			label = toggleOffStyle.Render(" " + label + " ")
		}
		parts = append(parts, label)
	}
	return "Window   " + strings.Join(parts, " ")
}

func (m *DashboardModel) renderToggleRow(label string, items []toggle, cursor int, active bool) string {
	if len(items) == 0 {
		return label + " " + helpStyle.Render("(none declared)")
	}

	parts := make([]string, 0, len(items))
	for i, it := range items {
		mark := "☐"
		style := toggleOffStyle
		if it.on {
			mark = "☑"
			style = toggleOnStyle
		}
		text := mark + " " + it.name
		if active && i == cursor {
			text = toggleCursorStyle.Render(text)
		} else {
			text = style.Render(text)
		}
		parts = append(parts, text)
	}
	return label + " " + strings.Join(parts, "  ")
}

func (m *DashboardModel) renderTable() string {
	page := m.snap.page

	header := fmt.Sprintf("%-19s  %-9s  %10s  %-8s  %-6s",
		"Timestamp", "Machine", "Duration", "Status", "Error")
	lines := []string{chartTitleStyle.Render(header)}

	for i, rec := range page.Tasks {
		code := rec.ErrorCode
		if code == "" {
			code = "None"
		}
		status := string(rec.Status)
		row := fmt.Sprintf("%-19s  %-9s  %9.2fs  %-8s  %-6s",
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.MachineID,
			rec.DurationSeconds,
			status,
			code)
		switch {
		case m.focus == focusTable && i == m.selectedRow:
			row = selectedRowStyle.Render(row)
		case rec.Status == model.StatusFailure:
			row = failureStyle.Render(row)
		}
		lines = append(lines, row)
	}
	if len(page.Tasks) == 0 {
		lines = append(lines, helpStyle.Render("No records match the current filters"))
	}

	first := 0
	if page.Total > 0 {
		first = m.pageOffset + 1
	}
	last := m.pageOffset + len(page.Tasks)
	lines = append(lines, helpStyle.Render(
		fmt.Sprintf("Log Records %d–%d of %d  (n/p to page)", first, last, page.Total)))

	style := sectionStyle
	if m.focus == focusTable {
		style = activeSectionStyle
	}
	return style.Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

func (m *DashboardModel) renderStatusLine() string {
	help := "tab: focus · ←/→: move · space: toggle · [/]: window · a: clear · n/p: page · r: regenerate · q: quit"
	if m.lastError != "" {
		help = "fetch error: " + m.lastError
	}
	if lipgloss.Width(help) > m.width {
		help = ansi.Truncate(help, m.width, "")
	}
	return statusLineStyle.Width(m.width).Render(help)
}
