package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		// The spinner only animates until the first snapshot lands.
		if m.haveData {
			return m, nil
		}
		var cmd tea.Cmd
		m.loading, cmd = m.loading.Update(msg)
		return m, cmd

	case TickMsg:
		next := tea.Tick(m.updateInterval, func(t time.Time) tea.Msg {
			return TickMsg(t)
		})
		// One fetch at a time; a slow service must not pile up queries.
		if m.fetchInFlight {
			return m, next
		}
		return m, tea.Batch(m.fetchCmd(), next)

	case snapshotLoadedMsg:
		m.fetchInFlight = false
		m.lastFetchAt = time.Now()
		if msg.err != nil {
			m.lastFetchOK = false
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.lastFetchOK = true
		m.applySnapshot(msg)
		return m, nil
	}

	return m, nil
}

func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.focus = (m.focus + 1) % 4
		return m, nil

	case "shift+tab":
		m.focus = (m.focus + 3) % 4
		return m, nil

	case "[":
		m.presetIdx = (m.presetIdx + len(windowPresets) - 1) % len(windowPresets)
		return m, m.filterChanged()

	case "]":
		m.presetIdx = (m.presetIdx + 1) % len(windowPresets)
		return m, m.filterChanged()

	case "left", "h":
		m.moveCursor(-1)
		return m, nil

	case "right", "l":
		m.moveCursor(1)
		return m, nil

	case " ", "enter":
		return m, m.toggleFocused()

	case "a":
		return m, m.clearFocused()

	case "n":
		if m.pageOffset+m.pageSize < int(m.snap.page.Total) {
			m.pageOffset += m.pageSize
			m.selectedRow = 0
			return m, m.refetch()
		}
		return m, nil

	case "p":
		if m.pageOffset > 0 {
			m.pageOffset -= m.pageSize
			if m.pageOffset < 0 {
				m.pageOffset = 0
			}
			m.selectedRow = 0
			return m, m.refetch()
		}
		return m, nil

	case "j", "down":
		if m.focus == focusTable && m.selectedRow < len(m.snap.page.Tasks)-1 {
			m.selectedRow++
		}
		return m, nil

	case "k", "up":
		if m.focus == focusTable && m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case "r":
		return m, m.regenerateCmd()
	}

	return m, nil
}

// refetch triggers an immediate fetch unless one is already running.
func (m *DashboardModel) refetch() tea.Cmd {
	if m.fetchInFlight {
		return nil
	}
	return m.fetchCmd()
}

// filterChanged resets the table to the first page and refetches.
func (m *DashboardModel) filterChanged() tea.Cmd {
	m.pageOffset = 0
	m.selectedRow = 0
	return m.refetch()
}

func (m *DashboardModel) moveCursor(delta int) {
	switch m.focus {
	case focusMachines:
		m.machineCursor = clampIndex(m.machineCursor+delta, len(m.machines))
	case focusCodes:
		m.codeCursor = clampIndex(m.codeCursor+delta, len(m.codes))
	case focusWindow:
		if delta < 0 {
			m.presetIdx = (m.presetIdx + len(windowPresets) - 1) % len(windowPresets)
		} else {
			m.presetIdx = (m.presetIdx + 1) % len(windowPresets)
		}
	}
}

func (m *DashboardModel) toggleFocused() tea.Cmd {
	switch m.focus {
	case focusMachines:
		if m.machineCursor < len(m.machines) {
			m.machines[m.machineCursor].on = !m.machines[m.machineCursor].on
			return m.filterChanged()
		}
	case focusCodes:
		if m.codeCursor < len(m.codes) {
			m.codes[m.codeCursor].on = !m.codes[m.codeCursor].on
			return m.filterChanged()
		}
	case focusWindow:
		return m.filterChanged()
	}
	return nil
}

// clearFocused turns the focused dimension back to "no restriction".
func (m *DashboardModel) clearFocused() tea.Cmd {
	switch m.focus {
	case focusWindow:
		m.presetIdx = 0
	case focusMachines:
		for i := range m.machines {
			m.machines[i].on = false
		}
	case focusCodes:
		for i := range m.codes {
			m.codes[i].on = false
		}
	default:
		return nil
	}
	return m.filterChanged()
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
