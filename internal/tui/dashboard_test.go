package tui

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gantryworks/gantry/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func testFleet() model.FleetInfo {
	return model.FleetInfo{
		Machines:   []string{"M-1", "M-2", "M-3"},
		ErrorCodes: []string{"E-100", "E-200"},
	}
}

func newTestModel(t *testing.T) *DashboardModel {
	t.Helper()
	m := NewDashboardModel(nil, time.Second, 10)
	m.width = 120
	m.height = 40
	m.applySnapshot(snapshotLoadedMsg{
		snap: snapshot{
			overview:  model.Overview{TotalTasks: 30, SuccessRate: 0.9, AverageDuration: 20, TotalFailures: 3},
			breakdown: model.StatusBreakdown{Success: 27, Failure: 3},
			page:      model.TaskPage{Total: 30, Limit: 10, Offset: 0},
		},
		fleet: func() *model.FleetInfo { f := testFleet(); return &f }(),
	})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestApplySnapshot_BuildsToggles(t *testing.T) {
	m := newTestModel(t)

	if len(m.machines) != 3 || len(m.codes) != 2 {
		t.Fatalf("toggles = %d machines, %d codes; want 3 and 2", len(m.machines), len(m.codes))
	}
	for _, tg := range m.machines {
		if tg.on {
			t.Errorf("machine %s starts toggled on", tg.name)
		}
	}
}

func TestApplySnapshot_PreservesToggleChoices(t *testing.T) {
	m := newTestModel(t)
	m.machines[1].on = true

	fleet := testFleet()
	m.applySnapshot(snapshotLoadedMsg{fleet: &fleet})

	if !m.machines[1].on {
		t.Error("refetching the fleet dropped an existing machine selection")
	}
}

func TestBuildQuery_Empty(t *testing.T) {
	m := newTestModel(t)

	q := m.buildQuery()
	if q.Range != nil || len(q.Machines) != 0 || len(q.ErrorCodes) != 0 {
		t.Errorf("default query should be unrestricted, got %+v", q)
	}
}

func TestBuildQuery_WindowPreset(t *testing.T) {
	m := newTestModel(t)
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.snap.info.Window.End = end
	m.presetIdx = 1 // 1h

	q := m.buildQuery()
	if q.Range == nil {
		t.Fatal("preset should produce a date range")
	}
	if !q.Range.End.Equal(end) || !q.Range.Start.Equal(end.Add(-time.Hour)) {
		t.Errorf("range = %v..%v, want 1h ending at window end", q.Range.Start, q.Range.End)
	}
}

func TestBuildQuery_Selections(t *testing.T) {
	m := newTestModel(t)
	m.machines[0].on = true
	m.machines[2].on = true
	m.codes[1].on = true

	q := m.buildQuery()
	if len(q.Machines) != 2 || q.Machines[0] != "M-1" || q.Machines[1] != "M-3" {
		t.Errorf("machines = %v, want [M-1 M-3]", q.Machines)
	}
	if len(q.ErrorCodes) != 1 || q.ErrorCodes[0] != "E-200" {
		t.Errorf("codes = %v, want [E-200]", q.ErrorCodes)
	}
}

func TestFocusCycling(t *testing.T) {
	m := newTestModel(t)

	order := []focusArea{focusMachines, focusCodes, focusTable, focusWindow}
	for _, want := range order {
		m.handleKeyPress(keyMsg("tab"))
		if m.focus != want {
			t.Fatalf("focus = %d, want %d", m.focus, want)
		}
	}

	m.handleKeyPress(keyMsg("shift+tab"))
	if m.focus != focusTable {
		t.Errorf("shift+tab from window: focus = %d, want table", m.focus)
	}
}

func TestToggleAndClear(t *testing.T) {
	m := newTestModel(t)
	m.focus = focusMachines
	m.machineCursor = 1

	m.handleKeyPress(keyMsg(" "))
	if !m.machines[1].on {
		t.Fatal("space did not toggle the machine under the cursor")
	}

	m.handleKeyPress(keyMsg("a"))
	for _, tg := range m.machines {
		if tg.on {
			t.Errorf("clear left machine %s on", tg.name)
		}
	}
}

func TestCursorClamping(t *testing.T) {
	m := newTestModel(t)
	m.focus = focusCodes

	m.moveCursor(-1)
	if m.codeCursor != 0 {
		t.Errorf("cursor went below zero: %d", m.codeCursor)
	}
	for i := 0; i < 10; i++ {
		m.moveCursor(1)
	}
	if m.codeCursor != len(m.codes)-1 {
		t.Errorf("cursor = %d, want %d", m.codeCursor, len(m.codes)-1)
	}
}

func TestWindowPresetCycling(t *testing.T) {
	m := newTestModel(t)

	m.handleKeyPress(keyMsg("]"))
	if m.presetIdx != 1 {
		t.Errorf("] moved preset to %d, want 1", m.presetIdx)
	}
	m.handleKeyPress(keyMsg("["))
	m.handleKeyPress(keyMsg("["))
	if m.presetIdx != len(windowPresets)-1 {
		t.Errorf("[ wrap: preset = %d, want %d", m.presetIdx, len(windowPresets)-1)
	}
}

func TestPaging(t *testing.T) {
	m := newTestModel(t)
	m.snap.page.Total = 30

	m.handleKeyPress(keyMsg("n"))
	if m.pageOffset != 10 {
		t.Errorf("offset after n = %d, want 10", m.pageOffset)
	}
	m.handleKeyPress(keyMsg("n"))
	m.handleKeyPress(keyMsg("n")) // already on last page
	if m.pageOffset != 20 {
		t.Errorf("offset clamped = %d, want 20", m.pageOffset)
	}
	m.handleKeyPress(keyMsg("p"))
	if m.pageOffset != 10 {
		t.Errorf("offset after p = %d, want 10", m.pageOffset)
	}
}

func TestFilterChangeResetsPaging(t *testing.T) {
	m := newTestModel(t)
	m.pageOffset = 20
	m.selectedRow = 3

	m.handleKeyPress(keyMsg("]"))
	if m.pageOffset != 0 || m.selectedRow != 0 {
		t.Errorf("filter change kept offset=%d row=%d, want 0/0", m.pageOffset, m.selectedRow)
	}
}

func TestClampTable_OffsetPastEnd(t *testing.T) {
	m := newTestModel(t)
	m.pageOffset = 50
	m.snap.page.Total = 12

	m.clampTable()
	if m.pageOffset != 10 {
		t.Errorf("clamped offset = %d, want 10", m.pageOffset)
	}
}

func TestSnapshotErrorKeepsLastData(t *testing.T) {
	m := newTestModel(t)

	_, _ = m.Update(snapshotLoadedMsg{err: errFetch("socket closed")})
	if !m.haveData {
		t.Error("fetch error wiped previously loaded data")
	}
	if m.lastError == "" {
		t.Error("fetch error not recorded for the status line")
	}
	if m.lastFetchOK {
		t.Error("lastFetchOK should be false after an error")
	}
}

type errFetch string

func (e errFetch) Error() string { return string(e) }

func TestViewRendersWithoutData(t *testing.T) {
	m := NewDashboardModel(nil, time.Second, 10)
	m.width = 120
	m.height = 40

	if v := m.View(); v == "" {
		t.Error("empty view before first snapshot")
	}
}

func TestStatusLineTruncatesOnRuneBoundaries(t *testing.T) {
	m := newTestModel(t)
	// Narrow enough that the help text gets cut inside its arrow glyphs.
	m.width = 16

	out := m.renderStatusLine()
	if !utf8.ValidString(out) {
		t.Fatalf("status line is not valid UTF-8: %q", out)
	}
	if strings.ContainsRune(out, utf8.RuneError) {
		t.Fatalf("status line carries a replacement rune: %q", out)
	}
}

func TestViewRendersDashboard(t *testing.T) {
	m := newTestModel(t)

	v := m.View()
	for _, want := range []string{"Warehouse Monitoring Dashboard", "Total Tasks", "Machine Workload", "Log Records"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
