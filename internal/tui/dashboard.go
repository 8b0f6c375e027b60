package tui

import (
	"time"

	"github.com/gantryworks/gantry/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// focusArea identifies which dashboard row owns keyboard focus.
type focusArea int

const (
	focusWindow focusArea = iota
	focusMachines
	focusCodes
	focusTable
)

// windowPreset is one date-window choice in the filter bar. Zero duration
// means "all" (no date restriction).
type windowPreset struct {
	label string
	span  time.Duration
}

var windowPresets = []windowPreset{
	{"all", 0},
	{"1h", time.Hour},
	{"6h", 6 * time.Hour},
	{"12h", 12 * time.Hour},
	{"24h", 24 * time.Hour},
}

// toggle is one multi-select entry in the machine or error-code filter rows.
type toggle struct {
	name string
	on   bool
}

// snapshot is one consistent set of dashboard data fetched in a single pass.
type snapshot struct {
	overview  model.Overview
	breakdown model.StatusBreakdown
	series    []model.DurationPoint
	codes     []model.CodeCount
	machines  []model.MachineCount
	page      model.TaskPage
	info      model.DatasetInfo
}

// TickMsg drives the periodic refresh loop.
type TickMsg time.Time

// snapshotLoadedMsg carries one fetched snapshot back into Update.
type snapshotLoadedMsg struct {
	snap  snapshot
	fleet *model.FleetInfo // non-nil only on the first fetch
	err   error
}

// DashboardModel is the single-page warehouse dashboard.
type DashboardModel struct {
	api model.DashboardAPI

	// Window dimensions
	width  int
	height int

	// Filter bar state
	focus         focusArea
	presetIdx     int
	machines      []toggle
	codes         []toggle
	machineCursor int
	codeCursor    int

	// Table state
	pageSize    int
	pageOffset  int
	selectedRow int

	// Latest fetched data
	snap      snapshot
	fleet     model.FleetInfo
	haveFleet bool
	haveData  bool

	// Refresh loop
	updateInterval time.Duration
	fetchInFlight  bool
	lastError      string
	lastFetchAt    time.Time
	lastFetchOK    bool

	// Shown until the first snapshot lands
	loading spinner.Model
}

// NewDashboardModel creates the dashboard over the given API client.
func NewDashboardModel(api model.DashboardAPI, updateInterval time.Duration, pageSize int) *DashboardModel {
	if updateInterval <= 0 {
		updateInterval = model.DefaultUpdateInterval
	}
	if pageSize <= 0 {
		pageSize = model.DefaultTablePageSize
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	return &DashboardModel{
		api:            api,
		pageSize:       pageSize,
		updateInterval: updateInterval,
		loading:        sp,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.fetchCmd(),
		m.loading.Tick,
		tea.Tick(m.updateInterval, func(t time.Time) tea.Msg {
			return TickMsg(t)
		}),
	)
}

// buildQuery translates the filter bar state into the wire-level selection.
func (m *DashboardModel) buildQuery() model.Query {
	var q model.Query

	if span := windowPresets[m.presetIdx].span; span > 0 {
		end := m.snap.info.Window.End
		if end.IsZero() {
			end = time.Now().UTC()
		}
		q.Range = &model.DateRange{Start: end.Add(-span), End: end}
	}

	q.Machines = selectedNames(m.machines)
	q.ErrorCodes = selectedNames(m.codes)
	return q
}

func selectedNames(items []toggle) []string {
	var names []string
	for _, it := range items {
		if it.on {
			names = append(names, it.name)
		}
	}
	return names
}

// fetchCmd queries every dashboard dataset in one async command. The fleet
// catalog is fetched only until it has been seen once.
func (m *DashboardModel) fetchCmd() tea.Cmd {
	m.fetchInFlight = true

	api := m.api
	q := m.buildQuery()
	limit := m.pageSize
	offset := m.pageOffset
	needFleet := !m.haveFleet

	return func() tea.Msg {
		msg := snapshotLoadedMsg{}
		var err error

		if needFleet {
			fi, ferr := api.Fleet()
			if ferr != nil {
				return snapshotLoadedMsg{err: ferr}
			}
			msg.fleet = &fi
		}

		if msg.snap.overview, err = api.Overview(q); err != nil {
			return snapshotLoadedMsg{err: err}
		}
		if msg.snap.breakdown, err = api.StatusBreakdown(q); err != nil {
			return snapshotLoadedMsg{err: err}
		}
		if msg.snap.series, err = api.DurationSeries(q); err != nil {
			return snapshotLoadedMsg{err: err}
		}
		if msg.snap.codes, err = api.ErrorDistribution(q); err != nil {
			return snapshotLoadedMsg{err: err}
		}
		if msg.snap.machines, err = api.MachineWorkload(q); err != nil {
			return snapshotLoadedMsg{err: err}
		}
		if msg.snap.page, err = api.Tasks(q, limit, offset); err != nil {
			return snapshotLoadedMsg{err: err}
		}
		if msg.snap.info, err = api.Info(); err != nil {
			return snapshotLoadedMsg{err: err}
		}
		return msg
	}
}

// regenerateCmd asks the service for a fresh dataset, then lets the next
// fetch pick the new snapshot up.
func (m *DashboardModel) regenerateCmd() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		if _, err := api.Regenerate(0); err != nil {
			return snapshotLoadedMsg{err: err}
		}
		return TickMsg(time.Now())
	}
}

// applySnapshot installs a fetched snapshot and clamps table state against
// the new totals.
func (m *DashboardModel) applySnapshot(msg snapshotLoadedMsg) {
	if msg.fleet != nil {
		m.fleet = *msg.fleet
		m.haveFleet = true
		m.machines = makeToggles(m.fleet.Machines, m.machines)
		m.codes = makeToggles(m.fleet.ErrorCodes, m.codes)
	}

	m.snap = msg.snap
	m.haveData = true
	m.lastError = ""

	m.clampTable()
}

func (m *DashboardModel) clampTable() {
	total := int(m.snap.page.Total)
	if m.pageOffset >= total && m.pageOffset > 0 {
		m.pageOffset = ((total - 1) / m.pageSize) * m.pageSize
		if m.pageOffset < 0 {
			m.pageOffset = 0
		}
	}
	if m.selectedRow >= len(m.snap.page.Tasks) {
		m.selectedRow = len(m.snap.page.Tasks) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// makeToggles builds the toggle row for the declared names, preserving any
// previous on/off choices by name.
func makeToggles(names []string, prev []toggle) []toggle {
	on := make(map[string]bool, len(prev))
	for _, t := range prev {
		on[t.name] = t.on
	}
	out := make([]toggle, 0, len(names))
	for _, name := range names {
		out = append(out, toggle{name: name, on: on[name]})
	}
	return out
}
