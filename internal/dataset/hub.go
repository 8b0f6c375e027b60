package dataset

import (
	"sync/atomic"

	"github.com/gantryworks/gantry/internal/filter"
	"github.com/gantryworks/gantry/internal/fleet"
	"github.com/gantryworks/gantry/internal/model"
)

// Hub owns the dataset the service currently serves. Reads go through an
// atomic snapshot pointer, so every query sees one consistent dataset while
// Regenerate swaps in a complete replacement. The snapshot pointer is the
// only mutable cell in the system.
type Hub struct {
	current atomic.Pointer[Dataset]
}

// NewHub generates the initial dataset and wraps it.
func NewHub(prof fleet.Profile, seed int64, codeMode filter.CodeMatchMode) (*Hub, error) {
	ds, err := Generate(prof, seed, codeMode)
	if err != nil {
		return nil, err
	}
	h := &Hub{}
	h.current.Store(ds)
	return h, nil
}

// Snapshot returns the dataset currently being served.
func (h *Hub) Snapshot() *Dataset {
	return h.current.Load()
}

// Regenerate builds a replacement dataset from the same profile and swaps it
// in. Seed 0 picks a fresh time seed. Queries already running keep reading
// the snapshot they started with.
func (h *Hub) Regenerate(seed int64) (model.DatasetInfo, error) {
	old := h.current.Load()
	ds, err := Generate(old.profile, seed, old.codeMode)
	if err != nil {
		return model.DatasetInfo{}, err
	}
	h.current.Store(ds)
	return ds.info, nil
}

func (h *Hub) Overview(q model.Query) (model.Overview, error) {
	return h.Snapshot().Overview(q)
}

func (h *Hub) StatusBreakdown(q model.Query) (model.StatusBreakdown, error) {
	return h.Snapshot().StatusBreakdown(q)
}

func (h *Hub) DurationSeries(q model.Query) ([]model.DurationPoint, error) {
	return h.Snapshot().DurationSeries(q)
}

func (h *Hub) ErrorDistribution(q model.Query) ([]model.CodeCount, error) {
	return h.Snapshot().ErrorDistribution(q)
}

func (h *Hub) MachineWorkload(q model.Query) ([]model.MachineCount, error) {
	return h.Snapshot().MachineWorkload(q)
}

func (h *Hub) Tasks(q model.Query, limit, offset int) (model.TaskPage, error) {
	return h.Snapshot().Tasks(q, limit, offset)
}

func (h *Hub) Fleet() (model.FleetInfo, error) {
	return h.Snapshot().Fleet()
}

func (h *Hub) Info() (model.DatasetInfo, error) {
	return h.Snapshot().Info()
}
