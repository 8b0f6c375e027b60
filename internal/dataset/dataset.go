package dataset

import (
	"time"

	"github.com/gantryworks/gantry/internal/aggregate"
	"github.com/gantryworks/gantry/internal/filter"
	"github.com/gantryworks/gantry/internal/fleet"
	"github.com/gantryworks/gantry/internal/model"
	"github.com/gantryworks/gantry/internal/simulate"
)

// Dataset is one immutable generated record set together with its metadata.
// Query methods filter and aggregate against the base records and return
// fresh values; the records never change after construction, so any number
// of goroutines may query one Dataset concurrently without synchronization.
type Dataset struct {
	records  []model.TaskRecord
	info     model.DatasetInfo
	profile  fleet.Profile
	codeMode filter.CodeMatchMode
}

// Generate builds a new Dataset from the profile, with the generation window
// ending now. Seed 0 picks a fresh time seed; the seed actually used is
// recorded in the dataset info.
func Generate(prof fleet.Profile, seed int64, codeMode filter.CodeMatchMode) (*Dataset, error) {
	if err := prof.Validate(); err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	generatedAt := time.Now().UTC().Truncate(time.Second)
	cfg := prof.GeneratorConfig(generatedAt)

	records, err := simulate.Generate(cfg, simulate.SeededRand(seed))
	if err != nil {
		return nil, err
	}

	return &Dataset{
		records: records,
		info: model.DatasetInfo{
			Seed:        seed,
			GeneratedAt: generatedAt,
			TaskCount:   len(records),
			Window:      cfg.Window,
		},
		profile:  prof,
		codeMode: codeMode,
	}, nil
}

func (d *Dataset) matched(q model.Query) ([]model.TaskRecord, error) {
	return filter.FromQuery(q, d.codeMode).Apply(d.records)
}

// Overview returns the KPI bundle for the selection.
func (d *Dataset) Overview(q model.Query) (model.Overview, error) {
	matched, err := d.matched(q)
	if err != nil {
		return model.Overview{}, err
	}
	return aggregate.Compute(matched).Overview, nil
}

// StatusBreakdown returns success/failure counts for the selection.
func (d *Dataset) StatusBreakdown(q model.Query) (model.StatusBreakdown, error) {
	matched, err := d.matched(q)
	if err != nil {
		return model.StatusBreakdown{}, err
	}
	return aggregate.Compute(matched).StatusBreakdown, nil
}

// DurationSeries returns the time-sorted duration samples for the selection.
func (d *Dataset) DurationSeries(q model.Query) ([]model.DurationPoint, error) {
	matched, err := d.matched(q)
	if err != nil {
		return nil, err
	}
	return aggregate.Compute(matched).DurationSeries, nil
}

// ErrorDistribution returns per-code failure counts for the selection.
func (d *Dataset) ErrorDistribution(q model.Query) ([]model.CodeCount, error) {
	matched, err := d.matched(q)
	if err != nil {
		return nil, err
	}
	return aggregate.Compute(matched).ErrorDistribution, nil
}

// MachineWorkload returns per-machine task counts for the selection.
func (d *Dataset) MachineWorkload(q model.Query) ([]model.MachineCount, error) {
	matched, err := d.matched(q)
	if err != nil {
		return nil, err
	}
	return aggregate.Compute(matched).MachineWorkload, nil
}

// Tasks pages the filtered records, in generation order, for the tabular
// view. Limit 0 or below means the server default; an offset past the end
// yields an empty page with the correct total.
func (d *Dataset) Tasks(q model.Query, limit, offset int) (model.TaskPage, error) {
	matched, err := d.matched(q)
	if err != nil {
		return model.TaskPage{}, err
	}
	if limit <= 0 {
		limit = model.DefaultTaskLimit
	}
	if offset < 0 {
		offset = 0
	}

	page := model.TaskPage{
		Tasks:  []model.TaskRecord{},
		Total:  int64(len(matched)),
		Limit:  limit,
		Offset: offset,
	}
	if offset < len(matched) {
		end := offset + limit
		if end > len(matched) {
			end = len(matched)
		}
		page.Tasks = matched[offset:end]
	}
	return page, nil
}

// Fleet returns the declared fleet catalog and the dataset window.
func (d *Dataset) Fleet() (model.FleetInfo, error) {
	return model.FleetInfo{
		Machines:   append([]string(nil), d.profile.Machines...),
		ErrorCodes: append([]string(nil), d.profile.ErrorCodes...),
		Window:     d.info.Window,
	}, nil
}

// Info returns the dataset metadata.
func (d *Dataset) Info() (model.DatasetInfo, error) {
	return d.info, nil
}
