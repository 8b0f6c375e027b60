package aggregate

import (
	"sort"

	"github.com/gantryworks/gantry/internal/model"
)

// Compute derives the KPI bundle and the four chart datasets from one record
// set. A nil or empty slice yields the zero result; rates and averages over
// an empty set are 0, never a division error. The distribution outputs keep
// first-occurrence order over the input so display layers can iterate them
// stably.
func Compute(records []model.TaskRecord) model.AggregateResult {
	res := model.AggregateResult{
		DurationSeries:    make([]model.DurationPoint, 0, len(records)),
		ErrorDistribution: make([]model.CodeCount, 0),
		MachineWorkload:   make([]model.MachineCount, 0),
	}

	codeIndex := make(map[string]int)
	machineIndex := make(map[string]int)

	var totalDuration float64
	for _, rec := range records {
		if rec.Status == model.StatusFailure {
			res.StatusBreakdown.Failure++
			if rec.ErrorCode != "" {
				if i, ok := codeIndex[rec.ErrorCode]; ok {
					res.ErrorDistribution[i].Count++
				} else {
					codeIndex[rec.ErrorCode] = len(res.ErrorDistribution)
					res.ErrorDistribution = append(res.ErrorDistribution, model.CodeCount{Code: rec.ErrorCode, Count: 1})
				}
			}
		} else {
			res.StatusBreakdown.Success++
		}

		if i, ok := machineIndex[rec.MachineID]; ok {
			res.MachineWorkload[i].Count++
		} else {
			machineIndex[rec.MachineID] = len(res.MachineWorkload)
			res.MachineWorkload = append(res.MachineWorkload, model.MachineCount{MachineID: rec.MachineID, Count: 1})
		}

		totalDuration += rec.DurationSeconds
		res.DurationSeries = append(res.DurationSeries, model.DurationPoint{
			Timestamp:       rec.Timestamp,
			MachineID:       rec.MachineID,
			DurationSeconds: rec.DurationSeconds,
			Status:          rec.Status,
		})
	}

	// Stable keeps generation order for records sharing a timestamp.
	sort.SliceStable(res.DurationSeries, func(i, j int) bool {
		return res.DurationSeries[i].Timestamp.Before(res.DurationSeries[j].Timestamp)
	})

	total := int64(len(records))
	res.Overview = model.Overview{
		TotalTasks:    total,
		TotalFailures: res.StatusBreakdown.Failure,
	}
	if total > 0 {
		res.Overview.SuccessRate = float64(res.StatusBreakdown.Success) / float64(total)
		res.Overview.AverageDuration = totalDuration / float64(total)
	}

	return res
}
