package model

import "time"

// Status classifies the outcome of one warehouse task.
type Status string

// Task outcomes as they appear on the wire and in chart labels.
const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// TaskRecord represents a single simulated warehouse task event.
// It is the canonical type for generation, transport (socket RPC), and display.
type TaskRecord struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	MachineID       string    `json:"machine_id"`
	DurationSeconds float64   `json:"duration_seconds"`
	Status          Status    `json:"status"`
	ErrorCode       string    `json:"error_code,omitempty"` // empty unless Status is failure
}

// DateRange is a timestamp interval, inclusive at both bounds.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Query holds the optional filter selection applied to dashboard queries.
// A nil range or empty set means no restriction on that dimension.
type Query struct {
	Range      *DateRange `json:"range,omitempty"`
	Machines   []string   `json:"machines,omitempty"`
	ErrorCodes []string   `json:"error_codes,omitempty"`
}

// Overview bundles the dashboard KPI values.
type Overview struct {
	TotalTasks      int64   `json:"total_tasks"`
	SuccessRate     float64 `json:"success_rate"` // fraction in [0,1]
	AverageDuration float64 `json:"average_duration"`
	TotalFailures   int64   `json:"total_failures"`
}

// StatusBreakdown counts tasks by outcome for the status chart.
type StatusBreakdown struct {
	Success int64 `json:"success"`
	Failure int64 `json:"failure"`
}

// Total returns the combined task count.
func (b StatusBreakdown) Total() int64 { return b.Success + b.Failure }

// DurationPoint is one sample of the duration-over-time chart.
type DurationPoint struct {
	Timestamp       time.Time `json:"timestamp"`
	MachineID       string    `json:"machine_id"`
	DurationSeconds float64   `json:"duration_seconds"`
	Status          Status    `json:"status"`
}

// CodeCount represents one error code and its occurrence count.
type CodeCount struct {
	Code  string `json:"code"`
	Count int64  `json:"count"`
}

// MachineCount represents one machine and its task count.
type MachineCount struct {
	MachineID string `json:"machine_id"`
	Count     int64  `json:"count"`
}

// AggregateResult bundles the KPIs and chart datasets computed from one
// (possibly filtered) record set.
type AggregateResult struct {
	Overview          Overview        `json:"overview"`
	StatusBreakdown   StatusBreakdown `json:"status_breakdown"`
	DurationSeries    []DurationPoint `json:"duration_series"`
	ErrorDistribution []CodeCount     `json:"error_distribution"`
	MachineWorkload   []MachineCount  `json:"machine_workload"`
}

// TaskPage is one page of filtered records for the tabular view.
type TaskPage struct {
	Tasks  []TaskRecord `json:"tasks"`
	Total  int64        `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// FleetInfo describes the simulated fleet behind the current dataset.
type FleetInfo struct {
	Machines   []string  `json:"machines"`
	ErrorCodes []string  `json:"error_codes"`
	Window     DateRange `json:"window"`
}

// DatasetInfo describes the currently served dataset.
type DatasetInfo struct {
	Seed        int64     `json:"seed"`
	GeneratedAt time.Time `json:"generated_at"`
	TaskCount   int       `json:"task_count"`
	Window      DateRange `json:"window"`
}
