package model

// TaskQuerier provides read-only dashboard queries over the current dataset.
// Every method evaluates the optional Query selection against the immutable
// base record set.
type TaskQuerier interface {
	Overview(q Query) (Overview, error)
	StatusBreakdown(q Query) (StatusBreakdown, error)
	DurationSeries(q Query) ([]DurationPoint, error)
	ErrorDistribution(q Query) ([]CodeCount, error)
	MachineWorkload(q Query) ([]MachineCount, error)
	Tasks(q Query, limit, offset int) (TaskPage, error)
}

// FleetQuerier exposes the fleet catalog and metadata of the served dataset.
type FleetQuerier interface {
	Fleet() (FleetInfo, error)
	Info() (DatasetInfo, error)
}

// DatasetAdmin provides explicit whole-dataset regeneration.
// Seed 0 requests a fresh time seed.
type DatasetAdmin interface {
	Regenerate(seed int64) (DatasetInfo, error)
}

// ReadAPI is the unified read contract for read surfaces (HTTP and socket RPC).
type ReadAPI interface {
	TaskQuerier
	FleetQuerier
}

// DashboardAPI is the full surface the service exposes over IPC.
type DashboardAPI interface {
	ReadAPI
	DatasetAdmin
}
