package simulate

import (
	"math"
	"math/rand"
	"time"

	"github.com/gantryworks/gantry/internal/model"

	"github.com/google/uuid"
)

// Config constrains one generation run.
type Config struct {
	Count       int
	Window      model.DateRange
	Machines    []string
	ErrorCodes  []string
	FailureRate float64 // probability in [0,1]
	DurationMin float64 // seconds
	DurationMax float64 // seconds
}

// MinDuration is the smallest accepted duration bound, in seconds. Durations
// round to two decimals, so any smaller bound could round to zero.
const MinDuration = 0.01

// SeededRand returns a deterministic random source for the given seed.
func SeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Generate produces Count task records with randomized but constrained
// fields. Records come back in generation order, not time-sorted. A nil rng
// means time-seeded; tests and the service pass SeededRand to reproduce runs,
// in which case the output (IDs included) is fully deterministic.
func Generate(cfg Config, rng *rand.Rand) ([]model.TaskRecord, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = SeededRand(time.Now().UnixNano())
	}

	span := int64(cfg.Window.End.Sub(cfg.Window.Start))
	records := make([]model.TaskRecord, 0, cfg.Count)

	for i := 0; i < cfg.Count; i++ {
		var offset time.Duration
		if span > 0 {
			offset = time.Duration(rng.Int63n(span + 1))
		}

		status := model.StatusSuccess
		errorCode := ""
		if rng.Float64() < cfg.FailureRate {
			status = model.StatusFailure
			errorCode = cfg.ErrorCodes[rng.Intn(len(cfg.ErrorCodes))]
		}

		duration := cfg.DurationMin + rng.Float64()*(cfg.DurationMax-cfg.DurationMin)

		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			id = uuid.New()
		}

		records = append(records, model.TaskRecord{
			ID:              id.String(),
			Timestamp:       cfg.Window.Start.Add(offset),
			MachineID:       cfg.Machines[rng.Intn(len(cfg.Machines))],
			DurationSeconds: math.Round(duration*100) / 100,
			Status:          status,
			ErrorCode:       errorCode,
		})
	}

	return records, nil
}

func (c Config) validate() error {
	if c.Count <= 0 {
		return model.InvalidParam("count", c.Count, "must be a positive integer")
	}
	if c.Window.Start.After(c.Window.End) {
		return model.InvalidParam("window", c.Window, "start is after end")
	}
	if len(c.Machines) == 0 {
		return model.InvalidParam("machines", c.Machines, "must not be empty")
	}
	if c.FailureRate < 0 || c.FailureRate > 1 {
		return model.InvalidParam("failure_rate", c.FailureRate, "must be within [0, 1]")
	}
	if len(c.ErrorCodes) == 0 && c.FailureRate > 0 {
		return model.InvalidParam("error_codes", c.ErrorCodes, "must not be empty when failures are possible")
	}
	if c.DurationMin < MinDuration {
		return model.InvalidParam("duration_min", c.DurationMin, "must be at least 0.01 seconds")
	}
	if c.DurationMax < c.DurationMin {
		return model.InvalidParam("duration_max", c.DurationMax, "must be at least duration_min")
	}
	return nil
}
