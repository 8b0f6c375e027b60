package fleet

import (
	"fmt"
	"os"
	"time"

	"github.com/gantryworks/gantry/internal/model"
	"github.com/gantryworks/gantry/internal/simulate"

	"gopkg.in/yaml.v3"
)

// Profile declares the simulated fleet and the generation parameters derived
// from it.
type Profile struct {
	Machines    []string `yaml:"machines"`
	ErrorCodes  []string `yaml:"error_codes"`
	FailureRate float64  `yaml:"failure_rate"`
	DurationMin float64  `yaml:"duration_min_seconds"`
	DurationMax float64  `yaml:"duration_max_seconds"`
	WindowHours int      `yaml:"window_hours"`
	TaskCount   int      `yaml:"task_count"`
}

// Default returns the stock warehouse profile.
func Default() Profile {
	return Profile{
		Machines:    []string{"M-1", "M-2", "M-3", "M-4", "M-5"},
		ErrorCodes:  []string{"E-100", "E-200", "E-300"},
		FailureRate: 0.1,
		DurationMin: 5,
		DurationMax: 60,
		WindowHours: 24,
		TaskCount:   500,
	}
}

// Load reads a YAML profile file layered over the default profile: keys
// absent from the file keep their default values. The loaded profile is
// validated before use.
func Load(path string) (Profile, error) {
	p := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("fleet: read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("fleet: parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks the profile invariants.
func (p Profile) Validate() error {
	if len(p.Machines) == 0 {
		return model.InvalidParam("machines", p.Machines, "must declare at least one machine")
	}
	if p.FailureRate < 0 || p.FailureRate > 1 {
		return model.InvalidParam("failure_rate", p.FailureRate, "must be within [0, 1]")
	}
	if len(p.ErrorCodes) == 0 && p.FailureRate > 0 {
		return model.InvalidParam("error_codes", p.ErrorCodes, "must declare codes when failures are possible")
	}
	if p.DurationMin < simulate.MinDuration {
		return model.InvalidParam("duration_min_seconds", p.DurationMin, "must be at least 0.01 seconds")
	}
	if p.DurationMax < p.DurationMin {
		return model.InvalidParam("duration_max_seconds", p.DurationMax, "must be at least duration_min_seconds")
	}
	if p.WindowHours <= 0 {
		return model.InvalidParam("window_hours", p.WindowHours, "must be positive")
	}
	if p.TaskCount <= 0 {
		return model.InvalidParam("task_count", p.TaskCount, "must be positive")
	}
	return nil
}

// GeneratorConfig derives the generation parameters for a window ending at
// the given time.
func (p Profile) GeneratorConfig(end time.Time) simulate.Config {
	return simulate.Config{
		Count:       p.TaskCount,
		Window:      model.DateRange{Start: end.Add(-time.Duration(p.WindowHours) * time.Hour), End: end},
		Machines:    p.Machines,
		ErrorCodes:  p.ErrorCodes,
		FailureRate: p.FailureRate,
		DurationMin: p.DurationMin,
		DurationMax: p.DurationMax,
	}
}
