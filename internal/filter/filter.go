package filter

import (
	"github.com/gantryworks/gantry/internal/model"
)

// CodeMatchMode controls how the error-code dimension treats success records
// while a code filter is active.
type CodeMatchMode int

const (
	// CodeMatchFailuresOnly passes only failure records carrying one of the
	// selected codes; success records are excluded by the dimension.
	CodeMatchFailuresOnly CodeMatchMode = iota
	// CodeMatchIncludeSuccess additionally passes success records, treating
	// "no error" as an allowed selection.
	CodeMatchIncludeSuccess
)

// Predicate reports whether one record passes a single filter dimension.
type Predicate func(model.TaskRecord) bool

// Selection describes one filter choice across the independent dimensions.
// A nil range or empty set leaves that dimension unrestricted. Records must
// satisfy every active dimension to pass.
type Selection struct {
	Range      *model.DateRange
	Machines   []string
	ErrorCodes []string
	CodeMatch  CodeMatchMode
}

// FromQuery builds a Selection from the wire-level query under the given
// code-match mode.
func FromQuery(q model.Query, mode CodeMatchMode) Selection {
	return Selection{
		Range:      q.Range,
		Machines:   q.Machines,
		ErrorCodes: q.ErrorCodes,
		CodeMatch:  mode,
	}
}

// Apply returns the records satisfying every active dimension, in input
// order. The input is never mutated; the result is always a fresh slice.
func (s Selection) Apply(records []model.TaskRecord) ([]model.TaskRecord, error) {
	preds, err := s.predicates()
	if err != nil {
		return nil, err
	}

	keep := and(preds)
	out := make([]model.TaskRecord, 0, len(records))
	for _, rec := range records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// predicates contributes one predicate per active dimension. Adding a filter
// dimension means adding one more constructor here.
func (s Selection) predicates() ([]Predicate, error) {
	var preds []Predicate

	if s.Range != nil {
		if s.Range.Start.After(s.Range.End) {
			return nil, model.InvalidParam("range", *s.Range, "start is after end")
		}
		r := *s.Range
		preds = append(preds, func(rec model.TaskRecord) bool {
			return r.Contains(rec.Timestamp)
		})
	}

	if len(s.Machines) > 0 {
		allowed := stringSet(s.Machines)
		preds = append(preds, func(rec model.TaskRecord) bool {
			return allowed[rec.MachineID]
		})
	}

	if len(s.ErrorCodes) > 0 {
		allowed := stringSet(s.ErrorCodes)
		mode := s.CodeMatch
		preds = append(preds, func(rec model.TaskRecord) bool {
			if rec.Status == model.StatusSuccess {
				return mode == CodeMatchIncludeSuccess
			}
			return allowed[rec.ErrorCode]
		})
	}

	return preds, nil
}

func and(preds []Predicate) Predicate {
	return func(rec model.TaskRecord) bool {
		for _, p := range preds {
			if !p(rec) {
				return false
			}
		}
		return true
	}
}

func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
