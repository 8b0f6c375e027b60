package filter

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/gantryworks/gantry/internal/model"
)

var baseTime = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func rec(id string, offset time.Duration, machine string, status model.Status, code string) model.TaskRecord {
	return model.TaskRecord{
		ID:              id,
		Timestamp:       baseTime.Add(offset),
		MachineID:       machine,
		DurationSeconds: 10,
		Status:          status,
		ErrorCode:       code,
	}
}

// fiftyRecords builds a 50-record set where exactly 10 records run on M-2.
func fiftyRecords() []model.TaskRecord {
	records := make([]model.TaskRecord, 0, 50)
	for i := 0; i < 50; i++ {
		machine := "M-1"
		if i%5 == 0 {
			machine = "M-2"
		}
		status := model.StatusSuccess
		code := ""
		if i%10 == 0 {
			status = model.StatusFailure
			code = "E-100"
		}
		records = append(records, rec(fmt.Sprintf("t-%02d", i), time.Duration(i)*time.Minute, machine, status, code))
	}
	return records
}

func TestApplyNoDimensions(t *testing.T) {
	records := fiftyRecords()

	got, err := Selection{}.Apply(records)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Fatal("unrestricted filter changed the record set")
	}

	// Result must be a fresh slice, not an alias of the input.
	got[0].MachineID = "mutated"
	if records[0].MachineID == "mutated" {
		t.Fatal("Apply returned a view over the input slice")
	}
}

func TestApplyMachineDimension(t *testing.T) {
	records := fiftyRecords()

	got, err := Selection{Machines: []string{"M-2"}}.Apply(records)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("len(got)=%d, want 10", len(got))
	}
	for _, r := range got {
		if r.MachineID != "M-2" {
			t.Fatalf("machine=%q, want M-2", r.MachineID)
		}
	}
}

func TestApplyDateRangeInclusive(t *testing.T) {
	records := []model.TaskRecord{
		rec("before", -time.Minute, "M-1", model.StatusSuccess, ""),
		rec("start", 0, "M-1", model.StatusSuccess, ""),
		rec("inside", 30*time.Minute, "M-1", model.StatusSuccess, ""),
		rec("end", time.Hour, "M-1", model.StatusSuccess, ""),
		rec("after", time.Hour+time.Minute, "M-1", model.StatusSuccess, ""),
	}
	sel := Selection{Range: &model.DateRange{Start: baseTime, End: baseTime.Add(time.Hour)}}

	got, err := sel.Apply(records)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	var ids []string
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	want := []string{"start", "inside", "end"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids=%v, want %v", ids, want)
	}
}

func TestApplyEmptyRange(t *testing.T) {
	records := fiftyRecords()
	far := baseTime.Add(240 * time.Hour)
	sel := Selection{Range: &model.DateRange{Start: far, End: far.Add(time.Hour)}}

	got, err := sel.Apply(records)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len(got)=%d, want 0", len(got))
	}
	if got == nil {
		t.Fatal("empty result should be an empty slice, not nil")
	}
}

func TestApplyInvertedRange(t *testing.T) {
	sel := Selection{Range: &model.DateRange{Start: baseTime.Add(time.Hour), End: baseTime}}

	_, err := sel.Apply(fiftyRecords())
	if err == nil {
		t.Fatal("Apply succeeded, want InvalidParameter")
	}
	if !errors.Is(err, model.ErrInvalidParameter) {
		t.Fatalf("err=%v, want ErrInvalidParameter", err)
	}
	var ipe *model.InvalidParameterError
	if !errors.As(err, &ipe) || ipe.Param != "range" {
		t.Fatalf("err=%v, want range parameter error", err)
	}
}

func TestApplyCodeMatchModes(t *testing.T) {
	records := []model.TaskRecord{
		rec("ok-1", 0, "M-1", model.StatusSuccess, ""),
		rec("f-100", time.Minute, "M-1", model.StatusFailure, "E-100"),
		rec("f-200", 2*time.Minute, "M-1", model.StatusFailure, "E-200"),
		rec("ok-2", 3*time.Minute, "M-2", model.StatusSuccess, ""),
	}

	cases := []struct {
		name string
		sel  Selection
		want []string
	}{
		{
			name: "failures only excludes successes",
			sel:  Selection{ErrorCodes: []string{"E-100"}, CodeMatch: CodeMatchFailuresOnly},
			want: []string{"f-100"},
		},
		{
			name: "include success keeps successes",
			sel:  Selection{ErrorCodes: []string{"E-100"}, CodeMatch: CodeMatchIncludeSuccess},
			want: []string{"ok-1", "f-100", "ok-2"},
		},
		{
			name: "inactive code filter passes everything",
			sel:  Selection{CodeMatch: CodeMatchFailuresOnly},
			want: []string{"ok-1", "f-100", "f-200", "ok-2"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.sel.Apply(records)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			var ids []string
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			if !reflect.DeepEqual(ids, tc.want) {
				t.Fatalf("ids=%v, want %v", ids, tc.want)
			}
		})
	}
}

func TestApplyDimensionsCompose(t *testing.T) {
	records := []model.TaskRecord{
		rec("hit", 10*time.Minute, "M-3", model.StatusFailure, "E-300"),
		rec("wrong-machine", 10*time.Minute, "M-1", model.StatusFailure, "E-300"),
		rec("wrong-code", 10*time.Minute, "M-3", model.StatusFailure, "E-100"),
		rec("out-of-range", 4*time.Hour, "M-3", model.StatusFailure, "E-300"),
		rec("success", 10*time.Minute, "M-3", model.StatusSuccess, ""),
	}
	sel := Selection{
		Range:      &model.DateRange{Start: baseTime, End: baseTime.Add(time.Hour)},
		Machines:   []string{"M-3"},
		ErrorCodes: []string{"E-300"},
	}

	got, err := sel.Apply(records)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(got) != 1 || got[0].ID != "hit" {
		t.Fatalf("got=%v, want single record hit", got)
	}
}

func TestApplyIdempotentSubset(t *testing.T) {
	records := fiftyRecords()
	sel := Selection{
		Range:    &model.DateRange{Start: baseTime, End: baseTime.Add(25 * time.Minute)},
		Machines: []string{"M-1", "M-2"},
	}

	once, err := sel.Apply(records)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	twice, err := sel.Apply(once)
	if err != nil {
		t.Fatalf("Apply twice: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatal("filter is not idempotent")
	}

	inInput := make(map[string]bool, len(records))
	for _, r := range records {
		inInput[r.ID] = true
	}
	for _, r := range once {
		if !inInput[r.ID] {
			t.Fatalf("record %s not present in the input set", r.ID)
		}
	}
}
