package socketrpc

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/gantryworks/gantry/internal/model"
)

// stubAPI returns fixed values for dispatch unit testing.
type stubAPI struct{}

func (a *stubAPI) Overview(q model.Query) (model.Overview, error) {
	return model.Overview{TotalTasks: 100, SuccessRate: 0.9, AverageDuration: 32.5, TotalFailures: 10}, nil
}
func (a *stubAPI) StatusBreakdown(q model.Query) (model.StatusBreakdown, error) {
	return model.StatusBreakdown{Success: 90, Failure: 10}, nil
}
func (a *stubAPI) DurationSeries(q model.Query) ([]model.DurationPoint, error) {
	return []model.DurationPoint{{
		Timestamp:       time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		MachineID:       "M-1",
		DurationSeconds: 12.5,
		Status:          model.StatusSuccess,
	}}, nil
}
func (a *stubAPI) ErrorDistribution(q model.Query) ([]model.CodeCount, error) {
	return []model.CodeCount{{Code: "E-100", Count: 4}}, nil
}
func (a *stubAPI) MachineWorkload(q model.Query) ([]model.MachineCount, error) {
	return []model.MachineCount{{MachineID: "M-1", Count: 20}}, nil
}
func (a *stubAPI) Tasks(q model.Query, limit, offset int) (model.TaskPage, error) {
	return model.TaskPage{
		Tasks: []model.TaskRecord{{
			ID:              "rec-1",
			Timestamp:       time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
			MachineID:       "M-1",
			DurationSeconds: 12.5,
			Status:          model.StatusSuccess,
		}},
		Total:  1,
		Limit:  limit,
		Offset: offset,
	}, nil
}
func (a *stubAPI) Fleet() (model.FleetInfo, error) {
	return model.FleetInfo{Machines: []string{"M-1"}, ErrorCodes: []string{"E-100"}}, nil
}
func (a *stubAPI) Info() (model.DatasetInfo, error) {
	return model.DatasetInfo{Seed: 7, TaskCount: 100}, nil
}
func (a *stubAPI) Regenerate(seed int64) (model.DatasetInfo, error) {
	return model.DatasetInfo{Seed: seed, TaskCount: 100}, nil
}

func newTestDispatcher() *Server {
	return &Server{api: &stubAPI{}}
}

func TestDispatch_AllMethods(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	tests := []struct {
		method string
		params string
	}{
		{"Overview", `{"Query":{}}`},
		{"StatusBreakdown", `{"Query":{}}`},
		{"DurationSeries", `{"Query":{}}`},
		{"ErrorDistribution", `{"Query":{}}`},
		{"MachineWorkload", `{"Query":{}}`},
		{"Tasks", `{"Query":{},"Limit":10,"Offset":0}`},
		{"Fleet", `{}`},
		{"Info", `{}`},
		{"Regenerate", `{"Seed":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			req := Request{
				JSONRPC: "2.0",
				ID:      1,
				Method:  tt.method,
				Params:  json.RawMessage(tt.params),
			}
			resp := srv.dispatch(req)
			if resp.Error != nil {
				t.Fatalf("dispatch(%s) error: %s", tt.method, resp.Error.Message)
			}
			if resp.Result == nil {
				t.Fatalf("dispatch(%s) returned nil result", tt.method)
			}
			if resp.JSONRPC != "2.0" {
				t.Errorf("JSONRPC = %q, want 2.0", resp.JSONRPC)
			}
			if resp.ID == nil || *resp.ID != 1 {
				t.Errorf("ID = %v, want 1", resp.ID)
			}
		})
	}
}

func TestDispatch_MethodNotFound(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	resp := srv.dispatch(Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "NonExistentMethod",
		Params:  json.RawMessage(`{}`),
	})
	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("error code = %d, want -32601", resp.Error.Code)
	}
}

func TestDispatch_InvalidParams(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	resp := srv.dispatch(Request{
		JSONRPC: "2.0",
		ID:      2,
		Method:  "Tasks",
		Params:  json.RawMessage(`not json`),
	})
	if resp.Error == nil {
		t.Fatal("expected error for malformed params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("error code = %d, want -32602 (invalid params)", resp.Error.Code)
	}
}

func TestDispatch_InvalidParameterFromCore(t *testing.T) {
	t.Parallel()
	srv := &Server{api: &invalidRangeAPI{}}

	resp := srv.dispatch(Request{
		JSONRPC: "2.0",
		ID:      3,
		Method:  "Overview",
		Params:  json.RawMessage(`{"Query":{}}`),
	})
	if resp.Error == nil {
		t.Fatal("expected error for invalid range")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("error code = %d, want -32602", resp.Error.Code)
	}
}

// invalidRangeAPI rejects every query the way the core does when the
// selection carries an inverted date range.
type invalidRangeAPI struct{ stubAPI }

func (invalidRangeAPI) Overview(q model.Query) (model.Overview, error) {
	return model.Overview{}, model.InvalidParam("range", nil, "start is after end")
}

func TestDispatch_EmptyParamsOnQueryMethods(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	// Query methods accept empty/null params gracefully: an absent Query
	// means the full dataset.
	methods := []string{"Overview", "StatusBreakdown", "DurationSeries", "ErrorDistribution", "MachineWorkload", "Tasks", "Regenerate"}

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			t.Parallel()
			resp := srv.dispatch(Request{
				JSONRPC: "2.0",
				ID:      1,
				Method:  method,
				Params:  nil,
			})
			if resp.Error != nil {
				t.Fatalf("dispatch(%s) with nil params: %s", method, resp.Error.Message)
			}
		})
	}
}

func TestDispatch_PreservesRequestID(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	for _, id := range []int{0, 1, 42, 9999} {
		resp := srv.dispatch(Request{
			JSONRPC: "2.0",
			ID:      id,
			Method:  "Info",
			Params:  json.RawMessage(`{}`),
		})
		if resp.ID == nil || *resp.ID != id {
			t.Errorf("request ID %d: response ID = %v", id, resp.ID)
		}
	}
}

func TestAcceptFailureReported(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "err.sock")
	srv := NewServer(sock, &stubAPI{})
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer srv.Stop()

	// Kill the listener out from under the accept loop, as if the runtime
	// directory vanished.
	srv.listener.Close()

	select {
	case err := <-srv.Err():
		if err == nil {
			t.Fatal("nil error reported for a dead listener")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("listener failure never reported")
	}
}
