package socketrpc

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// JSON-RPC 2.0 Method Reference
//
// The socket RPC server exposes model.DashboardAPI over a Unix domain
// socket. Each method maps 1:1 to the interface.
//
//   Method               Params                             Result
//   ─────────────────    ─────────────────────────────────   ───────────────
//   Overview             {Query: model.Query}               Overview
//   StatusBreakdown      {Query: model.Query}               StatusBreakdown
//   DurationSeries       {Query: model.Query}               []DurationPoint
//   ErrorDistribution    {Query: model.Query}               []CodeCount
//   MachineWorkload      {Query: model.Query}               []MachineCount
//   Tasks                {Query: model.Query, Limit: int, Offset: int}  TaskPage
//   Fleet                (none)                             FleetInfo
//   Info                 (none)                             DatasetInfo
//   Regenerate           {Seed: int64}                      DatasetInfo
//
// Query: {range, machines, error_codes} — every dimension optional.
// Methods accept empty or null params gracefully; an absent Query means the
// full dataset.
//
// Error codes follow JSON-RPC 2.0:
//   -32700  Parse error (malformed JSON)
//   -32601  Method not found
//   -32602  Invalid params (including parameter validation from the core)
//   -32603  Internal error (marshal failure)
//   -32000  Application error (query failure)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response. ID mirrors the request id and is nil
// (wire: null) when the request could not be parsed.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int            `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// DefaultSocketPath returns the default Unix socket path.
// It prefers $XDG_RUNTIME_DIR/gantry/gantry.sock, falling back to
// ~/.local/state/gantry/gantry.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "gantry", "gantry.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/gantry.sock"
	}
	return filepath.Join(home, ".local", "state", "gantry", "gantry.sock")
}
