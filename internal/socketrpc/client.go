package socketrpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gantryworks/gantry/internal/model"
)

// Client implements model.DashboardAPI over a Unix domain socket using JSON-RPC 2.0.
type Client struct {
	conn    net.Conn
	mu      sync.Mutex
	nextID  int
	scanner *bufio.Scanner
	encoder *json.Encoder
}

// Dial connects to the socket RPC server at the given path.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("socketrpc: dial: %w", err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, scannerInitBufSize), scannerMaxTokenSize)
	return &Client{
		conn:    conn,
		scanner: scanner,
		encoder: json.NewEncoder(conn),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// call performs a JSON-RPC call and unmarshals the result into dest.
func (c *Client) call(method string, params interface{}, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	paramsData, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("socketrpc: marshal params: %w", err)
	}

	req := Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  paramsData,
	}

	c.conn.SetDeadline(time.Now().Add(30 * time.Second))
	defer c.conn.SetDeadline(time.Time{})

	if err := c.encoder.Encode(req); err != nil {
		return fmt.Errorf("socketrpc: send: %w", err)
	}

	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return fmt.Errorf("socketrpc: read: %w", err)
		}
		return fmt.Errorf("socketrpc: connection closed")
	}

	var resp Response
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		return fmt.Errorf("socketrpc: unmarshal response: %w", err)
	}

	if resp.Error != nil {
		return resp.Error
	}

	if dest != nil {
		if err := json.Unmarshal(resp.Result, dest); err != nil {
			return fmt.Errorf("socketrpc: unmarshal result: %w", err)
		}
	}
	return nil
}

func (c *Client) Overview(q model.Query) (model.Overview, error) {
	var result model.Overview
	err := c.call("Overview", map[string]interface{}{"Query": q}, &result)
	return result, err
}

func (c *Client) StatusBreakdown(q model.Query) (model.StatusBreakdown, error) {
	var result model.StatusBreakdown
	err := c.call("StatusBreakdown", map[string]interface{}{"Query": q}, &result)
	return result, err
}

func (c *Client) DurationSeries(q model.Query) ([]model.DurationPoint, error) {
	var result []model.DurationPoint
	err := c.call("DurationSeries", map[string]interface{}{"Query": q}, &result)
	return result, err
}

func (c *Client) ErrorDistribution(q model.Query) ([]model.CodeCount, error) {
	var result []model.CodeCount
	err := c.call("ErrorDistribution", map[string]interface{}{"Query": q}, &result)
	return result, err
}

func (c *Client) MachineWorkload(q model.Query) ([]model.MachineCount, error) {
	var result []model.MachineCount
	err := c.call("MachineWorkload", map[string]interface{}{"Query": q}, &result)
	return result, err
}

func (c *Client) Tasks(q model.Query, limit, offset int) (model.TaskPage, error) {
	var result model.TaskPage
	err := c.call("Tasks", map[string]interface{}{"Query": q, "Limit": limit, "Offset": offset}, &result)
	return result, err
}

func (c *Client) Fleet() (model.FleetInfo, error) {
	var result model.FleetInfo
	err := c.call("Fleet", map[string]interface{}{}, &result)
	return result, err
}

func (c *Client) Info() (model.DatasetInfo, error) {
	var result model.DatasetInfo
	err := c.call("Info", map[string]interface{}{}, &result)
	return result, err
}

func (c *Client) Regenerate(seed int64) (model.DatasetInfo, error) {
	var result model.DatasetInfo
	err := c.call("Regenerate", map[string]interface{}{"Seed": seed}, &result)
	return result, err
}
