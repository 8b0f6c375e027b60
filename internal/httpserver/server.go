package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gantryworks/gantry/internal/model"
	"github.com/gin-gonic/gin"
)

// Server provides the HTTP API for the warehouse dashboard.
type Server struct {
	addr      string
	api       model.DashboardAPI
	server    *http.Server
	listener  net.Listener
	errCh     chan error
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, api model.DashboardAPI) *Server {
	if addr == "" {
		addr = "0.0.0.0:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		api:    api,
		errCh:  make(chan error, 1),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	s.registerRoutes(r)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.startTime = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errCh <- err
		}
	}()
	return nil
}

// Err reports a serve loop failure. Nothing is sent on a clean Stop.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// Addr returns the bound listen address. Valid after Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/fleet", s.handleFleet)
	r.GET("/api/dashboard", s.handleDashboard)
	r.GET("/api/tasks", s.handleTasks)
	r.POST("/api/regenerate", s.handleRegenerate)
}

// parseQuery builds the filter selection from the query string. Recognized
// parameters: from, to (RFC 3339), repeatable machine and code.
func parseQuery(c *gin.Context) (model.Query, error) {
	var q model.Query

	from := c.Query("from")
	to := c.Query("to")
	if from != "" || to != "" {
		r := model.DateRange{}
		if from != "" {
			t, err := time.Parse(time.RFC3339, from)
			if err != nil {
				return q, model.InvalidParam("from", from, "must be an RFC 3339 timestamp")
			}
			r.Start = t
		}
		if to != "" {
			t, err := time.Parse(time.RFC3339, to)
			if err != nil {
				return q, model.InvalidParam("to", to, "must be an RFC 3339 timestamp")
			}
			r.End = t
		} else {
			r.End = time.Now().UTC()
		}
		q.Range = &r
	}

	q.Machines = c.QueryArray("machine")
	q.ErrorCodes = c.QueryArray("code")
	return q, nil
}

// fail maps core errors onto HTTP statuses: parameter validation is the
// caller's fault, anything else is ours.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, model.ErrInvalidParameter) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	info, err := s.api.Info()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read dataset info"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"uptime":       time.Since(s.startTime).String(),
		"task_count":   info.TaskCount,
		"generated_at": info.GeneratedAt,
	})
}

func (s *Server) handleFleet(c *gin.Context) {
	fi, err := s.api.Fleet()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fi)
}

func (s *Server) handleDashboard(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		fail(c, err)
		return
	}

	var result model.AggregateResult
	if result.Overview, err = s.api.Overview(q); err != nil {
		fail(c, err)
		return
	}
	if result.StatusBreakdown, err = s.api.StatusBreakdown(q); err != nil {
		fail(c, err)
		return
	}
	if result.DurationSeries, err = s.api.DurationSeries(q); err != nil {
		fail(c, err)
		return
	}
	if result.ErrorDistribution, err = s.api.ErrorDistribution(q); err != nil {
		fail(c, err)
		return
	}
	if result.MachineWorkload, err = s.api.MachineWorkload(q); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleTasks(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		fail(c, err)
		return
	}

	limit, err := intParam(c, "limit", 0)
	if err != nil {
		fail(c, err)
		return
	}
	offset, err := intParam(c, "offset", 0)
	if err != nil {
		fail(c, err)
		return
	}

	page, err := s.api.Tasks(q, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) handleRegenerate(c *gin.Context) {
	var req struct {
		Seed int64 `json:"seed"`
	}
	// Body is optional; an empty body means a fresh time seed.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
	}

	info, err := s.api.Regenerate(req.Seed)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func intParam(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.InvalidParam(name, raw, "must be an integer")
	}
	return v, nil
}
