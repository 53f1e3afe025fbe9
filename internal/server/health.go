package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/conneroisu/folio/internal/logging"
	"github.com/conneroisu/folio/internal/version"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnknown   HealthStatus = "unknown"
)

// HealthCheck is the result of one check.
type HealthCheck struct {
	Name        string                 `json:"name"`
	Status      HealthStatus           `json:"status"`
	Message     string                 `json:"message,omitempty"`
	LastChecked time.Time              `json:"last_checked"`
	Duration    time.Duration          `json:"duration"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Critical    bool                   `json:"critical"`
}

// HealthChecker is a named check run on every health request.
type HealthChecker interface {
	Check(ctx context.Context) HealthCheck
	Name() string
	IsCritical() bool
}

type healthCheckFunc struct {
	name     string
	critical bool
	checkFn  func(ctx context.Context) HealthCheck
}

func (h *healthCheckFunc) Check(ctx context.Context) HealthCheck { return h.checkFn(ctx) }
func (h *healthCheckFunc) Name() string                          { return h.name }
func (h *healthCheckFunc) IsCritical() bool                      { return h.critical }

// NewHealthCheckFunc wraps fn as a HealthChecker.
func NewHealthCheckFunc(name string, critical bool, fn func(ctx context.Context) HealthCheck) HealthChecker {
	return &healthCheckFunc{name: name, critical: critical, checkFn: fn}
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status    HealthStatus           `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]HealthCheck `json:"checks"`
	Summary   HealthSummary          `json:"summary"`
}

// HealthSummary counts check results by status.
type HealthSummary struct {
	Total     int `json:"total"`
	Healthy   int `json:"healthy"`
	Unhealthy int `json:"unhealthy"`
	Degraded  int `json:"degraded"`
	Unknown   int `json:"unknown"`
}

// HealthMonitor runs the registered checks on demand.
type HealthMonitor struct {
	mutex   sync.RWMutex
	checks  map[string]HealthChecker
	logger  logging.Logger
	timeout time.Duration
	now     func() time.Time
	started time.Time
}

// NewHealthMonitor creates a monitor with no checks.
func NewHealthMonitor(logger logging.Logger, now func() time.Time) *HealthMonitor {
	if logger == nil {
		logger = logging.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &HealthMonitor{
		checks:  make(map[string]HealthChecker),
		logger:  logger.WithComponent("health"),
		timeout: 5 * time.Second,
		now:     now,
		started: now(),
	}
}

// RegisterCheck adds or replaces a check.
func (hm *HealthMonitor) RegisterCheck(checker HealthChecker) {
	hm.mutex.Lock()
	defer hm.mutex.Unlock()
	hm.checks[checker.Name()] = checker
}

// Names lists the registered checks in order.
func (hm *HealthMonitor) Names() []string {
	hm.mutex.RLock()
	defer hm.mutex.RUnlock()
	names := make([]string, 0, len(hm.checks))
	for name := range hm.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetHealth runs every check concurrently and folds the results.
func (hm *HealthMonitor) GetHealth(ctx context.Context) HealthResponse {
	hm.mutex.RLock()
	checkers := make([]HealthChecker, 0, len(hm.checks))
	for _, c := range hm.checks {
		checkers = append(checkers, c)
	}
	hm.mutex.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, hm.timeout)
	defer cancel()

	results := make([]HealthCheck, len(checkers))
	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, checker HealthChecker) {
			defer wg.Done()
			start := time.Now()
			result := checker.Check(ctx)
			result.Name = checker.Name()
			result.Critical = checker.IsCritical()
			result.Duration = time.Since(start)
			result.LastChecked = hm.now()
			results[i] = result
		}(i, checker)
	}
	wg.Wait()

	checks := make(map[string]HealthCheck, len(results))
	for _, result := range results {
		checks[result.Name] = result
		if result.Status != HealthStatusHealthy {
			hm.logger.Debug(ctx, "Health check not healthy",
				"name", result.Name,
				"status", string(result.Status),
				"message", result.Message)
		}
	}

	return HealthResponse{
		Status:    overallStatus(checks),
		Timestamp: hm.now().UTC(),
		Version:   version.GetShortVersion(),
		Uptime:    hm.now().Sub(hm.started).Round(time.Second).String(),
		Checks:    checks,
		Summary:   summarize(checks),
	}
}

func summarize(checks map[string]HealthCheck) HealthSummary {
	summary := HealthSummary{Total: len(checks)}
	for _, check := range checks {
		switch check.Status {
		case HealthStatusHealthy:
			summary.Healthy++
		case HealthStatusUnhealthy:
			summary.Unhealthy++
		case HealthStatusDegraded:
			summary.Degraded++
		default:
			summary.Unknown++
		}
	}
	return summary
}

// overallStatus is unhealthy when a critical check fails and degraded when
// any other check is not healthy.
func overallStatus(checks map[string]HealthCheck) HealthStatus {
	status := HealthStatusHealthy
	for _, check := range checks {
		switch {
		case check.Critical && check.Status == HealthStatusUnhealthy:
			return HealthStatusUnhealthy
		case check.Status == HealthStatusDegraded, check.Status == HealthStatusUnhealthy:
			status = HealthStatusDegraded
		}
	}
	return status
}

// HTTPHandler serves GetHealth as JSON. Unhealthy answers 503.
func (hm *HealthMonitor) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowRead(w, r) {
			return
		}
		health := hm.GetHealth(r.Context())
		code := http.StatusOK
		if health.Status == HealthStatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, health)
	}
}

// DataFileHealthChecker reports whether path is a readable regular file.
func DataFileHealthChecker(path string) HealthChecker {
	return NewHealthCheckFunc("data_file", true, func(ctx context.Context) HealthCheck {
		info, err := os.Stat(path)
		if err != nil {
			return HealthCheck{Status: HealthStatusUnhealthy, Message: fmt.Sprintf("cannot stat data file: %v", err)}
		}
		if info.IsDir() {
			return HealthCheck{Status: HealthStatusUnhealthy, Message: "data file is a directory"}
		}
		f, err := os.Open(path)
		if err != nil {
			return HealthCheck{Status: HealthStatusUnhealthy, Message: fmt.Sprintf("cannot read data file: %v", err)}
		}
		_ = f.Close()
		return HealthCheck{
			Status:   HealthStatusHealthy,
			Message:  "Data file is readable",
			Metadata: map[string]interface{}{"path": path, "size": info.Size()},
		}
	})
}

// GoroutineHealthChecker flags a runaway goroutine count.
func GoroutineHealthChecker() HealthChecker {
	return NewHealthCheckFunc("goroutines", false, func(ctx context.Context) HealthCheck {
		count := runtime.NumGoroutine()
		check := HealthCheck{
			Status:   HealthStatusHealthy,
			Message:  "Goroutine count is normal",
			Metadata: map[string]interface{}{"count": count},
		}
		if count > 1000 {
			check.Status = HealthStatusDegraded
			check.Message = fmt.Sprintf("High goroutine count: %d", count)
		}
		return check
	})
}

// registerHealthChecks wires the preview server's own checks.
func (s *PreviewServer) registerHealthChecks() {
	s.health.RegisterCheck(DataFileHealthChecker(s.dataFile))
	s.health.RegisterCheck(GoroutineHealthChecker())
	s.health.RegisterCheck(NewHealthCheckFunc("render", false, func(ctx context.Context) HealthCheck {
		state, lastErr := s.snapshot()
		switch {
		case lastErr != nil:
			return HealthCheck{Status: HealthStatusDegraded, Message: lastErr.Error()}
		case state == nil:
			return HealthCheck{Status: HealthStatusUnknown, Message: "No render yet"}
		}
		return HealthCheck{
			Status:   HealthStatusHealthy,
			Message:  "Last render succeeded",
			Metadata: map[string]interface{}{"render_id": state.ID, "rendered_at": state.RenderedAt},
		}
	}))
	s.health.RegisterCheck(NewHealthCheckFunc("websocket", false, func(ctx context.Context) HealthCheck {
		return HealthCheck{
			Status:   HealthStatusHealthy,
			Message:  "Reload hub running",
			Metadata: map[string]interface{}{"clients": s.ClientCount()},
		}
	}))
	if s.drafts != nil {
		s.health.RegisterCheck(NewHealthCheckFunc("drafts", false, func(ctx context.Context) HealthCheck {
			return HealthCheck{
				Status:   HealthStatusHealthy,
				Message:  "Draft store attached",
				Metadata: map[string]interface{}{"key": s.drafts.Key()},
			}
		}))
	}
}
