package health

import (
	"context"
	"sync"
	"time"
)

// Status is the outcome of a single dependency check.
type Status struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

// Check probes one dependency. It must respect ctx cancellation.
type Check func(ctx context.Context) error

// Checker runs registered dependency checks with a shared timeout.
type Checker struct {
	mu      sync.RWMutex
	checks  map[string]Check
	timeout time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{
		checks:  make(map[string]Check),
		timeout: timeout,
	}
}

// Register adds a named check. Re-registering a name replaces it.
func (c *Checker) Register(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Run executes all checks and reports per-dependency status plus
// overall health (true only when every check passes).
func (c *Checker) Run(ctx context.Context) (map[string]Status, bool) {
	c.mu.RLock()
	checks := make(map[string]Check, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]Status, len(checks))
		healthy = true
	)

	for name, check := range checks {
		wg.Add(1)
		go func(name string, check Check) {
			defer wg.Done()
			start := time.Now()
			err := check(ctx)
			status := Status{
				Healthy: err == nil,
				Latency: time.Since(start).String(),
			}
			if err != nil {
				status.Error = err.Error()
			}
			mu.Lock()
			results[name] = status
			if err != nil {
				healthy = false
			}
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()

	return results, healthy
}
