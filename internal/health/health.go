// Package health runs named subsystem probes for the firewall's health
// endpoints (database reachability, scorer circuit state).
package health

import (
	"context"
	"sync"
	"time"
)

// Each probe gets its own deadline so one stuck subsystem cannot hold
// the /health handler past the caller's patience.
const probeTimeout = 2 * time.Second

// Status is the result of probing a single subsystem.
type Status struct {
	Name      string `json:"name"`
	Healthy   bool   `json:"healthy"`
	Detail    string `json:"detail,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// Checker probes one subsystem.
type Checker func(ctx context.Context) Status

// Registry holds named checkers and probes them on demand.
type Registry struct {
	mu       sync.RWMutex
	checkers []namedChecker
}

type namedChecker struct {
	name  string
	check Checker
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a named checker. Registration order is preserved in
// CheckAll results.
func (r *Registry) Register(name string, check Checker) {
	r.mu.Lock()
	r.checkers = append(r.checkers, namedChecker{name: name, check: check})
	r.mu.Unlock()
}

// CheckAll probes every registered subsystem and reports whether all of
// them are healthy, along with the individual results.
func (r *Registry) CheckAll(ctx context.Context) (healthy bool, statuses []Status) {
	r.mu.RLock()
	checkers := make([]namedChecker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	healthy = true
	statuses = make([]Status, len(checkers))

	for i, nc := range checkers {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		start := time.Now()
		st := nc.check(probeCtx)
		cancel()

		st.Name = nc.name
		st.LatencyMS = time.Since(start).Milliseconds()
		statuses[i] = st
		if !st.Healthy {
			healthy = false
		}
	}

	return healthy, statuses
}
