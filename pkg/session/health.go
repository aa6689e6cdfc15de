package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/keyshard/tss/pkg/party"
)

// PartyHealth tracks one endpoint's recent reliability, adapted from the
// teacher's protocols/cmp/fault_tolerance.go FaultTolerantCoordinator:
// health is surfaced for the caller's own retry or reshare policy (pkg/vss
// exposes Reshare directly) rather than acted on internally.
type PartyHealth struct {
	ID           party.ID
	FailureCount int
	LastFailure  time.Time
	LastSuccess  time.Time
	ResponseTime time.Duration
	IsResponsive bool
}

// HealthTracker records per-party success/failure observations across
// step-function calls and runs concurrent liveness probes of both
// endpoints before a session starts. Unlike the teacher's coordinator it
// does not itself retry or reshare: the pure step functions in pkg/frost,
// pkg/vss, and pkg/tecdsa have no notion of a live connection to retry,
// so HealthTracker is advisory bookkeeping the caller consults before
// deciding to open a new session.
type HealthTracker struct {
	mu               sync.Mutex
	log              *zap.Logger
	parties          map[party.ID]*PartyHealth
	failureThreshold int
}

// NewHealthTracker builds a tracker for the given parties. A nil logger
// falls back to zap's no-op logger so callers that don't care about
// structured logs aren't forced to provide one.
func NewHealthTracker(log *zap.Logger, failureThreshold int, ids ...party.ID) *HealthTracker {
	if log == nil {
		log = zap.NewNop()
	}
	parties := make(map[party.ID]*PartyHealth, len(ids))
	for _, id := range ids {
		parties[id] = &PartyHealth{ID: id, IsResponsive: true}
	}
	return &HealthTracker{log: log, parties: parties, failureThreshold: failureThreshold}
}

// RecordSuccess marks a completed, successful step call from id.
func (h *HealthTracker) RecordSuccess(id party.ID, latency time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.parties[id]
	if !ok {
		p = &PartyHealth{ID: id}
		h.parties[id] = p
	}
	p.LastSuccess = time.Now()
	p.ResponseTime = latency
	p.FailureCount = 0
	p.IsResponsive = true
	h.log.Debug("party step succeeded", zap.String("party", string(id)), zap.Duration("latency", latency))
}

// RecordFailure marks a failed step call from id. Once FailureCount reaches
// the configured threshold, the party is marked unresponsive.
func (h *HealthTracker) RecordFailure(id party.ID, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.parties[id]
	if !ok {
		p = &PartyHealth{ID: id}
		h.parties[id] = p
	}
	p.LastFailure = time.Now()
	p.FailureCount++
	if p.FailureCount >= h.failureThreshold {
		p.IsResponsive = false
	}
	h.log.Warn("party step failed",
		zap.String("party", string(id)),
		zap.Int("failure_count", p.FailureCount),
		zap.Error(err),
	)
}

// Snapshot returns a copy of the current health record for id.
func (h *HealthTracker) Snapshot(id party.ID) (PartyHealth, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.parties[id]
	if !ok {
		return PartyHealth{}, false
	}
	return *p, true
}

// IsResponsive reports whether id is currently considered healthy.
func (h *HealthTracker) IsResponsive(id party.ID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.parties[id]
	return ok && p.IsResponsive
}

// Probe is a caller-supplied liveness check for one party (e.g. a transport
// ping); ProbeAll runs one per party concurrently and records the outcome.
type Probe func(ctx context.Context) error

// ProbeAll runs probes for every named party concurrently via errgroup,
// recording each outcome through RecordSuccess/RecordFailure, and returns
// the first error encountered (if any) for the caller that wants a hard
// failure rather than just updated health state.
func (h *HealthTracker) ProbeAll(ctx context.Context, probes map[party.ID]Probe) error {
	g, ctx := errgroup.WithContext(ctx)
	for id, probe := range probes {
		id, probe := id, probe
		g.Go(func() error {
			start := time.Now()
			err := probe(ctx)
			latency := time.Since(start)
			if err != nil {
				h.RecordFailure(id, err)
				return fmt.Errorf("probe for party %s: %w", id, err)
			}
			h.RecordSuccess(id, latency)
			return nil
		})
	}
	return g.Wait()
}
