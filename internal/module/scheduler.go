package module

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/homedash/homedash/internal/model"
	"github.com/homedash/homedash/internal/store"
)

// BroadcastFunc is called with each refresh result for real-time streaming.
type BroadcastFunc func(res model.RefreshResult)

// Scheduler runs refresh passes over the enabled modules at a fixed interval.
type Scheduler struct {
	registry   *Registry
	store      *store.Store
	interval   time.Duration
	broadcast  BroadcastFunc
	mu         sync.Mutex
	latest     *model.RefreshResult
	cancel     context.CancelFunc
	intervalCh chan time.Duration // signals the loop to reset the ticker
}

// NewScheduler creates a new scheduler. store may be nil (one-shot mode);
// history is then not persisted. The interval is clamped to 1s, same as
// UpdateInterval, so a bad refresh_interval cannot take down the loop.
func NewScheduler(registry *Registry, s *store.Store, intervalSec int) *Scheduler {
	interval := time.Duration(intervalSec) * time.Second
	if interval < time.Second {
		log.Printf("[scheduler] refresh interval %ds is too small, using 1s", intervalSec)
		interval = time.Second
	}
	return &Scheduler{
		registry:   registry,
		store:      s,
		interval:   interval,
		intervalCh: make(chan time.Duration, 1),
	}
}

// SetBroadcast sets the function called with each refresh result.
func (s *Scheduler) SetBroadcast(fn BroadcastFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcast = fn
}

// Latest returns the most recent refresh result, or nil before the first pass.
func (s *Scheduler) Latest() *model.RefreshResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Start begins the refresh loop.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	go s.loop(ctx)
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// UpdateInterval changes the refresh interval at runtime.
func (s *Scheduler) UpdateInterval(sec int) {
	d := time.Duration(sec) * time.Second
	if d < time.Second {
		d = time.Second
	}
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()

	// Non-blocking send to notify the loop
	select {
	case s.intervalCh <- d:
	default:
	}
	log.Printf("[scheduler] refresh interval updated to %v", d)
}

func (s *Scheduler) loop(ctx context.Context) {
	s.mu.Lock()
	interval := s.interval
	s.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run once immediately
	s.RunPass(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case newInterval := <-s.intervalCh:
			ticker.Reset(newInterval)
		case <-ticker.C:
			s.RunPass(ctx)
		}
	}
}

// RunPass runs a single refresh pass now: fetch and render every enabled
// module, persist the fragments, remember the result and broadcast it.
// The manual refresh endpoint and the one-shot CLI mode call this directly.
func (s *Scheduler) RunPass(ctx context.Context) model.RefreshResult {
	mods := s.registry.EnabledModules()
	res := Refresh(ctx, mods)

	if s.store != nil && len(res.Fragments) > 0 {
		if err := s.store.InsertFragments(res); err != nil {
			log.Printf("[scheduler] store error: %v", err)
		}
	}

	s.mu.Lock()
	s.latest = &res
	fn := s.broadcast
	s.mu.Unlock()

	if fn != nil {
		fn(res)
	}
	return res
}
