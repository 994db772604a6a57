package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nodebeacon/beacon/internal/metrics"
	"github.com/nodebeacon/beacon/internal/store"
	"github.com/nodebeacon/beacon/pkg/types"
)

// Runner executes one scan cycle. *Cycle implements it.
type Runner interface {
	Run(ctx context.Context, nodes []types.NodeConfig) ([]types.NodeStatus, error)
}

// Listener is notified after a snapshot is published.
type Listener func(snap *store.Snapshot)

// Status describes the scheduler's recent activity.
type Status struct {
	Running       bool      `json:"running"`
	Interval      string    `json:"interval"`
	Nodes         int       `json:"nodes"`
	LastCycleID   string    `json:"last_cycle_id,omitempty"`
	LastStarted   time.Time `json:"last_started,omitempty"`
	LastCompleted time.Time `json:"last_completed,omitempty"`
	LastDuration  string    `json:"last_duration,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
	Completed     int64     `json:"completed"`
	Aborted       int64     `json:"aborted"`
	Skipped       int64     `json:"skipped"`
}

// Scheduler triggers cycles and publishes their results.
type Scheduler struct {
	runner   Runner
	store    *store.Store
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	nodes     atomic.Pointer[[]types.NodeConfig]
	running   atomic.Bool
	listeners []Listener
	wg        sync.WaitGroup

	mu     sync.Mutex
	status Status
}

// NewScheduler returns a Scheduler scanning nodes every interval.
func NewScheduler(r Runner, st *store.Store, interval time.Duration, nodes []types.NodeConfig, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		runner:   r,
		store:    st,
		interval: interval,
		logger:   logger.With("component", "scheduler"),
		now:      time.Now,
	}
	s.SetNodes(nodes)
	return s
}

// OnPublish registers l. Listeners must be registered before Run.
func (s *Scheduler) OnPublish(l Listener) {
	s.listeners = append(s.listeners, l)
}

// SetNodes replaces the node list used from the next cycle on.
func (s *Scheduler) SetNodes(nodes []types.NodeConfig) {
	cp := append([]types.NodeConfig(nil), nodes...)
	s.nodes.Store(&cp)
}

// Nodes returns the node list the next cycle will scan.
func (s *Scheduler) Nodes() []types.NodeConfig {
	return append([]types.NodeConfig(nil), (*s.nodes.Load())...)
}

// Run fires a cycle immediately and then every interval until ctx is
// cancelled. Each cycle runs in its own goroutine so that ticks keep
// arriving, and overlapping ones are dropped by Trigger. Run waits for the
// in-flight cycle before returning.
func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTimer(0)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return
		case <-t.C:
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.Trigger(ctx)
			}()
			t.Reset(s.interval)
		}
	}
}

// Trigger runs one cycle synchronously. It returns false without doing
// anything when another cycle is already running.
func (s *Scheduler) Trigger(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("scanner already running, skip")
		metrics.CycleSkipped.Inc()
		s.mu.Lock()
		s.status.Skipped++
		s.mu.Unlock()
		return false
	}
	defer s.running.Store(false)

	nodes := s.Nodes()
	id := uuid.NewString()
	started := s.now()
	log := s.logger.With("cycle_id", id)
	log.Info("scan cycle started", "nodes", len(nodes))

	s.mu.Lock()
	s.status.LastCycleID = id
	s.status.LastStarted = started
	s.mu.Unlock()

	statuses, err := s.runner.Run(ctx, nodes)
	completed := s.now()

	if err != nil {
		log.Error("scan cycle aborted, keeping previous results", "err", err)
		metrics.CycleTotal.WithLabelValues("aborted").Inc()
		s.mu.Lock()
		s.status.LastError = err.Error()
		s.status.Aborted++
		s.mu.Unlock()
		return true
	}

	snap := store.NewSnapshot(id, started, completed, statuses)
	s.store.Publish(snap)

	elapsed := completed.Sub(started)
	metrics.CycleTotal.WithLabelValues("completed").Inc()
	metrics.CycleDuration.Observe(elapsed.Seconds())
	metrics.NodeScore.Reset()
	for _, n := range statuses {
		metrics.NodeScore.WithLabelValues(n.Name).Set(float64(n.Score))
	}

	s.mu.Lock()
	s.status.LastCompleted = completed
	s.status.LastDuration = elapsed.Round(time.Millisecond).String()
	s.status.LastError = ""
	s.status.Completed++
	s.mu.Unlock()

	log.Info("scan cycle completed", "nodes", len(statuses), "duration", elapsed)

	for _, l := range s.listeners {
		s.notify(l, snap)
	}
	return true
}

func (s *Scheduler) notify(l Listener, snap *store.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("publish listener panicked", "panic", fmt.Sprint(r))
		}
	}()
	l(snap)
}

// Status returns a copy of the scheduler status.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	st := s.status
	s.mu.Unlock()

	st.Running = s.running.Load()
	st.Interval = s.interval.String()
	st.Nodes = len(*s.nodes.Load())
	return st
}
