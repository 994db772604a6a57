package store

import (
	"sync/atomic"
	"time"

	"github.com/nodebeacon/beacon/pkg/types"
)

// Snapshot is the result of one complete scan cycle. It is never modified
// after being published.
type Snapshot struct {
	CycleID     string
	StartedAt   time.Time
	CompletedAt time.Time
	Nodes       []types.NodeStatus

	index map[string]int
}

// NewSnapshot builds a Snapshot over nodes, indexing them by name.
// Callers must not modify nodes afterwards.
func NewSnapshot(cycleID string, started, completed time.Time, nodes []types.NodeStatus) *Snapshot {
	idx := make(map[string]int, len(nodes))
	for i, n := range nodes {
		idx[n.Name] = i
	}
	return &Snapshot{
		CycleID:     cycleID,
		StartedAt:   started,
		CompletedAt: completed,
		Nodes:       nodes,
		index:       idx,
	}
}

// Node returns the status of the named node in this snapshot.
func (s *Snapshot) Node(name string) (types.NodeStatus, bool) {
	i, ok := s.index[name]
	if !ok {
		return types.NodeStatus{}, false
	}
	return s.Nodes[i], true
}

var empty = NewSnapshot("", time.Time{}, time.Time{}, nil)

// Store publishes snapshots atomically. The zero value is not usable; use New.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// New returns a Store holding an empty snapshot.
func New() *Store {
	s := &Store{}
	s.cur.Store(empty)
	return s
}

// Publish replaces the current snapshot as a whole.
func (s *Store) Publish(snap *Snapshot) {
	if snap.index == nil {
		snap = NewSnapshot(snap.CycleID, snap.StartedAt, snap.CompletedAt, snap.Nodes)
	}
	s.cur.Store(snap)
}

// Current returns the latest published snapshot, never nil.
func (s *Store) Current() *Snapshot {
	return s.cur.Load()
}

// Nodes returns a copy of the latest node list.
func (s *Store) Nodes() []types.NodeStatus {
	return append([]types.NodeStatus(nil), s.Current().Nodes...)
}

// Get returns the named node from the latest snapshot.
func (s *Store) Get(name string) (types.NodeStatus, bool) {
	return s.Current().Node(name)
}

// Count returns the number of nodes in the latest snapshot.
func (s *Store) Count() int {
	return len(s.Current().Nodes)
}
