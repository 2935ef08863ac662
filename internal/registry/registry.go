// Package registry tracks every node this process has heard from: its
// address, role, last heartbeat, and last reported resource score. The
// master consults it when choosing a worker for a shard; every node
// consults it when deciding whether it can see a live master.
package registry

import (
	"sync"
	"time"

	"github.com/vtmesh/transcode/pkg/types"
)

// Config bounds how long a node record stays Alive or Suspect before it is
// considered Dead and dropped from scheduling consideration.
type Config struct {
	SuspectAfter time.Duration
	DeadAfter    time.Duration
}

// DefaultConfig matches the timings in the heartbeat and scoring design:
// a node that misses roughly 3 heartbeats is suspect, roughly 10 is dead.
func DefaultConfig(heartbeatInterval time.Duration) Config {
	return Config{
		SuspectAfter: heartbeatInterval * 3,
		DeadAfter:    heartbeatInterval * 10,
	}
}

// Registry is this node's view of the cluster. Safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	nodes  map[string]*types.NodeRecord
	config Config
}

// New creates an empty registry.
func New(config Config) *Registry {
	return &Registry{
		nodes:  make(map[string]*types.NodeRecord),
		config: config,
	}
}

// Register admits a node, or refreshes its record if it was already known
// (a worker that restarts re-registers under the same address).
func (r *Registry) Register(address string, role types.Role) *types.NodeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UnixMilli()
	rec, exists := r.nodes[address]
	if !exists {
		rec = &types.NodeRecord{
			Address:      address,
			Role:         role,
			RegisteredAt: now,
		}
		r.nodes[address] = rec
	}
	rec.Role = role
	rec.LastHeartbeatAt = now
	rec.Liveness = types.Alive
	return rec
}

// Heartbeat refreshes a known node's liveness. Returns false if the node
// was never registered, so callers can ask it to re-register.
func (r *Registry) Heartbeat(address string, inFlightShards int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.nodes[address]
	if !ok {
		return false
	}
	rec.LastHeartbeatAt = time.Now().UnixMilli()
	rec.InFlightShards = inFlightShards
	rec.Liveness = types.Alive
	return true
}

// ReportScore records a node's latest resource score. A report counts as
// contact from the node, so it also refreshes LastHeartbeatAt and marks the
// node Alive. Stale scores (older than the caller's TTL) are left in place;
// Reconcile is what downgrades liveness once reports stop, not this call.
func (r *Registry) ReportScore(address string, score float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.nodes[address]
	if !ok {
		return false
	}
	rec.LastScore = score
	rec.LastScoreAt = time.Now().UnixMilli()
	rec.LastHeartbeatAt = rec.LastScoreAt
	rec.Liveness = types.Alive
	return true
}

// SetKnownMaster records which master address a node last announced,
// surfaced so operators can see whether the cluster agrees on a leader.
func (r *Registry) SetKnownMaster(address, masterAddress string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.nodes[address]; ok {
		rec.KnownMaster = masterAddress
	}
}

// Get returns a copy of one node's record.
func (r *Registry) Get(address string) (types.NodeRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.nodes[address]
	if !ok {
		return types.NodeRecord{}, false
	}
	return *rec, true
}

// AliveWorkers returns a copy of every node currently Alive with role
// Worker, for the scheduler to choose among.
func (r *Registry) AliveWorkers() []types.NodeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]types.NodeRecord, 0, len(r.nodes))
	for _, rec := range r.nodes {
		if rec.Role == types.RoleWorker && rec.Liveness == types.Alive {
			out = append(out, *rec)
		}
	}
	return out
}

// All returns a copy of every known node, for status reporting.
func (r *Registry) All() []types.NodeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]types.NodeRecord, 0, len(r.nodes))
	for _, rec := range r.nodes {
		out = append(out, *rec)
	}
	return out
}

// Reconcile downgrades liveness for nodes that have gone quiet and removes
// nodes that have been dead long enough to stop reporting on. Intended to
// run on a ticker, not per-heartbeat.
func (r *Registry) Reconcile(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	nowMs := now.UnixMilli()
	for addr, rec := range r.nodes {
		age := time.Duration(nowMs-rec.LastHeartbeatAt) * time.Millisecond
		switch {
		case age >= r.config.DeadAfter:
			delete(r.nodes, addr)
		case age >= r.config.SuspectAfter:
			rec.Liveness = types.Suspect
		}
	}
}
