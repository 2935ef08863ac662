// Package jobmanager holds the master's in-memory view of every job and
// its shards: the pending queue, in-flight deadlines, and the terminal
// outcomes. It has no I/O of its own; the controller package drives WAL
// writes and snapshotting around these calls.
package jobmanager

import (
	"fmt"
	"sync"
	"time"

	"github.com/vtmesh/transcode/pkg/types"
)

// ErrJobNotFound is returned when a job ID has no entry in the manager.
var ErrJobNotFound = fmt.Errorf("job not found")

// ErrShardNotFound is returned when a (jobID, shardID) pair has no entry.
var ErrShardNotFound = fmt.Errorf("shard not found")

// Stats is a point-in-time count of jobs by status, returned by Stats().
type Stats struct {
	Uploading      int
	Segmenting     int
	Dispatching    int
	Processing     int
	Collecting     int
	Concatenating  int
	Completed      int
	Failed         int
	PendingShards  int
	InFlightShards int
}

// Manager is the master's job and shard state machine. Safe for concurrent
// use; every exported method takes the lock.
type Manager struct {
	mu sync.Mutex

	jobs map[types.JobID]*types.Job

	// pending holds shards waiting for assignment, oldest job first. A
	// shard is removed on PopPendingShard and only re-appended on retry,
	// so the queue never holds a shard that is also in-flight.
	pending []*types.Shard

	maxRetry int
}

// NewManager creates an empty job manager. maxRetry is how many attempts a
// single shard gets before its job fails with shard-exhausted.
func NewManager(maxRetry int) *Manager {
	return &Manager{
		jobs:     make(map[types.JobID]*types.Job),
		pending:  make([]*types.Shard, 0, 64),
		maxRetry: maxRetry,
	}
}

// EnqueueJob registers a newly uploaded job. The caller has not yet
// segmented the source, so the job carries no shards until SetShards runs.
func (m *Manager) EnqueueJob(job *types.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[job.ID]; exists {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	if job.Status == "" {
		job.Status = types.JobUploading
	}
	job.PendingSince = nowMillis()
	m.jobs[job.ID] = job
	return nil
}

// MarkJobSegmenting transitions a freshly uploaded job into segmentation,
// before the shard count is known.
func (m *Manager) MarkJobSegmenting(jobID types.JobID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = types.JobSegmenting
	return nil
}

// SetShards attaches the segmentation result to a job and enqueues every
// shard for dispatch. Called once, after Segment succeeds.
func (m *Manager) SetShards(jobID types.JobID, shards []*types.Shard) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.Shards = shards
	job.Status = types.JobDispatching
	job.PendingSince = nowMillis()
	for _, s := range shards {
		s.Status = types.ShardPending
		s.PendingSinceMs = nowMillis()
		m.pending = append(m.pending, s)
	}
	return nil
}

// RequeueShardWithoutPenalty puts a shard back on the pending queue
// without incrementing its attempt count, used when the scheduler dequeues
// a shard but finds no eligible worker to hand it to right now.
func (m *Manager) RequeueShardWithoutPenalty(shard *types.Shard) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, _, err := m.lookupShard(shard.JobID, shard.ShardID); err != nil {
		return err
	}
	m.pending = append(m.pending, shard)
	return nil
}

// PopPendingShard removes and returns the oldest pending shard, or nil if
// the queue is empty. FIFO ordering is what gives older jobs priority over
// newly arrived ones without any separate starvation bookkeeping.
func (m *Manager) PopPendingShard() *types.Shard {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.pending) == 0 {
		return nil
	}
	shard := m.pending[0]
	m.pending = m.pending[1:]
	return shard
}

// MarkShardAssigned moves a shard from pending to assigned on a specific
// worker, recording the deadline by which it must report back.
func (m *Manager) MarkShardAssigned(jobID types.JobID, shardID int, workerID string, deadline time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	shard, job, err := m.lookupShard(jobID, shardID)
	if err != nil {
		return err
	}
	shard.Status = types.ShardAssigned
	shard.AssignedWorkerID = workerID
	shard.AssignedAt = deadline.UnixMilli()
	if job.Status == types.JobDispatching {
		job.Status = types.JobProcessing
	}
	return nil
}

// MarkShardProcessing records that the worker accepted the shard and has
// started transcoding it.
func (m *Manager) MarkShardProcessing(jobID types.JobID, shardID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	shard, _, err := m.lookupShard(jobID, shardID)
	if err != nil {
		return err
	}
	shard.Status = types.ShardProcessing
	return nil
}

// MarkShardReady records a successful transcode and returns whether every
// shard in the job is now ready, so the caller knows to start concatenation.
func (m *Manager) MarkShardReady(jobID types.JobID, shardID int, processedPathWorker string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shard, job, err := m.lookupShard(jobID, shardID)
	if err != nil {
		return false, err
	}
	shard.Status = types.ShardReady
	shard.ProcessedPathWorker = processedPathWorker
	if job.Status == types.JobProcessing {
		job.Status = types.JobCollecting
	}
	return allShardsReady(job), nil
}

// MarkShardCollected records that the master has pulled a ready shard's
// output back to local storage.
func (m *Manager) MarkShardCollected(jobID types.JobID, shardID int, processedPathMaster string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	shard, _, err := m.lookupShard(jobID, shardID)
	if err != nil {
		return err
	}
	shard.ProcessedPathMaster = processedPathMaster
	return nil
}

// MarkShardFailed records a worker-reported or timed-out failure. If the
// shard has attempts remaining it is requeued; otherwise the whole job
// fails with shard-exhausted and the return value reports that.
func (m *Manager) MarkShardFailed(jobID types.JobID, shardID int) (jobFailed bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shard, job, lookupErr := m.lookupShard(jobID, shardID)
	if lookupErr != nil {
		return false, lookupErr
	}

	shard.Attempt++
	shard.AssignedWorkerID = ""
	shard.ProcessedPathWorker = ""

	if shard.Attempt >= m.maxRetry {
		shard.Status = types.ShardFailed
		job.Status = types.JobFailed
		job.FailReason = types.FailShardExhausted
		job.Message = fmt.Sprintf("shard %d exhausted %d attempts", shardID, m.maxRetry)
		job.CompletedAt = nowMillis()
		return true, nil
	}

	shard.Status = types.ShardPending
	shard.PendingSinceMs = nowMillis()
	m.pending = append(m.pending, shard)
	if job.Status != types.JobDispatching {
		job.Status = types.JobDispatching
		job.PendingSince = nowMillis()
	}
	return false, nil
}

// GetExpiredShards returns every assigned or processing shard whose
// deadline has passed, for the timeout loop to requeue.
func (m *Manager) GetExpiredShards(now time.Time) []*types.Shard {
	m.mu.Lock()
	defer m.mu.Unlock()

	nowMs := now.UnixMilli()
	var expired []*types.Shard
	for _, job := range m.jobs {
		for _, s := range job.Shards {
			if (s.Status == types.ShardAssigned || s.Status == types.ShardProcessing) &&
				s.AssignedAt > 0 && s.AssignedAt < nowMs {
				expired = append(expired, s)
			}
		}
	}
	return expired
}

// MarkJobConcatenating transitions a job whose shards are all collected
// into the concatenation step.
func (m *Manager) MarkJobConcatenating(jobID types.JobID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = types.JobConcatenating
	return nil
}

// MarkJobCompleted records the final artifact path and completion time.
func (m *Manager) MarkJobCompleted(jobID types.JobID, finalPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = types.JobCompleted
	job.FinalPath = finalPath
	job.CompletedAt = nowMillis()
	return nil
}

// MarkJobFailed marks a job terminally failed for a reason other than
// shard exhaustion (media tool error, storage error, master failover).
func (m *Manager) MarkJobFailed(jobID types.JobID, reason types.FailReason, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = types.JobFailed
	job.FailReason = reason
	job.Message = message
	job.CompletedAt = nowMillis()
	return nil
}

// MarkJobDurable records that a completed job's final artifact has been
// replicated to at least one reachable backup (or written to the master's
// own persistent store), satisfying the durability invariant.
func (m *Manager) MarkJobDurable(jobID types.JobID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.Durable = true
	return nil
}

// AdoptRecoveredJob inserts a job reconstructed from a backup artifact
// after failover, when this manager has no prior record of it. Unlike
// EnqueueJob it accepts any status and overwrites an existing entry, since
// the caller has already confirmed no WAL/snapshot record beat it here.
func (m *Manager) AdoptRecoveredJob(job *types.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobs[job.ID] = job
}

// ForgetJob removes a job record entirely. Used to evict a completed job
// on operator request, or to clear a terminal job's slot immediately
// before a new upload reuses its JobID.
func (m *Manager) ForgetJob(jobID types.JobID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, jobID)
}

// GetJob returns a clone of the job so callers cannot mutate manager state
// without going through the methods above.
func (m *Manager) GetJob(jobID types.JobID) (*types.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return nil, false
	}
	return job.Clone(), true
}

// Stats summarizes job and shard counts for status reporting.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s Stats
	for _, job := range m.jobs {
		switch job.Status {
		case types.JobUploading:
			s.Uploading++
		case types.JobSegmenting:
			s.Segmenting++
		case types.JobDispatching:
			s.Dispatching++
		case types.JobProcessing:
			s.Processing++
		case types.JobCollecting:
			s.Collecting++
		case types.JobConcatenating:
			s.Concatenating++
		case types.JobCompleted:
			s.Completed++
		case types.JobFailed:
			s.Failed++
		}
		for _, shard := range job.Shards {
			switch shard.Status {
			case types.ShardPending:
				s.PendingShards++
			case types.ShardAssigned, types.ShardProcessing:
				s.InFlightShards++
			}
		}
	}
	return s
}

// Snapshot returns the data to persist for crash recovery.
func (m *Manager) Snapshot(schemaVer int, lastSeq uint64) *types.SnapshotData {
	m.mu.Lock()
	defer m.mu.Unlock()

	jobs := make(map[types.JobID]*types.Job, len(m.jobs))
	for id, job := range m.jobs {
		jobs[id] = job.Clone()
	}
	return &types.SnapshotData{
		Jobs:      jobs,
		SchemaVer: schemaVer,
		LastSeq:   lastSeq,
	}
}

// Restore replaces manager state with a loaded snapshot, rebuilding the
// pending queue from any shard still in ShardPending.
func (m *Manager) Restore(data *types.SnapshotData) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobs = make(map[types.JobID]*types.Job, len(data.Jobs))
	m.pending = m.pending[:0]
	for id, job := range data.Jobs {
		m.jobs[id] = job
		for _, shard := range job.Shards {
			if shard.Status == types.ShardPending {
				m.pending = append(m.pending, shard)
			}
		}
	}
}

// RequeueInFlight moves every assigned or processing shard back to pending,
// for use right after a crash recovery replay when no worker can be
// trusted to still be holding the shard it was last assigned.
func (m *Manager) RequeueInFlight() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, job := range m.jobs {
		requeuedAny := false
		for _, shard := range job.Shards {
			if shard.Status == types.ShardAssigned || shard.Status == types.ShardProcessing {
				shard.Status = types.ShardPending
				shard.AssignedWorkerID = ""
				shard.AssignedAt = 0
				shard.PendingSinceMs = nowMillis()
				m.pending = append(m.pending, shard)
				requeuedAny = true
			}
		}
		if requeuedAny && job.Status != types.JobFailed && job.Status != types.JobCompleted {
			job.Status = types.JobDispatching
			job.PendingSince = nowMillis()
		}
	}
}

func (m *Manager) lookupShard(jobID types.JobID, shardID int) (*types.Shard, *types.Job, error) {
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, nil, ErrJobNotFound
	}
	for _, s := range job.Shards {
		if s.ShardID == shardID {
			return s, job, nil
		}
	}
	return nil, nil, ErrShardNotFound
}

func allShardsReady(job *types.Job) bool {
	for _, s := range job.Shards {
		if s.Status != types.ShardReady {
			return false
		}
	}
	return len(job.Shards) > 0
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
