// Package integration exercises the Master Engine end to end, through its
// public API only: upload a job, let the dispatch loop push shards to a
// fake worker, and observe it reach a terminal status.
package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vtmesh/transcode/internal/controller"
	"github.com/vtmesh/transcode/internal/metrics"
	"github.com/vtmesh/transcode/internal/registry"
	"github.com/vtmesh/transcode/pkg/types"
)

// fakeWorker implements controller.WorkerClient entirely in memory:
// ProcessShard "transcodes" by writing a small placeholder file, CollectShard
// copies that file to the destination the controller asked for, and
// ReplicateBackup/FetchBackup just record that they were called. No gRPC
// dial, no real worker process.
type fakeWorker struct {
	mu        sync.Mutex
	processed int
	collected int
}

func (f *fakeWorker) ProcessShard(ctx context.Context, address string, job *types.Job, shard *types.Shard) (string, string, error) {
	f.mu.Lock()
	f.processed++
	f.mu.Unlock()

	out := filepath.Join(os.TempDir(), fmt.Sprintf("fakeworker-out-%s-%d", job.ID, shard.ShardID))
	if err := os.WriteFile(out, []byte("transcoded"), 0o644); err != nil {
		return "", "", err
	}
	return out, "", nil
}

func (f *fakeWorker) CollectShard(ctx context.Context, address string, jobID types.JobID, shardID int, destPath string) error {
	f.mu.Lock()
	f.collected++
	f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, []byte("collected"), 0o644)
}

func (f *fakeWorker) ReplicateBackup(ctx context.Context, address string, jobID types.JobID, srcPath string) error {
	return nil
}

func (f *fakeWorker) FetchBackup(ctx context.Context, address string, jobID types.JobID, destPath string) error {
	return os.WriteFile(destPath, []byte("restored"), 0o644)
}

// writeFakeMediaTool drops a shell script named "ffmpeg" that stands in for
// the real transcoder: it writes a placeholder file at whatever path its
// last argument names, substituting "%d" with "0" so Segment's shard-%d.ts
// pattern resolves to a single shard-0.ts, the one file Segment's glob-based
// discovery then picks up.
func writeFakeMediaTool(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\nout=\"\"\nfor arg in \"$@\"; do out=\"$arg\"; done\nout=$(printf '%s' \"$out\" | sed 's/%d/0/')\nprintf fake > \"$out\"\nexit 0\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake media tool: %v", err)
	}
	return path
}

// newTestController builds a Controller against temp-dir storage, a fresh
// Prometheus registry (NewCollector panics on double-registration, so every
// test gets its own), and one alive fake worker so the scheduler always has
// somewhere to dispatch a shard.
func newTestController(t testing.TB, worker *fakeWorker) *controller.Controller {
	t.Helper()
	return newTestControllerAt(t, t.TempDir(), worker)
}

// newTestControllerAt is newTestController with the storage directory
// supplied by the caller, so a test can build a second Controller against
// the same on-disk WAL/snapshot to simulate a restart.
func newTestControllerAt(t testing.TB, dir string, worker *fakeWorker) *controller.Controller {
	t.Helper()

	cfg := controller.Config{
		ScratchDir:          filepath.Join(dir, "shards"),
		DataDir:             filepath.Join(dir, "data"),
		WALPath:             filepath.Join(dir, "wal.log"),
		SnapshotPath:        filepath.Join(dir, "snapshot.json"),
		SnapshotInterval:    time.Hour,
		JobConcurrency:      8,
		MaxRetry:            3,
		ShardTimeout:        10 * time.Second,
		StarvationThreshold: time.Minute,
		SegmentSeconds:      10,
		MediaBinary:         writeFakeMediaTool(t),
	}

	prometheus.DefaultRegisterer = prometheus.NewRegistry()
	reg := registry.New(registry.Config{SuspectAfter: time.Minute, DeadAfter: time.Hour})
	reg.Register("fake-worker:1", types.RoleWorker)
	reg.ReportScore("fake-worker:1", 0.1)

	c, err := controller.NewController(cfg, reg, worker, metrics.NewCollector())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c
}

// submitJob drives BeginUpload/CompleteUpload the way the Upload RPC
// handler does: write the source bytes to the staged temp path, then
// complete the transaction.
func submitJob(t testing.TB, c *controller.Controller, filename string) types.JobID {
	t.Helper()
	params := controller.UploadParams{Width: 640, Height: 360, Format: "mp4", Filename: filename}

	jobID, tmpPath, err := c.BeginUpload(params)
	if err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}
	if err := os.WriteFile(tmpPath, []byte("source video bytes"), 0o644); err != nil {
		t.Fatalf("write source bytes: %v", err)
	}
	if err := c.CompleteUpload(jobID, tmpPath, params); err != nil {
		t.Fatalf("CompleteUpload: %v", err)
	}
	return jobID
}

// waitForTerminal polls GetStatus until the job reaches completed or any
// failed:<reason> status, or the deadline passes.
func waitForTerminal(c *controller.Controller, jobID types.JobID, timeout time.Duration) (string, bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		status, _ := c.GetStatus(jobID)
		if status == string(types.JobCompleted) || isFailedStatus(status) {
			return status, true
		}
		time.Sleep(25 * time.Millisecond)
	}
	status, _ := c.GetStatus(jobID)
	return status, false
}

func isFailedStatus(status string) bool {
	return len(status) >= len(string(types.JobFailed)) && status[:len(string(types.JobFailed))] == string(types.JobFailed)
}
