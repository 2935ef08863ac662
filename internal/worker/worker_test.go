package worker

import (
	"fmt"
	"testing"
	"time"

	"github.com/vtmesh/transcode/internal/media"
	"github.com/vtmesh/transcode/pkg/types"
)

func newTestPool(t *testing.T, bufferSize int) (*Pool, string) {
	t.Helper()
	dir := t.TempDir()
	// "true" always exits 0 without reading its arguments, so Transcode's
	// ffmpeg-shaped args are accepted without a real media tool on PATH.
	pool := NewPool(bufferSize, media.New("true"), dir)
	return pool, dir
}

func TestNewPool(t *testing.T) {
	pool, _ := newTestPool(t, 10)
	if pool == nil {
		t.Fatal("expected non-nil pool")
	}
	if pool.GetWorkerCount() != 0 {
		t.Fatalf("expected 0 workers before Start, got %d", pool.GetWorkerCount())
	}
	if pool.IsStarted() {
		t.Fatal("expected pool not started")
	}
}

func TestPoolStart(t *testing.T) {
	pool, _ := newTestPool(t, 10)

	if err := pool.Start(8); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if pool.GetWorkerCount() != 8 {
		t.Fatalf("expected 8 workers, got %d", pool.GetWorkerCount())
	}
	if !pool.IsStarted() {
		t.Fatal("expected pool started")
	}

	if err := pool.Start(4); err == nil {
		t.Fatal("expected error starting an already-started pool")
	}

	pool.Stop()
}

func TestWorkerExecutionSucceeds(t *testing.T) {
	pool, _ := newTestPool(t, 10)
	if err := pool.Start(1); err != nil {
		t.Fatalf("Start: %v", err)
	}

	taskCount := 5
	for i := 0; i < taskCount; i++ {
		task := Task{
			JobID:      types.JobID(fmt.Sprintf("job-%d", i)),
			ShardID:    i,
			SourcePath: "/tmp/shard-source",
			Width:      640,
			Height:     360,
			Format:     "mp4",
			Timeout:    time.Second,
		}
		if err := pool.Submit(task); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	seen := make(map[types.JobID]Result)
	for i := 0; i < taskCount; i++ {
		result, err := pool.ReceiveResult()
		if err != nil {
			t.Fatalf("ReceiveResult: %v", err)
		}
		seen[result.JobID] = result
	}

	if len(seen) != taskCount {
		t.Fatalf("expected %d distinct results, got %d", taskCount, len(seen))
	}
	for id, r := range seen {
		if !r.Success {
			t.Fatalf("expected task %s to succeed, got error %v", id, r.Err)
		}
		if r.OutputPath == "" {
			t.Fatalf("expected task %s to have an output path", id)
		}
	}

	pool.Stop()
}

func TestWorkerExecutionFailsOnMediaToolError(t *testing.T) {
	pool := NewPool(10, media.New("false"), t.TempDir())
	if err := pool.Start(1); err != nil {
		t.Fatalf("Start: %v", err)
	}

	task := Task{
		JobID:      "job-fail",
		ShardID:    0,
		SourcePath: "/tmp/shard-source",
		Width:      640,
		Height:     360,
		Format:     "mp4",
		Timeout:    time.Second,
	}
	if err := pool.Submit(task); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	result, err := pool.ReceiveResult()
	if err != nil {
		t.Fatalf("ReceiveResult: %v", err)
	}
	if result.Success {
		t.Fatal("expected task to fail")
	}
	if result.Err == nil {
		t.Fatal("expected a non-nil error")
	}

	pool.Stop()
}

func TestSubmitBeforeStart(t *testing.T) {
	pool, _ := newTestPool(t, 10)

	err := pool.Submit(Task{JobID: "job-before-start"})
	if err != ErrPoolNotStarted {
		t.Fatalf("expected ErrPoolNotStarted, got %v", err)
	}
}

func TestSubmitAfterStop(t *testing.T) {
	pool, _ := newTestPool(t, 10)
	if err := pool.Start(2); err != nil {
		t.Fatalf("Start: %v", err)
	}
	pool.Stop()

	err := pool.Submit(Task{JobID: "job-after-stop"})
	if err != ErrPoolClosed {
		t.Fatalf("expected ErrPoolClosed, got %v", err)
	}
}

func TestReceiveResultAfterStop(t *testing.T) {
	pool, _ := newTestPool(t, 10)
	if err := pool.Start(2); err != nil {
		t.Fatalf("Start: %v", err)
	}
	pool.Stop()

	_, err := pool.ReceiveResult()
	if err != ErrPoolClosed {
		t.Fatalf("expected ErrPoolClosed, got %v", err)
	}
}

func TestStopBeforeStart(t *testing.T) {
	pool, _ := newTestPool(t, 10)

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Stop before Start panicked: %v", r)
		}
	}()
	pool.Stop()
}

func TestShardOutputPathKeepsAttemptsDistinct(t *testing.T) {
	a := shardOutputPath("/scratch", "job-1", 2, 0, "mp4")
	b := shardOutputPath("/scratch", "job-1", 2, 1, "mp4")
	if a == b {
		t.Fatalf("expected different attempts to produce different paths, got %s for both", a)
	}
}
