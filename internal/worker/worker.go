// Package worker runs a fixed pool of goroutines that transcode shards
// handed to them by the local gRPC server's ProcessShard handler. Each
// Worker wraps the media executor: the loop shape is the same
// receive-task/run-with-timeout/send-result pattern used throughout this
// repo's ancestor, but the task body now shells out to a real media tool
// instead of simulating work.
package worker

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vtmesh/transcode/internal/media"
	"github.com/vtmesh/transcode/pkg/types"
)

// Worker is one task execution unit. Each Worker runs in its own goroutine,
// pulling Tasks from a shared channel and pushing Results to another.
type Worker struct {
	id         int
	taskCh     <-chan Task
	resultCh   chan<- Result
	executor   *media.Executor
	scratchDir string
}

func newWorker(id int, taskCh <-chan Task, resultCh chan<- Result, executor *media.Executor, scratchDir string) *Worker {
	return &Worker{
		id:         id,
		taskCh:     taskCh,
		resultCh:   resultCh,
		executor:   executor,
		scratchDir: scratchDir,
	}
}

// Run is the Worker's main loop: receive a Task, transcode it, report the
// Result, repeat until taskCh is closed.
func (w *Worker) Run() {
	for task := range w.taskCh {
		start := time.Now()

		timeout := task.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Minute
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		outputPath, err := w.execute(ctx, task)
		cancel()

		result := Result{
			JobID:      task.JobID,
			ShardID:    task.ShardID,
			Attempt:    task.Attempt,
			Success:    err == nil,
			OutputPath: outputPath,
			Err:        err,
			Duration:   time.Since(start),
		}

		if task.ReplyTo != nil {
			task.ReplyTo <- result
			continue
		}

		select {
		case w.resultCh <- result:
		default:
			// resultCh full or closed: the pool is shutting down, drop the
			// result rather than block a worker that range-loops on taskCh.
		}
	}
}

func (w *Worker) execute(ctx context.Context, task Task) (string, error) {
	outputPath := shardOutputPath(w.scratchDir, task.JobID, task.ShardID, task.Attempt, task.Format)
	if err := w.executor.Transcode(ctx, task.SourcePath, outputPath, task.Width, task.Height, task.Format); err != nil {
		return "", err
	}
	return outputPath, nil
}

// shardOutputPath places a processed shard under scratchDir keyed by job,
// shard, and attempt, so retried attempts never collide with a stale file
// from an earlier attempt.
func shardOutputPath(scratchDir string, jobID types.JobID, shardID, attempt int, format string) string {
	name := fmt.Sprintf("%s-shard%d-attempt%d.%s", jobID, shardID, attempt, format)
	return filepath.Join(scratchDir, name)
}
