package worker

import (
	"time"

	"github.com/vtmesh/transcode/pkg/types"
)

// Task is one shard assignment dispatched to this worker's pool.
type Task struct {
	JobID      types.JobID
	ShardID    int
	Attempt    int
	SourcePath string
	Width      int
	Height     int
	Format     string
	Timeout    time.Duration

	// ReplyTo, when set, receives this task's Result directly instead of
	// the pool's shared result channel. The gRPC ProcessShard handler sets
	// this so it can wait for exactly the result that matches the request
	// it is currently serving, even while other ProcessShard calls are
	// running concurrently against the same pool.
	ReplyTo chan Result
}

// Result is the outcome of running one Task through the media executor.
type Result struct {
	JobID      types.JobID
	ShardID    int
	Attempt    int
	Success    bool
	OutputPath string
	Err        error
	Duration   time.Duration
}
