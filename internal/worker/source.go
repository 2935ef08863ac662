// Package worker (source.go): the worker's upward-reporting abstraction.
//
// The ancestor this repo started from pulled work through this interface
// (Poll/Acknowledge/Heartbeat against a local or remote job source). This
// repo's dispatch is push-based instead — the master calls the worker's
// WorkerService.ProcessShard RPC directly — so there is nothing left to
// poll. What remains is the worker's half of the relationship: announcing
// itself, reporting its resource score, and reporting shard outcomes, all
// of which are calls the worker initiates against the master.
package worker

import (
	"context"

	"github.com/vtmesh/transcode/pkg/types"
)

// Reporter is how a worker makes itself known to, and keeps itself current
// with, whichever node currently holds the master role.
type Reporter interface {
	// Register admits this worker into the master's node registry.
	Register(ctx context.Context, address string) error

	// ReportScore sends this worker's latest resource score.
	ReportScore(ctx context.Context, nodeID string, score float64) error

	// ReportShardStatus reports the outcome of one shard attempt.
	ReportShardStatus(ctx context.Context, workerID string, jobID types.JobID, shardID, attempt int, status types.ShardStatus, message string) error
}
