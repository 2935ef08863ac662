package worker

import (
	"context"
	"fmt"
	"time"

	pb "github.com/vtmesh/transcode/api/proto/v1"
	"github.com/vtmesh/transcode/pkg/types"
	"google.golang.org/grpc"
)

// GrpcReporter implements Reporter against the master's MasterService over
// a gRPC connection.
type GrpcReporter struct {
	client pb.MasterServiceClient
}

// NewGrpcReporter wraps an established connection to the current master.
func NewGrpcReporter(conn grpc.ClientConnInterface) *GrpcReporter {
	return &GrpcReporter{client: pb.NewMasterServiceClient(conn)}
}

// Register admits this worker into the master's node registry.
func (r *GrpcReporter) Register(ctx context.Context, address string) error {
	resp, err := r.client.RegisterWorker(ctx, &pb.RegisterWorkerRequest{
		Address: address,
	})
	if err != nil {
		return fmt.Errorf("rpc register worker: %w", err)
	}
	if !resp.Accepted {
		return fmt.Errorf("master rejected registration: %s", resp.Message)
	}
	return nil
}

// ReportScore sends this worker's latest resource score.
func (r *GrpcReporter) ReportScore(ctx context.Context, nodeID string, score float64) error {
	resp, err := r.client.ReportScore(ctx, &pb.ReportScoreRequest{
		NodeId:      nodeID,
		Score:       score,
		TimestampMs: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("rpc report score: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("master rejected score report")
	}
	return nil
}

// ReportShardStatus reports the outcome of one shard attempt.
func (r *GrpcReporter) ReportShardStatus(ctx context.Context, workerID string, jobID types.JobID, shardID, attempt int, status types.ShardStatus, message string) error {
	resp, err := r.client.ReportShardStatus(ctx, &pb.ReportShardStatusRequest{
		WorkerId: workerID,
		JobId:    string(jobID),
		ShardId:  int32(shardID),
		Attempt:  int32(attempt),
		Status:   string(status),
		Message:  message,
	})
	if err != nil {
		return fmt.Errorf("rpc report shard status: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("master rejected shard status report")
	}
	return nil
}
