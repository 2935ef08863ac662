package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	pb "github.com/vtmesh/transcode/api/proto/v1"
	"github.com/vtmesh/transcode/internal/xerrors"
	"github.com/vtmesh/transcode/pkg/types"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const dispatchChunkSize = 64 * 1024

// WorkerClient is how the controller reaches a remote worker to push a
// shard for transcoding and pull its processed output back. The dispatch
// loop depends on this interface rather than GrpcWorkerClient directly so
// tests can substitute a fake worker.
type WorkerClient interface {
	// ProcessShard streams shard's source bytes to address and blocks for
	// the worker's transcode result.
	ProcessShard(ctx context.Context, address string, job *types.Job, shard *types.Shard) (outputPath, stderrTail string, err error)

	// CollectShard pulls a ready shard's processed bytes from address into
	// destPath on local disk.
	CollectShard(ctx context.Context, address string, jobID types.JobID, shardID int, destPath string) error

	// ReplicateBackup streams srcPath to address's ReceiveBackup handler,
	// fire-and-forget durability for a job's completed artifact.
	ReplicateBackup(ctx context.Context, address string, jobID types.JobID, srcPath string) error

	// FetchBackup pulls a previously replicated artifact from address into
	// destPath, used by a newly elected master to recover a job it has no
	// local record of.
	FetchBackup(ctx context.Context, address string, jobID types.JobID, destPath string) error
}

// GrpcWorkerClient implements WorkerClient over the generated WorkerService
// client, caching one connection per worker address for the life of the
// process, the same pattern internal/election's GrpcTransport uses for
// peer connections.
type GrpcWorkerClient struct {
	mu    sync.Mutex
	conns map[string]*grpc.ClientConn
}

// NewGrpcWorkerClient creates an empty client; connections are dialed
// lazily on first use.
func NewGrpcWorkerClient() *GrpcWorkerClient {
	return &GrpcWorkerClient{conns: make(map[string]*grpc.ClientConn)}
}

func (c *GrpcWorkerClient) client(address string) (pb.WorkerServiceClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if conn, ok := c.conns[address]; ok {
		return pb.NewWorkerServiceClient(conn), nil
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial worker %s: %w", address, err)
	}
	c.conns[address] = conn
	return pb.NewWorkerServiceClient(conn), nil
}

// ProcessShard implements WorkerClient.ProcessShard.
func (c *GrpcWorkerClient) ProcessShard(ctx context.Context, address string, job *types.Job, shard *types.Shard) (string, string, error) {
	client, err := c.client(address)
	if err != nil {
		return "", "", err
	}

	stream, err := client.ProcessShard(ctx)
	if err != nil {
		return "", "", err
	}

	params := &pb.ProcessShardParams{
		JobId:   string(shard.JobID),
		ShardId: int32(shard.ShardID),
		Attempt: int32(shard.Attempt),
		Width:   int32(job.Width),
		Height:  int32(job.Height),
		Format:  job.Format,
	}
	if err := stream.Send(&pb.ProcessShardChunk{Params: params}); err != nil {
		return "", "", err
	}

	f, err := os.Open(shard.SourcePath)
	if err != nil {
		return "", "", &xerrors.StorageError{Op: "dispatch.open", Path: shard.SourcePath, Err: err}
	}
	defer f.Close()

	buf := make([]byte, dispatchChunkSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if serr := stream.Send(&pb.ProcessShardChunk{Chunk: chunk}); serr != nil {
				return "", "", serr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", "", &xerrors.StorageError{Op: "dispatch.read", Path: shard.SourcePath, Err: rerr}
		}
	}

	resp, err := stream.CloseAndRecv()
	if err != nil {
		return "", "", err
	}
	if !resp.Success {
		return "", resp.StderrTail, &xerrors.MediaToolError{Op: "transcode", StderrTail: resp.StderrTail, Err: fmt.Errorf(resp.Message)}
	}
	return resp.OutputPath, resp.StderrTail, nil
}

// CollectShard implements WorkerClient.CollectShard.
func (c *GrpcWorkerClient) CollectShard(ctx context.Context, address string, jobID types.JobID, shardID int, destPath string) error {
	client, err := c.client(address)
	if err != nil {
		return err
	}

	stream, err := client.RequestShard(ctx, &pb.RequestShardRequest{JobId: string(jobID), ShardId: int32(shardID)})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return &xerrors.StorageError{Op: "collect.mkdir", Path: destPath, Err: err}
	}
	out, err := os.Create(destPath)
	if err != nil {
		return &xerrors.StorageError{Op: "collect.create", Path: destPath, Err: err}
	}
	defer out.Close()

	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if _, werr := out.Write(chunk.Chunk); werr != nil {
			return &xerrors.StorageError{Op: "collect.write", Path: destPath, Err: werr}
		}
	}
}

// ReplicateBackup implements WorkerClient.ReplicateBackup.
func (c *GrpcWorkerClient) ReplicateBackup(ctx context.Context, address string, jobID types.JobID, srcPath string) error {
	client, err := c.client(address)
	if err != nil {
		return err
	}

	stream, err := client.ReceiveBackup(ctx)
	if err != nil {
		return err
	}

	if err := stream.Send(&pb.ReceiveBackupChunk{JobId: string(jobID)}); err != nil {
		return err
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return &xerrors.StorageError{Op: "replicate.open", Path: srcPath, Err: err}
	}
	defer f.Close()

	buf := make([]byte, dispatchChunkSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if serr := stream.Send(&pb.ReceiveBackupChunk{Chunk: chunk}); serr != nil {
				return serr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return &xerrors.StorageError{Op: "replicate.read", Path: srcPath, Err: rerr}
		}
	}

	resp, err := stream.CloseAndRecv()
	if err != nil {
		return err
	}
	if !resp.Ok {
		return fmt.Errorf("replicate backup: worker %s declined job %s", address, jobID)
	}
	return nil
}

// FetchBackup implements WorkerClient.FetchBackup.
func (c *GrpcWorkerClient) FetchBackup(ctx context.Context, address string, jobID types.JobID, destPath string) error {
	client, err := c.client(address)
	if err != nil {
		return err
	}

	stream, err := client.SendBackup(ctx, &pb.SendBackupRequest{JobId: string(jobID)})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return &xerrors.StorageError{Op: "fetchbackup.mkdir", Path: destPath, Err: err}
	}
	out, err := os.Create(destPath)
	if err != nil {
		return &xerrors.StorageError{Op: "fetchbackup.create", Path: destPath, Err: err}
	}
	defer out.Close()

	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if _, werr := out.Write(chunk.Chunk); werr != nil {
			return &xerrors.StorageError{Op: "fetchbackup.write", Path: destPath, Err: werr}
		}
	}
}
