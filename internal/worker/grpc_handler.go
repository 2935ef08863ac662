package worker

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	pb "github.com/vtmesh/transcode/api/proto/v1"
	"github.com/vtmesh/transcode/internal/xerrors"
	"github.com/vtmesh/transcode/pkg/types"
)

// GrpcHandler implements pb.WorkerServiceServer by feeding received shards
// into the local Pool and reading processed output back off disk. It is
// the push-model counterpart to the pull-based JobSource this package used
// to wrap: the master initiates every call here, so there is no polling.
type GrpcHandler struct {
	pb.UnimplementedWorkerServiceServer

	pool       *Pool
	scratchDir string
	backupDir  string
}

// NewGrpcHandler wires a Pool to the WorkerService surface. backupDir holds
// artifacts this node stores on behalf of the master when acting as a
// backup replica.
func NewGrpcHandler(pool *Pool, scratchDir, backupDir string) *GrpcHandler {
	return &GrpcHandler{pool: pool, scratchDir: scratchDir, backupDir: backupDir}
}

// ProcessShard receives a shard's parameters followed by its bytes, submits
// a Task to the local pool, and blocks until that specific task's result
// comes back.
func (h *GrpcHandler) ProcessShard(stream pb.WorkerService_ProcessShardServer) error {
	first, err := stream.Recv()
	if err != nil {
		return err
	}
	params := first.GetParams()
	if params == nil {
		return fmt.Errorf("process shard: first message must carry params")
	}

	sourcePath := filepath.Join(h.scratchDir, fmt.Sprintf("%s-shard%d-attempt%d-src", params.JobId, params.ShardId, params.Attempt))
	if err := os.MkdirAll(h.scratchDir, 0o755); err != nil {
		return &xerrors.StorageError{Op: "processshard.mkdir", Path: h.scratchDir, Err: err}
	}
	out, err := os.Create(sourcePath)
	if err != nil {
		return &xerrors.StorageError{Op: "processshard.create", Path: sourcePath, Err: err}
	}
	defer out.Close()

	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if _, werr := out.Write(chunk.GetChunk()); werr != nil {
			return &xerrors.StorageError{Op: "processshard.write", Path: sourcePath, Err: werr}
		}
	}

	replyTo := make(chan Result, 1)
	task := Task{
		JobID:      types.JobID(params.JobId),
		ShardID:    int(params.ShardId),
		Attempt:    int(params.Attempt),
		SourcePath: sourcePath,
		Width:      int(params.Width),
		Height:     int(params.Height),
		Format:     params.Format,
		ReplyTo:    replyTo,
	}
	if err := h.pool.Submit(task); err != nil {
		return err
	}

	result := <-replyTo
	resp := &pb.ProcessShardResponse{
		Success:    result.Success,
		OutputPath: result.OutputPath,
	}
	if result.Err != nil {
		if mediaErr, ok := result.Err.(*xerrors.MediaToolError); ok {
			resp.StderrTail = mediaErr.StderrTail
		}
		resp.Message = result.Err.Error()
	}
	return stream.SendAndClose(resp)
}

// RequestShard streams a previously processed shard's bytes back to the
// master. The master calls this only after a successful ProcessShard reply
// named the output path it should collect.
func (h *GrpcHandler) RequestShard(req *pb.RequestShardRequest, stream pb.WorkerService_RequestShardServer) error {
	pattern := filepath.Join(h.scratchDir, fmt.Sprintf("%s-shard%d-attempt*", req.JobId, req.ShardId))
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return fmt.Errorf("request shard: no processed output found for job %s shard %d", req.JobId, req.ShardId)
	}
	return streamFileInChunks(matches[len(matches)-1], func(chunk []byte) error {
		return stream.Send(&pb.ShardChunk{Chunk: chunk})
	})
}

// ReceiveBackup durably stores a replicated final artifact sent by the
// master so this node can serve it if it is promoted after a failover.
func (h *GrpcHandler) ReceiveBackup(stream pb.WorkerService_ReceiveBackupServer) error {
	first, err := stream.Recv()
	if err != nil {
		return err
	}
	jobID := first.JobId
	if jobID == "" {
		return fmt.Errorf("receive backup: first message must carry a job id")
	}

	if err := os.MkdirAll(h.backupDir, 0o755); err != nil {
		return &xerrors.StorageError{Op: "receivebackup.mkdir", Path: h.backupDir, Err: err}
	}
	backupPath := filepath.Join(h.backupDir, jobID)
	out, err := os.Create(backupPath)
	if err != nil {
		return &xerrors.StorageError{Op: "receivebackup.create", Path: backupPath, Err: err}
	}
	defer out.Close()

	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if _, werr := out.Write(chunk.Chunk); werr != nil {
			return &xerrors.StorageError{Op: "receivebackup.write", Path: backupPath, Err: werr}
		}
	}

	return stream.SendAndClose(&pb.ReceiveBackupResponse{Ok: true})
}

// SendBackup streams a stored backup artifact back to a requesting master
// (typically a newly elected one rebuilding its view of completed jobs).
func (h *GrpcHandler) SendBackup(req *pb.SendBackupRequest, stream pb.WorkerService_SendBackupServer) error {
	backupPath := filepath.Join(h.backupDir, req.JobId)
	return streamFileInChunks(backupPath, func(chunk []byte) error {
		return stream.Send(&pb.BackupChunk{Chunk: chunk})
	})
}

const streamChunkSize = 64 * 1024

func streamFileInChunks(path string, send func([]byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return &xerrors.StorageError{Op: "streamfile.open", Path: path, Err: err}
	}
	defer f.Close()

	buf := make([]byte, streamChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			if sendErr := send(buf[:n]); sendErr != nil {
				return sendErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &xerrors.StorageError{Op: "streamfile.read", Path: path, Err: err}
		}
	}
}
