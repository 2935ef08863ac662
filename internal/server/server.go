// Package server implements the gRPC surface a node exposes: MasterService
// when it holds the master role, and ElectionService regardless of role.
// Both handlers are thin: they decode the wire request, call into
// controller.Controller or election.Election, and re-encode the reply.
package server

import (
	"fmt"
	"io"
	"os"

	"context"

	pb "github.com/vtmesh/transcode/api/proto/v1"
	"github.com/vtmesh/transcode/internal/controller"
	"github.com/vtmesh/transcode/internal/election"
	"github.com/vtmesh/transcode/internal/registry"
	"github.com/vtmesh/transcode/pkg/types"
)

const retrieveChunkSize = 64 * 1024

// MasterServer implements pb.MasterServiceServer, delegating every RPC to
// the Controller that owns the job state machine.
type MasterServer struct {
	pb.UnimplementedMasterServiceServer

	ctrl *controller.Controller
}

// NewMasterServer wires a MasterServer to its Controller.
func NewMasterServer(ctrl *controller.Controller) *MasterServer {
	return &MasterServer{ctrl: ctrl}
}

// Upload receives UploadParams as the first stream message, then chunks of
// the source file, and hands the assembled file to the Controller once the
// client closes its send side.
func (s *MasterServer) Upload(stream pb.MasterService_UploadServer) error {
	first, err := stream.Recv()
	if err != nil {
		return err
	}
	params := first.GetParams()
	if params == nil {
		return fmt.Errorf("upload: first message must carry UploadParams")
	}

	uploadParams := controller.UploadParams{
		Width:    int(params.Width),
		Height:   int(params.Height),
		Format:   params.Format,
		Filename: params.Filename,
	}

	jobID, tmpPath, err := s.ctrl.BeginUpload(uploadParams)
	if err != nil {
		return stream.SendAndClose(&pb.UploadResponse{Accepted: false, Message: err.Error()})
	}

	f, err := os.Create(tmpPath)
	if err != nil {
		s.ctrl.AbortUpload(tmpPath)
		return fmt.Errorf("upload: create temp file: %w", err)
	}

	for {
		req, rerr := stream.Recv()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			f.Close()
			s.ctrl.AbortUpload(tmpPath)
			return rerr
		}
		if chunk := req.GetChunk(); len(chunk) > 0 {
			if _, werr := f.Write(chunk); werr != nil {
				f.Close()
				s.ctrl.AbortUpload(tmpPath)
				return werr
			}
		}
	}
	if err := f.Close(); err != nil {
		s.ctrl.AbortUpload(tmpPath)
		return err
	}

	if err := s.ctrl.CompleteUpload(jobID, tmpPath, uploadParams); err != nil {
		return stream.SendAndClose(&pb.UploadResponse{JobId: string(jobID), Accepted: false, Message: err.Error()})
	}

	return stream.SendAndClose(&pb.UploadResponse{JobId: string(jobID), Accepted: true})
}

// Retrieve streams the completed artifact back to the caller in fixed-size
// chunks, failing if the job has no final path yet (not completed, or
// failed).
func (s *MasterServer) Retrieve(req *pb.RetrieveRequest, stream pb.MasterService_RetrieveServer) error {
	job, ok := s.ctrl.GetJob(types.JobID(req.JobId))
	if !ok {
		return fmt.Errorf("retrieve: job %s not found", req.JobId)
	}
	if job.Status != types.JobCompleted || job.FinalPath == "" {
		return fmt.Errorf("retrieve: job %s is not completed (status %s)", req.JobId, job.WireStatus())
	}

	f, err := os.Open(job.FinalPath)
	if err != nil {
		return fmt.Errorf("retrieve: open final artifact: %w", err)
	}
	defer f.Close()

	buf := make([]byte, retrieveChunkSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if serr := stream.Send(&pb.RetrieveChunk{Chunk: chunk}); serr != nil {
				return serr
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return fmt.Errorf("retrieve: read final artifact: %w", rerr)
		}
	}
}

// GetStatus returns a non-blocking snapshot of one job's status.
func (s *MasterServer) GetStatus(ctx context.Context, req *pb.GetStatusRequest) (*pb.GetStatusResponse, error) {
	statusStr, message := s.ctrl.GetStatus(types.JobID(req.JobId))
	return &pb.GetStatusResponse{Status: statusStr, Message: message}, nil
}

// RegisterWorker admits a worker into the node registry.
func (s *MasterServer) RegisterWorker(ctx context.Context, req *pb.RegisterWorkerRequest) (*pb.RegisterWorkerResponse, error) {
	s.ctrl.RegisterWorker(req.Address)
	return &pb.RegisterWorkerResponse{Accepted: true}, nil
}

// ReportScore updates a worker's last reported resource score.
func (s *MasterServer) ReportScore(ctx context.Context, req *pb.ReportScoreRequest) (*pb.ReportScoreResponse, error) {
	ok := s.ctrl.ReportScore(req.NodeId, req.Score)
	return &pb.ReportScoreResponse{Ok: ok}, nil
}

// ReportShardStatus is the worker-initiated shard progress side channel.
func (s *MasterServer) ReportShardStatus(ctx context.Context, req *pb.ReportShardStatusRequest) (*pb.ReportShardStatusResponse, error) {
	s.ctrl.ReportShardStatus(types.JobID(req.JobId), int(req.ShardId), int(req.Attempt), types.ShardStatus(req.Status))
	return &pb.ReportShardStatusResponse{Ok: true}, nil
}

// ElectionServer implements pb.ElectionServiceServer on top of an
// election.Election and the shared node registry, which carries the score
// and liveness GetNodeStats reports since Election itself has no view of
// resource scores.
type ElectionServer struct {
	pb.UnimplementedElectionServiceServer

	election *election.Election
	registry *registry.Registry
	selfAddr string
}

// NewElectionServer wires an ElectionServer to this node's Election and the
// shared Registry. selfAddr is this node's own address, used to answer
// GetNodeStats about itself.
func NewElectionServer(e *election.Election, reg *registry.Registry, selfAddr string) *ElectionServer {
	return &ElectionServer{election: e, registry: reg, selfAddr: selfAddr}
}

// AnnounceMaster handles an incoming leadership announcement.
func (s *ElectionServer) AnnounceMaster(ctx context.Context, req *pb.AnnounceMasterRequest) (*pb.AnnounceMasterResponse, error) {
	reply := s.election.AnnounceMaster(&election.AnnounceMasterArgs{Term: req.Term, Candidate: req.Candidate})
	s.registry.SetKnownMaster(s.selfAddr, req.Candidate)
	return &pb.AnnounceMasterResponse{Acknowledged: reply.Acknowledged, Term: reply.Term}, nil
}

// RequestVote handles an incoming vote request.
func (s *ElectionServer) RequestVote(ctx context.Context, req *pb.RequestVoteRequest) (*pb.RequestVoteResponse, error) {
	reply := s.election.RequestVote(&election.RequestVoteArgs{Term: req.Term, Candidate: req.Candidate})
	return &pb.RequestVoteResponse{Term: reply.Term, VoteGranted: reply.VoteGranted}, nil
}

// GetCurrentMaster reports this node's view of the current leader.
func (s *ElectionServer) GetCurrentMaster(ctx context.Context, req *pb.GetCurrentMasterRequest) (*pb.GetCurrentMasterResponse, error) {
	return &pb.GetCurrentMasterResponse{MasterAddress: s.election.KnownLeader(), Term: s.election.Term()}, nil
}

// GetNodeStats reports this node's own role, score, and liveness as seen by
// the shared registry.
func (s *ElectionServer) GetNodeStats(ctx context.Context, req *pb.GetNodeStatsRequest) (*pb.GetNodeStatsResponse, error) {
	rec, ok := s.registry.Get(s.selfAddr)
	if !ok {
		return &pb.GetNodeStatsResponse{
			Address:  s.selfAddr,
			Role:     string(s.election.Role()),
			Liveness: string(types.Alive),
		}, nil
	}
	return &pb.GetNodeStatsResponse{
		Address:  rec.Address,
		Role:     string(rec.Role),
		Score:    rec.LastScore,
		Liveness: string(rec.Liveness),
	}, nil
}
