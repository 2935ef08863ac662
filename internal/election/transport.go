package election

import (
	"context"
	"fmt"
	"sync"
	"time"

	pb "github.com/vtmesh/transcode/api/proto/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// rpcTimeout bounds how long a single RequestVote or AnnounceMaster call
// waits for a peer; it must stay well under ElectionTimeoutMin so a slow
// peer cannot itself trigger a spurious election.
const rpcTimeout = 200 * time.Millisecond

// GrpcTransport implements Transport over the generated ElectionService
// client, caching one connection per peer address for the life of the
// process.
type GrpcTransport struct {
	mu    sync.Mutex
	conns map[string]*grpc.ClientConn
}

// NewGrpcTransport creates an empty transport; connections are dialed
// lazily on first use.
func NewGrpcTransport() *GrpcTransport {
	return &GrpcTransport{conns: make(map[string]*grpc.ClientConn)}
}

func (t *GrpcTransport) client(peer string) (pb.ElectionServiceClient, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if conn, ok := t.conns[peer]; ok {
		return pb.NewElectionServiceClient(conn), nil
	}

	conn, err := grpc.NewClient(peer, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial peer %s: %w", peer, err)
	}
	t.conns[peer] = conn
	return pb.NewElectionServiceClient(conn), nil
}

// SendRequestVote asks a peer for its vote.
func (t *GrpcTransport) SendRequestVote(peer string, args *RequestVoteArgs) (*RequestVoteReply, error) {
	client, err := t.client(peer)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()

	resp, err := client.RequestVote(ctx, &pb.RequestVoteRequest{
		Term:      args.Term,
		Candidate: args.Candidate,
	})
	if err != nil {
		return nil, err
	}
	return &RequestVoteReply{Term: resp.Term, VoteGranted: resp.VoteGranted}, nil
}

// SendAnnounceMaster broadcasts a leadership announcement to a peer.
func (t *GrpcTransport) SendAnnounceMaster(peer string, args *AnnounceMasterArgs) (*AnnounceMasterReply, error) {
	client, err := t.client(peer)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()

	resp, err := client.AnnounceMaster(ctx, &pb.AnnounceMasterRequest{
		Term:      args.Term,
		Candidate: args.Candidate,
	})
	if err != nil {
		return nil, err
	}
	return &AnnounceMasterReply{Term: resp.Term, Acknowledged: resp.Acknowledged}, nil
}
