// Package election runs leader election among the master candidates.
// Unlike a full Raft implementation, there is no replicated log here:
// committed state lives in the job manager plus the WAL and snapshot
// files, not in election log entries. A node becomes master by winning a
// term vote and then holds the role by broadcasting AnnounceMaster until
// a higher term appears.
package election

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/vtmesh/transcode/pkg/types"
)

// RequestVoteArgs is what a candidate sends to ask for a peer's vote.
type RequestVoteArgs struct {
	Term      int64
	Candidate string
}

// RequestVoteReply is a peer's answer to a vote request.
type RequestVoteReply struct {
	Term        int64
	VoteGranted bool
}

// AnnounceMasterArgs is the master's periodic broadcast that it still
// holds the role for the given term. It replaces AppendEntries: there is
// no log to replicate, only a leadership claim to keep renewing.
type AnnounceMasterArgs struct {
	Term      int64
	Candidate string
}

// AnnounceMasterReply is a peer's acknowledgment of an announcement.
type AnnounceMasterReply struct {
	Term         int64
	Acknowledged bool
}

// Transport is how an Election reaches its peers. Production code talks
// gRPC (see transport.go); tests can substitute an in-memory fake.
type Transport interface {
	SendRequestVote(peer string, args *RequestVoteArgs) (*RequestVoteReply, error)
	SendAnnounceMaster(peer string, args *AnnounceMasterArgs) (*AnnounceMasterReply, error)
}

// Config describes one node's identity and timing within the cluster.
type Config struct {
	ID                 string
	Peers              []string
	ElectionTimeoutMin time.Duration
	ElectionTimeoutMax time.Duration
	AnnounceInterval   time.Duration
}

// DefaultConfig applies the floor from the scoring design: even a
// fast-converging cluster keeps election timeouts at or above one second,
// since shard dispatch latency tolerates slower failover far better than
// it tolerates false-positive master churn.
func DefaultConfig(id string, peers []string) Config {
	return Config{
		ID:                 id,
		Peers:              peers,
		ElectionTimeoutMin: time.Second,
		ElectionTimeoutMax: 2 * time.Second,
		AnnounceInterval:   300 * time.Millisecond,
	}
}

// Election is one node's participation in leader election.
type Election struct {
	mu sync.Mutex

	currentTerm int64
	votedFor    string
	role        types.Role
	leaderID    string

	config    Config
	transport Transport
	logger    *slog.Logger

	electionTimer  *time.Timer
	announceTicker *time.Ticker
	stopCh         chan struct{}
	wg             sync.WaitGroup

	// onBecomeMaster and onBecomeFollower let the controller react to role
	// changes (start or stop the dispatch loop) without this package
	// knowing anything about jobs or shards.
	onBecomeMaster   func(term int64)
	onBecomeFollower func(leaderID string)
}

// New creates an Election in the Follower role.
func New(config Config, transport Transport, onBecomeMaster func(int64), onBecomeFollower func(string)) *Election {
	return &Election{
		role:             types.RoleFollower,
		config:           config,
		transport:        transport,
		logger:           slog.With("component", "election", "id", config.ID),
		stopCh:           make(chan struct{}),
		onBecomeMaster:   onBecomeMaster,
		onBecomeFollower: onBecomeFollower,
	}
}

// Start begins the election timer and, once this node becomes master, the
// announce broadcast.
func (e *Election) Start() {
	e.mu.Lock()
	e.resetElectionTimerLocked()
	e.mu.Unlock()

	e.wg.Add(1)
	go e.runElectionLoop()
}

// Stop halts all timers and background goroutines.
func (e *Election) Stop() {
	close(e.stopCh)
	e.mu.Lock()
	if e.electionTimer != nil {
		e.electionTimer.Stop()
	}
	if e.announceTicker != nil {
		e.announceTicker.Stop()
	}
	e.mu.Unlock()
	e.wg.Wait()
}

// Role returns this node's current role.
func (e *Election) Role() types.Role {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.role
}

// Term returns the current election term.
func (e *Election) Term() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentTerm
}

// KnownLeader returns the address of the last node this node saw acting
// as master, which may be stale if that node has since failed.
func (e *Election) KnownLeader() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.leaderID
}

// RequestVote handles an incoming vote request.
func (e *Election) RequestVote(args *RequestVoteArgs) *RequestVoteReply {
	e.mu.Lock()
	defer e.mu.Unlock()

	if args.Term < e.currentTerm {
		return &RequestVoteReply{Term: e.currentTerm, VoteGranted: false}
	}

	if args.Term > e.currentTerm {
		e.convertToFollowerLocked(args.Term, "")
	}

	canVote := e.votedFor == "" || e.votedFor == args.Candidate
	if canVote {
		e.votedFor = args.Candidate
		e.resetElectionTimerLocked()
		e.logger.Info("vote granted", "candidate", args.Candidate, "term", args.Term)
		return &RequestVoteReply{Term: e.currentTerm, VoteGranted: true}
	}
	return &RequestVoteReply{Term: e.currentTerm, VoteGranted: false}
}

// AnnounceMaster handles an incoming leadership announcement.
func (e *Election) AnnounceMaster(args *AnnounceMasterArgs) *AnnounceMasterReply {
	e.mu.Lock()
	defer e.mu.Unlock()

	if args.Term < e.currentTerm {
		return &AnnounceMasterReply{Term: e.currentTerm, Acknowledged: false}
	}

	wasLeader := e.leaderID
	e.convertToFollowerLocked(args.Term, args.Candidate)
	if wasLeader != args.Candidate {
		e.logger.Info("new master announced", "master", args.Candidate, "term", args.Term)
	}
	e.resetElectionTimerLocked()
	return &AnnounceMasterReply{Term: e.currentTerm, Acknowledged: true}
}

func (e *Election) runElectionLoop() {
	defer e.wg.Done()
	for {
		e.mu.Lock()
		timer := e.electionTimer
		e.mu.Unlock()
		if timer == nil {
			return
		}
		select {
		case <-e.stopCh:
			return
		case <-timer.C:
			e.startElection()
		}
	}
}

func (e *Election) startElection() {
	e.mu.Lock()
	e.currentTerm++
	term := e.currentTerm
	e.role = types.RoleCandidate
	e.votedFor = e.config.ID
	peers := append([]string(nil), e.config.Peers...)
	e.resetElectionTimerLocked()
	e.mu.Unlock()

	e.logger.Info("starting election", "term", term)

	votes := 1 // vote for self
	var voteMu sync.Mutex
	var wg sync.WaitGroup
	for _, peer := range peers {
		peer := peer
		wg.Add(1)
		go func() {
			defer wg.Done()
			reply, err := e.transport.SendRequestVote(peer, &RequestVoteArgs{Term: term, Candidate: e.config.ID})
			if err != nil {
				e.logger.Warn("request vote failed", "peer", peer, "error", err)
				return
			}
			e.mu.Lock()
			if reply.Term > e.currentTerm {
				e.convertToFollowerLocked(reply.Term, "")
			}
			e.mu.Unlock()
			if reply.VoteGranted {
				voteMu.Lock()
				votes++
				voteMu.Unlock()
			}
		}()
	}
	wg.Wait()

	// e.config.Peers excludes self, so the cluster size is len(peers)+1.
	majority := (len(peers)+1)/2 + 1
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.role == types.RoleCandidate && e.currentTerm == term && votes >= majority {
		e.convertToMasterLocked()
	}
}

func (e *Election) convertToMasterLocked() {
	e.role = types.RoleMaster
	e.leaderID = e.config.ID
	e.logger.Info("became master", "term", e.currentTerm)

	if e.electionTimer != nil {
		e.electionTimer.Stop()
	}
	e.announceTicker = time.NewTicker(e.config.AnnounceInterval)
	term := e.currentTerm

	e.wg.Add(1)
	go e.runAnnounceLoop(e.announceTicker, term)

	if e.onBecomeMaster != nil {
		go e.onBecomeMaster(term)
	}
}

func (e *Election) runAnnounceLoop(ticker *time.Ticker, term int64) {
	defer e.wg.Done()
	for {
		select {
		case <-e.stopCh:
			return
		case <-ticker.C:
			e.mu.Lock()
			if e.role != types.RoleMaster || e.currentTerm != term {
				e.mu.Unlock()
				return
			}
			peers := append([]string(nil), e.config.Peers...)
			e.mu.Unlock()

			for _, peer := range peers {
				reply, err := e.transport.SendAnnounceMaster(peer, &AnnounceMasterArgs{Term: term, Candidate: e.config.ID})
				if err != nil {
					continue
				}
				if reply.Term > term {
					e.mu.Lock()
					e.convertToFollowerLocked(reply.Term, "")
					e.mu.Unlock()
					return
				}
			}
		}
	}
}

// convertToFollowerLocked must be called with e.mu held.
func (e *Election) convertToFollowerLocked(term int64, leaderID string) {
	becameFollower := e.role != types.RoleFollower
	e.currentTerm = term
	e.role = types.RoleFollower
	e.votedFor = ""
	if leaderID != "" {
		e.leaderID = leaderID
	}
	if e.announceTicker != nil {
		e.announceTicker.Stop()
		e.announceTicker = nil
	}
	e.resetElectionTimerLocked()

	if becameFollower && e.onBecomeFollower != nil {
		leader := e.leaderID
		go e.onBecomeFollower(leader)
	}
}

// resetElectionTimerLocked must be called with e.mu held.
func (e *Election) resetElectionTimerLocked() {
	timeout := e.randomElectionTimeout()
	if e.electionTimer == nil {
		e.electionTimer = time.NewTimer(timeout)
		return
	}
	e.electionTimer.Stop()
	e.electionTimer.Reset(timeout)
}

func (e *Election) randomElectionTimeout() time.Duration {
	span := e.config.ElectionTimeoutMax - e.config.ElectionTimeoutMin
	if span <= 0 {
		return e.config.ElectionTimeoutMin
	}
	return e.config.ElectionTimeoutMin + time.Duration(rand.Int63n(int64(span)))
}

// String helps %v format a role cleanly in logs.
func (e *Election) String() string {
	return fmt.Sprintf("election{id=%s term=%d role=%s}", e.config.ID, e.currentTerm, e.role)
}
