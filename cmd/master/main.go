// Command master runs one master-candidate node: it participates in
// election among its peers, and while it holds the master role it drives
// the job pipeline and serves MasterService to clients and workers.
// ElectionService is served regardless of role, since every candidate must
// answer RequestVote and AnnounceMaster.
package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	pb "github.com/vtmesh/transcode/api/proto/v1"
	"github.com/vtmesh/transcode/internal/config"
	"github.com/vtmesh/transcode/internal/controller"
	"github.com/vtmesh/transcode/internal/election"
	"github.com/vtmesh/transcode/internal/metrics"
	"github.com/vtmesh/transcode/internal/registry"
	"github.com/vtmesh/transcode/internal/server"
	"github.com/vtmesh/transcode/pkg/types"
)

func main() {
	var configPath string
	var listenAddr string
	var peersFlag string

	cmd := &cobra.Command{
		Use:   "master",
		Short: "Run a master-candidate node for the transcoding cluster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, listenAddr, peersFlag)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "configs/default.yaml", "config file path")
	cmd.Flags().StringVar(&listenAddr, "listen", "", "override listen_address from config")
	cmd.Flags().StringVar(&peersFlag, "peers", "", "comma-separated peer addresses, overrides config")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, listenOverride, peersFlag string) error {
	log := slog.With("component", "master")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if listenOverride != "" {
		cfg.ListenAddress = listenOverride
	}
	if peersFlag != "" {
		cfg.Peers = strings.Split(peersFlag, ",")
	}
	selfAddr := cfg.ListenAddress

	reg := registry.New(registry.Config{SuspectAfter: cfg.SuspectAfter, DeadAfter: cfg.DeadAfter})
	reg.Register(selfAddr, types.RoleMaster)

	collector := metrics.NewCollector()

	ctrlCfg := controller.Config{
		ScratchDir:          cfg.ScratchDir,
		DataDir:             cfg.DataDir,
		WALPath:             cfg.WALPath,
		SnapshotPath:        cfg.SnapshotPath,
		SnapshotInterval:    cfg.SnapshotInterval,
		JobConcurrency:      cfg.JobConcurrency,
		MaxRetry:            cfg.MaxRetry,
		ShardTimeout:        cfg.ShardTimeout,
		StarvationThreshold: cfg.StarvationThreshold,
		SegmentSeconds:      cfg.SegmentSeconds,
		Backups:             cfg.Backups,
		MediaBinary:         cfg.MediaBinary,
		ScoreTTL:            cfg.ScoreTTL,
	}
	ctrl, err := controller.NewController(ctrlCfg, reg, controller.NewGrpcWorkerClient(), collector)
	if err != nil {
		return fmt.Errorf("create controller: %w", err)
	}

	var ctrlMu sync.Mutex
	ctrlRunning := false
	startController := func() {
		ctrlMu.Lock()
		defer ctrlMu.Unlock()
		if ctrlRunning {
			return
		}
		if err := ctrl.Start(); err != nil {
			log.Error("controller failed to start", "error", err)
			return
		}
		ctrlRunning = true
	}
	stopController := func() {
		ctrlMu.Lock()
		defer ctrlMu.Unlock()
		if !ctrlRunning {
			return
		}
		ctrl.Stop()
		ctrlRunning = false
	}

	electionCfg := election.Config{
		ID:                 selfAddr,
		Peers:              cfg.Peers,
		ElectionTimeoutMin: cfg.ElectionTimeoutMin,
		ElectionTimeoutMax: cfg.ElectionTimeoutMax,
		AnnounceInterval:   cfg.AnnounceInterval,
	}
	transport := election.NewGrpcTransport()
	elec := election.New(electionCfg, transport,
		func(term int64) {
			log.Info("won election, taking over master role", "term", term)
			collector.SetElectionTerm(term)
			startController()
		},
		func(leaderID string) {
			log.Info("became follower", "leader", leaderID)
			stopController()
		},
	)
	elec.Start()
	defer elec.Stop()

	if len(cfg.Peers) == 0 {
		// A standalone master with no election peers never runs an
		// election; it simply holds the role from startup.
		startController()
	}

	reconcileStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.SuspectAfter)
		defer ticker.Stop()
		for {
			select {
			case <-reconcileStop:
				return
			case <-ticker.C:
				reg.Reconcile(time.Now())
			}
		}
	}()
	defer close(reconcileStop)

	go func() {
		if err := metrics.StartServer(cfg.MetricsPort); err != nil {
			log.Warn("metrics server stopped", "error", err)
		}
	}()

	lis, err := net.Listen("tcp", selfAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", selfAddr, err)
	}
	grpcServer := grpc.NewServer()
	pb.RegisterMasterServiceServer(grpcServer, server.NewMasterServer(ctrl))
	pb.RegisterElectionServiceServer(grpcServer, server.NewElectionServer(elec, reg, selfAddr))

	go func() {
		log.Info("listening", "address", selfAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc server stopped", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	grpcServer.GracefulStop()
	stopController()
	return nil
}
