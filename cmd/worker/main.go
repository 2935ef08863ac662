// Command worker runs one worker node: it registers with a master, reports
// its resource score on a fixed cadence, and serves WorkerService so the
// master can push shards to it directly. It also answers ElectionService
// RPCs so master candidates can include it in quorum counting, but never
// starts its own candidacy — a worker is never itself a master candidate.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/vtmesh/transcode/api/proto/v1"
	"github.com/vtmesh/transcode/internal/config"
	"github.com/vtmesh/transcode/internal/election"
	"github.com/vtmesh/transcode/internal/media"
	"github.com/vtmesh/transcode/internal/registry"
	"github.com/vtmesh/transcode/internal/scorer"
	"github.com/vtmesh/transcode/internal/server"
	"github.com/vtmesh/transcode/internal/worker"
	"github.com/vtmesh/transcode/pkg/types"
)

func main() {
	var configPath string
	var listenAddr string
	var masterAddr string

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run a worker node for the transcoding cluster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, listenAddr, masterAddr)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "configs/default.yaml", "config file path")
	cmd.Flags().StringVar(&listenAddr, "listen", "", "override listen_address from config")
	cmd.Flags().StringVar(&masterAddr, "master", "", "override master_address from config")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, listenOverride, masterOverride string) error {
	log := slog.With("component", "worker")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if listenOverride != "" {
		cfg.ListenAddress = listenOverride
	}
	if masterOverride != "" {
		cfg.MasterAddress = masterOverride
	}
	if cfg.MasterAddress == "" {
		return fmt.Errorf("master_address is required")
	}
	selfAddr := cfg.ListenAddress

	executor := media.New(cfg.MediaBinary)
	pool := worker.NewPool(cfg.WorkerCount*4, executor, cfg.ScratchDir)
	if err := pool.Start(cfg.WorkerCount); err != nil {
		return fmt.Errorf("start worker pool: %w", err)
	}

	handler := worker.NewGrpcHandler(pool, cfg.ScratchDir, cfg.BackupDir)

	// This node never contests for master; Start is deliberately not
	// called so it answers RequestVote/AnnounceMaster passively without
	// ever firing its own election timer.
	reg := registry.New(registry.Config{SuspectAfter: cfg.SuspectAfter, DeadAfter: cfg.DeadAfter})
	reg.Register(selfAddr, types.RoleWorker)
	elec := election.New(election.Config{ID: selfAddr}, election.NewGrpcTransport(), nil, nil)

	lis, err := net.Listen("tcp", selfAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", selfAddr, err)
	}
	grpcServer := grpc.NewServer()
	pb.RegisterWorkerServiceServer(grpcServer, handler)
	pb.RegisterElectionServiceServer(grpcServer, server.NewElectionServer(elec, reg, selfAddr))

	go func() {
		log.Info("listening", "address", selfAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc server stopped", "error", err)
		}
	}()

	conn, err := grpc.NewClient(cfg.MasterAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial master %s: %w", cfg.MasterAddress, err)
	}
	defer conn.Close()
	reporter := worker.NewGrpcReporter(conn)

	registerCtx, registerCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer registerCancel()
	if err := reporter.Register(registerCtx, selfAddr); err != nil {
		log.Warn("initial registration failed; the master ignores score reports from an unregistered worker", "error", err)
	}

	sampler := scorer.New(scorer.Weights{
		Load:   cfg.ScoreWeights.Load,
		Iowait: cfg.ScoreWeights.Iowait,
		Net:    cfg.ScoreWeights.Net,
		Mem:    cfg.ScoreWeights.Mem,
	}, runtime.NumCPU(), cfg.NetCapacityBytesPerSec)

	scoreStop := make(chan struct{})
	go reportScoreLoop(log, sampler, reporter, selfAddr, cfg.ScoreCadence, scoreStop)
	defer close(scoreStop)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	grpcServer.GracefulStop()
	pool.Stop()
	return nil
}

// reportScoreLoop samples local resource usage and pushes a score to the
// master on cfg.score_cadence, the cadence §4.3 calls out for ReportScore.
func reportScoreLoop(log *slog.Logger, sampler *scorer.Sampler, reporter *worker.GrpcReporter, selfAddr string, cadence time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(cadence)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			sample, err := sampler.Sample()
			if err != nil {
				log.Warn("resource sample failed", "error", err)
				continue
			}
			score := sampler.Score(sample)

			ctx, cancel := context.WithTimeout(context.Background(), cadence)
			err = reporter.ReportScore(ctx, selfAddr, score)
			cancel()
			if err != nil {
				log.Warn("report score failed", "error", err)
			}
		}
	}
}
