// Package cli builds transcodectl, the operator-facing command line for the
// cluster: submit a video for transcoding, poll its status, retrieve the
// finished artifact, and list the nodes a master or worker address knows
// about. Every subcommand is a thin gRPC client against MasterService or
// ElectionService — this package owns no cluster state of its own.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/vtmesh/transcode/api/proto/v1"
)

const uploadChunkSize = 64 * 1024

var masterAddr string

// BuildCLI assembles the transcodectl root command and its subcommands.
func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "transcodectl",
		Short:   "Operate a distributed video transcoding cluster",
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVar(&masterAddr, "master", "127.0.0.1:50051", "master node address")

	rootCmd.AddCommand(buildSubmitCommand())
	rootCmd.AddCommand(buildStatusCommand())
	rootCmd.AddCommand(buildRetrieveCommand())
	rootCmd.AddCommand(buildNodesCommand())

	return rootCmd
}

func dialMaster(addr string) (*grpc.ClientConn, error) {
	return grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

func buildSubmitCommand() *cobra.Command {
	var file string
	var width, height int
	var format string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Upload a source video and enqueue a transcoding job",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("source file is required (use --file)")
			}
			return submit(file, width, height, format)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the source video file")
	cmd.Flags().IntVar(&width, "width", 1280, "target output width")
	cmd.Flags().IntVar(&height, "height", 720, "target output height")
	cmd.Flags().StringVar(&format, "format", "mp4", "target output container/codec format")
	cmd.MarkFlagRequired("file")

	return cmd
}

func submit(path string, width, height int, format string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	conn, err := dialMaster(masterAddr)
	if err != nil {
		return fmt.Errorf("connect to master: %w", err)
	}
	defer conn.Close()

	client := pb.NewMasterServiceClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stream, err := client.Upload(ctx)
	if err != nil {
		return fmt.Errorf("open upload stream: %w", err)
	}

	if err := stream.Send(&pb.UploadRequest{Params: &pb.UploadParams{
		Width:    int32(width),
		Height:   int32(height),
		Format:   format,
		Filename: filenameOf(path),
	}}); err != nil {
		return fmt.Errorf("send upload params: %w", err)
	}

	buf := make([]byte, uploadChunkSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if serr := stream.Send(&pb.UploadRequest{Chunk: chunk}); serr != nil {
				return fmt.Errorf("send chunk: %w", serr)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("read source file: %w", rerr)
		}
	}

	resp, err := stream.CloseAndRecv()
	if err != nil {
		return fmt.Errorf("close upload stream: %w", err)
	}
	if !resp.Accepted {
		return fmt.Errorf("master rejected upload: %s", resp.Message)
	}

	fmt.Printf("job accepted: %s\n", resp.JobId)
	return nil
}

func filenameOf(path string) string {
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

func buildStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show a transcoding job's current status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return status(args[0])
		},
	}
	return cmd
}

func status(jobID string) error {
	conn, err := dialMaster(masterAddr)
	if err != nil {
		return fmt.Errorf("connect to master: %w", err)
	}
	defer conn.Close()

	client := pb.NewMasterServiceClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.GetStatus(ctx, &pb.GetStatusRequest{JobId: jobID})
	if err != nil {
		return fmt.Errorf("get status: %w", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Job ID", "Status", "Message")
	table.Append(jobID, resp.Status, resp.Message)
	table.Render()
	return nil
}

func buildRetrieveCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "retrieve <job-id>",
		Short: "Download a completed job's final artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				outPath = args[0] + ".out"
			}
			return retrieve(args[0], outPath)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file path (default <job-id>.out)")

	return cmd
}

func retrieve(jobID, outPath string) error {
	conn, err := dialMaster(masterAddr)
	if err != nil {
		return fmt.Errorf("connect to master: %w", err)
	}
	defer conn.Close()

	client := pb.NewMasterServiceClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stream, err := client.Retrieve(ctx, &pb.RetrieveRequest{JobId: jobID})
	if err != nil {
		return fmt.Errorf("open retrieve stream: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	written := 0
	for {
		chunk, rerr := stream.Recv()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("receive chunk: %w", rerr)
		}
		n, werr := out.Write(chunk.Chunk)
		if werr != nil {
			return fmt.Errorf("write output file: %w", werr)
		}
		written += n
	}

	fmt.Printf("wrote %d bytes to %s\n", written, outPath)
	return nil
}

func buildNodesCommand() *cobra.Command {
	var addrs string

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List the nodes reachable from a comma-separated address list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addrs == "" {
				addrs = masterAddr
			}
			return nodes(strings.Split(addrs, ","))
		},
	}
	cmd.Flags().StringVar(&addrs, "addrs", "", "comma-separated node addresses (default --master)")

	return cmd
}

func nodes(addrs []string) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Address", "Role", "Score", "Liveness")

	for _, addr := range addrs {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}

		conn, err := dialMaster(addr)
		if err != nil {
			table.Append(addr, "unreachable", "-", err.Error())
			continue
		}

		client := pb.NewElectionServiceClient(conn)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		resp, err := client.GetNodeStats(ctx, &pb.GetNodeStatsRequest{})
		cancel()
		conn.Close()

		if err != nil {
			table.Append(addr, "unreachable", "-", err.Error())
			continue
		}
		table.Append(resp.Address, resp.Role, fmt.Sprintf("%.2f", resp.Score), resp.Liveness)
	}

	table.Render()
	return nil
}
