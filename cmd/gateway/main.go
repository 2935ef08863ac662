// Command gateway runs the HTTP bridge in front of one master node, for
// browser or curl clients that would rather speak HTTP than gRPC.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/vtmesh/transcode/api/proto/v1"
	"github.com/vtmesh/transcode/internal/httpbridge"
)

func main() {
	var masterAddr string
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Run the HTTP bridge in front of a master node",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(masterAddr, listenAddr)
		},
	}
	cmd.Flags().StringVar(&masterAddr, "master", "127.0.0.1:50051", "master node address")
	cmd.Flags().StringVar(&listenAddr, "listen", ":8080", "HTTP listen address")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(masterAddr, listenAddr string) error {
	log := slog.With("component", "gateway")

	conn, err := grpc.NewClient(masterAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial master %s: %w", masterAddr, err)
	}
	defer conn.Close()

	handler := httpbridge.NewHandler(pb.NewMasterServiceClient(conn))

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	log.Info("listening", "address", listenAddr, "master", masterAddr)
	return http.ListenAndServe(listenAddr, router)
}
