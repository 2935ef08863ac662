// Package httpbridge exposes a thin HTTP surface over MasterService, for
// browser clients that cannot speak gRPC directly. It plays the role
// flask_server.py played in the original implementation: a translation
// layer, not a second source of truth. Every handler opens a short-lived
// gRPC call against a MasterServiceClient and re-encodes the result as
// JSON (or the raw artifact bytes, for retrieve).
package httpbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	pb "github.com/vtmesh/transcode/api/proto/v1"
)

const uploadChunkSize = 64 * 1024

// Handler wires HTTP routes to one MasterServiceClient.
type Handler struct {
	client pb.MasterServiceClient
}

// NewHandler wraps a MasterServiceClient for HTTP translation.
func NewHandler(client pb.MasterServiceClient) *Handler {
	return &Handler{client: client}
}

// RegisterRoutes attaches the bridge's four routes to a mux.Router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/upload", h.Upload).Methods("POST")
	r.HandleFunc("/status/{id}", h.Status).Methods("GET")
	r.HandleFunc("/retrieve/{id}", h.Retrieve).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
}

// Upload accepts a multipart video upload and relays it to the master as
// an Upload RPC, one chunk per read.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(256 << 20); err != nil {
		http.Error(w, fmt.Sprintf("parse multipart form: %v", err), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing form field \"file\"", http.StatusBadRequest)
		return
	}
	defer file.Close()

	width := queryInt(r, "width", 1280)
	height := queryInt(r, "height", 720)
	format := r.FormValue("format")
	if format == "" {
		format = "mp4"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	stream, err := h.client.Upload(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("open upload stream: %v", err), http.StatusBadGateway)
		return
	}

	if err := stream.Send(&pb.UploadRequest{Params: &pb.UploadParams{
		Width:    int32(width),
		Height:   int32(height),
		Format:   format,
		Filename: header.Filename,
	}}); err != nil {
		http.Error(w, fmt.Sprintf("send upload params: %v", err), http.StatusBadGateway)
		return
	}

	buf := make([]byte, uploadChunkSize)
	for {
		n, rerr := file.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if serr := stream.Send(&pb.UploadRequest{Chunk: chunk}); serr != nil {
				http.Error(w, fmt.Sprintf("relay chunk: %v", serr), http.StatusBadGateway)
				return
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			http.Error(w, fmt.Sprintf("read upload: %v", rerr), http.StatusBadRequest)
			return
		}
	}

	resp, err := stream.CloseAndRecv()
	if err != nil {
		http.Error(w, fmt.Sprintf("close upload stream: %v", err), http.StatusBadGateway)
		return
	}

	writeJSON(w, !resp.Accepted, map[string]any{
		"job_id":   resp.JobId,
		"accepted": resp.Accepted,
		"message":  resp.Message,
	})
}

// Status reports a job's status as JSON.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	resp, err := h.client.GetStatus(ctx, &pb.GetStatusRequest{JobId: jobID})
	if err != nil {
		http.Error(w, fmt.Sprintf("get status: %v", err), http.StatusBadGateway)
		return
	}

	writeJSON(w, false, map[string]any{
		"job_id":  jobID,
		"status":  resp.Status,
		"message": resp.Message,
	})
}

// Retrieve streams a completed job's final artifact back to the caller.
func (h *Handler) Retrieve(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	stream, err := h.client.Retrieve(ctx, &pb.RetrieveRequest{JobId: jobID})
	if err != nil {
		http.Error(w, fmt.Sprintf("open retrieve stream: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", jobID))

	for {
		chunk, rerr := stream.Recv()
		if rerr == io.EOF {
			return
		}
		if rerr != nil {
			http.Error(w, fmt.Sprintf("receive chunk: %v", rerr), http.StatusBadGateway)
			return
		}
		if _, werr := w.Write(chunk.Chunk); werr != nil {
			return
		}
	}
}

// Health is a liveness probe for the gateway process itself.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, false, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, isError bool, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	if isError {
		w.WriteHeader(http.StatusBadRequest)
	}
	json.NewEncoder(w).Encode(body)
}

func queryInt(r *http.Request, key string, def int) int {
	val := r.FormValue(key)
	if val == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(val, "%d", &n); err != nil || n <= 0 {
		return def
	}
	return n
}
