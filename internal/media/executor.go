// Package media wraps the external media tool (an ffmpeg-compatible
// binary) that does the actual segmenting, transcoding, and concatenation.
// This package owns no domain state; it is a thin os/exec boundary that
// turns tool failures into xerrors.MediaToolError.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/vtmesh/transcode/internal/xerrors"
)

// stderrTailCap bounds how much of a failed command's stderr is kept for
// diagnostics; the rest is discarded as it arrives.
const stderrTailCap = 4096

// Executor runs the configured media tool binary.
type Executor struct {
	binary string
}

// New creates an executor bound to a specific tool binary (an absolute
// path, or a name resolved against PATH).
func New(binary string) *Executor {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Executor{binary: binary}
}

// Segment splits sourcePath into contiguous pieces under outDir, each
// segmentSeconds long except possibly the last, naming them shard-0,
// shard-1, and so on. Keyframes are forced at segmentSeconds boundaries so
// the stream-copy cut (-c copy) lands cleanly on them rather than drifting
// to whatever keyframes the source already has. The segment muxer takes a
// segment length, not a target shard count, so the actual shard files are
// discovered from outDir after the tool runs rather than predicted.
func (e *Executor) Segment(ctx context.Context, sourcePath, outDir string, segmentSeconds int) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, &xerrors.StorageError{Op: "segment.mkdir", Path: outDir, Err: err}
	}
	if segmentSeconds <= 0 {
		segmentSeconds = 10
	}

	pattern := filepath.Join(outDir, "shard-%d.ts")
	forceKeyframes := fmt.Sprintf("expr:gte(t,n_forced*%d)", segmentSeconds)
	args := []string{
		"-i", sourcePath,
		"-map", "0",
		"-c", "copy",
		"-force_key_frames", forceKeyframes,
		"-f", "segment",
		"-segment_time", strconv.Itoa(segmentSeconds),
		pattern,
	}
	if _, err := e.run(ctx, "segment", args); err != nil {
		return nil, err
	}

	return globShards(outDir)
}

// globShards finds the shard-N.ts files a Segment run actually produced
// and returns their paths ordered by shard index.
func globShards(outDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(outDir, "shard-*.ts"))
	if err != nil {
		return nil, &xerrors.StorageError{Op: "segment.glob", Path: outDir, Err: err}
	}
	if len(matches) == 0 {
		return nil, &xerrors.MediaToolError{Op: "segment", Err: fmt.Errorf("no shard files produced in %s", outDir)}
	}

	sort.Slice(matches, func(i, j int) bool {
		return shardIndex(matches[i]) < shardIndex(matches[j])
	})
	return matches, nil
}

// shardIndex extracts N from a "shard-N.ts" path for numeric ordering;
// a lexicographic sort would place shard-10.ts before shard-2.ts.
func shardIndex(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), ".ts")
	base = strings.TrimPrefix(base, "shard-")
	n, _ := strconv.Atoi(base)
	return n
}

// Transcode re-encodes one shard to the target width, height, and format.
func (e *Executor) Transcode(ctx context.Context, inputPath, outputPath string, width, height int, format string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return &xerrors.StorageError{Op: "transcode.mkdir", Path: filepath.Dir(outputPath), Err: err}
	}

	args := []string{
		"-i", inputPath,
		"-vf", fmt.Sprintf("scale=%d:%d", width, height),
		"-f", format,
		"-y",
		outputPath,
	}
	_, err := e.run(ctx, "transcode", args)
	return err
}

// Concatenate joins processed shard paths, in order, into finalPath.
func (e *Executor) Concatenate(ctx context.Context, shardPaths []string, finalPath string) error {
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return &xerrors.StorageError{Op: "concatenate.mkdir", Path: filepath.Dir(finalPath), Err: err}
	}

	listPath := finalPath + ".concat.txt"
	var list bytes.Buffer
	for _, p := range shardPaths {
		fmt.Fprintf(&list, "file '%s'\n", p)
	}
	if err := os.WriteFile(listPath, list.Bytes(), 0o644); err != nil {
		return &xerrors.StorageError{Op: "concatenate.writelist", Path: listPath, Err: err}
	}
	defer os.Remove(listPath)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		finalPath,
	}
	_, err := e.run(ctx, "concatenate", args)
	return err
}

// run executes the media tool, returning a MediaToolError on a non-zero
// exit with a bounded tail of stderr attached for diagnostics.
func (e *Executor) run(ctx context.Context, op string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.binary, args...)

	var stdout bytes.Buffer
	stderr := newRingBuffer(stderrTailCap)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return nil, &xerrors.MediaToolError{
			Op:         op,
			ExitCode:   exitCode,
			StderrTail: stderr.String(),
			Err:        err,
		}
	}
	return stdout.Bytes(), nil
}

// ringBuffer keeps only the last N bytes written to it, so a runaway
// stderr stream from a misbehaving tool invocation cannot grow unbounded.
type ringBuffer struct {
	buf []byte
	cap int
}

func newRingBuffer(cap int) *ringBuffer {
	return &ringBuffer{buf: make([]byte, 0, cap), cap: cap}
}

func (r *ringBuffer) Write(p []byte) (int, error) {
	r.buf = append(r.buf, p...)
	if len(r.buf) > r.cap {
		r.buf = r.buf[len(r.buf)-r.cap:]
	}
	return len(p), nil
}

func (r *ringBuffer) String() string {
	return string(r.buf)
}
