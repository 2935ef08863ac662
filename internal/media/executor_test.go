package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vtmesh/transcode/internal/xerrors"
)

func TestRunWrapsNonZeroExitAsMediaToolError(t *testing.T) {
	e := New("false") // always exits 1, present on every unix test runner
	_, err := e.run(context.Background(), "probe", nil)
	if err == nil {
		t.Fatal("expected error from a command that exits non-zero")
	}

	var mediaErr *xerrors.MediaToolError
	if !errors.As(err, &mediaErr) {
		t.Fatalf("expected *xerrors.MediaToolError, got %T", err)
	}
	if mediaErr.Op != "probe" {
		t.Errorf("expected op %q, got %q", "probe", mediaErr.Op)
	}
}

func TestRingBufferKeepsOnlyTail(t *testing.T) {
	rb := newRingBuffer(4)
	rb.Write([]byte("abcdefgh"))
	if got := rb.String(); got != "efgh" {
		t.Errorf("expected tail %q, got %q", "efgh", got)
	}
}

// writeArgRecordingScript drops a shell script that appends its full
// argument list to argsPath, then writes a placeholder at whatever path
// its last argument names (substituting "%d" with "0"), standing in for a
// real segmenter's first output file.
func writeArgRecordingScript(t *testing.T, dir, argsPath string) string {
	t.Helper()
	scriptPath := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\n" +
		"echo \"$@\" >> " + argsPath + "\n" +
		"out=\"\"\nfor a in \"$@\"; do out=\"$a\"; done\n" +
		"out=$(printf '%s' \"$out\" | sed 's/%d/0/')\n" +
		"printf fake > \"$out\"\n"
	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	return scriptPath
}

func TestSegmentForcesKeyframesAtSegmentBoundaries(t *testing.T) {
	dir := t.TempDir()
	argsPath := filepath.Join(dir, "args.txt")
	e := New(writeArgRecordingScript(t, dir, argsPath))

	paths, err := e.Segment(context.Background(), "source.mp4", filepath.Join(dir, "out"), 10)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected 1 shard, got %d: %v", len(paths), paths)
	}

	recorded, err := os.ReadFile(argsPath)
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	got := string(recorded)
	if !strings.Contains(got, "-force_key_frames expr:gte(t,n_forced*10)") {
		t.Errorf("expected a -force_key_frames expression forcing 10s boundaries, got %q", got)
	}
	if !strings.Contains(got, "-segment_time 10") {
		t.Errorf("expected -segment_time 10, got %q", got)
	}
	if strings.Contains(got, "-segments ") {
		t.Errorf("-segments is not a real segment-muxer flag, got %q", got)
	}
}

func TestSegmentDefaultsNonPositiveSegmentSeconds(t *testing.T) {
	dir := t.TempDir()
	argsPath := filepath.Join(dir, "args.txt")
	e := New(writeArgRecordingScript(t, dir, argsPath))

	if _, err := e.Segment(context.Background(), "source.mp4", filepath.Join(dir, "out"), 0); err != nil {
		t.Fatalf("Segment: %v", err)
	}

	recorded, err := os.ReadFile(argsPath)
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	if !strings.Contains(string(recorded), "-segment_time 10") {
		t.Errorf("expected the zero value to fall back to 10s, got %q", string(recorded))
	}
}

func TestSegmentDiscoversShardsInNumericOrder(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\n" +
		"out=\"\"\nfor a in \"$@\"; do out=\"$a\"; done\n" +
		"d=$(dirname \"$out\")\n" +
		"for i in 0 1 2 10; do printf fake > \"$d/shard-$i.ts\"; done\n"
	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}

	e := New(scriptPath)
	paths, err := e.Segment(context.Background(), "source.mp4", filepath.Join(dir, "out"), 10)
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}

	want := []string{"shard-0.ts", "shard-1.ts", "shard-2.ts", "shard-10.ts"}
	if len(paths) != len(want) {
		t.Fatalf("expected %d shards, got %d: %v", len(want), len(paths), paths)
	}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("shard %d: expected %q, got %q (lexicographic sort would misorder shard-10.ts)", i, want[i], filepath.Base(p))
		}
	}
}

func TestGlobShardsErrorsWhenNoneProduced(t *testing.T) {
	_, err := globShards(t.TempDir())
	if err == nil {
		t.Fatal("expected an error when no shard files exist")
	}
	var mediaErr *xerrors.MediaToolError
	if !errors.As(err, &mediaErr) {
		t.Fatalf("expected *xerrors.MediaToolError, got %T", err)
	}
}

func TestShardIndexParsesTrailingNumber(t *testing.T) {
	cases := map[string]int{
		"/tmp/shard-0.ts":  0,
		"/tmp/shard-10.ts": 10,
		"/tmp/shard-2.ts":  2,
	}
	for path, want := range cases {
		if got := shardIndex(path); got != want {
			t.Errorf("shardIndex(%q) = %d, want %d", path, got, want)
		}
	}
}
