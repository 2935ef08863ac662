// Package wal is the master's write-ahead log: every job/shard state
// transition is appended here before the in-memory job manager applies it,
// so a crash between the two can always be resolved by replaying from the
// last snapshot forward.
package wal

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vtmesh/transcode/pkg/types"
)

// FileInterface is the subset of *os.File the WAL depends on, so tests can
// substitute an in-memory fake.
type FileInterface interface {
	Write(p []byte) (n int, err error)
	Sync() error
	Close() error
}

// WAL is one append-only log file plus an in-memory write buffer.
type WAL struct {
	mu           sync.Mutex
	file         FileInterface
	encoder      *json.Encoder
	path         string
	seq          uint64
	syncOnAppend bool

	buffer        []Event
	bufferSize    int
	lastFlushTime time.Time
	flushInterval time.Duration
}

// NewWAL opens path for append, continuing the sequence counter from
// whatever event was written last if the file already exists.
func NewWAL(path string, syncOnAppend bool) (*WAL, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}

	encoder := json.NewEncoder(file)

	var seq uint64
	if stat, statErr := file.Stat(); statErr == nil && stat.Size() > 0 {
		if lastEvent, err := GetLastEvent(path); err == nil && lastEvent != nil {
			seq = lastEvent.Seq
		}
	}

	return &WAL{
		file:          file,
		encoder:       encoder,
		path:          path,
		seq:           seq,
		syncOnAppend:  syncOnAppend,
		buffer:        make([]Event, 0, 1000),
		bufferSize:    1000,
		lastFlushTime: time.Now(),
		flushInterval: time.Second,
	}, nil
}

// Append records one event. shardID should be NoShard for job-level
// events. isForceFlush bypasses the buffer/interval thresholds and syncs
// immediately — callers use this for events a crash must not lose even a
// second of (job completion, job failure).
func (w *WAL) Append(eventType EventType, jobID types.JobID, shardID int, isForceFlush bool) error {
	w.mu.Lock()
	w.seq++
	event := Event{
		Seq:       w.seq,
		Type:      eventType,
		JobID:     jobID,
		ShardID:   shardID,
		Timestamp: time.Now().UnixMilli(),
	}
	event.Checksum = CalculateChecksum(eventType, jobID, shardID, w.seq)

	w.buffer = append(w.buffer, event)

	needFlush := w.syncOnAppend || isForceFlush || len(w.buffer) >= w.bufferSize || time.Since(w.lastFlushTime) > w.flushInterval
	if needFlush {
		err := w.flushLocked()
		w.mu.Unlock()
		return err
	}

	w.mu.Unlock()
	return nil
}

// Replay reads every event from the start of the file, verifying its
// checksum and calling handler in order. It stops at the first error.
func (w *WAL) Replay(handler EventHandler) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	file, err := os.Open(w.path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	for decoder.More() {
		var event Event
		if err := decoder.Decode(&event); err != nil {
			return err
		}
		if !VerifyChecksum(event) {
			return ErrChecksumMismatch
		}
		if err := handler(event); err != nil {
			return err
		}
	}
	return nil
}

// Rotate flushes, closes, archives the current file with a timestamp
// suffix, and starts a fresh empty log at path with seq reset to 0. Called
// right after a snapshot, since the snapshot now covers everything the
// rotated file held.
func (w *WAL) Rotate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.flushLocked(); err != nil {
		return err
	}
	if err := w.file.Close(); err != nil {
		return err
	}

	backupPath := w.path + "." + time.Now().Format("20060102_150405")
	if err := os.Rename(w.path, backupPath); err != nil {
		return err
	}

	newFile, err := os.OpenFile(w.path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	w.file = newFile
	w.encoder = json.NewEncoder(newFile)
	w.seq = 0
	w.buffer = w.buffer[:0]
	w.lastFlushTime = time.Now()
	return nil
}

// Close flushes any buffered events and closes the underlying file. The
// WAL must not be used after Close.
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.flushLocked(); err != nil {
		return err
	}
	return w.file.Close()
}

// GetLastSeq returns the most recently assigned sequence number, used when
// writing a snapshot so recovery knows where to resume replay from.
func (w *WAL) GetLastSeq() uint64 {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.seq
}

func (w *WAL) flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLocked()
}

// flushLocked requires w.mu held.
func (w *WAL) flushLocked() error {
	for _, event := range w.buffer {
		if err := w.encoder.Encode(event); err != nil {
			return err
		}
	}
	w.buffer = w.buffer[:0]
	w.lastFlushTime = time.Now()
	return w.file.Sync()
}

// compressWALFile gzips a rotated WAL file for cold storage. Archived
// files are never read back by Replay; this is purely for disk footprint.
func compressWALFile(srcPath, dstPath string) error {
	srcFile, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer srcFile.Close()
	dstFile, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	gzipWriter := gzip.NewWriter(dstFile)
	defer gzipWriter.Close()

	_, err = io.Copy(gzipWriter, srcFile)
	return err
}
