package wal

import (
	"encoding/json"
	"io"
	"os"
)

// GetLastEvent scans path from the start and returns the last event
// successfully decoded, so NewWAL can continue the sequence counter
// across restarts. Returns ErrEmptyWAL for a file that holds no events.
func GetLastEvent(path string) (*Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	var last *Event
	for decoder.More() {
		var event Event
		if err := decoder.Decode(&event); err != nil {
			if last != nil {
				return last, nil
			}
			return nil, err
		}
		last = &event
	}
	if last == nil {
		return nil, ErrEmptyWAL
	}
	return last, nil
}

// CountEvents returns how many events a WAL file holds.
func CountEvents(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	count := 0
	for decoder.More() {
		var event Event
		if err := decoder.Decode(&event); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ValidateWAL checks that every event in path decodes, passes its
// checksum, and that sequence numbers increase monotonically without gaps.
func ValidateWAL(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	var lastSeq uint64
	for decoder.More() {
		var event Event
		if err := decoder.Decode(&event); err != nil {
			if err == io.EOF {
				break
			}
			return &CorruptionError{Seq: lastSeq, Cause: err}
		}
		if !VerifyChecksum(event) {
			return &ChecksumError{Seq: event.Seq, Expected: CalculateChecksum(event.Type, event.JobID, event.ShardID, event.Seq), Actual: event.Checksum}
		}
		if lastSeq != 0 && event.Seq != lastSeq+1 {
			return &CorruptionError{Seq: event.Seq, Cause: ErrCorruptedWAL}
		}
		lastSeq = event.Seq
	}
	return nil
}
