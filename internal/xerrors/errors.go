// Package xerrors carries the error taxonomy from the error handling
// design: input errors, transient peer errors, media tool errors, storage
// errors, and cluster errors. Each is a distinct type so call sites decide
// retry-vs-surface with errors.As instead of string matching.
package xerrors

import "fmt"

// InputError wraps invalid parameters, unknown jobs, or wrong-state
// requests. Surfaced to the caller, never retried.
type InputError struct {
	Op  string
	Err error
}

func (e *InputError) Error() string { return fmt.Sprintf("input error in %s: %v", e.Op, e.Err) }
func (e *InputError) Unwrap() error { return e.Err }

// TransientPeerError wraps an unreachable worker or an expired shard RPC
// deadline. The shard is requeued until it reaches its attempt limit; the
// scheduler picks the next worker by score and can pick the same worker
// again.
type TransientPeerError struct {
	Peer string
	Err  error
}

func (e *TransientPeerError) Error() string {
	return fmt.Sprintf("transient error contacting %s: %v", e.Peer, e.Err)
}
func (e *TransientPeerError) Unwrap() error { return e.Err }

// MediaToolError wraps a non-zero exit from the external media tool,
// carrying a bounded tail of its stderr for diagnostics.
type MediaToolError struct {
	Op         string
	ExitCode   int
	StderrTail string
	Err        error
}

func (e *MediaToolError) Error() string {
	return fmt.Sprintf("media tool error in %s (exit=%d): %s", e.Op, e.ExitCode, e.StderrTail)
}
func (e *MediaToolError) Unwrap() error { return e.Err }

// StorageError wraps a write, rename, or fsync failure. The job fails with
// failed:storage-error; partial files are left for operator inspection.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error in %s at %s: %v", e.Op, e.Path, e.Err)
}
func (e *StorageError) Unwrap() error { return e.Err }

// ClusterError wraps an election or quorum failure. The node remains
// follower and retries after a randomized backoff.
type ClusterError struct {
	Op  string
	Err error
}

func (e *ClusterError) Error() string { return fmt.Sprintf("cluster error in %s: %v", e.Op, e.Err) }
func (e *ClusterError) Unwrap() error { return e.Err }
