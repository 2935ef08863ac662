package wal

import "github.com/vtmesh/transcode/pkg/types"

// EventType enumerates the job and shard lifecycle transitions this WAL
// durably records before the in-memory job manager applies them.
type EventType string

const (
	EventJobEnqueued      EventType = "JOB_ENQUEUED"
	EventJobSegmented     EventType = "JOB_SEGMENTED"
	EventShardDispatched  EventType = "SHARD_DISPATCHED"
	EventShardReady       EventType = "SHARD_READY"
	EventShardFailed      EventType = "SHARD_FAILED"
	EventJobConcatenating EventType = "JOB_CONCATENATING"
	EventJobCompleted     EventType = "JOB_COMPLETED"
	EventJobFailed        EventType = "JOB_FAILED"
)

// NoShard marks a job-level event that has no associated shard.
const NoShard = -1

// Event is one durable record. ShardID is NoShard for job-level events.
type Event struct {
	Seq       uint64      `json:"seq"`
	Type      EventType   `json:"type"`
	JobID     types.JobID `json:"job_id"`
	ShardID   int         `json:"shard_id"`
	Timestamp int64       `json:"timestamp"`
	Checksum  uint32      `json:"checksum"`
}

// EventHandler applies one replayed event to in-memory state.
type EventHandler func(event Event) error
