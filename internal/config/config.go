// Package config loads the single Config struct every node binary shares:
// role, listen address, peer list, and every tunable named in §6 of the
// design this repo follows. A YAML file loaded with gopkg.in/yaml.v3
// supplies the base; cobra flags in cmd/master and cmd/worker override
// individual fields after load, the way the teacher's CLI layer composes
// config file and flags.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ScoreWeights mirrors scorer.Weights in YAML-friendly form so a config
// file can override the defaults without importing internal/scorer.
// score = load*Load + iowait*Iowait + net_util*Net + mem_util*Mem.
type ScoreWeights struct {
	Load   float64 `yaml:"load"`
	Iowait float64 `yaml:"iowait"`
	Net    float64 `yaml:"net"`
	Mem    float64 `yaml:"mem"`
}

// Config is the full set of knobs §6 names as optional, defaulted. A node
// binary embeds this directly; role decides which fields it acts on.
type Config struct {
	Role          string   `yaml:"role"` // "master" or "worker"
	ListenAddress string   `yaml:"listen_address"`
	MasterAddress string   `yaml:"master_address"` // worker's entry point to the cluster
	Peers         []string `yaml:"peers"`          // election peers (other master candidates)
	Backups       []string `yaml:"backups"`        // backup node addresses for replication

	SegmentSeconds      int           `yaml:"segment_seconds"`
	ShardTimeout        time.Duration `yaml:"shard_timeout"`
	JobConcurrency      int           `yaml:"job_concurrency"`
	MaxRetry            int           `yaml:"max_retry"`
	StarvationThreshold time.Duration `yaml:"starvation_threshold"`

	ScoreCadence           time.Duration `yaml:"score_cadence"`
	ScoreWeights           ScoreWeights  `yaml:"score_weights"`
	ScoreTTL               time.Duration `yaml:"score_ttl"`
	NetCapacityBytesPerSec float64       `yaml:"net_capacity_bytes_per_sec"`

	ElectionTimeoutMin time.Duration `yaml:"election_timeout_min"`
	ElectionTimeoutMax time.Duration `yaml:"election_timeout_max"`
	AnnounceInterval   time.Duration `yaml:"announce_interval"`

	SuspectAfter time.Duration `yaml:"suspect_after"`
	DeadAfter    time.Duration `yaml:"dead_after"`

	ScratchDir   string `yaml:"scratch_dir"`
	DataDir      string `yaml:"data_dir"`
	BackupDir    string `yaml:"backup_dir"`
	WALPath      string `yaml:"wal_path"`
	SnapshotPath string `yaml:"snapshot_path"`

	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
	MediaBinary      string        `yaml:"media_binary"`
	WorkerCount      int           `yaml:"worker_count"`

	MetricsPort int `yaml:"metrics_port"`
}

// Load reads a YAML config file and applies defaults to any field left at
// its zero value, mirroring the teacher's load-then-ApplyDefaults pattern.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills every zero-valued field with the default named in
// §4 and §6 of the design this repo follows.
func (c *Config) ApplyDefaults() {
	if c.SegmentSeconds <= 0 {
		c.SegmentSeconds = 10
	}
	if c.ShardTimeout <= 0 {
		c.ShardTimeout = 120 * time.Second
	}
	if c.JobConcurrency <= 0 {
		c.JobConcurrency = 4
	}
	if c.MaxRetry <= 0 {
		c.MaxRetry = 3
	}
	if c.StarvationThreshold <= 0 {
		c.StarvationThreshold = 30 * time.Second
	}
	if c.ScoreCadence <= 0 {
		c.ScoreCadence = 2 * time.Second
	}
	if c.ScoreWeights == (ScoreWeights{}) {
		c.ScoreWeights = ScoreWeights{Load: 0.4, Iowait: 0.2, Net: 0.2, Mem: 0.2}
	}
	if c.ScoreTTL <= 0 {
		c.ScoreTTL = 10 * time.Second
	}
	if c.NetCapacityBytesPerSec <= 0 {
		c.NetCapacityBytesPerSec = 125_000_000 // 1 Gbit/s
	}
	if c.ElectionTimeoutMin <= 0 {
		c.ElectionTimeoutMin = time.Second
	}
	if c.ElectionTimeoutMax <= 0 {
		c.ElectionTimeoutMax = 2 * time.Second
	}
	if c.AnnounceInterval <= 0 {
		c.AnnounceInterval = 300 * time.Millisecond
	}
	if c.SuspectAfter <= 0 {
		c.SuspectAfter = 6 * time.Second
	}
	if c.DeadAfter <= 0 {
		c.DeadAfter = 15 * time.Second
	}
	if c.ScratchDir == "" {
		c.ScratchDir = "video_shards"
	}
	if c.DataDir == "" {
		c.DataDir = "master_data"
	}
	if c.BackupDir == "" {
		c.BackupDir = "master_data/backup"
	}
	if c.WALPath == "" {
		c.WALPath = c.DataDir + "/wal.log"
	}
	if c.SnapshotPath == "" {
		c.SnapshotPath = c.DataDir + "/snapshot.json"
	}
	if c.SnapshotInterval <= 0 {
		c.SnapshotInterval = 30 * time.Second
	}
	if c.MediaBinary == "" {
		c.MediaBinary = "ffmpeg"
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 4
	}
	if c.MetricsPort <= 0 {
		c.MetricsPort = 9090
	}
	if c.ListenAddress == "" {
		if c.Role == "worker" {
			c.ListenAddress = ":50061"
		} else {
			c.ListenAddress = ":50051"
		}
	}
}
