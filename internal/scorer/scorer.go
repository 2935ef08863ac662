// Package scorer samples local resource usage and turns it into a single
// score the master can compare across workers when choosing where to send
// the next shard. Lower is better: a score is a weighted estimate of how
// loaded the node already is.
package scorer

import (
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

// Weights controls how much each dimension contributes to the composite
// score: score = w1*load_normalized + w2*iowait + w3*net_util +
// w4*mem_util. Weights are expected to sum to 1.
type Weights struct {
	Load   float64
	Iowait float64
	Net    float64
	Mem    float64
}

// DefaultWeights matches the default split: load average weighted
// heaviest since transcoding is CPU-bound, the rest split evenly.
func DefaultWeights() Weights {
	return Weights{Load: 0.4, Iowait: 0.2, Net: 0.2, Mem: 0.2}
}

// Sample is one point-in-time resource reading, every dimension already
// normalized to a 0-100 scale so Score can combine them directly.
type Sample struct {
	LoadNormalized float64
	IowaitPercent  float64
	NetUtilPercent float64
	MemPercent     float64
	SampledAt      time.Time
}

// Sampler takes periodic readings of the local machine. It keeps the
// previous cpu.Times and net.IOCounters reading so each call to Sample
// can report iowait and network throughput as a rate since the last
// call, the same way cpu.Percent derives a percentage internally.
type Sampler struct {
	mu sync.Mutex

	weights            Weights
	ncpu               int
	netCapacityBytesPS float64

	prevCPU     cpu.TimesStat
	prevNet     net.IOCountersStat
	prevSampled time.Time
	havePrev    bool
}

// New creates a sampler. ncpu normalizes load average across machines
// with different core counts. netCapacityBytesPS is the throughput
// treated as 100% network utilization; callers without a real NIC
// budget can pass 0 to fall back to a 1 Gbit/s assumption.
func New(weights Weights, ncpu int, netCapacityBytesPS float64) *Sampler {
	if ncpu <= 0 {
		ncpu = 1
	}
	if netCapacityBytesPS <= 0 {
		netCapacityBytesPS = 125_000_000 // 1 Gbit/s
	}
	return &Sampler{weights: weights, ncpu: ncpu, netCapacityBytesPS: netCapacityBytesPS}
}

// Sample reads load average, CPU iowait, network throughput, and memory.
// The first call on a fresh Sampler has no prior reading to diff against,
// so it reports zero for iowait and network and only starts producing
// real deltas from the second call on; callers on a ticker already call
// this repeatedly, so the warm-up cost is paid once at startup.
func (s *Sampler) Sample() (Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	avg, err := load.Avg()
	if err != nil {
		return Sample{}, fmt.Errorf("sample load: %w", err)
	}
	loadNormalized := clampPercent(avg.Load1 / float64(s.ncpu) * 100)

	cpuTimes, err := cpu.Times(false)
	if err != nil {
		return Sample{}, fmt.Errorf("sample cpu times: %w", err)
	}
	if len(cpuTimes) == 0 {
		return Sample{}, fmt.Errorf("sample cpu times: no data returned")
	}
	curCPU := cpuTimes[0]

	netCounters, err := net.IOCounters(false)
	if err != nil {
		return Sample{}, fmt.Errorf("sample net io: %w", err)
	}
	if len(netCounters) == 0 {
		return Sample{}, fmt.Errorf("sample net io: no data returned")
	}
	curNet := netCounters[0]

	vmem, err := mem.VirtualMemory()
	if err != nil {
		return Sample{}, fmt.Errorf("sample memory: %w", err)
	}

	var iowaitPercent, netUtilPercent float64
	if s.havePrev {
		elapsed := now.Sub(s.prevSampled).Seconds()
		if elapsed > 0 {
			iowaitPercent = clampPercent(100 * (curCPU.Iowait - s.prevCPU.Iowait) / elapsed / float64(s.ncpu))

			bytesDelta := float64((curNet.BytesSent - s.prevNet.BytesSent) + (curNet.BytesRecv - s.prevNet.BytesRecv))
			netUtilPercent = clampPercent(100 * (bytesDelta / elapsed) / s.netCapacityBytesPS)
		}
	}

	s.prevCPU = curCPU
	s.prevNet = curNet
	s.prevSampled = now
	s.havePrev = true

	return Sample{
		LoadNormalized: loadNormalized,
		IowaitPercent:  iowaitPercent,
		NetUtilPercent: netUtilPercent,
		MemPercent:     vmem.UsedPercent,
		SampledAt:      now,
	}, nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Score combines a sample into a single weighted number in [0, 100]:
// score = w1*load_normalized + w2*iowait + w3*net_util + w4*mem_util.
func (s *Sampler) Score(sample Sample) float64 {
	return s.weights.Load*sample.LoadNormalized +
		s.weights.Iowait*sample.IowaitPercent +
		s.weights.Net*sample.NetUtilPercent +
		s.weights.Mem*sample.MemPercent
}

// StaleAfter is the default score_ttl: how long a reported score is
// trusted before a consumer should treat it as unknown and bucket it as
// neutral rather than scheduling against a stale number.
const StaleAfter = 10 * time.Second

// NeutralScore is what a consumer should substitute for a score that has
// gone stale per StaleAfter/score_ttl, rather than trusting a frozen
// reading or excluding the node outright.
const NeutralScore = 50.0
