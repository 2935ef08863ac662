// Package metrics exposes the cluster's Prometheus surface: job and shard
// throughput counters, job latency, recovery time, and the election/worker
// gauges a dispatcher needs to pick a placement.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric this node registers with Prometheus.
type Collector struct {
	jobsEnqueued     prometheus.Counter
	shardsDispatched prometheus.Counter
	jobsCompleted    prometheus.Counter
	jobsFailed       prometheus.Counter
	shardsFailed     prometheus.Counter

	jobLatency   prometheus.Histogram
	recoveryTime prometheus.Gauge

	shardsPending  prometheus.Gauge
	shardsInFlight prometheus.Gauge

	electionTerm prometheus.Gauge
	workerScore  *prometheus.GaugeVec
}

// NewCollector builds and registers the metric set. Call once per process;
// registering twice in the same registry panics, which is why cmd/ wiring
// only ever constructs one Collector.
func NewCollector() *Collector {
	c := &Collector{
		jobsEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcode_jobs_enqueued_total",
			Help: "Total number of jobs submitted to the master",
		}),
		shardsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcode_shards_dispatched_total",
			Help: "Total number of shards dispatched to workers",
		}),
		jobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcode_jobs_completed_total",
			Help: "Total number of jobs completed successfully",
		}),
		jobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcode_jobs_failed_total",
			Help: "Total number of jobs that reached a terminal failure",
		}),
		shardsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcode_shards_failed_total",
			Help: "Total number of shard attempts that failed",
		}),
		jobLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "transcode_job_latency_seconds",
			Help:    "End-to-end job latency from enqueue to completion",
			Buckets: prometheus.DefBuckets,
		}),
		recoveryTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "transcode_recovery_time_seconds",
			Help: "Time taken to recover state on the last startup",
		}),
		shardsPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "transcode_shards_pending",
			Help: "Current number of shards waiting for dispatch",
		}),
		shardsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "transcode_shards_in_flight",
			Help: "Current number of shards assigned to or processing on a worker",
		}),
		electionTerm: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "transcode_election_term",
			Help: "This node's current election term",
		}),
		workerScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "transcode_worker_score",
			Help: "Last reported resource score per worker address",
		}, []string{"address"}),
	}

	prometheus.MustRegister(c.jobsEnqueued)
	prometheus.MustRegister(c.shardsDispatched)
	prometheus.MustRegister(c.jobsCompleted)
	prometheus.MustRegister(c.jobsFailed)
	prometheus.MustRegister(c.shardsFailed)
	prometheus.MustRegister(c.jobLatency)
	prometheus.MustRegister(c.recoveryTime)
	prometheus.MustRegister(c.shardsPending)
	prometheus.MustRegister(c.shardsInFlight)
	prometheus.MustRegister(c.electionTerm)
	prometheus.MustRegister(c.workerScore)

	return c
}

// RecordJobEnqueued records a newly submitted job.
func (c *Collector) RecordJobEnqueued() {
	c.jobsEnqueued.Inc()
}

// RecordShardDispatched records a shard handed to a worker.
func (c *Collector) RecordShardDispatched() {
	c.shardsDispatched.Inc()
}

// RecordJobCompleted records a job reaching JobCompleted and its latency.
func (c *Collector) RecordJobCompleted(latencySeconds float64) {
	c.jobsCompleted.Inc()
	c.jobLatency.Observe(latencySeconds)
}

// RecordJobFailed records a job reaching a terminal failure.
func (c *Collector) RecordJobFailed() {
	c.jobsFailed.Inc()
}

// RecordShardFailed records one failed shard attempt, whether or not its
// job later succeeds.
func (c *Collector) RecordShardFailed() {
	c.shardsFailed.Inc()
}

// SetRecoveryTime records how long startup recovery took.
func (c *Collector) SetRecoveryTime(seconds float64) {
	c.recoveryTime.Set(seconds)
}

// UpdateShardStats refreshes the pending/in-flight shard gauges.
func (c *Collector) UpdateShardStats(pending, inFlight int) {
	c.shardsPending.Set(float64(pending))
	c.shardsInFlight.Set(float64(inFlight))
}

// SetElectionTerm records this node's current term.
func (c *Collector) SetElectionTerm(term int64) {
	c.electionTerm.Set(float64(term))
}

// SetWorkerScore records a worker's last reported resource score.
func (c *Collector) SetWorkerScore(address string, score float64) {
	c.workerScore.WithLabelValues(address).Set(score)
}

// StartServer serves the /metrics endpoint for Prometheus to scrape.
func StartServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, nil)
}
