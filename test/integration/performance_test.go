// Package integration's performance suite measures job throughput under
// concurrent submission and crash-recovery latency against the same fake
// worker/fake media tool setup the rest of this package uses.
package integration

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vtmesh/transcode/pkg/types"
)

// TestConcurrentJobThroughput submits jobCount jobs concurrently and
// measures how long the dispatch loop takes to drive them all to a
// terminal status against one fake worker.
func TestConcurrentJobThroughput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping throughput measurement in short mode")
	}

	worker := &fakeWorker{}
	c := newTestController(t, worker)
	require.NoError(t, c.Start())
	defer c.Stop()

	const jobCount = 50

	start := time.Now()

	var wg sync.WaitGroup
	jobIDs := make([]types.JobID, jobCount)
	for i := 0; i < jobCount; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			jobIDs[i] = submitJob(t, c, fmt.Sprintf("throughput-%d.mp4", i))
		}(i)
	}
	wg.Wait()

	completed := 0
	for _, jobID := range jobIDs {
		if status, ok := waitForTerminal(c, jobID, 20*time.Second); ok && status == string(types.JobCompleted) {
			completed++
		}
	}

	elapsed := time.Since(start)
	throughput := float64(completed) / elapsed.Seconds()

	t.Logf("completed %d/%d jobs in %v (%.1f jobs/s)", completed, jobCount, elapsed, throughput)
	require.GreaterOrEqual(t, completed, jobCount*9/10, "at least 90%% of jobs should complete against a healthy fake worker")
}

// TestRecoveryPerformance measures how long Start's recovery path takes
// against a snapshot and WAL left behind by a prior run with jobs in
// flight — the target this mirrors is the same sub-few-seconds budget a
// real master's restart needs to meet to keep a cluster's failover fast.
func TestRecoveryPerformance(t *testing.T) {
	dir := t.TempDir()

	c1 := newTestControllerAt(t, dir, &fakeWorker{})
	require.NoError(t, c1.Start())

	const jobCount = 20
	for i := 0; i < jobCount; i++ {
		submitJob(t, c1, fmt.Sprintf("recovery-perf-%d.mp4", i))
	}
	time.Sleep(500 * time.Millisecond)
	c1.Stop()

	start := time.Now()
	c2 := newTestControllerAt(t, dir, &fakeWorker{})
	require.NoError(t, c2.Start())
	recoveryTime := time.Since(start)
	defer c2.Stop()

	t.Logf("recovery time for %d jobs: %v", jobCount, recoveryTime)
	require.Less(t, recoveryTime, 3*time.Second, "recovery should stay well under the failover budget even with jobs in flight")
}
