package integration

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// BenchmarkThroughput measures how many jobs the dispatch loop can drive to
// completion per iteration against a single fake worker.
func BenchmarkThroughput(b *testing.B) {
	worker := &fakeWorker{}
	c := newTestControllerAt(b, b.TempDir(), worker)
	require.NoError(b, c.Start())
	defer c.Stop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		jobID := submitJob(b, c, fmt.Sprintf("bench-%d.mp4", i))
		if _, done := waitForTerminal(c, jobID, 10*time.Second); !done {
			b.Fatalf("job %s never reached a terminal status", jobID)
		}
	}
	b.StopTimer()
}
