package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtmesh/transcode/pkg/types"
)

func TestNewManager(t *testing.T) {
	manager := NewManager("test_snapshot.json")
	assert.NotNil(t, manager)
	assert.Equal(t, "test_snapshot.json", manager.GetPath())
}

func TestWriteAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	snapshotPath := filepath.Join(tempDir, "test_snapshot.json")
	manager := NewManager(snapshotPath)

	originalData := types.SnapshotData{
		Jobs: map[types.JobID]*types.Job{
			"job-001": {
				ID:     "job-001",
				Status: types.JobUploading,
				Shards: []*types.Shard{
					{JobID: "job-001", ShardID: 0, Status: types.ShardPending, Attempt: 0},
				},
			},
			"job-002": {
				ID:     "job-002",
				Status: types.JobProcessing,
				Shards: []*types.Shard{
					{JobID: "job-002", ShardID: 0, Status: types.ShardAssigned, Attempt: 1, AssignedWorkerID: "worker-a"},
				},
			},
			"job-003": {
				ID:        "job-003",
				Status:    types.JobCompleted,
				FinalPath: "/data/job-003/final.mp4",
				Durable:   true,
				Shards: []*types.Shard{
					{JobID: "job-003", ShardID: 0, Status: types.ShardReady, Attempt: 2},
				},
			},
		},
		SchemaVer: 1,
		LastSeq:   100,
	}

	err := manager.Write(originalData)
	require.NoError(t, err)

	loadedData, err := manager.Load()
	require.NoError(t, err)

	assert.Equal(t, originalData.SchemaVer, loadedData.SchemaVer)
	assert.Equal(t, originalData.LastSeq, loadedData.LastSeq)
	assert.Equal(t, len(originalData.Jobs), len(loadedData.Jobs))

	for jobID, originalJob := range originalData.Jobs {
		loadedJob, exists := loadedData.Jobs[jobID]
		require.True(t, exists, "Job %s should exist", jobID)
		assert.Equal(t, originalJob.ID, loadedJob.ID)
		assert.Equal(t, originalJob.Status, loadedJob.Status)
		require.Len(t, loadedJob.Shards, len(originalJob.Shards))
		for i, s := range originalJob.Shards {
			assert.Equal(t, s.Attempt, loadedJob.Shards[i].Attempt)
			assert.Equal(t, s.Status, loadedJob.Shards[i].Status)
		}
	}
}

// TestAtomicWrite covers the temp-file-then-rename write path: a reader
// racing a writer must always see a complete snapshot, old or new, never a
// half-written file.
func TestAtomicWrite(t *testing.T) {
	tempDir := t.TempDir()
	snapshotPath := filepath.Join(tempDir, "test_snapshot.json")
	manager := NewManager(snapshotPath)

	initialData := types.SnapshotData{
		Jobs: map[types.JobID]*types.Job{
			"job-old": {ID: "job-old", Status: types.JobUploading},
		},
		SchemaVer: 1,
		LastSeq:   50,
	}
	err := manager.Write(initialData)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		newData := types.SnapshotData{
			Jobs: map[types.JobID]*types.Job{
				"job-new": {ID: "job-new", Status: types.JobUploading},
			},
			SchemaVer: 1,
			LastSeq:   100,
		}
		err := manager.Write(newData)
		assert.NoError(t, err)
	}()

	var loadedData types.SnapshotData
	go func() {
		defer wg.Done()
		time.Sleep(5 * time.Millisecond)
		data, err := manager.Load()
		assert.NoError(t, err)
		loadedData = data
	}()

	wg.Wait()

	assert.True(t, loadedData.LastSeq == 50 || loadedData.LastSeq == 100,
		"Should load either old (50) or new (100) snapshot, got %d", loadedData.LastSeq)

	tmpPath := snapshotPath + ".tmp"
	_, err = os.Stat(tmpPath)
	assert.True(t, os.IsNotExist(err), "Temp file should not exist after write")
}

func TestExists(t *testing.T) {
	tempDir := t.TempDir()
	snapshotPath := filepath.Join(tempDir, "test_snapshot.json")
	manager := NewManager(snapshotPath)

	assert.False(t, manager.Exists())

	data := types.SnapshotData{
		Jobs:      make(map[types.JobID]*types.Job),
		SchemaVer: 1,
		LastSeq:   0,
	}
	err := manager.Write(data)
	require.NoError(t, err)
	assert.True(t, manager.Exists())
}

// TestFirstBoot covers startup with no snapshot on disk: Load must return an
// empty state, not an error, so a fresh master can still call Start.
func TestFirstBoot(t *testing.T) {
	tempDir := t.TempDir()
	snapshotPath := filepath.Join(tempDir, "non_existent_snapshot.json")
	manager := NewManager(snapshotPath)

	loadedData, err := manager.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, loadedData.SchemaVer)
	assert.Equal(t, uint64(0), loadedData.LastSeq)
	assert.NotNil(t, loadedData.Jobs)
	assert.Equal(t, 0, len(loadedData.Jobs))
}

func TestVersionMismatch(t *testing.T) {
	tempDir := t.TempDir()
	snapshotPath := filepath.Join(tempDir, "test_snapshot.json")
	manager := NewManager(snapshotPath)

	invalidData := types.SnapshotData{
		Jobs:      make(map[types.JobID]*types.Job),
		SchemaVer: 2,
		LastSeq:   0,
	}
	jsonBytes, err := json.MarshalIndent(invalidData, "", "  ")
	require.NoError(t, err)
	err = os.WriteFile(snapshotPath, jsonBytes, 0644)
	require.NoError(t, err)

	_, err = manager.Load()
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func TestCorrupted(t *testing.T) {
	tempDir := t.TempDir()
	snapshotPath := filepath.Join(tempDir, "test_snapshot.json")
	manager := NewManager(snapshotPath)

	corruptedJSON := `{"jobs": {"job-001": {"id": "job-001", "status": "uploading"`
	err := os.WriteFile(snapshotPath, []byte(corruptedJSON), 0644)
	require.NoError(t, err)

	_, err = manager.Load()
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptedSnapshot)
}

func TestWriteFailure(t *testing.T) {
	tempDir := t.TempDir()

	readOnlyDir := filepath.Join(tempDir, "readonly")
	err := os.Mkdir(readOnlyDir, 0444)
	require.NoError(t, err)
	defer os.Chmod(readOnlyDir, 0755)

	snapshotPath := filepath.Join(readOnlyDir, "test_snapshot.json")
	manager := NewManager(snapshotPath)

	data := types.SnapshotData{
		Jobs:      make(map[types.JobID]*types.Job),
		SchemaVer: 1,
		LastSeq:   0,
	}

	err = manager.Write(data)
	assert.Error(t, err)
}

func TestWriteWithBackup(t *testing.T) {
	tempDir := t.TempDir()
	snapshotPath := filepath.Join(tempDir, "test_snapshot.json")
	manager := NewManager(snapshotPath)

	initialData := types.SnapshotData{
		Jobs: map[types.JobID]*types.Job{
			"job-001": {ID: "job-001", Status: types.JobUploading},
		},
		SchemaVer: 1,
		LastSeq:   50,
	}
	err := manager.Write(initialData)
	require.NoError(t, err)

	newData := types.SnapshotData{
		Jobs: map[types.JobID]*types.Job{
			"job-002": {ID: "job-002", Status: types.JobCompleted},
		},
		SchemaVer: 1,
		LastSeq:   100,
	}
	err = manager.WriteWithBackup(newData, 3)
	require.NoError(t, err)

	loadedData, err := manager.Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), loadedData.LastSeq)

	files, err := os.ReadDir(tempDir)
	require.NoError(t, err)

	backupFound := false
	for _, file := range files {
		if file.Name() != "test_snapshot.json" && !file.IsDir() {
			backupFound = true
			break
		}
	}
	assert.True(t, backupFound, "Backup file should exist")
}

func TestLargeSnapshot(t *testing.T) {
	tempDir := t.TempDir()
	snapshotPath := filepath.Join(tempDir, "test_snapshot.json")
	manager := NewManager(snapshotPath)

	largeData := types.SnapshotData{
		Jobs:      make(map[types.JobID]*types.Job),
		SchemaVer: 1,
		LastSeq:   10000,
	}

	for i := 0; i < 1000; i++ {
		jobID := types.JobID(string(rune('a'+i%26)) + string(rune('0'+i/26)))
		largeData.Jobs[jobID] = &types.Job{
			ID:     jobID,
			Status: types.JobUploading,
			Shards: []*types.Shard{
				{JobID: jobID, ShardID: 0, Status: types.ShardPending, Attempt: i % 5},
			},
		}
	}

	start := time.Now()
	err := manager.Write(largeData)
	require.NoError(t, err)
	writeDuration := time.Since(start)
	t.Logf("Write duration for 1000 jobs: %v", writeDuration)

	start = time.Now()
	loadedData, err := manager.Load()
	require.NoError(t, err)
	loadDuration := time.Since(start)
	t.Logf("Load duration for 1000 jobs: %v", loadDuration)

	assert.Equal(t, len(largeData.Jobs), len(loadedData.Jobs))
	assert.Equal(t, largeData.LastSeq, loadedData.LastSeq)

	assert.Less(t, writeDuration, 1*time.Second, "Write should complete in < 1s")
	assert.Less(t, loadDuration, 1*time.Second, "Load should complete in < 1s")
}

func TestConcurrentWrites(t *testing.T) {
	tempDir := t.TempDir()
	snapshotPath := filepath.Join(tempDir, "test_snapshot.json")
	manager := NewManager(snapshotPath)

	numGoroutines := 10
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(index int) {
			defer wg.Done()
			jobID := types.JobID(string(rune('a' + index)))
			data := types.SnapshotData{
				Jobs: map[types.JobID]*types.Job{
					jobID: {ID: jobID, Status: types.JobUploading},
				},
				SchemaVer: 1,
				LastSeq:   uint64(index),
			}
			err := manager.Write(data)
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()

	loadedData, err := manager.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, loadedData.SchemaVer)
	assert.NotNil(t, loadedData.Jobs)
}

func TestConcurrentReads(t *testing.T) {
	tempDir := t.TempDir()
	snapshotPath := filepath.Join(tempDir, "test_snapshot.json")
	manager := NewManager(snapshotPath)

	data := types.SnapshotData{
		Jobs: map[types.JobID]*types.Job{
			"job-001": {ID: "job-001", Status: types.JobUploading},
		},
		SchemaVer: 1,
		LastSeq:   100,
	}
	err := manager.Write(data)
	require.NoError(t, err)

	numGoroutines := 20
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			loadedData, err := manager.Load()
			assert.NoError(t, err)
			assert.Equal(t, uint64(100), loadedData.LastSeq)
			assert.Equal(t, 1, len(loadedData.Jobs))
		}()
	}

	wg.Wait()
}

func BenchmarkWrite(b *testing.B) {
	tempDir := b.TempDir()
	snapshotPath := filepath.Join(tempDir, "benchmark_snapshot.json")
	manager := NewManager(snapshotPath)

	data := types.SnapshotData{
		Jobs: map[types.JobID]*types.Job{
			"job-001": {ID: "job-001", Status: types.JobUploading},
		},
		SchemaVer: 1,
		LastSeq:   100,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = manager.Write(data)
	}
}

func BenchmarkLoad(b *testing.B) {
	tempDir := b.TempDir()
	snapshotPath := filepath.Join(tempDir, "benchmark_snapshot.json")
	manager := NewManager(snapshotPath)

	data := types.SnapshotData{
		Jobs: map[types.JobID]*types.Job{
			"job-001": {ID: "job-001", Status: types.JobUploading},
		},
		SchemaVer: 1,
		LastSeq:   100,
	}
	_ = manager.Write(data)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = manager.Load()
	}
}
