package tasks

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "okuyamayanlar.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	// Queue database lives next to the main one
	tasksDBPath := filepath.Join(tmpDir, "okuyamayanlar-tasks.db")
	_, err = os.Stat(tasksDBPath)
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "okuyamayanlar.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

type countingCleaner struct {
	calls atomic.Int32
}

func (c *countingCleaner) DeleteOldRead(retention time.Duration) (int64, error) {
	c.calls.Add(1)
	return 3, nil
}

func TestCleanupNotificationsProcessed(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "okuyamayanlar.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	cleaner := &countingCleaner{}
	client.Register(NewCleanupNotificationsQueue(cleaner))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(CleanupNotificationsTask{RetentionDays: 30}).Save()
	require.NoError(t, err)
	require.Len(t, ids, 1)

	// Wait for the worker to pick it up
	deadline := time.Now().Add(5 * time.Second)
	for cleaner.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(25 * time.Millisecond)
	}
	assert.Equal(t, int32(1), cleaner.calls.Load())

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	client.Stop(stopCtx)
}

func TestQueueConfigNames(t *testing.T) {
	// Queue names are part of the persisted schema; renaming one strands
	// already-enqueued tasks
	assert.Equal(t, "overdue_scan", OverdueScanTask{}.Config().Name)
	assert.Equal(t, "cleanup_notifications", CleanupNotificationsTask{}.Config().Name)
	assert.Equal(t, "badge_recount", BadgeRecountTask{}.Config().Name)
}

// Compile-time interface checks for queue dependencies
var (
	_ backlite.Task = OverdueScanTask{}
	_ backlite.Task = CleanupNotificationsTask{}
	_ backlite.Task = BadgeRecountTask{}
)
