package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pipeline-cli/internal/model"
)

func TestSnapshotScheduler_InvalidSpec(t *testing.T) {
	svc := newTestService(t)

	sched := NewSnapshotScheduler(svc, "not a cron spec")
	err := sched.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot job")
}

func TestSnapshotScheduler_TakesBaselineOnStart(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateDeal(ctx, model.Deal{Name: "Counted", Value: 100})
	require.NoError(t, err)

	sched := NewSnapshotScheduler(svc, "@every 1h")
	require.NoError(t, sched.Start(ctx))
	defer sched.Stop()

	// The baseline snapshot runs in a goroutine; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snaps, err := svc.Snapshots(ctx, 10)
		require.NoError(t, err)
		if len(snaps) > 0 {
			assert.Equal(t, 1, snaps[0].Summary.DealCount)
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("no snapshot taken within deadline")
}
