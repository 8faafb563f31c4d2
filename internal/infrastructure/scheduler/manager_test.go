package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davomat-inc/davomat/internal/shared/logger"
)

func TestSchedulerManager_RunsAutoLockImmediately(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	var calls atomic.Int32
	job := BatchJobFunc(func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 2, nil
	})
	require.NoError(t, m.RegisterAttendanceJobs(job, time.Hour))
	require.Len(t, m.Jobs(), 1)
	assert.Equal(t, "attendance-auto-lock", m.Jobs()[0].Name())

	m.Start()
	assert.True(t, m.IsStarted())
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
	require.NoError(t, m.Stop())
}

func TestSchedulerManager_ProcessAutoLockSurvivesErrors(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	job := BatchJobFunc(func(ctx context.Context) (int, error) {
		return 0, errors.New("database is down")
	})
	assert.NotPanics(t, func() { m.processAutoLock(context.Background(), job) })
}
