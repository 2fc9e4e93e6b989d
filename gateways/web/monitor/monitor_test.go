package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryAcquireRelease(t *testing.T) {
	m := NewSemaphoreLoadMonitor(2, 0.8)

	require.True(t, m.TryAcquire())
	require.True(t, m.TryAcquire())
	assert.False(t, m.TryAcquire(), "third acquire must fail at capacity 2")

	m.Release()
	assert.True(t, m.TryAcquire())
}

func TestGetMetrics(t *testing.T) {
	m := NewSemaphoreLoadMonitor(4, 0.8)
	require.True(t, m.TryAcquire())

	metrics := m.GetMetrics()
	assert.Equal(t, int64(1), metrics.ActiveJobs)
	assert.Equal(t, int64(4), metrics.MaxJobs)
	assert.InDelta(t, 25.0, metrics.LoadPercentage, 0.01)
}

func TestIsHealthy(t *testing.T) {
	m := NewSemaphoreLoadMonitor(2, 0.5)
	assert.True(t, m.IsHealthy())

	require.True(t, m.TryAcquire())
	assert.True(t, m.IsHealthy(), "50% load is at, not above, the threshold")

	require.True(t, m.TryAcquire())
	assert.False(t, m.IsHealthy())

	m.Release()
	m.Release()
	assert.True(t, m.IsHealthy())
}

func TestThresholdClamped(t *testing.T) {
	m := NewSemaphoreLoadMonitor(1, 7.0)
	require.True(t, m.TryAcquire())
	assert.True(t, m.IsHealthy())

	m2 := NewSemaphoreLoadMonitor(1, -1.0)
	require.True(t, m2.TryAcquire())
	assert.False(t, m2.IsHealthy())
}
