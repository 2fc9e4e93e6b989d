package monitor

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// LoadMetrics reports current transcription job load.
type LoadMetrics struct {
	ActiveJobs     int64   `json:"active_jobs"`
	MaxJobs        int64   `json:"max_jobs"`
	LoadPercentage float64 `json:"load_percentage"`
}

// LoadMonitor bounds the number of in-flight model transcription jobs.
// Each upload holds one slot for the lifetime of the model call.
type LoadMonitor interface {
	GetMetrics() LoadMetrics

	// IsHealthy reports whether the gateway should advertise itself as
	// able to accept transcription work.
	IsHealthy() bool

	// TryAcquire attempts to take a job slot without blocking. The caller
	// MUST call Release() when the job completes.
	TryAcquire() bool

	Release()
}

// SemaphoreLoadMonitor implements LoadMonitor on a weighted semaphore.
type SemaphoreLoadMonitor struct {
	sem       *semaphore.Weighted
	maxJobs   int64
	activeCnt atomic.Int64
	threshold float64
}

// NewSemaphoreLoadMonitor creates a monitor allowing maxJobs concurrent
// jobs. healthThreshold (0.0-1.0) is the load fraction above which the
// gateway reports unhealthy.
func NewSemaphoreLoadMonitor(maxJobs int64, healthThreshold float64) *SemaphoreLoadMonitor {
	if healthThreshold < 0.0 {
		healthThreshold = 0.0
	}
	if healthThreshold > 1.0 {
		healthThreshold = 1.0
	}

	return &SemaphoreLoadMonitor{
		sem:       semaphore.NewWeighted(maxJobs),
		maxJobs:   maxJobs,
		threshold: healthThreshold,
	}
}

func (m *SemaphoreLoadMonitor) GetMetrics() LoadMetrics {
	active := m.activeCnt.Load()
	loadPct := 0.0
	if m.maxJobs > 0 {
		loadPct = float64(active) / float64(m.maxJobs) * 100.0
	}

	return LoadMetrics{
		ActiveJobs:     active,
		MaxJobs:        m.maxJobs,
		LoadPercentage: loadPct,
	}
}

func (m *SemaphoreLoadMonitor) IsHealthy() bool {
	return m.GetMetrics().LoadPercentage/100.0 <= m.threshold
}

func (m *SemaphoreLoadMonitor) TryAcquire() bool {
	if m.sem.TryAcquire(1) {
		m.activeCnt.Add(1)
		return true
	}
	return false
}

func (m *SemaphoreLoadMonitor) Release() {
	m.activeCnt.Add(-1)
	m.sem.Release(1)
}

var _ LoadMonitor = (*SemaphoreLoadMonitor)(nil)
