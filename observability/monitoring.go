package observability

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Stats is the point-in-time snapshot served on /metrics.
type Stats struct {
	Requests      uint64            `json:"requests"`
	Rejected      uint64            `json:"rejected"`
	Failures      uint64            `json:"failures"`
	ByLabel       map[string]uint64 `json:"by_label"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	RssBytes      uint64            `json:"rss_bytes"`
	CpuPercent    float64           `json:"cpu_percent"`
}

// Monitor aggregates serving counters plus process self-stats.
type Monitor struct {
	log       *slog.Logger
	startedAt time.Time
	proc      *process.Process

	requests uint64
	rejected uint64
	failures uint64

	mu      sync.Mutex
	byLabel map[string]uint64
}

func NewMonitor(log *slog.Logger) *Monitor {
	// Self-stats are best effort; proc stays nil if the lookup fails.
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("Process self-stats unavailable", "err", err)
		proc = nil
	}
	return &Monitor{
		log:       log,
		startedAt: time.Now().UTC(),
		proc:      proc,
		byLabel:   make(map[string]uint64),
	}
}

func (m *Monitor) IncrRequest() {
	atomic.AddUint64(&m.requests, 1)
}

func (m *Monitor) IncrRejected() {
	atomic.AddUint64(&m.rejected, 1)
}

func (m *Monitor) IncrFailure() {
	atomic.AddUint64(&m.failures, 1)
}

func (m *Monitor) RecordPrediction(label string) {
	m.mu.Lock()
	m.byLabel[label]++
	m.mu.Unlock()
}

// Snapshot copies the counters and samples process memory and CPU.
func (m *Monitor) Snapshot() Stats {
	stats := Stats{
		Requests:      atomic.LoadUint64(&m.requests),
		Rejected:      atomic.LoadUint64(&m.rejected),
		Failures:      atomic.LoadUint64(&m.failures),
		ByLabel:       make(map[string]uint64),
		UptimeSeconds: time.Since(m.startedAt).Seconds(),
	}

	m.mu.Lock()
	for label, count := range m.byLabel {
		stats.ByLabel[label] = count
	}
	m.mu.Unlock()

	if m.proc != nil {
		if memInfo, err := m.proc.MemoryInfo(); err == nil {
			stats.RssBytes = memInfo.RSS
		}
		if cpu, err := m.proc.CPUPercent(); err == nil {
			stats.CpuPercent = cpu
		}
	}
	return stats
}
