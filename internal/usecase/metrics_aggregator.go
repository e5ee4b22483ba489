package usecase

import (
	"sync"

	"SignalDesk/internal/domain/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MetricsAggregator holds the latest performance snapshot (last write wins).
type MetricsAggregator struct {
	mu       sync.RWMutex
	snapshot models.PerformanceSnapshot
}

func NewMetricsAggregator() *MetricsAggregator {
	return &MetricsAggregator{snapshot: models.PerformanceSnapshot{TotalProfit: decimal.Zero}}
}

// Update replaces the current snapshot wholesale.
func (m *MetricsAggregator) Update(s models.PerformanceSnapshot) {
	m.mu.Lock()
	m.snapshot = s
	m.mu.Unlock()
}

// Snapshot returns the current snapshot.
func (m *MetricsAggregator) Snapshot() models.PerformanceSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// WinRate is winning/total*100 rounded to one decimal, or 0 when total is 0.
func (m *MetricsAggregator) WinRate() decimal.Decimal {
	s := m.Snapshot()
	return percentOf(s.WinningSignals, s.TotalSignals)
}

// LossRate is losing/total*100 rounded to one decimal, or 0 when total is 0.
func (m *MetricsAggregator) LossRate() decimal.Decimal {
	s := m.Snapshot()
	return percentOf(s.LosingSignals, s.TotalSignals)
}

func percentOf(part, total int64) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).
		Div(decimal.NewFromInt(total)).
		Mul(hundred).
		Round(1)
}

// sanitizeSnapshot clamps negative counters to zero and reports the fields it touched.
func sanitizeSnapshot(s models.PerformanceSnapshot) (models.PerformanceSnapshot, []string) {
	var fixed []string
	if s.TotalSignals < 0 {
		s.TotalSignals = 0
		fixed = append(fixed, "total_signals")
	}
	if s.WinningSignals < 0 {
		s.WinningSignals = 0
		fixed = append(fixed, "winning_signals")
	}
	if s.LosingSignals < 0 {
		s.LosingSignals = 0
		fixed = append(fixed, "losing_signals")
	}
	return s, fixed
}
