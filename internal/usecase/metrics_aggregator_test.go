package usecase

import (
	"testing"

	"SignalDesk/internal/domain/models"

	"github.com/shopspring/decimal"
)

func TestWinRate(t *testing.T) {
	tests := []struct {
		name string
		snap models.PerformanceSnapshot
		want string
	}{
		{"zero total", models.PerformanceSnapshot{}, "0"},
		{"half", models.PerformanceSnapshot{TotalSignals: 10, WinningSignals: 5}, "50"},
		{"rounded", models.PerformanceSnapshot{TotalSignals: 3, WinningSignals: 2}, "66.7"},
		{"inconsistent counters", models.PerformanceSnapshot{TotalSignals: 2, WinningSignals: 3, LosingSignals: 4}, "150"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMetricsAggregator()
			m.Update(tt.snap)
			if got := m.WinRate(); !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("WinRate = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWinRateFormatsOneDecimal(t *testing.T) {
	m := NewMetricsAggregator()
	m.Update(models.PerformanceSnapshot{TotalSignals: 10, WinningSignals: 5})
	if got := m.WinRate().StringFixed(1); got != "50.0" {
		t.Fatalf("WinRate = %s, want 50.0", got)
	}
}

func TestUpdateIsLastWriteWins(t *testing.T) {
	m := NewMetricsAggregator()
	m.Update(models.PerformanceSnapshot{TotalSignals: 10, WinningSignals: 5, TotalProfit: decimal.NewFromInt(7)})
	m.Update(models.PerformanceSnapshot{TotalSignals: 4, LosingSignals: 1})

	got := m.Snapshot()
	if got.TotalSignals != 4 || got.WinningSignals != 0 || !got.TotalProfit.IsZero() {
		t.Fatalf("snapshot was merged: %+v", got)
	}
	if !m.LossRate().Equal(decimal.NewFromInt(25)) {
		t.Fatalf("LossRate = %s", m.LossRate())
	}
}

func TestSanitizeSnapshot(t *testing.T) {
	s, fixed := sanitizeSnapshot(models.PerformanceSnapshot{TotalSignals: -1, WinningSignals: 2, LosingSignals: -5})
	if s.TotalSignals != 0 || s.LosingSignals != 0 || s.WinningSignals != 2 {
		t.Fatalf("unexpected %+v", s)
	}
	if len(fixed) != 2 {
		t.Fatalf("fixed = %v", fixed)
	}
}
