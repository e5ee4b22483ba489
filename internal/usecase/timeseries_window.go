package usecase

import (
	"sync"

	"SignalDesk/internal/domain/models"

	"github.com/shopspring/decimal"
)

// TimeSeriesWindow is a FIFO buffer of chart samples, oldest-first.
type TimeSeriesWindow struct {
	mu       sync.RWMutex
	points   []models.ChartPoint
	capacity int
}

func NewTimeSeriesWindow(capacity int) *TimeSeriesWindow {
	if capacity <= 0 {
		capacity = 20
	}
	return &TimeSeriesWindow{
		points:   make([]models.ChartPoint, 0, capacity+1),
		capacity: capacity,
	}
}

// Append adds a sample at the end, dropping exactly one sample from the front
// on overflow. Labels are not deduplicated.
func (w *TimeSeriesWindow) Append(label string, value decimal.Decimal) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.points = append(w.points, models.ChartPoint{Label: label, Value: value})
	if len(w.points) > w.capacity {
		copy(w.points, w.points[1:])
		w.points = w.points[:len(w.points)-1]
	}
}

// Points returns a copy of the samples, oldest-first.
func (w *TimeSeriesWindow) Points() []models.ChartPoint {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]models.ChartPoint, len(w.points))
	copy(out, w.points)
	return out
}

func (w *TimeSeriesWindow) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.points)
}

func (w *TimeSeriesWindow) Capacity() int { return w.capacity }
