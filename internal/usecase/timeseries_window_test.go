package usecase

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTimeSeriesWindowKeepsLastSamples(t *testing.T) {
	const capacity, extra = 20, 7
	w := NewTimeSeriesWindow(capacity)
	for i := 0; i < capacity+extra; i++ {
		w.Append(fmt.Sprintf("t%d", i), decimal.NewFromInt(int64(i)))
		if w.Len() > capacity {
			t.Fatalf("len %d exceeds capacity", w.Len())
		}
	}

	pts := w.Points()
	if len(pts) != capacity {
		t.Fatalf("len = %d", len(pts))
	}
	for i, p := range pts {
		want := int64(i + extra)
		if !p.Value.Equal(decimal.NewFromInt(want)) || p.Label != fmt.Sprintf("t%d", want) {
			t.Fatalf("point %d = %+v, want t%d", i, p, want)
		}
	}
}

func TestTimeSeriesWindowNoDedup(t *testing.T) {
	w := NewTimeSeriesWindow(3)
	w.Append("10:00:00", decimal.NewFromInt(1))
	w.Append("10:00:00", decimal.NewFromInt(1))
	if w.Len() != 2 {
		t.Fatalf("len = %d, want 2", w.Len())
	}
}
