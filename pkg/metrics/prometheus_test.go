package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordPull("ok", 0.1)
	r.RecordPull("ok", 0.2)
	r.RecordPull("error", 0.3)
	r.RecordInvariantViolation("confidence")
	r.RecordStaleDiscard()
	r.SetConnected(true)
	r.SetWinRate(50)

	if got := testutil.ToFloat64(r.pulls.WithLabelValues("ok")); got != 2 {
		t.Fatalf("ok pulls = %v", got)
	}
	if got := testutil.ToFloat64(r.violations.WithLabelValues("confidence")); got != 1 {
		t.Fatalf("violations = %v", got)
	}
	if got := testutil.ToFloat64(r.staleDiscard); got != 1 {
		t.Fatalf("stale = %v", got)
	}
	if got := testutil.ToFloat64(r.connected); got != 1 {
		t.Fatalf("connected = %v", got)
	}
	if got := testutil.ToFloat64(r.winRate); got != 50 {
		t.Fatalf("win rate = %v", got)
	}

	r.SetConnected(false)
	if got := testutil.ToFloat64(r.connected); got != 0 {
		t.Fatalf("connected = %v", got)
	}
}
