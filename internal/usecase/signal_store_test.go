package usecase

import (
	"fmt"
	"testing"

	"SignalDesk/internal/domain/models"
)

func sig(i int) models.Signal {
	return models.Signal{
		Asset:     fmt.Sprintf("A%d", i),
		Direction: models.DirectionBuy,
		Timeframe: "1m",
		Timestamp: fmt.Sprintf("2024-01-01 10:%02d:00", i%60),
	}
}

func TestSignalStorePrependBounded(t *testing.T) {
	for _, dedup := range []bool{true, false} {
		s := NewSignalStore(20, WithDedup(dedup))
		for i := 1; i <= 45; i++ {
			s.Prepend(sig(i))
			want := i
			if want > 20 {
				want = 20
			}
			if s.Len() != want {
				t.Fatalf("dedup=%v after %d inserts len=%d want %d", dedup, i, s.Len(), want)
			}
		}
		all := s.All()
		if all[0].Asset != "A45" || all[19].Asset != "A26" {
			t.Fatalf("dedup=%v unexpected order: first=%s last=%s", dedup, all[0].Asset, all[19].Asset)
		}
	}
}

func TestSignalStorePrependReturnsEvicted(t *testing.T) {
	s := NewSignalStore(2)
	if ev := s.Prepend(sig(1)); ev != nil {
		t.Fatalf("unexpected eviction")
	}
	s.Prepend(sig(2))
	ev := s.Prepend(sig(3))
	if ev == nil || ev.Asset != "A1" {
		t.Fatalf("evicted = %v, want A1", ev)
	}
}

func TestSignalStoreReplaceAllTruncates(t *testing.T) {
	s := NewSignalStore(20)
	in := make([]models.Signal, 0, 25)
	for i := 1; i <= 25; i++ {
		in = append(in, sig(i))
	}
	s.ReplaceAll(in)

	all := s.All()
	if len(all) != 20 {
		t.Fatalf("len = %d", len(all))
	}
	for i := range all {
		if all[i] != in[i] {
			t.Fatalf("index %d = %+v, want %+v", i, all[i], in[i])
		}
	}
}

func TestSignalStoreReplaceAllIsWholesale(t *testing.T) {
	s := NewSignalStore(5)
	s.Prepend(sig(9))
	s.ReplaceAll([]models.Signal{sig(1)})
	if all := s.All(); len(all) != 1 || all[0].Asset != "A1" {
		t.Fatalf("got %+v", all)
	}
	s.ReplaceAll(nil)
	if s.Len() != 0 {
		t.Fatalf("len = %d", s.Len())
	}
}

func TestSignalStoreDedupOnPrepend(t *testing.T) {
	s := NewSignalStore(5)
	s.ReplaceAll([]models.Signal{sig(3), sig(2), sig(1)})
	s.Prepend(sig(2))

	all := s.All()
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Asset != "A2" || all[1].Asset != "A3" || all[2].Asset != "A1" {
		t.Fatalf("unexpected order %+v", all)
	}
}

func TestSignalStoreDedupDisabledKeepsDuplicates(t *testing.T) {
	s := NewSignalStore(5, WithDedup(false))
	s.Prepend(sig(1))
	s.Prepend(sig(1))
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
}

func TestSignalStoreAllIsCopy(t *testing.T) {
	s := NewSignalStore(5)
	s.Prepend(sig(1))
	all := s.All()
	all[0].Asset = "mutated"
	if s.All()[0].Asset != "A1" {
		t.Fatalf("store mutated through All()")
	}
}

func TestSignalStoreKeepsUnkeyedSignals(t *testing.T) {
	n := NewNormalizer(fixedClock)
	in := make([]models.Signal, 0, 25)
	for i := 0; i < 25; i++ {
		in = append(in, n.Normalize(decodeRaw(t, `{"symbol":"EURUSD","signal":"BUY"}`)))
	}

	s := NewSignalStore(20)
	s.ReplaceAll(in)
	if s.Len() != 20 {
		t.Fatalf("ReplaceAll len = %d, want 20", s.Len())
	}

	s = NewSignalStore(20)
	buy := n.Normalize(decodeRaw(t, `{"asset":"BTC","direction":"BUY","timeframe":"1m"}`))
	sell := n.Normalize(decodeRaw(t, `{"asset":"BTC","direction":"SELL","timeframe":"1m"}`))
	s.Prepend(buy)
	s.Prepend(sell)
	all := s.All()
	if len(all) != 2 || all[0].Direction != models.DirectionSell || all[1].Direction != models.DirectionBuy {
		t.Fatalf("same-second push collapsed: %+v", all)
	}
}

func TestSignalStoreLenUnderDedup(t *testing.T) {
	tests := []struct {
		name     string
		inserts  []models.Signal
		capacity int
		want     int
	}{
		{"distinct below capacity", []models.Signal{sig(1), sig(2), sig(3)}, 5, 3},
		{"distinct above capacity", []models.Signal{sig(1), sig(2), sig(3), sig(4)}, 2, 2},
		{"repeated key", []models.Signal{sig(1), sig(1), sig(1)}, 5, 1},
		{"repeated key among distinct", []models.Signal{sig(1), sig(2), sig(1), sig(3)}, 5, 3},
		{"unkeyed repeats", []models.Signal{
			{Asset: "X", Timestamp: "2024-01-01 10:00:00", TimestampDefaulted: true},
			{Asset: "X", Timestamp: "2024-01-01 10:00:00", TimestampDefaulted: true},
			{Asset: "X", Timestamp: "2024-01-01 10:00:00", TimestampDefaulted: true},
		}, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSignalStore(tt.capacity)
			for _, in := range tt.inserts {
				s.Prepend(in)
			}
			if s.Len() != tt.want {
				t.Fatalf("Prepend len = %d, want %d", s.Len(), tt.want)
			}

			s = NewSignalStore(tt.capacity)
			s.ReplaceAll(tt.inserts)
			if s.Len() != tt.want {
				t.Fatalf("ReplaceAll len = %d, want %d", s.Len(), tt.want)
			}
		})
	}
}
