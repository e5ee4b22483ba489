package usecase

import (
	"reflect"
	"testing"

	"SignalDesk/internal/domain/models"
)

var filterFixture = []models.Signal{
	{Asset: "BTC", Direction: models.DirectionBuy, Timeframe: "1m", Timestamp: "1"},
	{Asset: "ETH", Direction: models.DirectionSell, Timeframe: "5m", Timestamp: "2"},
	{Asset: "btc", Direction: models.DirectionHold, Timeframe: "1M", Timestamp: "3"},
	{Asset: "BTC", Direction: models.DirectionSell, Timeframe: "15m", Timestamp: "4"},
}

func TestByAssetAll(t *testing.T) {
	got := ByAsset(filterFixture, "all")
	if !reflect.DeepEqual(got, filterFixture) {
		t.Fatalf("all filter changed input: %+v", got)
	}
}

func TestByAssetExactCaseSensitive(t *testing.T) {
	got := ByAsset(filterFixture, "BTC")
	if len(got) != 2 || got[0].Timestamp != "1" || got[1].Timestamp != "4" {
		t.Fatalf("got %+v", got)
	}
	if len(ByAsset(filterFixture, "BT")) != 0 {
		t.Fatalf("partial asset must not match")
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"buy", []string{"1"}},
		{"BTC", []string{"1", "3", "4"}},
		{"sell", []string{"2", "4"}},
		{"5m", []string{"2", "4"}},
		{"1M", []string{"3"}},
		{"1m", []string{"1"}},
		{"", []string{"1", "2", "3", "4"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got []string
			for _, s := range Search(filterFixture, tt.query) {
				got = append(got, s.Timestamp)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFiltersAreIdempotent(t *testing.T) {
	once := Search(filterFixture, "s")
	twice := Search(once, "s")
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("search not idempotent")
	}
	a := ByAsset(filterFixture, "ETH")
	if !reflect.DeepEqual(a, ByAsset(a, "ETH")) {
		t.Fatalf("byAsset not idempotent")
	}
}

func TestApplyAndDistribution(t *testing.T) {
	got := Apply(filterFixture, ViewQuery{Asset: "BTC", Query: "sell"})
	if len(got) != 1 || got[0].Timestamp != "4" {
		t.Fatalf("got %+v", got)
	}
	buy, sell := Distribution(filterFixture)
	if buy != 1 || sell != 2 {
		t.Fatalf("distribution = %d/%d", buy, sell)
	}
}
