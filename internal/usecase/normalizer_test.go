package usecase

import (
	"encoding/json"
	"testing"
	"time"

	"SignalDesk/internal/domain/models"
)

func fixedClock() time.Time {
	return time.Date(2024, 1, 1, 12, 30, 0, 0, time.Local)
}

func decodeRaw(t *testing.T, s string) models.RawSignal {
	t.Helper()
	var raw models.RawSignal
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	return raw
}

func TestNormalizeLegacyShapeDefaults(t *testing.T) {
	n := NewNormalizer(fixedClock)
	got := n.Normalize(decodeRaw(t, `{"symbol":"ETH","time":"2024-01-01 10:00:00"}`))

	if got.Asset != "ETH" {
		t.Fatalf("asset = %q", got.Asset)
	}
	if got.Direction != models.DirectionHold {
		t.Fatalf("direction = %q", got.Direction)
	}
	if got.Confidence != nil {
		t.Fatalf("confidence = %v, want undefined", *got.Confidence)
	}
	if got.Timeframe != "-" {
		t.Fatalf("timeframe = %q", got.Timeframe)
	}
	if got.Timestamp != "2024-01-01 10:00:00" {
		t.Fatalf("timestamp = %q", got.Timestamp)
	}
	if got.ConfidenceText() != "-" {
		t.Fatalf("confidence text = %q", got.ConfidenceText())
	}
}

func TestNormalizeCanonicalShape(t *testing.T) {
	n := NewNormalizer(fixedClock)
	got := n.Normalize(decodeRaw(t, `{"asset":"BTC","direction":"SELL","timeframe":"5m","confidence":87.5,"timestamp":"2024-01-01 09:00:00"}`))

	want := models.Signal{Asset: "BTC", Direction: models.DirectionSell, Timeframe: "5m", Timestamp: "2024-01-01 09:00:00"}
	if got.Asset != want.Asset || got.Direction != want.Direction || got.Timeframe != want.Timeframe || got.Timestamp != want.Timestamp {
		t.Fatalf("got %+v", got)
	}
	if got.Confidence == nil || *got.Confidence != 87.5 {
		t.Fatalf("confidence = %v", got.Confidence)
	}
}

func TestNormalizeEmptyPayload(t *testing.T) {
	n := NewNormalizer(fixedClock)
	got := n.Normalize(models.RawSignal{})

	if got.Asset != "N/A" || got.Direction != models.DirectionHold || got.Timeframe != "-" {
		t.Fatalf("unexpected defaults %+v", got)
	}
	if got.Timestamp != "2024-01-01 12:30:00" {
		t.Fatalf("timestamp = %q", got.Timestamp)
	}
	if !got.TimestampDefaulted || got.Keyed() {
		t.Fatalf("defaulted timestamp must not be keyed: %+v", got)
	}
}

func TestNormalizeTimestampDefaultedFlag(t *testing.T) {
	n := NewNormalizer(fixedClock)
	tests := []struct {
		name    string
		payload string
		want    bool
	}{
		{"canonical", `{"asset":"BTC","timestamp":"2024-01-01 09:00:00"}`, false},
		{"legacy", `{"symbol":"BTC","time":"2024-01-01 09:00:00"}`, false},
		{"missing", `{"asset":"BTC"}`, true},
		{"null", `{"asset":"BTC","timestamp":null}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(decodeRaw(t, tt.payload))
			if got.TimestampDefaulted != tt.want {
				t.Fatalf("TimestampDefaulted = %v, want %v", got.TimestampDefaulted, tt.want)
			}
		})
	}
}

func TestNormalizeFieldPrecedence(t *testing.T) {
	n := NewNormalizer(fixedClock)
	got := n.Normalize(decodeRaw(t, `{"asset":"BTC","symbol":"ETH","direction":"SELL","signal":"BUY","timestamp":"2024-01-01 09:00:00","time":"2024-01-01 08:00:00"}`))
	if got.Asset != "BTC" || got.Direction != models.DirectionSell || got.Timestamp != "2024-01-01 09:00:00" {
		t.Fatalf("got %+v", got)
	}
}

func TestNormalizeLenientFields(t *testing.T) {
	n := NewNormalizer(fixedClock)
	got := n.Normalize(decodeRaw(t, `{"symbol":"EURUSD","signal":"Buy/Call","timeframe":60,"confidence":"72%","time":null}`))

	if got.Direction != models.DirectionBuy {
		t.Fatalf("direction = %q", got.Direction)
	}
	if got.Timeframe != "60" {
		t.Fatalf("timeframe = %q", got.Timeframe)
	}
	if got.Confidence == nil || *got.Confidence != 72 {
		t.Fatalf("confidence = %v", got.Confidence)
	}
	if got.ConfidenceText() != "72%" {
		t.Fatalf("confidence text = %q", got.ConfidenceText())
	}
}

func TestNormalizeGarbledFieldsDoNotFail(t *testing.T) {
	n := NewNormalizer(fixedClock)
	got := n.Normalize(decodeRaw(t, `{"asset":{"x":1},"symbol":"SOL","direction":[1],"confidence":"high"}`))

	if got.Asset != "SOL" {
		t.Fatalf("asset = %q", got.Asset)
	}
	if got.Direction != models.DirectionHold {
		t.Fatalf("direction = %q", got.Direction)
	}
	if got.Confidence != nil {
		t.Fatalf("confidence = %v", *got.Confidence)
	}
}

func TestNormalizeClampsConfidence(t *testing.T) {
	n := NewNormalizer(fixedClock)
	tests := []struct {
		in   string
		want float64
	}{
		{`{"confidence":150}`, 100},
		{`{"confidence":-3}`, 0},
		{`{"confidence":0}`, 0},
		{`{"confidence":100}`, 100},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := n.Normalize(decodeRaw(t, tt.in))
			if got.Confidence == nil || *got.Confidence != tt.want {
				t.Fatalf("confidence = %v, want %v", got.Confidence, tt.want)
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := map[string]models.Direction{
		"buy":      models.DirectionBuy,
		"BUY":      models.DirectionBuy,
		"call":     models.DirectionBuy,
		"Sell/Put": models.DirectionSell,
		"put":      models.DirectionSell,
		"hold":     models.DirectionHold,
		"":         models.DirectionHold,
		"sideways": models.DirectionHold,
		" sell ":   models.DirectionSell,
	}
	for in, want := range tests {
		if got := ParseDirection(in); got != want {
			t.Errorf("ParseDirection(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeRawSignalsNeverFailsBatch(t *testing.T) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(`[{"symbol":"A"}, "garbage", 42, {"asset":"B"}]`), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	raws := models.DecodeRawSignals(items)
	if len(raws) != 4 {
		t.Fatalf("len = %d, want 4", len(raws))
	}
	n := NewNormalizer(fixedClock)
	if got := n.Normalize(raws[1]).Asset; got != "N/A" {
		t.Fatalf("garbage row asset = %q", got)
	}
	if got := n.Normalize(raws[3]).Asset; got != "B" {
		t.Fatalf("row 3 asset = %q", got)
	}
}
