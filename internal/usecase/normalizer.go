package usecase

import (
	"strings"
	"time"

	"SignalDesk/internal/domain/models"
)

// Defaults substituted for missing signal fields.
const (
	DefaultAsset     = "N/A"
	DefaultTimeframe = "-"
	TimestampLayout  = "2006-01-02 15:04:05"
)

// Normalizer maps either wire shape into the canonical Signal.
// It never fails: missing or garbled fields fall back to defaults.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a normalizer. A nil clock means time.Now.
func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

// Normalize converts a raw payload into a canonical signal.
func (n *Normalizer) Normalize(raw models.RawSignal) models.Signal {
	s := models.Signal{
		Asset:     firstOf(raw.Asset, raw.Symbol, DefaultAsset),
		Direction: ParseDirection(firstOf(raw.Direction, raw.Signal, "")),
		Timeframe: raw.Timeframe.String(DefaultTimeframe),
		Timestamp: firstOf(raw.Timestamp, raw.Time, ""),
	}
	if s.Timestamp == "" {
		s.Timestamp = n.now().Local().Format(TimestampLayout)
		s.TimestampDefaulted = true
	}
	if raw.Confidence.Valid {
		c, _ := ClampConfidence(raw.Confidence.Value)
		s.Confidence = &c
	}
	return s
}

// ParseDirection maps source direction strings onto BUY/SELL/HOLD.
// Values like "Buy/Call" are matched on their first token.
func ParseDirection(v string) models.Direction {
	v = strings.ToUpper(strings.TrimSpace(v))
	if i := strings.IndexAny(v, "/ "); i > 0 {
		v = v[:i]
	}
	switch v {
	case "BUY", "CALL", "UP", "LONG":
		return models.DirectionBuy
	case "SELL", "PUT", "DOWN", "SHORT":
		return models.DirectionSell
	default:
		return models.DirectionHold
	}
}

// ClampConfidence clamps v into [0,100]. The bool reports whether v was out of range.
func ClampConfidence(v float64) (float64, bool) {
	switch {
	case v != v: // NaN
		return 0, true
	case v < 0:
		return 0, true
	case v > 100:
		return 100, true
	}
	return v, false
}

func firstOf(a, b models.LenientString, def string) string {
	if a.Valid {
		return a.Value
	}
	return b.String(def)
}
