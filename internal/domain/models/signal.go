package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the canonical trade direction of a signal.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
	DirectionHold Direction = "HOLD"
)

// Signal is the canonical, shape-independent signal record.
// Values are built by the normalizer and never mutated afterwards.
type Signal struct {
	Timestamp  string    `json:"timestamp"`
	Asset      string    `json:"asset"`
	Direction  Direction `json:"direction"`
	Timeframe  string    `json:"timeframe"`
	Confidence *float64  `json:"confidence"` // nil = undefined
	// TimestampDefaulted is set when the source sent no timestamp and the
	// normalizer substituted the local time.
	TimestampDefaulted bool `json:"timestamp_defaulted,omitempty"`
}

// SignalKey identifies a signal across pull snapshots and push events.
type SignalKey struct {
	Asset     string
	Timeframe string
	Timestamp string
}

// Keyed reports whether Key identifies the signal. A defaulted timestamp only
// has one-second resolution, so distinct signals would share a key.
func (s Signal) Keyed() bool { return !s.TimestampDefaulted }

// Key returns the (asset, timeframe, timestamp) identity of the signal.
// It is meaningful only when Keyed is true.
func (s Signal) Key() SignalKey {
	return SignalKey{Asset: s.Asset, Timeframe: s.Timeframe, Timestamp: s.Timestamp}
}

// ConfidenceText renders the confidence the way the view shows it ("85%" or "-").
func (s Signal) ConfidenceText() string {
	if s.Confidence == nil {
		return "-"
	}
	return strconv.FormatFloat(*s.Confidence, 'f', -1, 64) + "%"
}

// RawSignal is the union of both observed wire shapes:
//
//	{asset|symbol, direction|signal, timeframe, confidence, timestamp|time}
//
// Every field is lenient; a garbled value decodes as absent. When both
// spellings are present the canonical one wins: asset over symbol,
// direction over signal, timestamp over time.
type RawSignal struct {
	Asset      LenientString `json:"asset"`
	Symbol     LenientString `json:"symbol"`
	Direction  LenientString `json:"direction"`
	Signal     LenientString `json:"signal"`
	Timeframe  LenientString `json:"timeframe"`
	Confidence LenientFloat  `json:"confidence"`
	Timestamp  LenientString `json:"timestamp"`
	Time       LenientString `json:"time"`
}

// LenientString accepts a JSON string or number. Anything else is treated as absent.
type LenientString struct {
	Value string
	Valid bool
}

func (s *LenientString) UnmarshalJSON(b []byte) error {
	*s = LenientString{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		s.Value, s.Valid = str, str != ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		s.Value, s.Valid = n.String(), true
	}
	return nil
}

// String returns the value or def when absent.
func (s LenientString) String(def string) string {
	if !s.Valid {
		return def
	}
	return s.Value
}

// LenientFloat accepts a JSON number or a numeric string (optionally suffixed with "%").
type LenientFloat struct {
	Value float64
	Valid bool
}

func (f *LenientFloat) UnmarshalJSON(b []byte) error {
	*f = LenientFloat{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err == nil {
		f.Value, f.Valid = v, true
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		str = strings.TrimSuffix(strings.TrimSpace(str), "%")
		if v, err := strconv.ParseFloat(str, 64); err == nil {
			f.Value, f.Valid = v, true
		}
	}
	return nil
}

// PerformanceSnapshot is the aggregate performance reported by the feed.
// WinningSignals+LosingSignals <= TotalSignals is NOT guaranteed by the source.
type PerformanceSnapshot struct {
	TotalSignals   int64           `json:"total_signals"`
	WinningSignals int64           `json:"winning_signals"`
	LosingSignals  int64           `json:"losing_signals"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
}

// ChartPoint is one sample of the rolling profit trend.
type ChartPoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// JournalEntry is one recorded signal observation.
type JournalEntry struct {
	Signal
	ObservedAt time.Time `json:"observed_at"`
	Source     string    `json:"source"`
	SessionID  string    `json:"session_id"`
}

// ConnectionStatus reflects the push transport connectivity.
type ConnectionStatus string

const (
	StatusOffline ConnectionStatus = "Offline"
	StatusOnline  ConnectionStatus = "Online"
)

// SyncState is the state of the sync controller.
type SyncState string

const (
	StateUninitialized SyncState = "uninitialized"
	StateLoading       SyncState = "loading"
	StateReady         SyncState = "ready"
)

// Push event names.
const (
	EventPerformanceUpdate = "performance_update"
	EventNewSignal         = "new_signal"
	EventConnect           = "connect"
	EventDisconnect        = "disconnect"
	EventClientsUpdate     = "clients_update"
)

// PushEvent is a single frame delivered by the push channel.
type PushEvent struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Origins of applied signals.
const (
	SourcePull = "pull"
	SourcePush = "push"
)

// PullResult is one pulled snapshot, newest-first as served. Performance is
// nil when the endpoint variant has no performance resource.
type PullResult struct {
	Signals     []RawSignal
	Performance *PerformanceSnapshot
}

// DecodeRawSignals decodes each element independently. Elements that are not
// JSON objects decode as an empty RawSignal, so one bad row never fails a batch.
func DecodeRawSignals(items []json.RawMessage) []RawSignal {
	out := make([]RawSignal, 0, len(items))
	for _, item := range items {
		var raw RawSignal
		if err := json.Unmarshal(item, &raw); err != nil {
			raw = RawSignal{}
		}
		out = append(out, raw)
	}
	return out
}
