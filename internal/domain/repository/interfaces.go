package repository

import (
	"context"

	"SignalDesk/internal/domain/models"

	"github.com/shopspring/decimal"
)

// SignalSource pulls a full authoritative snapshot from the feed.
type SignalSource interface {
	Pull(ctx context.Context) (*models.PullResult, error)
}

// PushStream delivers unsolicited incremental events. Reconnection is owned
// by the implementation; it reports connectivity as connect/disconnect events.
type PushStream interface {
	Events(ctx context.Context) (<-chan models.PushEvent, <-chan error)
	Close() error
}

// RenderAdapter consumes state changes. Callbacks are invoked from the sync
// loop and must not block for long.
//
// OnSignalsChanged receives the filtered view. OnSignalsAdded receives the
// unfiltered signals applied by a pull (the stored snapshot) or a push (one
// signal). OnPullCompleted reports the outcome of every pull; err is nil on
// success.
type RenderAdapter interface {
	OnSignalsChanged(view []models.Signal)
	OnSignalsAdded(source string, added []models.Signal)
	OnPullCompleted(err error)
	OnMetricsChanged(snapshot models.PerformanceSnapshot, winRate decimal.Decimal)
	OnChartChanged(points []models.ChartPoint)
	OnConnectionChanged(status models.ConnectionStatus)
	OnClientsChanged(count int)
	OnError(message string)
	OnNotification(message string)
}

// SignalJournal records observed signals for later inspection.
type SignalJournal interface {
	Record(ctx context.Context, source string, signals []models.Signal) error
	Close() error
}

// ViewPublisher publishes view changes to downstream consumers.
type ViewPublisher interface {
	PublishView(ctx context.Context, kind string, payload interface{}) error
	Close() error
}

type Metrics interface {
	RecordPull(result string, seconds float64)
	RecordPush(event string)
	RecordError(kind string)
	RecordInvariantViolation(field string)
	RecordStaleDiscard()
	SetSignals(n int)
	SetWinRate(v float64)
	SetTotalProfit(v float64)
	SetConnected(online bool)
	SetClients(n int)
}
