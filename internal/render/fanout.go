// Package render holds the adapters that consume dashboard state changes.
package render

import (
	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"

	"github.com/shopspring/decimal"
)

// View kinds shared by the cache, Kafka and metrics adapters.
const (
	KindSignals      = "signals"
	KindMetrics      = "metrics"
	KindChart        = "chart"
	KindConnection   = "connection"
	KindClients      = "clients"
	KindError        = "error"
	KindNotification = "notification"
	KindSignalsAdded = "signals_added"
	KindPull         = "pull"
)

// submitter is the part of Dispatcher the async adapters need.
type submitter interface {
	Submit(job Job) bool
}

// Fanout forwards every callback to each adapter in order.
type Fanout []domrepo.RenderAdapter

func (f Fanout) OnSignalsChanged(view []models.Signal) {
	for _, a := range f {
		a.OnSignalsChanged(view)
	}
}

func (f Fanout) OnSignalsAdded(source string, added []models.Signal) {
	for _, a := range f {
		a.OnSignalsAdded(source, added)
	}
}

func (f Fanout) OnPullCompleted(err error) {
	for _, a := range f {
		a.OnPullCompleted(err)
	}
}

func (f Fanout) OnMetricsChanged(snapshot models.PerformanceSnapshot, winRate decimal.Decimal) {
	for _, a := range f {
		a.OnMetricsChanged(snapshot, winRate)
	}
}

func (f Fanout) OnChartChanged(points []models.ChartPoint) {
	for _, a := range f {
		a.OnChartChanged(points)
	}
}

func (f Fanout) OnConnectionChanged(status models.ConnectionStatus) {
	for _, a := range f {
		a.OnConnectionChanged(status)
	}
}

func (f Fanout) OnClientsChanged(count int) {
	for _, a := range f {
		a.OnClientsChanged(count)
	}
}

func (f Fanout) OnError(message string) {
	for _, a := range f {
		a.OnError(message)
	}
}

func (f Fanout) OnNotification(message string) {
	for _, a := range f {
		a.OnNotification(message)
	}
}

var _ domrepo.RenderAdapter = Fanout(nil)
