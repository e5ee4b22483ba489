package usecase

import (
	"time"

	"SignalDesk/internal/domain/models"

	"github.com/shopspring/decimal"
)

// Dashboard is the explicit context object holding every store of the live
// view. It is built once at startup and handed to the view layer; it is never
// reached through package-level state.
type Dashboard struct {
	Signals     *SignalStore
	Performance *MetricsAggregator
	Chart       *TimeSeriesWindow
	Connection  *ConnectionMonitor

	sync *SyncController
}

// DashboardConfig sizes the bounded stores.
type DashboardConfig struct {
	ListCapacity  int
	ChartCapacity int
	Dedup         bool
}

func NewDashboard(cfg DashboardConfig) *Dashboard {
	return &Dashboard{
		Signals:     NewSignalStore(cfg.ListCapacity, WithDedup(cfg.Dedup)),
		Performance: NewMetricsAggregator(),
		Chart:       NewTimeSeriesWindow(cfg.ChartCapacity),
		Connection:  NewConnectionMonitor(),
	}
}

// Sync returns the controller attached by NewSyncController.
func (d *Dashboard) Sync() *SyncController { return d.sync }

// SignalsView returns at most limit signals of the projection selected by vq.
func (d *Dashboard) SignalsView(vq ViewQuery, limit int) []models.Signal {
	out := Apply(d.Signals.All(), vq)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MetricsView is the read model of the performance panel.
type MetricsView struct {
	Snapshot models.PerformanceSnapshot `json:"snapshot"`
	WinRate  decimal.Decimal            `json:"win_rate"`
	LossRate decimal.Decimal            `json:"loss_rate"`
}

func (d *Dashboard) MetricsView() MetricsView {
	return MetricsView{
		Snapshot: d.Performance.Snapshot(),
		WinRate:  d.Performance.WinRate(),
		LossRate: d.Performance.LossRate(),
	}
}

// DistributionView is the BUY/SELL split of the held signals.
type DistributionView struct {
	Buy  int `json:"buy"`
	Sell int `json:"sell"`
}

func (d *Dashboard) DistributionView() DistributionView {
	buy, sell := Distribution(d.Signals.All())
	return DistributionView{Buy: buy, Sell: sell}
}

// StatusView summarizes connectivity and sync progress.
type StatusView struct {
	Connection models.ConnectionStatus `json:"connection"`
	Clients    int                     `json:"clients"`
	State      models.SyncState        `json:"state"`
	LastUpdate *time.Time              `json:"last_update,omitempty"`
	Signals    int                     `json:"signals"`
}

func (d *Dashboard) StatusView() StatusView {
	v := StatusView{
		Connection: d.Connection.Status(),
		Clients:    d.Connection.Clients(),
		State:      models.StateUninitialized,
		Signals:    d.Signals.Len(),
	}
	if d.sync != nil {
		v.State = d.sync.State()
		if t := d.sync.LastUpdate(); !t.IsZero() {
			v.LastUpdate = &t
		}
	}
	return v
}
