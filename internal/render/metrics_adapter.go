package render

import (
	"SignalDesk/internal/domain/models"

	"github.com/shopspring/decimal"
)

type renderRecorder interface {
	RecordRender(kind string)
}

// MetricsAdapter counts render callbacks per kind. Gauges are set by the
// sync controller itself.
type MetricsAdapter struct {
	rec renderRecorder
}

func NewMetricsAdapter(rec renderRecorder) *MetricsAdapter {
	return &MetricsAdapter{rec: rec}
}

func (a *MetricsAdapter) OnSignalsChanged([]models.Signal) { a.rec.RecordRender(KindSignals) }
func (a *MetricsAdapter) OnSignalsAdded(string, []models.Signal) {
	a.rec.RecordRender(KindSignalsAdded)
}
func (a *MetricsAdapter) OnPullCompleted(error) { a.rec.RecordRender(KindPull) }
func (a *MetricsAdapter) OnMetricsChanged(models.PerformanceSnapshot, decimal.Decimal) {
	a.rec.RecordRender(KindMetrics)
}
func (a *MetricsAdapter) OnChartChanged([]models.ChartPoint) { a.rec.RecordRender(KindChart) }
func (a *MetricsAdapter) OnConnectionChanged(models.ConnectionStatus) {
	a.rec.RecordRender(KindConnection)
}
func (a *MetricsAdapter) OnClientsChanged(int)  { a.rec.RecordRender(KindClients) }
func (a *MetricsAdapter) OnError(string)        { a.rec.RecordRender(KindError) }
func (a *MetricsAdapter) OnNotification(string) { a.rec.RecordRender(KindNotification) }
