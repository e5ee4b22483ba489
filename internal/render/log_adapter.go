package render

import (
	"SignalDesk/internal/domain/models"
	applogger "SignalDesk/pkg/logger"

	"github.com/shopspring/decimal"
)

// LogAdapter renders state changes as structured log lines.
type LogAdapter struct {
	l *applogger.Logger
}

func NewLogAdapter(l *applogger.Logger) *LogAdapter {
	if l == nil {
		l = applogger.Nop()
	}
	return &LogAdapter{l: l.With(applogger.String("component", "render"))}
}

func (a *LogAdapter) OnSignalsChanged(view []models.Signal) {
	fields := []applogger.Field{applogger.Int("count", len(view))}
	if len(view) > 0 {
		fields = append(fields,
			applogger.String("latest_asset", view[0].Asset),
			applogger.String("latest_direction", string(view[0].Direction)),
		)
	}
	a.l.Debug("signals changed", fields...)
}

func (a *LogAdapter) OnSignalsAdded(source string, added []models.Signal) {
	a.l.Debug("signals added", applogger.String("source", source), applogger.Int("count", len(added)))
}

func (a *LogAdapter) OnPullCompleted(err error) {
	if err != nil {
		a.l.Debug("pull failed", applogger.Error(err))
		return
	}
	a.l.Debug("pull completed")
}

func (a *LogAdapter) OnMetricsChanged(s models.PerformanceSnapshot, winRate decimal.Decimal) {
	a.l.Info("performance updated",
		applogger.Int64("total_signals", s.TotalSignals),
		applogger.Int64("winning_signals", s.WinningSignals),
		applogger.Int64("losing_signals", s.LosingSignals),
		applogger.Stringer("total_profit", s.TotalProfit),
		applogger.String("win_rate", winRate.StringFixed(1)),
	)
}

func (a *LogAdapter) OnChartChanged(points []models.ChartPoint) {
	a.l.Debug("chart changed", applogger.Int("points", len(points)))
}

func (a *LogAdapter) OnConnectionChanged(status models.ConnectionStatus) {
	a.l.Info("connection status changed", applogger.String("status", string(status)))
}

func (a *LogAdapter) OnClientsChanged(count int) {
	a.l.Debug("connected clients changed", applogger.Int("clients", count))
}

func (a *LogAdapter) OnError(message string) {
	a.l.Warn("dashboard error", applogger.String("message", message))
}

func (a *LogAdapter) OnNotification(message string) {
	a.l.Info("notification", applogger.String("message", message))
}
