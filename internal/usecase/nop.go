package usecase

import (
	"SignalDesk/internal/domain/models"

	"github.com/shopspring/decimal"
)

type nopRender struct{}

func (nopRender) OnSignalsChanged([]models.Signal)                             {}
func (nopRender) OnSignalsAdded(string, []models.Signal)                       {}
func (nopRender) OnPullCompleted(error)                                        {}
func (nopRender) OnMetricsChanged(models.PerformanceSnapshot, decimal.Decimal) {}
func (nopRender) OnChartChanged([]models.ChartPoint)                           {}
func (nopRender) OnConnectionChanged(models.ConnectionStatus)                  {}
func (nopRender) OnClientsChanged(int)                                         {}
func (nopRender) OnError(string)                                               {}
func (nopRender) OnNotification(string)                                        {}

type nopMetrics struct{}

func (nopMetrics) RecordPull(string, float64)      {}
func (nopMetrics) RecordPush(string)               {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordInvariantViolation(string) {}
func (nopMetrics) RecordStaleDiscard()             {}
func (nopMetrics) SetSignals(int)                  {}
func (nopMetrics) SetWinRate(float64)              {}
func (nopMetrics) SetTotalProfit(float64)          {}
func (nopMetrics) SetConnected(bool)               {}
func (nopMetrics) SetClients(int)                  {}
