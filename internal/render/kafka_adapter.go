package render

import (
	"context"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"

	"github.com/shopspring/decimal"
)

// KafkaAdapter publishes every view change through a ViewPublisher.
type KafkaAdapter struct {
	pub domrepo.ViewPublisher
	d   submitter
}

func NewKafkaAdapter(pub domrepo.ViewPublisher, d submitter) *KafkaAdapter {
	return &KafkaAdapter{pub: pub, d: d}
}

func (a *KafkaAdapter) publish(kind string, payload interface{}) {
	a.d.Submit(Job{
		Name: "kafka_" + kind,
		Run: func(ctx context.Context) error {
			return a.pub.PublishView(ctx, kind, payload)
		},
	})
}

func (a *KafkaAdapter) OnSignalsChanged(view []models.Signal) { a.publish(KindSignals, view) }

// AddedPayload carries the unfiltered signals applied by one pull or push.
type AddedPayload struct {
	Source  string          `json:"source"`
	Signals []models.Signal `json:"signals"`
}

func (a *KafkaAdapter) OnSignalsAdded(source string, added []models.Signal) {
	a.publish(KindSignalsAdded, AddedPayload{Source: source, Signals: added})
}

func (a *KafkaAdapter) OnPullCompleted(error) {}

func (a *KafkaAdapter) OnMetricsChanged(s models.PerformanceSnapshot, winRate decimal.Decimal) {
	a.publish(KindMetrics, MetricsPayload{Snapshot: s, WinRate: winRate})
}

func (a *KafkaAdapter) OnChartChanged(points []models.ChartPoint) { a.publish(KindChart, points) }

func (a *KafkaAdapter) OnConnectionChanged(status models.ConnectionStatus) {
	a.publish(KindConnection, status)
}

func (a *KafkaAdapter) OnClientsChanged(count int)    { a.publish(KindClients, count) }
func (a *KafkaAdapter) OnError(message string)        { a.publish(KindError, message) }
func (a *KafkaAdapter) OnNotification(message string) { a.publish(KindNotification, message) }
