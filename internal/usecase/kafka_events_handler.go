package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	pkgkafka "SignalDesk/pkg/kafka"
)

// KafkaEventsHandler consumes push frames from Kafka and forwards them to a sink.
type KafkaEventsHandler struct {
	topic   string
	sink    chan<- models.PushEvent
	done    <-chan struct{}
	metrics domrepo.Metrics
}

// NewKafkaEventsHandler creates a handler that forwards frames to sink until
// done is closed. done may be nil.
func NewKafkaEventsHandler(topic string, sink chan<- models.PushEvent, done <-chan struct{}, metrics domrepo.Metrics) *KafkaEventsHandler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &KafkaEventsHandler{topic: topic, sink: sink, done: done, metrics: metrics}
}

func (h *KafkaEventsHandler) Topic() string { return h.topic }

// incoming message schema: {"event": name, "data": payload}
func (h *KafkaEventsHandler) Handle(ctx context.Context, b []byte) error {
	var ev models.PushEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("decode push frame: %w: %w", pkgkafka.ErrPermanent, err)
	}
	if ev.Name == "" {
		h.metrics.RecordError("consumer_unnamed")
		return fmt.Errorf("push frame without event name: %w", pkgkafka.ErrPermanent)
	}
	select {
	case <-h.done:
		return fmt.Errorf("push stream closed")
	default:
	}
	select {
	case h.sink <- ev:
		return nil
	case <-h.done:
		return fmt.Errorf("push stream closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ pkgkafka.MessageHandler = (*KafkaEventsHandler)(nil)
