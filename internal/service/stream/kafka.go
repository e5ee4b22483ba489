package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SignalDesk/internal/domain/models"
	drepo "SignalDesk/internal/domain/repository"
	"SignalDesk/internal/usecase"
	pkgkafka "SignalDesk/pkg/kafka"
	"SignalDesk/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Consumer is the subset of pkg/kafka.Consumer the stream drives.
type Consumer interface {
	RegisterHandler(h pkgkafka.MessageHandler)
	WithConsumerHook(h pkgkafka.ConsumerHook)
	Start() error
	Stop(ctx context.Context) error
}

// KafkaStream is a PushStream fed by a Kafka topic of {"event","data"} frames.
// A successful consumer start is reported as connect.
type KafkaStream struct {
	consumer Consumer
	topic    string
	metrics  drepo.Metrics
	log      *logger.Logger

	done     chan struct{}
	stopOnce sync.Once
}

func NewKafkaStream(consumer Consumer, topic string, metrics drepo.Metrics, l *logger.Logger) *KafkaStream {
	if l == nil {
		l = logger.Nop()
	}
	return &KafkaStream{
		consumer: consumer,
		topic:    topic,
		metrics:  metrics,
		log:      l,
		done:     make(chan struct{}),
	}
}

func (s *KafkaStream) Events(ctx context.Context) (<-chan models.PushEvent, <-chan error) {
	events := make(chan models.PushEvent, 64)
	errs := make(chan error, 8)

	s.consumer.RegisterHandler(usecase.NewKafkaEventsHandler(s.topic, events, s.done, s.metrics))
	s.consumer.WithConsumerHook(pkgkafka.NewHookChain(
		pkgkafka.TraceHook{},
		pkgkafka.HookFuncs{
			Err: func(ctx context.Context, topic string, _ kafka.Message, _ []byte, err error) {
				s.log.Warn("push frame rejected",
					logger.String("topic", topic),
					logger.String("trace_id", pkgkafka.TraceIDFrom(ctx)),
					logger.Error(err),
				)
				select {
				case errs <- fmt.Errorf("kafka frame: %w", err):
				default:
				}
			},
		},
	))

	if err := s.consumer.Start(); err != nil {
		errs <- fmt.Errorf("kafka consumer start: %w", err)
		return events, errs
	}
	events <- models.PushEvent{Name: models.EventConnect}

	go func() {
		select {
		case <-ctx.Done():
			_ = s.Close()
		case <-s.done:
		}
	}()
	return events, errs
}

// Close stops the consumer. Events are not delivered afterwards.
func (s *KafkaStream) Close() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.done)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = s.consumer.Stop(ctx)
	})
	return err
}

var (
	_ drepo.PushStream = (*KafkaStream)(nil)
	_ Consumer         = (*pkgkafka.Consumer)(nil)
)
