package repository

import (
	"context"
	"time"

	domrepo "SignalDesk/internal/domain/repository"

	"github.com/google/uuid"
)

type viewProducer interface {
	PublishWithHeaders(ctx context.Context, topic string, key []byte, value interface{}, headers map[string]string) error
	Close() error
}

// ViewMessage is the envelope published for every view change.
type ViewMessage struct {
	Kind      string      `json:"kind"`
	SessionID string      `json:"session_id"`
	At        time.Time   `json:"at"`
	Payload   interface{} `json:"payload"`
}

// KafkaViewPublisher implements ViewPublisher for Kafka. Messages are keyed
// by kind so each kind stays ordered within its partition.
type KafkaViewPublisher struct {
	producer  viewProducer
	topic     string
	sessionID string
	now       func() time.Time
}

func NewKafkaViewPublisher(producer viewProducer, topic, sessionID string) *KafkaViewPublisher {
	return &KafkaViewPublisher{producer: producer, topic: topic, sessionID: sessionID, now: time.Now}
}

func (p *KafkaViewPublisher) PublishView(ctx context.Context, kind string, payload interface{}) error {
	msg := ViewMessage{Kind: kind, SessionID: p.sessionID, At: p.now().UTC(), Payload: payload}
	return p.producer.PublishWithHeaders(ctx, p.topic, []byte(kind), msg, map[string]string{
		"trace_id":   uuid.NewString(),
		"session_id": p.sessionID,
	})
}

func (p *KafkaViewPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

var _ domrepo.ViewPublisher = (*KafkaViewPublisher)(nil)
