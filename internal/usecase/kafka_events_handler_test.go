package usecase

import (
	"context"
	"errors"
	"testing"

	"SignalDesk/internal/domain/models"
	pkgkafka "SignalDesk/pkg/kafka"
)

func TestKafkaEventsHandlerForwardsFrames(t *testing.T) {
	sink := make(chan models.PushEvent, 1)
	h := NewKafkaEventsHandler("signal-events", sink, nil, nil)
	if h.Topic() != "signal-events" {
		t.Fatalf("topic = %s", h.Topic())
	}

	if err := h.Handle(context.Background(), []byte(`{"event":"new_signal","data":{"asset":"BTC"}}`)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	ev := <-sink
	if ev.Name != models.EventNewSignal || string(ev.Data) != `{"asset":"BTC"}` {
		t.Fatalf("event = %+v", ev)
	}
}

func TestKafkaEventsHandlerRejectsBadFrames(t *testing.T) {
	h := NewKafkaEventsHandler("t", make(chan models.PushEvent, 1), nil, nil)
	for _, frame := range []string{`not json`, `{"data":1}`} {
		err := h.Handle(context.Background(), []byte(frame))
		if !errors.Is(err, pkgkafka.ErrPermanent) {
			t.Fatalf("frame %q: err = %v, want permanent", frame, err)
		}
	}
}

func TestKafkaEventsHandlerStopsWhenDone(t *testing.T) {
	done := make(chan struct{})
	close(done)
	h := NewKafkaEventsHandler("t", make(chan models.PushEvent), done, nil)
	if err := h.Handle(context.Background(), []byte(`{"event":"connect"}`)); err == nil {
		t.Fatalf("expected error after done")
	}
}
