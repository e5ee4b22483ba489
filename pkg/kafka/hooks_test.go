package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

func TestTraceHookExtractsHeader(t *testing.T) {
	km := kafka.Message{Headers: []kafka.Header{{Key: "trace_id", Value: []byte("abc")}}}
	ctx, _, _, err := TraceHook{}.BeforeHandle(context.Background(), "t", km, nil)
	if err != nil {
		t.Fatalf("before: %v", err)
	}
	if got := TraceIDFrom(ctx); got != "abc" {
		t.Fatalf("trace id = %q", got)
	}
	if _, ok := ctx.Value(CtxStartTime).(time.Time); !ok {
		t.Fatalf("start time not set")
	}
}

func TestHookChainStopsOnError(t *testing.T) {
	var afterCalls, errCalls int
	boom := errors.New("boom")
	failing := HookFuncs{
		Before: func(ctx context.Context, _ string, km kafka.Message, d []byte) (context.Context, kafka.Message, []byte, error) {
			return ctx, km, d, boom
		},
	}
	counting := HookFuncs{
		After: func(context.Context, string, kafka.Message, []byte, error) { afterCalls++ },
		Err:   func(context.Context, string, kafka.Message, []byte, error) { errCalls++ },
	}
	chain := NewHookChain(counting, nil, failing)

	_, _, _, err := chain.BeforeHandle(context.Background(), "t", kafka.Message{}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if errCalls != 1 {
		t.Fatalf("OnError calls = %d", errCalls)
	}
	chain.AfterHandle(context.Background(), "t", kafka.Message{}, nil, nil)
	if afterCalls != 1 {
		t.Fatalf("AfterHandle calls = %d", afterCalls)
	}
}

func TestHookChainRecoversPanic(t *testing.T) {
	panicking := HookFuncs{
		Before: func(context.Context, string, kafka.Message, []byte) (context.Context, kafka.Message, []byte, error) {
			panic("bad hook")
		},
	}
	_, _, _, err := NewHookChain(panicking).BeforeHandle(context.Background(), "t", kafka.Message{}, nil)
	var herr *HookError
	if !errors.As(err, &herr) || herr.Code != "ERR_PANIC" {
		t.Fatalf("err = %v", err)
	}
}

func TestBackoffWithJitterBounds(t *testing.T) {
	for attempt := 1; attempt <= 8; attempt++ {
		d := backoffWithJitter(10*time.Millisecond, 100*time.Millisecond, attempt)
		if d <= 0 || d > 100*time.Millisecond {
			t.Fatalf("attempt %d backoff = %v", attempt, d)
		}
	}
}
