package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"SignalDesk/internal/domain/models"

	"github.com/gorilla/websocket"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func nextEvent(t *testing.T, ch <-chan models.PushEvent) models.PushEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatalf("events closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return models.PushEvent{}
}

func TestWSClientDeliversFramesAndReconnects(t *testing.T) {
	var conns atomic.Int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		if conns.Add(1) == 1 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"new_signal","data":{"asset":"BTC"}}`))
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"clients_update","data":3}`))
			return // drop the connection
		}
		// keep the second connection open until the client leaves
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c := NewWSClient(wsURL(srv), WithReconnectDelay(10*time.Millisecond), WithPingInterval(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _ := c.Events(ctx)

	want := []string{
		models.EventConnect,
		models.EventNewSignal,
		models.EventClientsUpdate,
		models.EventDisconnect,
		models.EventConnect,
	}
	for i, name := range want {
		ev := nextEvent(t, events)
		if ev.Name != name {
			t.Fatalf("event %d = %q, want %q", i, ev.Name, name)
		}
		if name == models.EventNewSignal && string(ev.Data) != `{"asset":"BTC"}` {
			t.Fatalf("data = %s", ev.Data)
		}
	}

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case _, ok := <-events:
		for ok {
			_, ok = <-events
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("events not closed after Close")
	}
}

func TestWSClientReportsDialErrors(t *testing.T) {
	c := NewWSClient("ws://127.0.0.1:1/ws", WithReconnectDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, errs := c.Events(ctx)

	select {
	case err := <-errs:
		if err == nil || !strings.Contains(err.Error(), "ws dial") {
			t.Fatalf("err = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no dial error reported")
	}
	_ = c.Close()
}
