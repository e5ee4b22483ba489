package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	xhttp "SignalDesk/pkg/http"
)

func feedServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPullAPIVariant(t *testing.T) {
	srv := feedServer(t, map[string]string{
		"/api/signals":     `[{"asset":"BTC","direction":"BUY","confidence":90}, "junk"]`,
		"/api/performance": `{"total_signals":10,"winning_signals":5,"losing_signals":5,"total_profit":"12.50"}`,
	})
	c, err := New(srv.URL+"/", VariantAPI, time.Second)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	res, err := c.Pull(context.Background())
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if len(res.Signals) != 2 {
		t.Fatalf("signals = %d", len(res.Signals))
	}
	if !res.Signals[0].Asset.Valid || res.Signals[0].Asset.Value != "BTC" {
		t.Fatalf("first = %+v", res.Signals[0])
	}
	if res.Performance == nil || res.Performance.TotalSignals != 10 || res.Performance.TotalProfit.String() != "12.5" {
		t.Fatalf("performance = %+v", res.Performance)
	}
}

func TestPullLegacyVariant(t *testing.T) {
	srv := feedServer(t, map[string]string{
		"/get_signals": `{"signals":[{"symbol":"ETH","signal":"Sell/Put","time":"2024-01-01 10:00:00"}]}`,
	})
	c, err := New(srv.URL, VariantLegacy, time.Second)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	res, err := c.Pull(context.Background())
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if len(res.Signals) != 1 || res.Signals[0].Symbol.Value != "ETH" {
		t.Fatalf("signals = %+v", res.Signals)
	}
	if res.Performance != nil {
		t.Fatalf("legacy variant must not report performance")
	}
}

func TestPullLegacyMissingList(t *testing.T) {
	srv := feedServer(t, map[string]string{"/get_signals": `{}`})
	c, _ := New(srv.URL, VariantLegacy, time.Second)
	res, err := c.Pull(context.Background())
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if len(res.Signals) != 0 {
		t.Fatalf("signals = %d", len(res.Signals))
	}
}

func TestPullFailsOnStatus(t *testing.T) {
	srv := feedServer(t, map[string]string{"/api/signals": `[]`})
	c, _ := New(srv.URL, VariantAPI, time.Second)
	_, err := c.Pull(context.Background())
	var se *xhttp.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New("", VariantAPI, time.Second); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := New("http://x", "grpc", time.Second); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}
