package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"SignalDesk/internal/domain/models"

	"github.com/google/uuid"
)

type fakeExec struct {
	queries []string
	args    [][]interface{}
	err     error
}

func (f *fakeExec) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not supported")
}

func (f *fakeExec) ExecContext(_ context.Context, q string, args ...interface{}) (sql.Result, error) {
	f.queries = append(f.queries, q)
	f.args = append(f.args, args)
	return nil, f.err
}

func TestJournalRecordBuildsMultiRowInsert(t *testing.T) {
	db := &fakeExec{}
	j := newCHSignalJournal(db, "signaldesk.signal_journal", "sess-1", nil)
	observed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
	j.now = func() time.Time { return observed }

	conf := 80.0
	err := j.Record(context.Background(), "pull", []models.Signal{
		{Asset: "BTC", Direction: models.DirectionBuy, Timeframe: "1m", Timestamp: "2024-01-01 10:00:00", Confidence: &conf},
		{Asset: "N/A", Direction: models.DirectionHold, Timeframe: "-", Timestamp: "garbled"},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(db.queries) != 1 {
		t.Fatalf("queries = %d", len(db.queries))
	}
	if !strings.HasPrefix(db.queries[0], "INSERT INTO signaldesk.signal_journal") || strings.Count(db.queries[0], "(?, ?, ?, ?, ?, ?, ?, ?, ?)") != 2 {
		t.Fatalf("query = %s", db.queries[0])
	}
	args := db.args[0]
	if len(args) != 18 {
		t.Fatalf("args = %d", len(args))
	}
	if ts := args[1].(time.Time); !ts.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)) {
		t.Fatalf("signal_ts = %v", ts)
	}
	if args[6] != 80.0 || args[7] != "pull" || args[8] != "sess-1" {
		t.Fatalf("row 1 args = %v", args[:9])
	}
	if ts := args[10].(time.Time); !ts.Equal(observed) {
		t.Fatalf("unparseable timestamp should fall back to observed_at, got %v", ts)
	}
	if args[15] != nil {
		t.Fatalf("undefined confidence should be NULL, got %v", args[15])
	}
}

func TestJournalRecordEmptyAndError(t *testing.T) {
	db := &fakeExec{err: errors.New("down")}
	j := newCHSignalJournal(db, "t", "s", nil)
	if err := j.Record(context.Background(), "pull", nil); err != nil {
		t.Fatalf("empty record: %v", err)
	}
	if len(db.queries) != 0 {
		t.Fatalf("empty record must not query")
	}
	if err := j.Record(context.Background(), "push", []models.Signal{{Asset: "X"}}); err == nil {
		t.Fatalf("expected error")
	}
}

type fakeProducer struct {
	topic   string
	key     string
	value   interface{}
	headers map[string]string
}

func (f *fakeProducer) PublishWithHeaders(_ context.Context, topic string, key []byte, value interface{}, headers map[string]string) error {
	f.topic, f.key, f.value, f.headers = topic, string(key), value, headers
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func TestKafkaViewPublisherEnvelope(t *testing.T) {
	fp := &fakeProducer{}
	p := NewKafkaViewPublisher(fp, "signaldesk-view", "sess-9")
	if err := p.PublishView(context.Background(), "metrics", map[string]int{"total": 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if fp.topic != "signaldesk-view" || fp.key != "metrics" {
		t.Fatalf("topic=%s key=%s", fp.topic, fp.key)
	}
	msg, ok := fp.value.(ViewMessage)
	if !ok || msg.Kind != "metrics" || msg.SessionID != "sess-9" {
		t.Fatalf("value = %#v", fp.value)
	}
	if _, err := uuid.Parse(fp.headers["trace_id"]); err != nil {
		t.Fatalf("trace_id header = %q", fp.headers["trace_id"])
	}
}

func TestHistoryQuery(t *testing.T) {
	q, args := historyQuery("db.signal_journal", "BTC", 5)
	if !strings.Contains(q, "WHERE asset = ?") || !strings.HasSuffix(q, "ORDER BY observed_at DESC LIMIT 5") {
		t.Fatalf("query = %s", q)
	}
	if len(args) != 1 || args[0] != "BTC" {
		t.Fatalf("args = %v", args)
	}

	q, args = historyQuery("db.signal_journal", "", 0)
	if strings.Contains(q, "WHERE") || !strings.HasSuffix(q, "LIMIT 100") || len(args) != 0 {
		t.Fatalf("query = %s args = %v", q, args)
	}
}

func TestHistoryQueryError(t *testing.T) {
	j := newCHSignalJournal(&fakeExec{}, "t", "s", nil)
	if _, err := j.History(context.Background(), "", 10); err == nil {
		t.Fatalf("expected error")
	}
}
