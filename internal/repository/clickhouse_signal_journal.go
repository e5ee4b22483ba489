package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	pkgch "SignalDesk/pkg/clickhouse"
	applogger "SignalDesk/pkg/logger"
	"SignalDesk/pkg/util"
)

const (
	signalJournalTable  = "signal_journal"
	defaultHistoryLimit = 100
)

// SignalJournalSchema returns the idempotent DDL for the journal table.
func SignalJournalSchema(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s.%s (
            observed_at   DateTime64(3),
            signal_ts     DateTime,
            signal_ts_raw String,
            asset         LowCardinality(String),
            direction     LowCardinality(String),
            timeframe     String,
            confidence    Nullable(Float64),
            source        LowCardinality(String),
            session_id    String
        ) ENGINE = MergeTree
        PARTITION BY toYYYYMM(observed_at)
        ORDER BY (asset, observed_at)
    `, database, signalJournalTable),
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// CHSignalJournal implements SignalJournal backed by ClickHouse.
type CHSignalJournal struct {
	db        execer
	table     string
	sessionID string
	now       func() time.Time
	l         *applogger.Logger
}

// NewCHSignalJournal creates the journal over an initialised client.
func NewCHSignalJournal(ch *pkgch.Client, database, sessionID string, l *applogger.Logger) *CHSignalJournal {
	return newCHSignalJournal(ch.DB(), database+"."+signalJournalTable, sessionID, l)
}

func newCHSignalJournal(db execer, table, sessionID string, l *applogger.Logger) *CHSignalJournal {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHSignalJournal{db: db, table: table, sessionID: sessionID, now: time.Now, l: l}
}

// Record inserts signals using multi-row VALUES to reduce round-trips.
func (j *CHSignalJournal) Record(ctx context.Context, source string, signals []models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	observed := j.now()
	const chunkSize = 500
	for start := 0; start < len(signals); start += chunkSize {
		end := start + chunkSize
		if end > len(signals) {
			end = len(signals)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*9)
		for _, s := range signals[start:end] {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			var confidence interface{}
			if s.Confidence != nil {
				confidence = *s.Confidence
			}
			args = append(args,
				observed,
				util.ParseTimeDefault(s.Timestamp, observed),
				s.Timestamp,
				s.Asset,
				string(s.Direction),
				s.Timeframe,
				confidence,
				source,
				j.sessionID,
			)
		}
		q := fmt.Sprintf("INSERT INTO %s (observed_at, signal_ts, signal_ts_raw, asset, direction, timeframe, confidence, source, session_id) VALUES %s",
			j.table, strings.Join(values, ","))
		if _, err := j.db.ExecContext(ctx, q, args...); err != nil {
			j.l.Error("clickhouse journal insert error",
				applogger.String("table", j.table),
				applogger.Int("rows", end-start),
				applogger.Error(err),
			)
			return fmt.Errorf("journal insert: %w", err)
		}
	}
	return nil
}

// History returns the most recent journal rows, newest first. An empty asset
// selects every asset.
func (j *CHSignalJournal) History(ctx context.Context, asset string, limit int) ([]models.JournalEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	q, args := historyQuery(j.table, asset, limit)
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		j.l.Error("clickhouse journal history query error",
			applogger.String("table", j.table),
			applogger.String("asset", asset),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("journal history: %w", err)
	}
	defer rows.Close()

	out := make([]models.JournalEntry, 0, limit)
	for rows.Next() {
		var (
			e          models.JournalEntry
			direction  string
			confidence sql.NullFloat64
		)
		if err := rows.Scan(&e.ObservedAt, &e.Timestamp, &e.Asset, &direction, &e.Timeframe, &confidence, &e.Source, &e.SessionID); err != nil {
			j.l.Error("clickhouse journal history scan error",
				applogger.String("table", j.table),
				applogger.Error(err),
			)
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		e.Direction = models.Direction(direction)
		if confidence.Valid {
			v := confidence.Float64
			e.Confidence = &v
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func historyQuery(table, asset string, limit int) (string, []interface{}) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	var (
		where string
		args  []interface{}
	)
	if asset != "" {
		where = "WHERE asset = ? "
		args = append(args, asset)
	}
	q := fmt.Sprintf("SELECT observed_at, signal_ts_raw, asset, direction, timeframe, confidence, source, session_id FROM %s %sORDER BY observed_at DESC LIMIT %d",
		table, where, limit)
	return q, args
}

// Close is a no-op; the connection pool is owned by pkg/clickhouse.
func (j *CHSignalJournal) Close() error { return nil }

var _ domrepo.SignalJournal = (*CHSignalJournal)(nil)
