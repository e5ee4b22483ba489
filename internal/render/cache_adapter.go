package render

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SignalDesk/internal/domain/models"
	"SignalDesk/internal/service/cache"
	applogger "SignalDesk/pkg/logger"

	"github.com/shopspring/decimal"
)

// CacheKeyPrefix prefixes every cached projection key.
const CacheKeyPrefix = "view:"

// StatusPayload is the cached connection panel.
type StatusPayload struct {
	Connection models.ConnectionStatus `json:"connection"`
	Clients    int                     `json:"clients"`
}

// MetricsPayload is the cached and published performance panel.
type MetricsPayload struct {
	Snapshot models.PerformanceSnapshot `json:"snapshot"`
	WinRate  decimal.Decimal            `json:"win_rate"`
}

// CacheAdapter writes the JSON projection of each panel into a BytesCache.
// Payloads are encoded on the caller goroutine; only the write is deferred.
type CacheAdapter struct {
	c   cache.BytesCache
	ttl time.Duration
	d   submitter
	l   *applogger.Logger

	status StatusPayload
}

func NewCacheAdapter(c cache.BytesCache, ttl time.Duration, d submitter, l *applogger.Logger) *CacheAdapter {
	if l == nil {
		l = applogger.Nop()
	}
	return &CacheAdapter{c: c, ttl: ttl, d: d, l: l, status: StatusPayload{Connection: models.StatusOffline}}
}

// Key returns the cache key of a panel kind.
func Key(kind string) string { return CacheKeyPrefix + kind }

// Snapshot returns the cached JSON of kind.
func (a *CacheAdapter) Snapshot(ctx context.Context, kind string) ([]byte, bool, error) {
	return a.c.GetBytes(ctx, Key(kind))
}

func (a *CacheAdapter) put(kind string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		a.l.Error("cache encode failed", applogger.String("kind", kind), applogger.Error(err))
		return
	}
	key := Key(kind)
	a.d.Submit(Job{
		Name: "cache_" + kind,
		Run: func(ctx context.Context) error {
			if err := a.c.SetBytes(ctx, key, b, a.ttl); err != nil {
				return fmt.Errorf("cache set %s: %w", key, err)
			}
			return nil
		},
	})
}

func (a *CacheAdapter) OnSignalsChanged(view []models.Signal) { a.put(KindSignals, view) }

func (a *CacheAdapter) OnMetricsChanged(s models.PerformanceSnapshot, winRate decimal.Decimal) {
	a.put(KindMetrics, MetricsPayload{Snapshot: s, WinRate: winRate})
}

func (a *CacheAdapter) OnChartChanged(points []models.ChartPoint) { a.put(KindChart, points) }

func (a *CacheAdapter) OnConnectionChanged(status models.ConnectionStatus) {
	a.status.Connection = status
	a.put(KindConnection, a.status)
}

func (a *CacheAdapter) OnClientsChanged(count int) {
	a.status.Clients = count
	a.put(KindConnection, a.status)
}

func (a *CacheAdapter) OnSignalsAdded(string, []models.Signal) {}
func (a *CacheAdapter) OnPullCompleted(error)                  {}
func (a *CacheAdapter) OnError(string)                         {}
func (a *CacheAdapter) OnNotification(string)                  {}
