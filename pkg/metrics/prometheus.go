package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	pulls        *prometheus.CounterVec
	pullLatency  prometheus.Histogram
	pushEvents   *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	violations   *prometheus.CounterVec
	staleDiscard prometheus.Counter
	renders      *prometheus.CounterVec

	signals     prometheus.Gauge
	winRate     prometheus.Gauge
	totalProfit prometheus.Gauge
	connected   prometheus.Gauge
	clients     prometheus.Gauge
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		pulls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_pulls_total",
				Help: "Total number of pull requests by result",
			},
			[]string{"result"},
		),
		pullLatency: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "signaldesk_pull_duration_seconds",
				Help:    "Duration of pull requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		pushEvents: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_push_events_total",
				Help: "Total number of push events received",
			},
			[]string{"event"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		violations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_invariant_violations_total",
				Help: "Out-of-range values that were clamped",
			},
			[]string{"field"},
		),
		staleDiscard: f.NewCounter(
			prometheus.CounterOpts{
				Name: "signaldesk_stale_pulls_discarded_total",
				Help: "Pull results discarded because a newer pull was already applied",
			},
		),
		renders: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_render_callbacks_total",
				Help: "Render callbacks delivered by kind",
			},
			[]string{"kind"},
		),
		signals: f.NewGauge(prometheus.GaugeOpts{
			Name: "signaldesk_signals",
			Help: "Signals currently held in the store",
		}),
		winRate: f.NewGauge(prometheus.GaugeOpts{
			Name: "signaldesk_win_rate_percent",
			Help: "Latest win rate",
		}),
		totalProfit: f.NewGauge(prometheus.GaugeOpts{
			Name: "signaldesk_total_profit",
			Help: "Latest reported total profit",
		}),
		connected: f.NewGauge(prometheus.GaugeOpts{
			Name: "signaldesk_push_connected",
			Help: "1 when the push channel is online",
		}),
		clients: f.NewGauge(prometheus.GaugeOpts{
			Name: "signaldesk_connected_clients",
			Help: "Client count reported by the feed",
		}),
	}
}

// RecordPull records a finished pull and its latency.
func (r *Recorder) RecordPull(result string, seconds float64) {
	r.pulls.WithLabelValues(result).Inc()
	r.pullLatency.Observe(seconds)
}

func (r *Recorder) RecordPush(event string) {
	r.pushEvents.WithLabelValues(event).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordInvariantViolation(field string) {
	r.violations.WithLabelValues(field).Inc()
}

func (r *Recorder) RecordStaleDiscard() { r.staleDiscard.Inc() }

// RecordRender counts a render callback.
func (r *Recorder) RecordRender(kind string) {
	r.renders.WithLabelValues(kind).Inc()
}

func (r *Recorder) SetSignals(n int)         { r.signals.Set(float64(n)) }
func (r *Recorder) SetWinRate(v float64)     { r.winRate.Set(v) }
func (r *Recorder) SetTotalProfit(v float64) { r.totalProfit.Set(v) }
func (r *Recorder) SetClients(n int)         { r.clients.Set(float64(n)) }

func (r *Recorder) SetConnected(ok bool) {
	if ok {
		r.connected.Set(1)
		return
	}
	r.connected.Set(0)
}
