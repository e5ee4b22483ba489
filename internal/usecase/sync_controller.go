package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"SignalDesk/internal/domain/models"
	drepo "SignalDesk/internal/domain/repository"
	"SignalDesk/pkg/logger"
)

// ChartLabelLayout formats the chart label of each profit sample.
const ChartLabelLayout = "15:04:05"

type pullOutcome struct {
	seq      uint64
	result   *models.PullResult
	err      error
	duration time.Duration
}

// SyncController merges pulled snapshots and pushed events into the dashboard
// stores. All mutation happens on a single loop goroutine; pulls run
// concurrently and post their results back to the loop.
//
// Each pull is tagged with a monotonic sequence number and a result older than
// the last applied pull is discarded. Push events always apply.
type SyncController struct {
	dash    *Dashboard
	source  drepo.SignalSource
	stream  drepo.PushStream
	render  drepo.RenderAdapter
	metrics drepo.Metrics
	logger  *logger.Logger
	norm    *Normalizer

	interval    time.Duration
	pullTimeout time.Duration
	now         func() time.Time

	results   chan pullOutcome
	refreshCh chan struct{}
	viewCh    chan struct{}

	viewMu      sync.Mutex
	pendingView ViewQuery

	state   atomic.Value // models.SyncState
	started atomic.Bool
	wg      sync.WaitGroup

	// loop-owned
	nextSeq    uint64
	appliedSeq uint64
	view       ViewQuery

	mu         sync.RWMutex
	lastUpdate time.Time
}

// ControllerOption configures SyncController.
type ControllerOption func(*SyncController)

// WithPullInterval sets the periodic re-pull interval.
func WithPullInterval(d time.Duration) ControllerOption {
	return func(c *SyncController) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithPullTimeout bounds a single pull request.
func WithPullTimeout(d time.Duration) ControllerOption {
	return func(c *SyncController) {
		if d > 0 {
			c.pullTimeout = d
		}
	}
}

// WithClock overrides time.Now (chart labels, default timestamps).
func WithClock(now func() time.Time) ControllerOption {
	return func(c *SyncController) {
		if now != nil {
			c.now = now
		}
	}
}

// NewSyncController creates the controller and attaches it to dash.
// stream may be nil when no push transport is configured.
func NewSyncController(
	dash *Dashboard,
	source drepo.SignalSource,
	stream drepo.PushStream,
	render drepo.RenderAdapter,
	metrics drepo.Metrics,
	lg *logger.Logger,
	opts ...ControllerOption,
) *SyncController {
	c := &SyncController{
		dash:        dash,
		source:      source,
		stream:      stream,
		render:      render,
		metrics:     metrics,
		logger:      lg,
		interval:    60 * time.Second,
		pullTimeout: 10 * time.Second,
		now:         time.Now,
		results:     make(chan pullOutcome, 4),
		refreshCh:   make(chan struct{}, 1),
		viewCh:      make(chan struct{}, 1),
		view:        ViewQuery{Asset: AllAssets},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.render == nil {
		c.render = nopRender{}
	}
	if c.metrics == nil {
		c.metrics = nopMetrics{}
	}
	if c.logger == nil {
		c.logger = logger.Nop()
	}
	c.norm = NewNormalizer(c.now)
	c.state.Store(models.StateUninitialized)
	dash.sync = c
	return c
}

// State returns the current sync state.
func (c *SyncController) State() models.SyncState {
	return c.state.Load().(models.SyncState)
}

// LastUpdate returns the time of the last applied stimulus.
func (c *SyncController) LastUpdate() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}

// Start moves Uninitialized -> Loading, issues the initial pull and starts
// the periodic timer and push consumption. It returns immediately.
func (c *SyncController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	c.state.Store(models.StateLoading)

	var (
		evCh  <-chan models.PushEvent
		errCh <-chan error
	)
	if c.stream != nil {
		evCh, errCh = c.stream.Events(ctx)
	}

	c.wg.Add(1)
	go c.loop(ctx, evCh, errCh)
	c.logger.Info("sync controller started",
		logger.Duration("interval_ms", c.interval),
		logger.Bool("push", c.stream != nil),
	)
	return nil
}

// Refresh requests a user-initiated pull. Requests made while one is already
// queued are coalesced.
func (c *SyncController) Refresh() {
	select {
	case c.refreshCh <- struct{}{}:
	default:
	}
}

// SetView changes the active projection passed to OnSignalsChanged. It never
// blocks; the loop applies the most recent view.
func (c *SyncController) SetView(vq ViewQuery) {
	c.viewMu.Lock()
	c.pendingView = vq
	c.viewMu.Unlock()
	select {
	case c.viewCh <- struct{}{}:
	default:
	}
}

// Wait blocks until the loop and every in-flight pull have returned.
func (c *SyncController) Wait() { c.wg.Wait() }

func (c *SyncController) loop(ctx context.Context, evCh <-chan models.PushEvent, errCh <-chan error) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.beginPull(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.beginPull(ctx)
		case <-c.refreshCh:
			c.beginPull(ctx)
		case out := <-c.results:
			c.applyPull(out)
		case <-c.viewCh:
			c.viewMu.Lock()
			c.view = c.pendingView
			c.viewMu.Unlock()
			c.emitSignals()
		case ev, ok := <-evCh:
			if !ok {
				evCh = nil
				continue
			}
			c.applyPush(ev)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				c.metrics.RecordError("push_stream")
				c.logger.Warn("push stream error", logger.Error(err))
			}
		}
	}
}

func (c *SyncController) beginPull(ctx context.Context) {
	c.nextSeq++
	seq := c.nextSeq

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		pctx, cancel := context.WithTimeout(ctx, c.pullTimeout)
		defer cancel()

		start := time.Now()
		res, err := c.source.Pull(pctx)
		out := pullOutcome{seq: seq, result: res, err: err, duration: time.Since(start)}
		select {
		case c.results <- out:
		case <-ctx.Done():
		}
	}()
}

func (c *SyncController) applyPull(out pullOutcome) {
	if out.seq < c.appliedSeq {
		c.metrics.RecordStaleDiscard()
		c.logger.Debug("stale pull discarded",
			logger.Uint64("seq", out.seq),
			logger.Uint64("applied_seq", c.appliedSeq),
		)
		return
	}
	if out.err == nil && out.result == nil {
		out.err = fmt.Errorf("empty pull result")
	}
	if out.err != nil {
		c.metrics.RecordPull("error", out.duration.Seconds())
		serr := &SyncError{Kind: KindTransport, Op: "pull", Err: out.err}
		c.logger.Error("pull failed", logger.Error(serr), logger.Uint64("seq", out.seq))
		c.render.OnError(serr.UserMessage())
		c.render.OnPullCompleted(serr)
		return
	}
	c.metrics.RecordPull("ok", out.duration.Seconds())
	c.appliedSeq = out.seq

	signals := make([]models.Signal, 0, len(out.result.Signals))
	for _, raw := range out.result.Signals {
		signals = append(signals, c.normalize(raw))
	}
	c.dash.Signals.ReplaceAll(signals)

	if out.result.Performance != nil {
		c.applySnapshot(*out.result.Performance)
	}

	c.state.Store(models.StateReady)
	c.touch()
	c.logger.Debug("pull applied",
		logger.Uint64("seq", out.seq),
		logger.Int("received", len(signals)),
		logger.Int("held", c.dash.Signals.Len()),
	)

	c.render.OnPullCompleted(nil)
	c.render.OnSignalsAdded(models.SourcePull, c.dash.Signals.All())
	c.emitSignals()
	if out.result.Performance != nil {
		c.emitMetrics()
		c.render.OnChartChanged(c.dash.Chart.Points())
	}
}

func (c *SyncController) applyPush(ev models.PushEvent) {
	c.metrics.RecordPush(ev.Name)

	switch ev.Name {
	case models.EventNewSignal:
		var raw models.RawSignal
		if err := json.Unmarshal(ev.Data, &raw); err != nil {
			// field-level defaulting: an unreadable payload still yields a row
			c.metrics.RecordError("push_new_signal_decode")
			raw = models.RawSignal{}
		}
		sig := c.normalize(raw)
		c.dash.Signals.Prepend(sig)
		c.touch()
		c.render.OnSignalsAdded(models.SourcePush, []models.Signal{sig})
		c.emitSignals()
		c.render.OnNotification(fmt.Sprintf("New %s signal for %s", sig.Direction, sig.Asset))

	case models.EventPerformanceUpdate:
		var snap models.PerformanceSnapshot
		if err := json.Unmarshal(ev.Data, &snap); err != nil {
			c.malformed(ev.Name, err)
			return
		}
		c.applySnapshot(snap)
		c.touch()
		c.emitMetrics()
		c.render.OnChartChanged(c.dash.Chart.Points())

	case models.EventConnect:
		if c.dash.Connection.Connected() {
			c.metrics.SetConnected(true)
			c.render.OnConnectionChanged(models.StatusOnline)
		}

	case models.EventDisconnect:
		if c.dash.Connection.Disconnected() {
			c.metrics.SetConnected(false)
			c.render.OnConnectionChanged(models.StatusOffline)
		}

	case models.EventClientsUpdate:
		var n int
		if err := json.Unmarshal(ev.Data, &n); err != nil {
			c.malformed(ev.Name, err)
			return
		}
		c.dash.Connection.SetClients(n)
		c.metrics.SetClients(n)
		c.render.OnClientsChanged(n)

	default:
		c.logger.Debug("unknown push event ignored", logger.String("event", ev.Name))
	}
}

func (c *SyncController) applySnapshot(snap models.PerformanceSnapshot) {
	snap, fixed := sanitizeSnapshot(snap)
	for _, f := range fixed {
		c.metrics.RecordInvariantViolation(f)
		c.logger.Warn("negative performance counter clamped", logger.String("field", f))
	}
	c.dash.Performance.Update(snap)
	c.dash.Chart.Append(c.now().Format(ChartLabelLayout), snap.TotalProfit)
}

func (c *SyncController) normalize(raw models.RawSignal) models.Signal {
	if raw.Confidence.Valid {
		if _, clamped := ClampConfidence(raw.Confidence.Value); clamped {
			c.metrics.RecordInvariantViolation("confidence")
		}
	}
	return c.norm.Normalize(raw)
}

func (c *SyncController) malformed(op string, err error) {
	serr := &SyncError{Kind: KindMalformed, Op: op, Err: err}
	c.metrics.RecordError("malformed_" + op)
	c.logger.Warn("malformed push payload", logger.Error(serr))
	c.render.OnError(serr.UserMessage())
}

func (c *SyncController) emitSignals() {
	all := c.dash.Signals.All()
	c.metrics.SetSignals(len(all))
	c.render.OnSignalsChanged(Apply(all, c.view))
}

func (c *SyncController) emitMetrics() {
	snap := c.dash.Performance.Snapshot()
	rate := c.dash.Performance.WinRate()
	wr, _ := rate.Float64()
	tp, _ := snap.TotalProfit.Float64()
	c.metrics.SetWinRate(wr)
	c.metrics.SetTotalProfit(tp)
	c.render.OnMetricsChanged(snap, rate)
}

func (c *SyncController) touch() {
	c.mu.Lock()
	c.lastUpdate = c.now()
	c.mu.Unlock()
}
