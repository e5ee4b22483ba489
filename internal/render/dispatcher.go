package render

import (
	"context"
	"sync"
	"time"

	domrepo "SignalDesk/internal/domain/repository"
	applogger "SignalDesk/pkg/logger"
)

// Job is a unit of render I/O executed off the sync loop.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
	// MaxAttempts overrides the dispatcher default when > 0.
	MaxAttempts int

	attempts int
}

// Dispatcher runs render jobs on a background worker so that slow sinks
// (Redis, Kafka, ClickHouse, Telegram) never block the sync loop. Failed jobs
// are retried with capped exponential backoff; when the buffer is full new
// jobs are dropped and counted.
type Dispatcher struct {
	metrics     domrepo.Metrics
	l           *applogger.Logger
	bufCh       chan *Job
	maxAttempts int
	backoffBase time.Duration
	backoffMax  time.Duration
	jobTimeout  time.Duration

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

type DispatcherOption func(*Dispatcher)

// WithBufferSize sets the pending job buffer.
func WithBufferSize(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.bufCh = make(chan *Job, n)
		}
	}
}

// WithMaxAttempts sets how many times a failing job is tried.
func WithMaxAttempts(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxAttempts = n
		}
	}
}

// WithBackoff sets the retry backoff bounds.
func WithBackoff(base, max time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if base > 0 {
			d.backoffBase = base
		}
		if max >= d.backoffBase {
			d.backoffMax = max
		}
	}
}

// WithJobTimeout bounds a single job run.
func WithJobTimeout(t time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if t > 0 {
			d.jobTimeout = t
		}
	}
}

func WithDispatcherLogger(l *applogger.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.l = l
		}
	}
}

func NewDispatcher(metrics domrepo.Metrics, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		metrics:     metrics,
		l:           applogger.Nop(),
		bufCh:       make(chan *Job, 256),
		maxAttempts: 3,
		backoffBase: 50 * time.Millisecond,
		backoffMax:  2 * time.Second,
		jobTimeout:  10 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the worker. Calling Start twice is a no-op.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.stopCh = make(chan struct{})
	d.doneCh = make(chan struct{})
	stopCh, doneCh := d.stopCh, d.doneCh
	d.mu.Unlock()

	go d.work(ctx, stopCh, doneCh)
}

// Stop stops the worker and waits for the in-flight job. Pending jobs are discarded.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	d.started = false
	stopCh, doneCh := d.stopCh, d.doneCh
	d.mu.Unlock()
	close(stopCh)
	<-doneCh
}

// Submit enqueues job without blocking. It reports false when the job was dropped.
func (d *Dispatcher) Submit(job Job) bool {
	select {
	case d.bufCh <- &job:
		return true
	default:
		d.metrics.RecordError("render_buffer_full")
		d.l.Warn("render buffer full, job dropped", applogger.String("job", job.Name))
		return false
	}
}

// Pending returns the number of queued jobs.
func (d *Dispatcher) Pending() int { return len(d.bufCh) }

func (d *Dispatcher) work(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	backoff := d.backoffBase
	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case job := <-d.bufCh:
			if job == nil {
				continue
			}
			if err := d.run(ctx, job); err != nil {
				job.attempts++
				limit := d.maxAttempts
				if job.MaxAttempts > 0 {
					limit = job.MaxAttempts
				}
				d.metrics.RecordError("render_" + job.Name)
				if job.attempts >= limit {
					d.l.Error("render job failed",
						applogger.String("job", job.Name),
						applogger.Int("attempts", job.attempts),
						applogger.Error(err),
					)
					continue
				}
				select {
				case <-time.After(backoff):
				case <-stopCh:
					return
				case <-ctx.Done():
					return
				}
				if backoff < d.backoffMax {
					backoff *= 2
					if backoff > d.backoffMax {
						backoff = d.backoffMax
					}
				}
				// requeue if space; drop otherwise
				select {
				case d.bufCh <- job:
				default:
					d.metrics.RecordError("render_buffer_drop")
				}
			} else {
				backoff = d.backoffBase
			}
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, job *Job) error {
	ctx, cancel := context.WithTimeout(ctx, d.jobTimeout)
	defer cancel()
	return job.Run(ctx)
}
