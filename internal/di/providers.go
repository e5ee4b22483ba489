package di

import (
	"context"
	"fmt"
	"time"

	"SignalDesk/internal/domain/repository"
	"SignalDesk/internal/handler/api"
	"SignalDesk/internal/render"
	internalrepo "SignalDesk/internal/repository"
	"SignalDesk/internal/service/cache"
	"SignalDesk/internal/service/feed"
	"SignalDesk/internal/service/ratelimit"
	"SignalDesk/internal/service/stream"
	"SignalDesk/internal/service/telegram"
	"SignalDesk/internal/usecase"
	pkgch "SignalDesk/pkg/clickhouse"
	"SignalDesk/pkg/config"
	xhttp "SignalDesk/pkg/http"
	pkgkafka "SignalDesk/pkg/kafka"
	applogger "SignalDesk/pkg/logger"
	"SignalDesk/pkg/metrics"
	"SignalDesk/pkg/server"

	"github.com/google/uuid"
)

// SessionID identifies one process run on logs and published views.
type SessionID string

// Infra holds the optional infrastructure clients. A nil field means the
// sink is disabled in config.
type Infra struct {
	Producer *pkgkafka.Producer
	CH       *pkgch.Client
	Redis    *cache.RedisCache
	Telegram *telegram.Client
}

// Closers lists the clients to release at shutdown, in creation order.
func (i *Infra) Closers() []server.Closer {
	var out []server.Closer
	if i.Producer != nil {
		out = append(out, server.Closer{Name: "kafka producer", Close: i.Producer.Close})
	}
	if i.CH != nil {
		out = append(out, server.Closer{Name: "clickhouse", Close: i.CH.Close})
	}
	if i.Redis != nil {
		out = append(out, server.Closer{Name: "redis", Close: i.Redis.Close})
	}
	return out
}

func (i *Infra) close() {
	for _, c := range i.Closers() {
		_ = c.Close()
	}
}

func ProvideSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// ProvideInfra connects every enabled render sink. A failure closes what was
// already opened.
func ProvideInfra(cfg *config.Config) (*Infra, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	infra := &Infra{}
	rc := cfg.Render

	if rc.Kafka.Enabled {
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(rc.Kafka.Brokers),
			pkgkafka.WithCompression("snappy"),
			pkgkafka.WithRequiredAcks(1),
			pkgkafka.WithBatchTimeout(50*time.Millisecond),
			pkgkafka.WithHashByKey(true),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		infra.Producer = producer
	}

	if rc.Journal.Enabled {
		client, err := pkgch.NewClient(ctx,
			pkgch.WithHost(rc.Journal.Host),
			pkgch.WithPort(rc.Journal.Port),
			pkgch.WithDatabase(rc.Journal.Database),
			pkgch.WithCredentials(rc.Journal.User, rc.Journal.Password),
			pkgch.WithMaxConnections(4, 2),
			pkgch.WithTimeouts(rc.Journal.DialTimeout, 10*time.Second, 10*time.Second),
		)
		if err != nil {
			infra.close()
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}
		infra.CH = client
		if err := client.InitSchema(ctx, internalrepo.SignalJournalSchema(rc.Journal.Database)); err != nil {
			infra.close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
	}

	if rc.Cache.RedisEnabled {
		rdb, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     rc.Cache.Addr,
			Password: rc.Cache.Password,
			DB:       rc.Cache.DB,
			Prefix:   "signaldesk:",
		})
		if err != nil {
			infra.close()
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		infra.Redis = rdb
	}

	if rc.Telegram.Enabled {
		tg, err := telegram.NewClient(rc.Telegram.BotToken, rc.Telegram.ChatID, 3, time.Second)
		if err != nil {
			infra.close()
			return nil, fmt.Errorf("telegram: %w", err)
		}
		infra.Telegram = tg
	}

	return infra, nil
}

// ProvideLogger builds the app logger. When the view producer is available,
// repeated errors are aggregated and shipped to the log topic.
func ProvideLogger(cfg *config.Config, infra *Infra, session SessionID) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if infra.Producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			Topic:     cfg.Render.Kafka.LogTopic,
			Publisher: infra.Producer,
		})
	}
	return l.With(applogger.String("session_id", string(session))), nil
}

func ProvideRecorder() *metrics.Recorder {
	return metrics.New()
}

func ProvideMetrics(r *metrics.Recorder) repository.Metrics {
	return r
}

func ProvideDashboard(cfg *config.Config) *usecase.Dashboard {
	return usecase.NewDashboard(usecase.DashboardConfig{
		ListCapacity:  cfg.View.ListCapacity,
		ChartCapacity: cfg.View.ChartCapacity,
		Dedup:         cfg.View.Dedup,
	})
}

func ProvideSignalSource(cfg *config.Config) (repository.SignalSource, error) {
	return feed.New(cfg.Pull.BaseURL, feed.Variant(cfg.Pull.Variant), cfg.Pull.Timeout)
}

// ProvidePushStream returns nil when push is disabled.
func ProvidePushStream(cfg *config.Config, m repository.Metrics, l *applogger.Logger) (repository.PushStream, error) {
	switch cfg.Push.Transport {
	case "websocket":
		return stream.NewWSClient(cfg.Push.WebSocket.URL,
			stream.WithReconnectDelay(cfg.Push.WebSocket.ReconnectDelay),
			stream.WithPingInterval(cfg.Push.WebSocket.PingInterval),
			stream.WithLogger(l),
		), nil
	case "kafka":
		consumer, err := pkgkafka.NewConsumer(
			pkgkafka.WithConsumerBrokers(cfg.Push.Kafka.Brokers),
			pkgkafka.WithConsumerGroupID(cfg.Push.Kafka.GroupID),
			pkgkafka.WithConsumerAutoOffsetReset("latest"),
			pkgkafka.WithConsumerWorkers(1),
			pkgkafka.WithConsumerLogger(l),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka consumer: %w", err)
		}
		return stream.NewKafkaStream(consumer, cfg.Push.Kafka.Topic, m, l), nil
	default:
		return nil, nil
	}
}

// ProvideJournal returns nil when the journal is disabled.
func ProvideJournal(cfg *config.Config, infra *Infra, session SessionID, l *applogger.Logger) *internalrepo.CHSignalJournal {
	if infra.CH == nil {
		return nil
	}
	return internalrepo.NewCHSignalJournal(infra.CH, cfg.Render.Journal.Database, string(session), l)
}

func ProvideDispatcher(m repository.Metrics, l *applogger.Logger) *render.Dispatcher {
	return render.NewDispatcher(m,
		render.WithBufferSize(512),
		render.WithDispatcherLogger(l),
	)
}

// ProvideCacheAdapter writes to Redis when enabled, otherwise to an
// in-process TTL cache.
func ProvideCacheAdapter(cfg *config.Config, infra *Infra, d *render.Dispatcher, l *applogger.Logger) *render.CacheAdapter {
	var c cache.BytesCache = cache.NewTTLCache()
	if infra.Redis != nil {
		c = infra.Redis
	}
	return render.NewCacheAdapter(c, cfg.Render.Cache.TTL, d, l)
}

func ProvideRenderAdapter(
	l *applogger.Logger,
	rec *metrics.Recorder,
	infra *Infra,
	ca *render.CacheAdapter,
	journal *internalrepo.CHSignalJournal,
	d *render.Dispatcher,
	cfg *config.Config,
	session SessionID,
) repository.RenderAdapter {
	adapters := render.Fanout{
		render.NewLogAdapter(l),
		render.NewMetricsAdapter(rec),
		ca,
	}
	if infra.Producer != nil {
		pub := internalrepo.NewKafkaViewPublisher(infra.Producer, cfg.Render.Kafka.Topic, string(session))
		adapters = append(adapters, render.NewKafkaAdapter(pub, d))
	}
	if journal != nil {
		adapters = append(adapters, render.NewJournalAdapter(journal, d))
	}
	if infra.Telegram != nil {
		adapters = append(adapters, render.NewTelegramAdapter(infra.Telegram, d))
	}
	return adapters
}

func ProvideSyncController(
	cfg *config.Config,
	dash *usecase.Dashboard,
	src repository.SignalSource,
	ps repository.PushStream,
	ra repository.RenderAdapter,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.SyncController {
	return usecase.NewSyncController(dash, src, ps, ra, m, l,
		usecase.WithPullInterval(cfg.Pull.Interval),
		usecase.WithPullTimeout(cfg.Pull.Timeout),
	)
}

func ProvideViewHandler(
	l *applogger.Logger,
	dash *usecase.Dashboard,
	cfg *config.Config,
	ca *render.CacheAdapter,
	journal *internalrepo.CHSignalJournal,
) *api.ViewEchoHandler {
	rl := ratelimit.New(cfg.View.RefreshRPS, cfg.View.RefreshBurst)
	h := api.NewViewEchoHandler(l, dash, rl, ca)
	if journal != nil {
		h.SetJournal(journal)
	}
	return h
}

func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.ViewEchoHandler) *xhttp.Server {
	return xhttp.NewServer([]xhttp.Handler{h},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	sc *usecase.SyncController,
	ps repository.PushStream,
	d *render.Dispatcher,
	srv *xhttp.Server,
	infra *Infra,
) *server.App {
	closers := append(infra.Closers(), server.Closer{
		Name:  "log collector",
		Close: func() error { l.RemoveCollector(); return nil },
	})
	return server.New(cfg, l, sc, ps, d, srv, closers)
}
