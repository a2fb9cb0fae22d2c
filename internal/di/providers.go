package di

import (
	"context"
	"fmt"
	"io"
	"time"

	"AgroPulse/internal/domain/repository"
	"AgroPulse/internal/handler/api"
	internalrepo "AgroPulse/internal/repository"
	"AgroPulse/internal/service/cache"
	svcmetrics "AgroPulse/internal/service/metrics"
	"AgroPulse/internal/services/analytics"
	"AgroPulse/internal/usecase"
	pkgch "AgroPulse/pkg/clickhouse"
	"AgroPulse/pkg/config"
	xhttp "AgroPulse/pkg/http"
	pkgkafka "AgroPulse/pkg/kafka"
	applogger "AgroPulse/pkg/logger"
	"AgroPulse/pkg/metrics"
	"AgroPulse/pkg/server"

	kafkago "github.com/segmentio/kafka-go"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideClickHouseClient creates a ClickHouse client and initialises the quote schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	if cfg.ClickHouse.InitSchema {
		if err := client.InitSchema(ctx, internalrepo.PriceSchema(cfg.ClickHouse.Database)); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
	}
	return client, nil
}

// ProvidePriceStore creates the ClickHouse-backed price store.
func ProvidePriceStore(ch *pkgch.Client, l *applogger.Logger) repository.PriceStore {
	s := internalrepo.NewCHPriceStore(ch)
	s.SetLogger(l)
	return s
}

// ProvideAnomalyStore opens the SQLite alert store.
func ProvideAnomalyStore(cfg *config.Config) (repository.AnomalyStore, error) {
	s, err := internalrepo.NewSQLiteAnomalyStore(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("anomaly store: %w", err)
	}
	return s, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideAlertPublisher publishes alerts to Kafka. Returns nil without a producer.
func ProvideAlertPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.AlertPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertsTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer, or nil when Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(l,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.HookFuncs{
		Err: func(_ context.Context, km kafkago.Message, attempt int, err error) {
			l.Debug("quote handling retry",
				applogger.String("topic", km.Topic),
				applogger.String("key", string(km.Key)),
				applogger.Int("attempt", attempt),
				applogger.Error(err),
			)
		},
	})
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvideQuoteIngestHandler handles the quotes topic.
func ProvideQuoteIngestHandler(store repository.PriceStore, m repository.Metrics, cfg *config.Config) *usecase.QuoteIngestHandler {
	return usecase.NewQuoteIngestHandler(cfg.Kafka.QuotesTopic, store, m)
}

// ProvideAnomalyDetector builds the detector from the analytics thresholds.
func ProvideAnomalyDetector(cfg *config.Config) (*analytics.AnomalyDetector, error) {
	a := cfg.Analytics.Anomaly
	return analytics.NewAnomalyDetector(analytics.AnomalyConfig{
		MinObservations: a.MinObservations,
		BaselineWindow:  a.BaselineWindow,
		SpikeZ:          a.SpikeZ,
		MediumZ:         a.MediumZ,
		HighZ:           a.HighZ,
		VolatilityCV:    a.VolatilityCV,
	})
}

// ProvideForecaster builds the forecaster. Its volatility note shares the anomaly threshold.
func ProvideForecaster(cfg *config.Config) (*analytics.Forecaster, error) {
	f := cfg.Analytics.Forecast
	return analytics.NewForecaster(analytics.ForecastConfig{
		MinObservations:  f.MinObservations,
		TrendWindow:      f.TrendWindow,
		SmoothingPeriod:  f.SmoothingPeriod,
		BoundsMultiplier: f.BoundsMultiplier,
		MaxHorizonDays:   f.MaxHorizonDays,
		VolatilityCV:     cfg.Analytics.Anomaly.VolatilityCV,
	})
}

// ProvidePriceAnalytics wires the engine to the stores.
func ProvidePriceAnalytics(
	prices repository.PriceStore,
	alerts repository.AnomalyStore,
	det *analytics.AnomalyDetector,
	fc *analytics.Forecaster,
	cfg *config.Config,
) *usecase.PriceAnalytics {
	return usecase.NewPriceAnalytics(prices, alerts, analytics.ChartIndicators{}, det, fc, cfg.Analytics.MaxSeriesLength)
}

// ProvideOfflineAnalytics runs the engine without any store, for the analyze command.
func ProvideOfflineAnalytics(det *analytics.AnomalyDetector, fc *analytics.Forecaster, cfg *config.Config) *usecase.PriceAnalytics {
	return usecase.NewPriceAnalytics(nil, nil, analytics.ChartIndicators{}, det, fc, cfg.Analytics.MaxSeriesLength)
}

func ProvideAnalysisAggregate(pa *usecase.PriceAnalytics, cfg *config.Config) *usecase.AnalysisAggregateUseCase {
	return usecase.NewAnalysisAggregateUseCase(pa, cfg.Analytics.Timeout)
}

// ProvideResponseCache uses Redis when enabled, else an in-process TTL cache.
func ProvideResponseCache(cfg *config.Config) (cache.BytesCache, error) {
	if cfg.Redis.Enabled {
		c, err := cache.NewRedisCache(context.Background(), cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return cache.NewTTLCache(cfg.Analytics.CacheMaxTTL, time.Now), nil
}

func ProvideHTTPHandler(
	l *applogger.Logger,
	pa *usecase.PriceAnalytics,
	agg *usecase.AnalysisAggregateUseCase,
	c cache.BytesCache,
	prices repository.PriceStore,
	cfg *config.Config,
) *api.AnalyticsEchoHandler {
	if cfg.Metrics.Enabled {
		svcmetrics.Register()
	}
	return api.NewAnalyticsEchoHandler(l, pa, agg, c, cfg.Analytics.CacheTTL, prices)
}

func ProvideHTTPServer(h *api.AnalyticsEchoHandler, l *applogger.Logger, cfg *config.Config) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetrics(cfg.Metrics.Enabled),
		xhttp.WithLogger(l, cfg.Server.SlowThreshold),
	)
}

func ProvideAnomalyAlerter(
	pa *usecase.PriceAnalytics,
	alerts repository.AnomalyStore,
	pub repository.AlertPublisher,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.AnomalyAlerter {
	a := usecase.NewAnomalyAlerter(pa, alerts, pub, cfg.Analytics.HistoryDays, cfg.Analytics.Anomaly.DedupWindow)
	a.SetLogger(l)
	return a
}

// ProvideScheduler creates the anomaly scan schedule, or nil when disabled.
func ProvideScheduler(
	alerter *usecase.AnomalyAlerter,
	prices repository.PriceStore,
	l *applogger.Logger,
	cfg *config.Config,
) (*usecase.AnomalyScanScheduler, error) {
	if !cfg.Scheduler.Enabled {
		return nil, nil
	}
	s, err := usecase.NewAnomalyScanScheduler(alerter, prices, cfg.Scheduler.AnomalyScanCron, cfg.Scheduler.Commodities, cfg.Analytics.Timeout)
	if err != nil {
		return nil, err
	}
	s.SetLogger(l)
	return s, nil
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	consumer *pkgkafka.Consumer,
	qh *usecase.QuoteIngestHandler,
	sched *usecase.AnomalyScanScheduler,
	ch *pkgch.Client,
	alerts repository.AnomalyStore,
	pub repository.AlertPublisher,
	c cache.BytesCache,
) *server.App {
	var quotes pkgkafka.MessageHandler
	if consumer != nil {
		quotes = qh
	}
	app := server.New(cfg, l, srv, consumer, quotes, sched)

	app.AddCloser("clickhouse", ch.Close)
	app.AddCloser("sqlite", alerts.Close)
	if pub != nil {
		app.AddCloser("kafka producer", pub.Close)
	}
	if p, ok := c.(*cache.TTLCache); ok {
		app.SetCachePurger(p)
	}
	if cl, ok := c.(io.Closer); ok {
		app.AddCloser("redis", cl.Close)
	}
	return app
}
