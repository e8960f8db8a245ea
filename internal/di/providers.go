package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"Cassandra/internal/domain/repository"
	"Cassandra/internal/domain/schema"
	"Cassandra/internal/domain/service"
	"Cassandra/internal/handler/api"
	mid "Cassandra/internal/middleware"
	internalrepo "Cassandra/internal/repository"
	"Cassandra/internal/service/marketdata"
	svcmetrics "Cassandra/internal/service/metrics"
	"Cassandra/internal/services/analytics"
	"Cassandra/internal/services/features"
	"Cassandra/internal/usecase"
	"Cassandra/pkg/cache"
	pkgch "Cassandra/pkg/clickhouse"
	"Cassandra/pkg/config"
	pkgkafka "Cassandra/pkg/kafka"
	applogger "Cassandra/pkg/logger"
	"Cassandra/pkg/metrics"
	"Cassandra/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideSchema loads the indicator schema, falling back to the built-in
// v1 contract when no file is configured.
func ProvideSchema(cfg *config.Config) (*schema.Schema, error) {
	if cfg.Model.SchemaPath == "" {
		return schema.Default(), nil
	}
	sc, err := schema.Load(cfg.Model.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("indicator schema: %w", err)
	}
	return sc, nil
}

// ProvideEncoder creates the feature encoder bound to the schema.
func ProvideEncoder(sc *schema.Schema) *features.Encoder {
	return features.NewEncoder(sc)
}

// ProvidePredictor selects the model backend from config.
func ProvidePredictor(cfg *config.Config) service.Predictor {
	if cfg.Model.Backend == "local" {
		return analytics.NewLocalPredictor(cfg.Model.Artifact)
	}
	return analytics.NewHTTPPredictor(cfg)
}

// ProvideClassifier binds the predictor to the schema's feature count.
func ProvideClassifier(pred service.Predictor, sc *schema.Schema) *analytics.Classifier {
	return analytics.NewClassifier(pred, sc.Len())
}

// ProvideAssessor assembles the scoring pipeline.
func ProvideAssessor(enc *features.Encoder, cls *analytics.Classifier) *usecase.Assessor {
	return usecase.NewAssessor(enc, cls)
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	svcmetrics.Register()
	return metrics.New()
}

// ProvideAssessmentStore creates the ClickHouse history store and
// ensures its table exists.
func ProvideAssessmentStore(chClient *pkgch.Client, cfg *config.Config) (repository.AssessmentStore, error) {
	store := internalrepo.NewClickHouseAssessmentStore(chClient.DB(), cfg.ClickHouse.Database+".assessments")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("assessment store init: %w", err)
	}
	return store, nil
}

// ProvidePublisher creates the Kafka assessment publisher.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaAssessmentPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
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
	return consumer, nil
}

// ProvideSnapshotsHandler scores indicator snapshots arriving over Kafka.
func ProvideSnapshotsHandler(
	assessor *usecase.Assessor,
	store repository.AssessmentStore,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.KafkaSnapshotsHandler {
	return usecase.NewKafkaSnapshotsHandler(
		cfg.Kafka.Consumer.SnapshotsTopic,
		assessor,
		store,
		metrics,
		cfg.Assessment.AllowOutOfRange,
	)
}

// ProvideQuoteStream creates the market data WebSocket stream. The
// subscription list comes from the schema's provider symbols.
func ProvideQuoteStream(cfg *config.Config, sc *schema.Schema) repository.QuoteStream {
	var symbols []string
	for _, ind := range sc.Indicators {
		if ind.ProviderSymbol != "" {
			symbols = append(symbols, ind.ProviderSymbol)
		}
	}
	return marketdata.New(
		cfg.MarketData.APIKey,
		cfg.MarketData.WebSocketURL,
		symbols,
		cfg.MarketData.ReconnectDelay,
		cfg.MarketData.PingInterval,
	)
}

// ProvideProcessor creates the assessment routing processor.
func ProvideProcessor(
	pub repository.Publisher,
	store repository.AssessmentStore,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.AssessmentProcessor {
	return usecase.NewAssessmentProcessor(pub, store, metrics, cfg.Backend.Type)
}

// ProvideQuoteCollector creates the collector with its buffering pipeline.
func ProvideQuoteCollector(
	stream repository.QuoteStream,
	metrics repository.Metrics,
	sc *schema.Schema,
) *usecase.QuoteCollector {
	pipe := mid.NewQuotePipeline(metrics,
		mid.WithMaxRPS(10),
		mid.WithBufferSize(1000),
	)
	return usecase.NewQuoteCollector(stream, metrics, pipe, sc)
}

// ProvideMonitor creates the periodic live assessment loop.
func ProvideMonitor(
	assessor *usecase.Assessor,
	collector *usecase.QuoteCollector,
	processor *usecase.AssessmentProcessor,
	metrics repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.Monitor {
	return usecase.NewMonitor(
		assessor,
		collector,
		processor,
		metrics,
		logger,
		cfg.Assessment.Interval,
		cfg.Assessment.AllowOutOfRange,
	)
}

// ProvideCache creates the live-assessment cache. Redis-backed layered
// cache when configured, in-process otherwise.
func ProvideCache(cfg *config.Config) cache.Service {
	r := cfg.Assessment.Redis
	if r.Enabled {
		host, portStr, err := net.SplitHostPort(r.Addr)
		if err == nil {
			port, _ := strconv.Atoi(portStr)
			redisCache, rerr := cache.NewRedisCache(
				cache.WithRedisHost(host),
				cache.WithRedisPort(port),
				cache.WithRedisPassword(r.Password),
				cache.WithRedisDB(r.DB),
			)
			if rerr == nil {
				return cache.NewLayeredCache(redisCache)
			}
		}
	}
	return cache.NewMemoryCache()
}

// ProvideHandler creates the Echo HTTP handler.
func ProvideHandler(
	logger *applogger.Logger,
	assessor *usecase.Assessor,
	collector *usecase.QuoteCollector,
	processor *usecase.AssessmentProcessor,
	cacheSvc cache.Service,
	cfg *config.Config,
) *api.AssessEchoHandler {
	return api.NewAssessEchoHandler(
		logger,
		assessor,
		collector,
		processor,
		cacheSvc,
		cfg.Assessment.CacheTTL,
		cfg.Assessment.RateLimitRPS,
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.QuoteCollector,
	monitor *usecase.Monitor,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSnapshotsHandler,
	chClient *pkgch.Client,
	handler *api.AssessEchoHandler,
	processor *usecase.AssessmentProcessor,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, collector, monitor, consumer, kh, chClient)
	app.SetHTTPHandler(handler)
	app.Processor = processor
	return app
}
