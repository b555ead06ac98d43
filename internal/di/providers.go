package di

import (
	"context"
	"fmt"
	"io"
	"time"

	"MarketBrief/internal/domain/repository"
	"MarketBrief/internal/handler/api"
	internalrepo "MarketBrief/internal/repository"
	"MarketBrief/internal/service/alphavantage"
	"MarketBrief/internal/service/banxico"
	"MarketBrief/internal/service/gnews"
	"MarketBrief/internal/service/newsapi"
	"MarketBrief/internal/service/provider"
	"MarketBrief/internal/service/ratelimit"
	"MarketBrief/internal/service/translate"
	"MarketBrief/internal/usecase"
	"MarketBrief/pkg/cache"
	pkgch "MarketBrief/pkg/clickhouse"
	"MarketBrief/pkg/config"
	xhttp "MarketBrief/pkg/http"
	pkgkafka "MarketBrief/pkg/kafka"
	applogger "MarketBrief/pkg/logger"
	"MarketBrief/pkg/metrics"
	"MarketBrief/pkg/server"
)

// Resources collects everything that must be released at shutdown.
type Resources struct {
	Cache    cache.Service
	Sink     repository.ReportSink
	CH       *pkgch.Client
	Producer *pkgkafka.Producer
}

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New()
}

// ProvideHTTPClient creates the outbound client shared by all providers.
// Per-call deadlines come from each provider's timeout.
func ProvideHTTPClient() *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(60 * time.Second))
}

// ProvideCache returns an in-process LRU, layered over Redis when enabled.
func ProvideCache(ctx context.Context, cfg *config.Config, l *applogger.Logger) (cache.Service, error) {
	mem := []cache.MemoryOption{
		cache.WithMemoryMaxSize(1000),
		cache.WithMemoryDefaultTTL(cfg.Translation.CacheTTL),
	}
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(mem...), nil
	}

	remote, err := cache.NewRedisCache(ctx,
		cache.WithRedisAddr(cfg.Redis.Host, cfg.Redis.Port),
		cache.WithRedisAuth(cfg.Redis.Password, cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("translation cache: redis", applogger.String("host", cfg.Redis.Host), applogger.Int("port", cfg.Redis.Port))
	return cache.NewLayeredCache(remote, mem...), nil
}

// ProvideSeriesProvider returns nil when BANXICO_TOKEN is unset.
func ProvideSeriesProvider(cfg *config.Config, hc *xhttp.Client, m repository.Metrics, l *applogger.Logger) repository.SeriesProvider {
	token, ok := cfg.Secrets.BanxicoToken.Value()
	if !ok {
		l.Warn("credential missing", applogger.String("credential", banxico.Credential))
		return nil
	}
	return banxico.New(token, cfg.Banxico.BaseURL, cfg.Banxico.Timeout, hc, m, l)
}

// ProvideQuoteProvider returns nil when ALPHA_VANTAGE_KEY is unset.
func ProvideQuoteProvider(cfg *config.Config, hc *xhttp.Client, m repository.Metrics, l *applogger.Logger) repository.QuoteProvider {
	key, ok := cfg.Secrets.AlphaVantageKey.Value()
	if !ok {
		l.Warn("credential missing", applogger.String("credential", alphavantage.Credential))
		return nil
	}
	return alphavantage.New(key, cfg.AlphaVantage.BaseURL, hc,
		alphavantage.WithTimeout(cfg.AlphaVantage.Timeout),
		alphavantage.WithQuota(ratelimit.NewPerMinute(ratelimit.New(), alphavantage.Name, cfg.AlphaVantage.RequestsPerMinute)),
		alphavantage.WithObserver(m, l),
	)
}

// ProvideHeadlineSearcher returns nil when NEWSAPI_KEY is unset.
func ProvideHeadlineSearcher(cfg *config.Config, hc *xhttp.Client, m repository.Metrics, l *applogger.Logger) repository.HeadlineSearcher {
	key, ok := cfg.Secrets.NewsAPIKey.Value()
	if !ok {
		l.Warn("credential missing", applogger.String("credential", newsapi.Credential))
		return nil
	}
	return newsapi.New(key, cfg.NewsAPI.BaseURL, cfg.NewsAPI.Timeout, hc, m, l)
}

// ProvideHeadlineSource returns nil when GNEWS_API_KEY is unset.
func ProvideHeadlineSource(cfg *config.Config, hc *xhttp.Client, m repository.Metrics, l *applogger.Logger) repository.HeadlineSource {
	key, ok := cfg.Secrets.GNewsAPIKey.Value()
	if !ok {
		return nil
	}
	return gnews.New(key, cfg.GNews.BaseURL, cfg.GNews.Timeout, hc, m, l)
}

// ProvideTranslator builds the LibreTranslate then MyMemory chain.
func ProvideTranslator(cfg *config.Config, hc *xhttp.Client, c cache.Service, m repository.Metrics, l *applogger.Logger) repository.Translator {
	obs := provider.Observer{Metrics: m, Logger: l}
	tiers := []translate.Tier{
		translate.NewLibreTranslate(cfg.Translation.LibreTranslateURL, cfg.Translation.LibreTimeout, hc, obs),
		translate.NewMyMemory(cfg.Translation.MyMemoryURL, cfg.Translation.UserAgent, cfg.Translation.MyMemoryTimeout, hc, obs),
	}
	return translate.NewChain(tiers,
		translate.WithCache(c, cfg.Translation.CacheTTL),
		translate.WithLogger(l),
	)
}

func ProvideNewsPipeline(
	cfg *config.Config,
	search repository.HeadlineSearcher,
	source repository.HeadlineSource,
	tr repository.Translator,
	l *applogger.Logger,
) *usecase.NewsPipeline {
	return usecase.NewNewsPipeline(search, source, tr,
		cfg.Report.NewsQueryDelay, cfg.Report.TranslationDelay, usecase.Sleep, l)
}

func ProvideScheduler(cfg *config.Config) *usecase.Scheduler {
	return &usecase.Scheduler{
		BatchSize: cfg.Report.QuoteBatchSize,
		Cooldown:  cfg.Report.QuoteCooldown,
		Sleep:     usecase.Sleep,
	}
}

// ProvideReportSink selects the Supabase REST or direct Postgres sink.
func ProvideReportSink(ctx context.Context, cfg *config.Config) (repository.ReportSink, error) {
	switch cfg.Sink.Type {
	case config.SinkPostgres:
		dsn, _ := cfg.Secrets.DatabaseURL.Value()
		db, err := internalrepo.OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return internalrepo.NewPostgresSink(db, cfg.Sink.Table), nil
	default:
		key, _ := cfg.Secrets.SupabaseServiceRoleKey.Value()
		hc := xhttp.NewClient(xhttp.WithTimeout(cfg.Sink.Timeout))
		return internalrepo.NewSupabaseSink(cfg.Secrets.SupabaseURL, key, cfg.Sink.Table, hc), nil
	}
}

// ProvideClickHouseClient returns nil when the quote archive is disabled.
func ProvideClickHouseClient(ctx context.Context, cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	schemaCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.InitSchema(schemaCtx, internalrepo.QuoteArchiveSchema(cfg.ClickHouse.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

func ProvideQuoteArchive(ch *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.QuoteArchive {
	if ch == nil {
		return nil
	}
	return internalrepo.NewCHQuoteArchive(ch, cfg.ClickHouse.Table, l)
}

// ProvideKafkaProducer returns nil when Kafka is disabled. With a log topic
// configured, aggregated error logs are shipped through the same producer.
func ProvideKafkaProducer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	if cfg.Kafka.LogTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogTopic,
			Publisher:      producer,
		})
	}
	return producer, nil
}

func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.Topic)
}

func ProvideReportGenerator(
	cfg *config.Config,
	series repository.SeriesProvider,
	quotes repository.QuoteProvider,
	news *usecase.NewsPipeline,
	sched *usecase.Scheduler,
	sink repository.ReportSink,
	archive repository.QuoteArchive,
	events repository.EventPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.ReportGenerator {
	return usecase.NewReportGenerator(series, quotes, news, sched, sink, m, l,
		usecase.WithQuoteArchive(archive),
		usecase.WithEventPublisher(events),
		usecase.WithPublish(cfg.Report.Publish),
	)
}

func ProvideReportHandler(l *applogger.Logger, gen *usecase.ReportGenerator) *api.ReportEchoHandler {
	return api.NewReportEchoHandler(l, gen)
}

func ProvideResources(c cache.Service, sink repository.ReportSink, ch *pkgch.Client, producer *pkgkafka.Producer) *Resources {
	return &Resources{Cache: c, Sink: sink, CH: ch, Producer: producer}
}

// ProvideApp creates the application and registers its closers. The Kafka
// producer closes last so collected error logs still flush.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	gen *usecase.ReportGenerator,
	h *api.ReportEchoHandler,
	res *Resources,
) *server.App {
	app := server.New(cfg, l, gen, h)
	if res.Producer != nil {
		app.OnClose("kafka", func() error {
			l.RemoveCollector()
			return res.Producer.Close()
		})
	}
	if res.CH != nil {
		app.OnClose("clickhouse", res.CH.Close)
	}
	if c, ok := res.Sink.(io.Closer); ok {
		app.OnClose("sink", c.Close)
	}
	if res.Cache != nil {
		app.OnClose("cache", res.Cache.Close)
	}
	return app
}
