package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MarketBrief/internal/domain/models"
	domrepo "MarketBrief/internal/domain/repository"
	"MarketBrief/internal/service/alphavantage"
	"MarketBrief/internal/service/banxico"
	applogger "MarketBrief/pkg/logger"
	pkgmetrics "MarketBrief/pkg/metrics"
	"MarketBrief/pkg/util"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	StatusSuccess          = "success"
	StatusPersistenceError = "persistence_error"
	StatusFailed           = "failed"

	fxFrom = "MXN"
	fxTo   = "USD"
)

var validate = validator.New()

// ReportGenerator runs one daily report: fetch, assemble, persist.
type ReportGenerator struct {
	series    domrepo.SeriesProvider
	quotes    domrepo.QuoteProvider
	news      *NewsPipeline
	scheduler *Scheduler
	sink      domrepo.ReportSink
	archive   domrepo.QuoteArchive
	events    domrepo.EventPublisher
	metrics   domrepo.Metrics
	logger    *applogger.Logger
	publish   bool
	now       func() time.Time
}

// GeneratorOption configures ReportGenerator.
type GeneratorOption func(*ReportGenerator)

// WithQuoteArchive stores each run's quotes after the record is persisted.
func WithQuoteArchive(a domrepo.QuoteArchive) GeneratorOption {
	return func(g *ReportGenerator) {
		g.archive = a
	}
}

// WithEventPublisher announces each stored report.
func WithEventPublisher(p domrepo.EventPublisher) GeneratorOption {
	return func(g *ReportGenerator) {
		g.events = p
	}
}

// WithPublish sets is_published on new records.
func WithPublish(publish bool) GeneratorOption {
	return func(g *ReportGenerator) {
		g.publish = publish
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *ReportGenerator) {
		g.now = now
	}
}

// NewReportGenerator wires a generator. series and quotes are nil when
// their credential is unset.
func NewReportGenerator(
	series domrepo.SeriesProvider,
	quotes domrepo.QuoteProvider,
	news *NewsPipeline,
	scheduler *Scheduler,
	sink domrepo.ReportSink,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
	opts ...GeneratorOption,
) *ReportGenerator {
	if logger == nil {
		logger = applogger.Nop()
	}
	if metrics == nil {
		metrics = pkgmetrics.Nop{}
	}
	g := &ReportGenerator{
		series:    series,
		quotes:    quotes,
		news:      news,
		scheduler: scheduler,
		sink:      sink,
		metrics:   metrics,
		logger:    logger,
		publish:   true,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds and stores the report for date (YYYY-MM-DD). An empty date
// means today in UTC. The returned error is a *repository.PersistenceError
// when the sink rejected the record.
func (g *ReportGenerator) Generate(ctx context.Context, date string) (res *models.GenerateResult, err error) {
	start := g.now()
	if date == "" {
		date = util.ISODate(start)
	}
	runID := uuid.NewString()
	log := g.logger.With(applogger.String("run_id", runID), applogger.String("report_date", date))

	defer func() {
		status := StatusSuccess
		var perr *domrepo.PersistenceError
		switch {
		case errors.As(err, &perr):
			status = StatusPersistenceError
		case err != nil:
			status = StatusFailed
		}
		g.metrics.RecordReport(status, g.now().Sub(start).Seconds())
	}()

	log.Info("report generation started")

	raw, err := g.fetch(ctx, date)
	if err != nil {
		log.Error("report fetch aborted", applogger.Error(err))
		return nil, err
	}

	assembled := Assemble(raw)
	for _, section := range assembled.Degraded {
		g.metrics.RecordDegradedSection(section)
	}

	record := &models.DailyReportRecord{
		Title:         models.ReportTitle(date),
		ReportDate:    date,
		FormResponses: assembled.Sections,
		IsPublished:   g.publish,
		AuthorID:      nil,
	}
	if err := validate.Struct(record); err != nil {
		return nil, fmt.Errorf("invalid report record: %w", err)
	}

	id, err := g.sink.Insert(ctx, record)
	if err != nil {
		log.Error("report insert failed", applogger.Error(err))
		return nil, err
	}

	log.Info("report stored",
		applogger.String("report_id", id),
		applogger.Strings("degraded_sections", assembled.Degraded),
		applogger.Duration("elapsed_ms", g.now().Sub(start)),
	)

	g.afterInsert(ctx, log, runID, id, record, raw, assembled.Degraded)

	return &models.GenerateResult{ReportID: id, RunID: runID, Record: record}, nil
}

// fetch runs every provider call through the scheduler.
func (g *ReportGenerator) fetch(ctx context.Context, date string) (RawResults, error) {
	seriesIDs := []string{models.SeriesTIIE28, models.SeriesCETES28, models.SeriesMbono10, models.SeriesFIX}
	series := make([]SeriesResult, len(seriesIDs))

	symbols := make([]string, 0, len(models.EquityQuotes)+len(models.CommodityQuotes)+1)
	for _, q := range models.EquityQuotes {
		symbols = append(symbols, q.Symbol)
	}
	for _, q := range models.CommodityQuotes {
		symbols = append(symbols, q.Symbol)
	}
	symbols = append(symbols, models.TreasuryQuote.Symbol)
	quotes := make([]QuoteResult, len(symbols))

	var fx FXResult
	var national, international NewsResult

	// Stage one alongside: central-bank series and national news.
	var first []Task
	for i, id := range seriesIDs {
		if g.series == nil {
			series[i] = SeriesResult{Err: models.Unconfigured(banxico.Name, banxico.Credential)}
			continue
		}
		first = append(first, func(ctx context.Context) {
			q, err := g.series.FetchSeries(ctx, id)
			series[i] = SeriesResult{Quote: q, Err: err}
		})
	}
	first = append(first, func(ctx context.Context) {
		items, err := g.news.National(ctx)
		national = NewsResult{Items: items, Err: err}
	})

	second := []Task{func(ctx context.Context) {
		items, err := g.news.International(ctx)
		international = NewsResult{Items: items, Err: err}
	}}

	// Quota-bound calls: the FX pair first, then every symbol.
	var quota []Task
	if g.quotes == nil {
		unset := models.Unconfigured(alphavantage.Name, alphavantage.Credential)
		fx = FXResult{Err: unset}
		for i := range quotes {
			quotes[i] = QuoteResult{Err: unset}
		}
	} else {
		quota = append(quota, func(ctx context.Context) {
			r, err := g.quotes.FetchFX(ctx, fxFrom, fxTo)
			fx = FXResult{Rate: r, Err: err}
		})
		for i, sym := range symbols {
			quota = append(quota, func(ctx context.Context) {
				q, err := g.quotes.FetchQuote(ctx, sym)
				quotes[i] = QuoteResult{Quote: q, Err: err}
			})
		}
	}

	batches := Partition(quota, g.scheduler.BatchSize)
	stages := make([]Stage, max(len(batches), 2))
	for i := range stages {
		stages[i].Name = fmt.Sprintf("batch-%d", i+1)
		if i < len(batches) {
			stages[i].Quota = batches[i]
		}
	}
	stages[0].Alongside = first
	stages[1].Alongside = second

	if err := g.scheduler.Run(ctx, stages...); err != nil {
		return RawResults{}, fmt.Errorf("schedule: %w", err)
	}

	raw := RawResults{
		Date:               date,
		Series:             make(map[string]SeriesResult, len(seriesIDs)),
		FX:                 fx,
		Quotes:             make(map[string]QuoteResult, len(symbols)),
		National:           national,
		International:      international,
		QuotesUnconfigured: g.quotes == nil,
	}
	for i, id := range seriesIDs {
		raw.Series[id] = series[i]
	}
	for i, sym := range symbols {
		raw.Quotes[sym] = quotes[i]
	}
	return raw, nil
}

// afterInsert archives quotes and publishes the event. Failures are logged
// and counted only.
func (g *ReportGenerator) afterInsert(ctx context.Context, log *applogger.Logger, runID, id string, record *models.DailyReportRecord, raw RawResults, degraded []string) {
	now := g.now()

	if g.archive != nil {
		snapshots := make([]models.QuoteSnapshot, 0, len(raw.Quotes))
		for sym, r := range raw.Quotes {
			if r.Err != nil || r.Quote == nil {
				continue
			}
			snapshots = append(snapshots, models.QuoteSnapshot{
				RunID:      runID,
				ReportDate: record.ReportDate,
				Symbol:     sym,
				Quote:      r.Quote,
				FetchedAt:  now,
			})
		}
		if len(snapshots) > 0 {
			if err := g.archive.StoreBatch(ctx, snapshots); err != nil {
				g.metrics.RecordError("quote_archive")
				log.Warn("quote archive failed", applogger.Error(err), applogger.Int("quotes", len(snapshots)))
			}
		}
	}

	if g.events != nil {
		ev := models.ReportEvent{
			ReportID:    id,
			RunID:       runID,
			ReportDate:  record.ReportDate,
			Title:       record.Title,
			Degraded:    degraded,
			GeneratedAt: now.UTC(),
		}
		if err := g.events.PublishReport(ctx, ev); err != nil {
			g.metrics.RecordError("event_publish")
			log.Warn("report event publish failed", applogger.Error(err))
		}
	}
}
