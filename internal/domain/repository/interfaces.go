package repository

import (
	"context"

	"MarketBrief/internal/domain/models"
)

// A nil provider means its credential is unset; callers render
// models.Unconfigured without touching the network.

type SeriesProvider interface {
	FetchSeries(ctx context.Context, seriesID string) (*models.SeriesQuote, error)
}

type QuoteProvider interface {
	FetchQuote(ctx context.Context, symbol string) (*models.MarketQuote, error)
	FetchFX(ctx context.Context, from, to string) (*models.FXRate, error)
}

// HeadlineSearcher is a news provider with an everything-style query.
type HeadlineSearcher interface {
	TopHeadlines(ctx context.Context, country, category string) ([]models.NewsItem, error)
	Everything(ctx context.Context, query string, anyLanguage bool) ([]models.NewsItem, error)
}

type HeadlineSource interface {
	TopHeadlines(ctx context.Context, country, category string) ([]models.NewsItem, error)
	Search(ctx context.Context, query string) ([]models.NewsItem, error)
}

type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

type ReportSink interface {
	Insert(ctx context.Context, record *models.DailyReportRecord) (string, error)
}

type QuoteArchive interface {
	StoreBatch(ctx context.Context, snapshots []models.QuoteSnapshot) error
}

type EventPublisher interface {
	PublishReport(ctx context.Context, ev models.ReportEvent) error
}

type Metrics interface {
	RecordProviderCall(provider, outcome string, seconds float64)
	RecordDegradedSection(section string)
	RecordReport(status string, seconds float64)
	RecordError(kind string)
}
