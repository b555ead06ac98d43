//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"MarketBrief/pkg/config"
	"MarketBrief/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(ctx context.Context, cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideHTTPClient,
		ProvideCache,

		// Providers, nil when their credential is unset
		ProvideSeriesProvider,
		ProvideQuoteProvider,
		ProvideHeadlineSearcher,
		ProvideHeadlineSource,
		ProvideTranslator,

		// Optional infrastructure
		ProvideReportSink,
		ProvideClickHouseClient,
		ProvideQuoteArchive,
		ProvideKafkaProducer,
		ProvideEventPublisher,

		// Use cases
		ProvideNewsPipeline,
		ProvideScheduler,
		ProvideReportGenerator,

		ProvideReportHandler,
		ProvideResources,
		ProvideApp,
	)
	return &server.App{}, nil
}
