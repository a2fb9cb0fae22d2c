//go:build wireinject
// +build wireinject

package di

import (
	"AgroPulse/internal/usecase"
	"AgroPulse/pkg/config"
	"AgroPulse/pkg/server"

	"github.com/google/wire"
)

var engineSet = wire.NewSet(
	ProvideAnomalyDetector,
	ProvideForecaster,
	ProvideAnalysisAggregate,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideResponseCache,

		// Repositories
		ProvidePriceStore,
		ProvideAnomalyStore,
		ProvideAlertPublisher,

		// Use cases
		engineSet,
		ProvidePriceAnalytics,
		ProvideQuoteIngestHandler,
		ProvideAnomalyAlerter,
		ProvideScheduler,

		// HTTP
		ProvideHTTPHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeAnalyzer wires the engine for offline analysis of a local series.
func InitializeAnalyzer(cfg *config.Config) (*usecase.AnalysisAggregateUseCase, error) {
	wire.Build(
		engineSet,
		ProvideOfflineAnalytics,
	)
	return nil, nil
}
