//go:build wireinject
// +build wireinject

package di

import (
	"Cassandra/pkg/config"
	"Cassandra/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Scoring pipeline
		ProvideSchema,
		ProvideEncoder,
		ProvidePredictor,
		ProvideClassifier,
		ProvideAssessor,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Repositories
		ProvideAssessmentStore,
		ProvidePublisher,
		ProvideQuoteStream,

		// Use cases
		ProvideProcessor,
		ProvideQuoteCollector,
		ProvideMonitor,
		ProvideSnapshotsHandler,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
