package repository

import (
	"context"
	"time"

	"Cassandra/internal/domain/models"
)

// QuoteStream delivers live indicator quotes from a market data provider.
type QuoteStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher hands completed assessments to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, a *models.Assessment) error
	PublishBatch(ctx context.Context, as []*models.Assessment) error
	Close() error
}

// AssessmentStore persists assessment history for auditing.
type AssessmentStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, a *models.Assessment) error
	StoreBatch(ctx context.Context, as []*models.Assessment) error
	Query(ctx context.Context, from, to time.Time, limit int) ([]*models.Assessment, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordAssessment(source string, tier models.RiskTier)
	RecordProbability(source string, p float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
