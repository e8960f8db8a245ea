package usecase

import (
	"context"
	"fmt"
	"time"

	"Cassandra/internal/domain/models"
	drepo "Cassandra/internal/domain/repository"
)

// AssessmentProcessor routes completed assessments to the configured
// backend: Kafka for downstream alerting, ClickHouse for history, or
// both. Routing failures are operational, not assessment failures; the
// caller already holds the result.
type AssessmentProcessor struct {
	pub     drepo.Publisher
	store   drepo.AssessmentStore
	metrics drepo.Metrics
	backend string
}

// NewAssessmentProcessor creates a processor for the given backend
// ("kafka", "clickhouse", or "both").
func NewAssessmentProcessor(pub drepo.Publisher, store drepo.AssessmentStore, metrics drepo.Metrics, backend string) *AssessmentProcessor {
	return &AssessmentProcessor{pub: pub, store: store, metrics: metrics, backend: backend}
}

// Process routes a single assessment.
func (p *AssessmentProcessor) Process(ctx context.Context, a *models.Assessment) error {
	if a == nil {
		return fmt.Errorf("assessment is nil")
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, a)
	case "clickhouse":
		err = p.store.Store(ctx, a)
	case "both":
		if err = p.store.Store(ctx, a); err == nil {
			err = p.pub.Publish(ctx, a)
		}
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process assessment: %w", err)
	}

	p.metrics.RecordAssessment(a.Source, a.Tier)
	p.metrics.RecordProbability(a.Source, a.Probability)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())
	return nil
}

// ProcessBatch routes multiple assessments in one backend call.
func (p *AssessmentProcessor) ProcessBatch(ctx context.Context, as []*models.Assessment) error {
	if len(as) == 0 {
		return nil
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, as)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, as)
	case "both":
		if err = p.store.StoreBatch(ctx, as); err == nil {
			err = p.pub.PublishBatch(ctx, as)
		}
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, a := range as {
		p.metrics.RecordAssessment(a.Source, a.Tier)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())
	return nil
}

// Query reads stored assessments in [from, to], newest first. Only the
// ClickHouse backend keeps history.
func (p *AssessmentProcessor) Query(ctx context.Context, from, to time.Time, limit int) ([]*models.Assessment, error) {
	if p.store == nil {
		return nil, fmt.Errorf("history requires the clickhouse backend")
	}
	return p.store.Query(ctx, from, to, limit)
}

// Health pings the history store when one is configured.
func (p *AssessmentProcessor) Health(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	return p.store.Health(ctx)
}

// Close closes underlying resources if available.
func (p *AssessmentProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
