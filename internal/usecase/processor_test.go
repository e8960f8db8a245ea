package usecase

import (
	"context"
	"testing"
	"time"

	"Cassandra/internal/domain/models"
)

type stubPublisher struct {
	published int
}

func (p *stubPublisher) Publish(ctx context.Context, a *models.Assessment) error {
	p.published++
	return nil
}
func (p *stubPublisher) PublishBatch(ctx context.Context, as []*models.Assessment) error {
	p.published += len(as)
	return nil
}
func (p *stubPublisher) Close() error { return nil }

type stubStore struct {
	stored int
}

func (s *stubStore) Init(ctx context.Context) error { return nil }
func (s *stubStore) Store(ctx context.Context, a *models.Assessment) error {
	s.stored++
	return nil
}
func (s *stubStore) StoreBatch(ctx context.Context, as []*models.Assessment) error {
	s.stored += len(as)
	return nil
}
func (s *stubStore) Query(ctx context.Context, from, to time.Time, limit int) ([]*models.Assessment, error) {
	return nil, nil
}
func (s *stubStore) Health(ctx context.Context) error { return nil }
func (s *stubStore) Close() error                     { return nil }

func sampleAssessment() *models.Assessment {
	return &models.Assessment{
		Timestamp:   time.Now().UTC(),
		Source:      models.SourceManual,
		Probability: 0.42,
		Tier:        models.TierMedium,
	}
}

func TestProcessRoutesToKafka(t *testing.T) {
	pub := &stubPublisher{}
	store := &stubStore{}
	p := NewAssessmentProcessor(pub, store, nopMetrics{}, "kafka")

	if err := p.Process(context.Background(), sampleAssessment()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if pub.published != 1 || store.stored != 0 {
		t.Fatalf("kafka backend must publish only: published=%d stored=%d", pub.published, store.stored)
	}
}

func TestProcessRoutesToBoth(t *testing.T) {
	pub := &stubPublisher{}
	store := &stubStore{}
	p := NewAssessmentProcessor(pub, store, nopMetrics{}, "both")

	if err := p.Process(context.Background(), sampleAssessment()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if pub.published != 1 || store.stored != 1 {
		t.Fatalf("both backend must publish and store: published=%d stored=%d", pub.published, store.stored)
	}
}

func TestProcessRejectsUnknownBackend(t *testing.T) {
	p := NewAssessmentProcessor(&stubPublisher{}, &stubStore{}, nopMetrics{}, "mysql")
	if err := p.Process(context.Background(), sampleAssessment()); err == nil {
		t.Fatalf("unknown backend must fail")
	}
}

func TestProcessBatch(t *testing.T) {
	store := &stubStore{}
	p := NewAssessmentProcessor(nil, store, nopMetrics{}, "clickhouse")

	batch := []*models.Assessment{sampleAssessment(), sampleAssessment(), sampleAssessment()}
	if err := p.ProcessBatch(context.Background(), batch); err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if store.stored != 3 {
		t.Fatalf("stored = %d, want 3", store.stored)
	}
}
