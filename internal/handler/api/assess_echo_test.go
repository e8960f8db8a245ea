package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Cassandra/internal/domain/models"
	"Cassandra/internal/domain/schema"
	"Cassandra/internal/services/analytics"
	"Cassandra/internal/services/features"
	"Cassandra/internal/usecase"
	xlogger "Cassandra/pkg/logger"

	"github.com/labstack/echo/v4"
)

type fixedPredictor struct{ p float64 }

func (f fixedPredictor) Predict(context.Context, []float64) (float64, error) { return f.p, nil }

type connectedStream struct{}

func (connectedStream) Connect(ctx context.Context) error   { return nil }
func (connectedStream) Subscribe(ctx context.Context) error { return nil }
func (connectedStream) Read(ctx context.Context) (<-chan *models.Quote, <-chan error) {
	return make(chan *models.Quote), make(chan error)
}
func (connectedStream) Reconnect(ctx context.Context) error { return nil }
func (connectedStream) Close() error                        { return nil }
func (connectedStream) IsConnected() bool                   { return true }

type healthyStore struct{}

func (healthyStore) Init(ctx context.Context) error                           { return nil }
func (healthyStore) Store(ctx context.Context, a *models.Assessment) error    { return nil }
func (healthyStore) StoreBatch(ctx context.Context, a []*models.Assessment) error { return nil }
func (healthyStore) Query(ctx context.Context, from, to time.Time, limit int) ([]*models.Assessment, error) {
	return nil, nil
}
func (healthyStore) Health(ctx context.Context) error { return nil }
func (healthyStore) Close() error                     { return nil }

type quietMetrics struct{}

func (quietMetrics) RecordAssessment(string, models.RiskTier) {}
func (quietMetrics) RecordProbability(string, float64)        {}
func (quietMetrics) RecordError(string)                       {}
func (quietMetrics) RecordLatency(string, float64)            {}

func newTestHandler(t *testing.T) (*AssessEchoHandler, *usecase.QuoteCollector) {
	t.Helper()
	sc := schema.Default()
	assessor := usecase.NewAssessor(
		features.NewEncoder(sc),
		analytics.NewClassifier(fixedPredictor{p: 0.1}, sc.Len()),
	)
	collector := usecase.NewQuoteCollector(connectedStream{}, quietMetrics{}, nil, sc)
	processor := usecase.NewAssessmentProcessor(nil, healthyStore{}, quietMetrics{}, "clickhouse")
	logger, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewAssessEchoHandler(logger, assessor, collector, processor, nil, 0, 100), collector
}

func TestHealthReportsIndicatorFreshness(t *testing.T) {
	h, collector := newTestHandler(t)

	now := time.Now().Unix()
	if err := collector.Process(context.Background(), &models.Quote{Symbol: "^VIX", Price: 22.1, Timestamp: now}); err != nil {
		t.Fatalf("process: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	if err := h.Health(e.NewContext(req, rec)); err != nil {
		t.Fatalf("health: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"indicators"`) {
		t.Fatalf("health body missing indicator freshness: %s", body)
	}
	if !strings.Contains(body, `"VIX"`) {
		t.Fatalf("collected indicator VIX missing from freshness map: %s", body)
	}
	if strings.Contains(body, `"BDIY"`) {
		t.Fatalf("indicator without a quote must not report freshness: %s", body)
	}
}
