package analytics

import (
	"context"
	"errors"
	"testing"

	"Cassandra/internal/domain/models"
	"Cassandra/internal/domain/risk"
)

type stubPredictor struct {
	p     float64
	err   error
	calls int
}

func (s *stubPredictor) Predict(_ context.Context, _ []float64) (float64, error) {
	s.calls++
	return s.p, s.err
}

func TestClassifierPredict(t *testing.T) {
	stub := &stubPredictor{p: 0.7}
	c := NewClassifier(stub, 3)

	p, err := c.Predict(context.Background(), models.FeatureVector{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 0.7 {
		t.Fatalf("unexpected probability %v", p)
	}
	if stub.calls != 1 {
		t.Fatalf("expected one predictor call, got %d", stub.calls)
	}
}

func TestClassifierSchemaMismatch(t *testing.T) {
	stub := &stubPredictor{p: 0.7}
	c := NewClassifier(stub, 3)

	_, err := c.Predict(context.Background(), models.FeatureVector{1, 2})
	if !errors.Is(err, risk.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("predictor must not be called on mismatch, got %d calls", stub.calls)
	}
}

func TestClassifierInferenceError(t *testing.T) {
	cause := errors.New("model service down")
	c := NewClassifier(&stubPredictor{err: cause}, 1)

	_, err := c.Predict(context.Background(), models.FeatureVector{1})
	if !errors.Is(err, risk.ErrInference) {
		t.Fatalf("expected inference error, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected underlying cause preserved")
	}
}
