package usecase

import (
	"context"
	"errors"
	"testing"

	"Cassandra/internal/domain/models"
	"Cassandra/internal/domain/risk"
	"Cassandra/internal/domain/schema"
	"Cassandra/internal/services/analytics"
	"Cassandra/internal/services/features"
	"Cassandra/internal/services/policy"
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

func newAssessor(stub *stubPredictor) *Assessor {
	sc := schema.Default()
	return NewAssessor(features.NewEncoder(sc), analytics.NewClassifier(stub, sc.Len()))
}

func validSet() models.IndicatorSet {
	sc := schema.Default()
	m := make(map[string]float64, sc.Len())
	for _, ind := range sc.Indicators {
		m[ind.Name] = (ind.Min + ind.Max) / 2
	}
	return models.NewIndicatorSet(m)
}

func TestAssess(t *testing.T) {
	stub := &stubPredictor{p: 0.72}
	a := newAssessor(stub)

	got, err := a.Assess(context.Background(), validSet(), models.SourceManual, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Probability != 0.72 {
		t.Fatalf("unexpected probability %v", got.Probability)
	}
	if got.Tier != models.TierHigh {
		t.Fatalf("unexpected tier %s", got.Tier)
	}
	if got.Recommendation != policy.RecommendationHigh {
		t.Fatalf("unexpected recommendation %q", got.Recommendation)
	}
	if len(got.Features) != schema.Default().Len() {
		t.Fatalf("feature vector not retained, len %d", len(got.Features))
	}
	if got.SchemaVersion != "v1" {
		t.Fatalf("unexpected schema version %s", got.SchemaVersion)
	}
	if stub.calls != 1 {
		t.Fatalf("expected one predictor call, got %d", stub.calls)
	}
}

func TestAssessMissingShortCircuits(t *testing.T) {
	stub := &stubPredictor{p: 0.5}
	a := newAssessor(stub)

	sc := schema.Default()
	m := make(map[string]float64, sc.Len())
	for _, ind := range sc.Indicators {
		m[ind.Name] = (ind.Min + ind.Max) / 2
	}
	delete(m, "DXY")

	_, err := a.Assess(context.Background(), models.NewIndicatorSet(m), models.SourceManual, false)
	if !errors.Is(err, risk.ErrMissingIndicator) {
		t.Fatalf("expected missing indicator, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("predictor must not run on invalid input, got %d calls", stub.calls)
	}
}

func TestAssessInferenceErrorPropagates(t *testing.T) {
	stub := &stubPredictor{err: errors.New("boom")}
	a := newAssessor(stub)

	_, err := a.Assess(context.Background(), validSet(), models.SourceLive, false)
	if !errors.Is(err, risk.ErrInference) {
		t.Fatalf("expected inference kind unchanged, got %v", err)
	}
}

func TestAssessInvalidProbability(t *testing.T) {
	stub := &stubPredictor{p: 1.7}
	a := newAssessor(stub)

	_, err := a.Assess(context.Background(), validSet(), models.SourceManual, false)
	if !errors.Is(err, risk.ErrInvalidProbability) {
		t.Fatalf("expected invalid probability, got %v", err)
	}
}

func TestAssessOutOfRangeWarning(t *testing.T) {
	stub := &stubPredictor{p: 0.1}
	a := newAssessor(stub)

	sc := schema.Default()
	m := make(map[string]float64, sc.Len())
	for _, ind := range sc.Indicators {
		m[ind.Name] = (ind.Min + ind.Max) / 2
	}
	m["ECSURPUS"] = 500 // outside plausible range, still finite after minmax

	set := models.NewIndicatorSet(m)
	if _, err := a.Assess(context.Background(), set, models.SourceManual, false); !errors.Is(err, risk.ErrOutOfRange) {
		t.Fatalf("expected out of range without override, got %v", err)
	}

	got, err := a.Assess(context.Background(), set, models.SourceManual, true)
	if err != nil {
		t.Fatalf("unexpected error with override: %v", err)
	}
	if len(got.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", got.Warnings)
	}
	if got.Tier != models.TierLow {
		t.Fatalf("unexpected tier %s", got.Tier)
	}
}

func TestAssessIsIndependentPerCall(t *testing.T) {
	stub := &stubPredictor{err: errors.New("outage")}
	a := newAssessor(stub)

	if _, err := a.Assess(context.Background(), validSet(), models.SourceManual, false); err == nil {
		t.Fatalf("expected failure")
	}

	// service stays usable after a failed call
	stub.err = nil
	stub.p = 0.2
	got, err := a.Assess(context.Background(), validSet(), models.SourceManual, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tier != models.TierLow {
		t.Fatalf("unexpected tier %s", got.Tier)
	}
}
