package policy

import (
	"errors"
	"math"
	"testing"

	"Cassandra/internal/domain/models"
	"Cassandra/internal/domain/risk"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		p    float64
		tier models.RiskTier
		rec  string
	}{
		{0.0, models.TierLow, RecommendationLow},
		{0.29, models.TierLow, RecommendationLow},
		{0.299999, models.TierLow, RecommendationLow},
		{0.30, models.TierMedium, RecommendationMedium},
		{0.45, models.TierMedium, RecommendationMedium},
		{0.599, models.TierMedium, RecommendationMedium},
		{0.60, models.TierHigh, RecommendationHigh},
		{0.85, models.TierHigh, RecommendationHigh},
		{1.0, models.TierHigh, RecommendationHigh},
	}
	for _, c := range cases {
		tier, rec, err := Classify(c.p)
		if err != nil {
			t.Fatalf("p=%v: unexpected error %v", c.p, err)
		}
		if tier != c.tier {
			t.Fatalf("p=%v: tier %s, want %s", c.p, tier, c.tier)
		}
		if rec != c.rec {
			t.Fatalf("p=%v: recommendation %q, want %q", c.p, rec, c.rec)
		}
	}
}

func TestClassifyInvalid(t *testing.T) {
	for _, p := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, _, err := Classify(p)
		if !errors.Is(err, risk.ErrInvalidProbability) {
			t.Fatalf("p=%v: expected invalid probability, got %v", p, err)
		}
	}
}

func TestClassifyIsPure(t *testing.T) {
	t1, r1, _ := Classify(0.42)
	t2, r2, _ := Classify(0.42)
	if t1 != t2 || r1 != r2 {
		t.Fatalf("classify not deterministic: %s/%s vs %s/%s", t1, r1, t2, r2)
	}
}
