package policy

import (
	"math"

	"Cassandra/internal/domain/models"
	"Cassandra/internal/domain/risk"
)

// Tier boundaries. A probability on a boundary maps to the higher tier;
// the exact inclusivity changes trading guidance, so these are fixed.
const (
	mediumThreshold = 0.30
	highThreshold   = 0.60
)

// Recommendations per tier.
const (
	RecommendationLow    = "maintain full market exposure"
	RecommendationMedium = "reduce position size to 50%"
	RecommendationHigh   = "move to cash"
)

// Classify maps a crash probability to a risk tier and recommendation.
// Pure function: same probability, same answer. Probabilities outside
// [0, 1] or non-finite are rejected.
func Classify(p float64) (models.RiskTier, string, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 || p > 1 {
		return "", "", risk.InvalidProbability(p)
	}
	switch {
	case p < mediumThreshold:
		return models.TierLow, RecommendationLow, nil
	case p < highThreshold:
		return models.TierMedium, RecommendationMedium, nil
	default:
		return models.TierHigh, RecommendationHigh, nil
	}
}
