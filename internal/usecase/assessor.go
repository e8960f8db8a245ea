package usecase

import (
	"context"
	"time"

	"Cassandra/internal/domain/models"
	"Cassandra/internal/domain/schema"
	"Cassandra/internal/services/analytics"
	"Cassandra/internal/services/features"
	"Cassandra/internal/services/policy"
)

// Assessor is the single entry point of the scoring pipeline:
// validate -> encode -> predict -> classify -> bundle. It is stateless
// between calls and safe for concurrent use; the classifier handle is
// read-only after construction.
type Assessor struct {
	encoder    *features.Encoder
	classifier *analytics.Classifier
}

// NewAssessor builds the pipeline from an encoder and classifier bound
// to the same schema.
func NewAssessor(enc *features.Encoder, cls *analytics.Classifier) *Assessor {
	return &Assessor{encoder: enc, classifier: cls}
}

// Schema exposes the indicator contract for handlers.
func (a *Assessor) Schema() *schema.Schema { return a.encoder.Schema() }

// Assess runs one assessment. The pipeline short-circuits on the first
// failing stage and the stage's error kind propagates unchanged, so
// callers can tell bad input from a model failure. With allowOutOfRange
// set, out-of-range indicator values become warnings on the result
// instead of aborting.
func (a *Assessor) Assess(ctx context.Context, set models.IndicatorSet, source string, allowOutOfRange bool) (*models.Assessment, error) {
	sc := a.encoder.Schema()

	warnings, err := set.Validate(sc, allowOutOfRange)
	if err != nil {
		return nil, err
	}

	vec, err := a.encoder.Encode(set)
	if err != nil {
		return nil, err
	}

	prob, err := a.classifier.Predict(ctx, vec)
	if err != nil {
		return nil, err
	}

	tier, recommendation, err := policy.Classify(prob)
	if err != nil {
		return nil, err
	}

	result := &models.Assessment{
		Timestamp:      time.Now().UTC(),
		Source:         source,
		SchemaVersion:  sc.Version,
		Probability:    prob,
		Tier:           tier,
		Recommendation: recommendation,
		Features:       vec,
	}
	for _, w := range warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}
	return result, nil
}
