package analytics

import (
	"context"

	"Cassandra/internal/domain/models"
	"Cassandra/internal/domain/risk"
	domsvc "Cassandra/internal/domain/service"
)

// Classifier wraps the opaque predictor with the schema-length contract.
// It refuses vectors of the wrong length before the model sees them and
// surfaces predictor failures as inference errors, never swallowed. No
// internal retry: inference is synchronous and side-effect-free.
type Classifier struct {
	pred      domsvc.Predictor
	schemaLen int
}

// NewClassifier binds a predictor to the expected feature vector length.
func NewClassifier(pred domsvc.Predictor, schemaLen int) *Classifier {
	return &Classifier{pred: pred, schemaLen: schemaLen}
}

// Predict runs inference and returns the crash probability.
func (c *Classifier) Predict(ctx context.Context, vec models.FeatureVector) (float64, error) {
	if len(vec) != c.schemaLen {
		return 0, risk.SchemaMismatch(len(vec), c.schemaLen)
	}
	p, err := c.pred.Predict(ctx, vec)
	if err != nil {
		return 0, risk.Inference(err)
	}
	return p, nil
}
