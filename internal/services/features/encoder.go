package features

import (
	"math"

	"Cassandra/internal/domain/models"
	"Cassandra/internal/domain/risk"
	"Cassandra/internal/domain/schema"
)

// Encoder converts a validated IndicatorSet into the model-ready feature
// vector. Features are emitted in schema order with each indicator's
// declared transform applied; the order is a contract with the trained
// classifier.
type Encoder struct {
	schema *schema.Schema
}

// NewEncoder creates an encoder bound to a schema.
func NewEncoder(sc *schema.Schema) *Encoder {
	return &Encoder{schema: sc}
}

// Schema returns the schema the encoder is bound to.
func (e *Encoder) Schema() *schema.Schema { return e.schema }

// Encode builds the feature vector. The set must already have passed
// Validate. Any transform result that is NaN or infinite fails with an
// encoding error: an opaque classifier's behavior on non-finite input
// is undefined, so it must never see one.
func (e *Encoder) Encode(set models.IndicatorSet) (models.FeatureVector, error) {
	vec := make(models.FeatureVector, 0, e.schema.Len())
	for _, ind := range e.schema.Indicators {
		v, ok := set.Value(ind.Name)
		if !ok {
			// Validate guarantees required values; a gap here means the
			// caller skipped it.
			return nil, risk.MissingIndicator(ind.Name)
		}
		f := ind.Apply(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, risk.Encoding(ind.Name, v)
		}
		vec = append(vec, f)
	}
	return vec, nil
}
