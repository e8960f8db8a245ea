package service

import "context"

// Predictor is the opaque trained model capability. Given the ordered
// feature vector it returns the crash probability in [0, 1]. How the
// model is persisted and loaded is the loader collaborator's concern;
// implementations must be read-only after load so concurrent
// assessments can share one handle without locking.
type Predictor interface {
	Predict(ctx context.Context, features []float64) (float64, error)
}
