package schema

import "math"

// Transform names the per-indicator feature transform. Every indicator
// declares one explicitly; there is no default.
type Transform string

const (
	// TransformPassthrough emits the raw value unchanged.
	TransformPassthrough Transform = "passthrough"
	// TransformLog emits the natural log of the value. Non-positive
	// inputs produce a non-finite feature, which the encoder rejects.
	TransformLog Transform = "log"
	// TransformMinMax rescales the value into [0, 1] over the
	// indicator's plausible range.
	TransformMinMax Transform = "minmax"
)

// Valid reports whether t is a known transform.
func (t Transform) Valid() bool {
	switch t {
	case TransformPassthrough, TransformLog, TransformMinMax:
		return true
	}
	return false
}

// Apply computes the feature value for v under the indicator's transform.
// The result may be non-finite; the encoder checks before handing the
// vector to the classifier.
func (ind Indicator) Apply(v float64) float64 {
	switch ind.Transform {
	case TransformLog:
		return math.Log(v)
	case TransformMinMax:
		return (v - ind.Min) / (ind.Max - ind.Min)
	default:
		return v
	}
}
