package risk

import (
	"errors"
	"fmt"
)

// Kind classifies assessment pipeline failures. Callers match on kind to
// decide remediation (prompt for missing inputs vs report a model outage).
type Kind string

const (
	KindUnknownIndicator   Kind = "ERR_UNKNOWN_INDICATOR"
	KindMissingIndicator   Kind = "ERR_MISSING_INDICATOR"
	KindOutOfRange         Kind = "ERR_OUT_OF_RANGE"
	KindEncoding           Kind = "ERR_ENCODING"
	KindSchemaMismatch     Kind = "ERR_SCHEMA_MISMATCH"
	KindInference          Kind = "ERR_INFERENCE"
	KindInvalidProbability Kind = "ERR_INVALID_PROBABILITY"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrUnknownIndicator   = &Error{K: KindUnknownIndicator}
	ErrMissingIndicator   = &Error{K: KindMissingIndicator}
	ErrOutOfRange         = &Error{K: KindOutOfRange}
	ErrEncoding           = &Error{K: KindEncoding}
	ErrSchemaMismatch     = &Error{K: KindSchemaMismatch}
	ErrInference          = &Error{K: KindInference}
	ErrInvalidProbability = &Error{K: KindInvalidProbability}
)

// Error is the typed error for every scoring pipeline stage.
// Each stage raises its own kind; the orchestrator never reclassifies.
type Error struct {
	K         Kind
	Indicator string // offending indicator name, when applicable
	Message   string
	Err       error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.K)
	}
	if e.Indicator != "" {
		msg = fmt.Sprintf("%s: %s", e.Indicator, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same kind, so sentinel comparison works.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.K == t.K
	}
	return false
}

// KindOf extracts the kind from err, or "" for non-risk errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.K
	}
	return ""
}

// UnknownIndicator reports a key outside the fixed schema.
func UnknownIndicator(name string) *Error {
	return &Error{K: KindUnknownIndicator, Indicator: name, Message: "indicator is not part of the schema"}
}

// MissingIndicator reports a required indicator with no value.
func MissingIndicator(name string) *Error {
	return &Error{K: KindMissingIndicator, Indicator: name, Message: "required indicator has no value"}
}

// OutOfRange reports a value outside the documented plausible range.
func OutOfRange(name string, value, min, max float64) *Error {
	return &Error{
		K:         KindOutOfRange,
		Indicator: name,
		Message:   fmt.Sprintf("value %v outside plausible range [%v, %v]", value, min, max),
	}
}

// Encoding reports a transform producing a non-finite feature.
func Encoding(name string, value float64) *Error {
	return &Error{
		K:         KindEncoding,
		Indicator: name,
		Message:   fmt.Sprintf("transform produced non-finite feature from value %v", value),
	}
}

// SchemaMismatch reports a feature vector whose length does not match the schema.
func SchemaMismatch(got, want int) *Error {
	return &Error{K: KindSchemaMismatch, Message: fmt.Sprintf("feature vector length %d, schema expects %d", got, want)}
}

// Inference wraps a failure raised by the underlying predictor.
func Inference(err error) *Error {
	return &Error{K: KindInference, Message: "predictor failed", Err: err}
}

// InvalidProbability reports a probability outside [0, 1] or non-finite.
func InvalidProbability(p float64) *Error {
	return &Error{K: KindInvalidProbability, Message: fmt.Sprintf("probability %v outside [0, 1]", p)}
}
