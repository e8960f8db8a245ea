package models

import "time"

// FeatureVector is the fixed-length ordered encoding of indicators as
// consumed by the classifier. Length and order match the schema.
type FeatureVector []float64

// RiskTier is the discrete risk classification.
type RiskTier string

const (
	TierLow    RiskTier = "LOW"
	TierMedium RiskTier = "MEDIUM"
	TierHigh   RiskTier = "HIGH"
)

// Assessment sources.
const (
	SourceManual = "manual"
	SourceLive   = "live"
	SourceKafka  = "kafka"
)

// Assessment is the immutable result of one analysis call. The feature
// vector is retained for auditability.
type Assessment struct {
	Timestamp      time.Time     `json:"timestamp"`
	Source         string        `json:"source"`
	SchemaVersion  string        `json:"schema_version"`
	Probability    float64       `json:"probability"`
	Tier           RiskTier      `json:"tier"`
	Recommendation string        `json:"recommendation"`
	Features       FeatureVector `json:"features"`
	Warnings       []string      `json:"warnings,omitempty"`
}
