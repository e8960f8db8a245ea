package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"

	domsvc "Cassandra/internal/domain/service"
)

// logisticArtifact is the exported coefficient file for a logistic
// model: probability = sigmoid(intercept + coef . features).
type logisticArtifact struct {
	SchemaVersion string    `json:"schema_version"`
	Intercept     float64   `json:"intercept"`
	Coefficients  []float64 `json:"coefficients"`
}

// LocalPredictor runs inference in-process from an exported coefficient
// artifact. The artifact is loaded lazily on first use and is read-only
// afterwards, so one handle serves concurrent assessments without
// locking.
type LocalPredictor struct {
	path string

	once    sync.Once
	loadErr error
	model   logisticArtifact
}

func NewLocalPredictor(path string) *LocalPredictor {
	return &LocalPredictor{path: path}
}

func (p *LocalPredictor) load() {
	b, err := os.ReadFile(p.path)
	if err != nil {
		p.loadErr = fmt.Errorf("read model artifact: %w", err)
		return
	}
	if err := json.Unmarshal(b, &p.model); err != nil {
		p.loadErr = fmt.Errorf("parse model artifact: %w", err)
		return
	}
	if len(p.model.Coefficients) == 0 {
		p.loadErr = fmt.Errorf("model artifact %s has no coefficients", p.path)
	}
}

func (p *LocalPredictor) Predict(_ context.Context, features []float64) (float64, error) {
	p.once.Do(p.load)
	if p.loadErr != nil {
		return 0, p.loadErr
	}
	if len(features) != len(p.model.Coefficients) {
		return 0, fmt.Errorf("model expects %d features, got %d", len(p.model.Coefficients), len(features))
	}
	z := p.model.Intercept
	for i, f := range features {
		z += p.model.Coefficients[i] * f
	}
	return 1 / (1 + math.Exp(-z)), nil
}

var _ domsvc.Predictor = (*LocalPredictor)(nil)
