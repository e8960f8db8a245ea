package analytics

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestLocalPredictor(t *testing.T) {
	path := writeArtifact(t, `{"schema_version":"v1","intercept":0,"coefficients":[1,1]}`)
	p := NewLocalPredictor(path)

	got, err := p.Predict(context.Background(), []float64{0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("sigmoid(0) should be 0.5, got %v", got)
	}

	got, err = p.Predict(context.Background(), []float64{10, 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got <= 0.99 || got > 1 {
		t.Fatalf("expected probability near 1, got %v", got)
	}
}

func TestLocalPredictorLengthCheck(t *testing.T) {
	path := writeArtifact(t, `{"schema_version":"v1","intercept":0,"coefficients":[1,1]}`)
	p := NewLocalPredictor(path)
	if _, err := p.Predict(context.Background(), []float64{1}); err == nil {
		t.Fatalf("expected length error")
	}
}

func TestLocalPredictorMissingArtifact(t *testing.T) {
	p := NewLocalPredictor(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := p.Predict(context.Background(), []float64{1}); err == nil {
		t.Fatalf("expected load error")
	}
	// load error is sticky
	if _, err := p.Predict(context.Background(), []float64{1}); err == nil {
		t.Fatalf("expected sticky load error")
	}
}
