package features

import (
	"errors"
	"math"
	"testing"

	"Cassandra/internal/domain/models"
	"Cassandra/internal/domain/risk"
	"Cassandra/internal/domain/schema"
)

func midpointSet(sc *schema.Schema) models.IndicatorSet {
	m := make(map[string]float64, sc.Len())
	for _, ind := range sc.Indicators {
		m[ind.Name] = (ind.Min + ind.Max) / 2
	}
	return models.NewIndicatorSet(m)
}

func TestEncodeLengthAndOrder(t *testing.T) {
	sc := schema.Default()
	enc := NewEncoder(sc)

	vec, err := enc.Encode(midpointSet(sc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != sc.Len() {
		t.Fatalf("expected %d features, got %d", sc.Len(), len(vec))
	}
	for i, ind := range sc.Indicators {
		want := ind.Apply((ind.Min + ind.Max) / 2)
		if vec[i] != want {
			t.Fatalf("feature %d (%s) = %v, want %v", i, ind.Name, vec[i], want)
		}
	}
}

func TestEncodeAllFinite(t *testing.T) {
	sc := schema.Default()
	vec, err := NewEncoder(sc).Encode(midpointSet(sc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, f := range vec {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("non-finite feature at %d: %v", i, f)
		}
	}
}

func TestEncodeOrderIgnoresIngestionOrder(t *testing.T) {
	sc := schema.Default()
	enc := NewEncoder(sc)

	a := make(map[string]float64, sc.Len())
	b := make(map[string]float64, sc.Len())
	for _, ind := range sc.Indicators {
		mid := (ind.Min + ind.Max) / 2
		a[ind.Name] = mid
	}
	// reversed insertion order
	for i := len(sc.Indicators) - 1; i >= 0; i-- {
		ind := sc.Indicators[i]
		b[ind.Name] = (ind.Min + ind.Max) / 2
	}

	va, _ := enc.Encode(models.NewIndicatorSet(a))
	vb, _ := enc.Encode(models.NewIndicatorSet(b))
	for i := range va {
		if va[i] != vb[i] {
			t.Fatalf("encoding depends on ingestion order at %d", i)
		}
	}
}

func TestEncodeNonFiniteRejected(t *testing.T) {
	sc := &schema.Schema{
		Version: "v1",
		Indicators: []schema.Indicator{
			{Name: "VIX", Transform: schema.TransformLog, Min: 5, Max: 150, Required: true},
		},
	}
	// log(0) is -Inf; out-of-range validation is the caller's concern,
	// the encoder must still refuse the non-finite feature.
	set := models.NewIndicatorSet(map[string]float64{"VIX": 0})
	_, err := NewEncoder(sc).Encode(set)
	if !errors.Is(err, risk.ErrEncoding) {
		t.Fatalf("expected encoding error, got %v", err)
	}
}

func TestEncodeMissingValue(t *testing.T) {
	sc := schema.Default()
	_, err := NewEncoder(sc).Encode(models.NewIndicatorSet(nil))
	if !errors.Is(err, risk.ErrMissingIndicator) {
		t.Fatalf("expected missing indicator, got %v", err)
	}
}
