package schema

import (
	"math"
	"testing"
)

func TestDefaultSchemaIsValid(t *testing.T) {
	s := Default()
	if err := s.Check(); err != nil {
		t.Fatalf("default schema invalid: %v", err)
	}
	if s.Len() != len(s.Indicators) {
		t.Fatalf("len mismatch")
	}
}

func TestLookup(t *testing.T) {
	s := Default()
	ind, ok := s.Lookup("VIX")
	if !ok {
		t.Fatalf("expected VIX in schema")
	}
	if ind.Transform != TransformLog {
		t.Fatalf("unexpected transform %s", ind.Transform)
	}
	if _, ok := s.Lookup("NOPE"); ok {
		t.Fatalf("unexpected lookup hit")
	}
}

func TestNamesMatchSliceOrder(t *testing.T) {
	s := Default()
	names := s.Names()
	for i, ind := range s.Indicators {
		if names[i] != ind.Name {
			t.Fatalf("names out of schema order at %d", i)
		}
	}
}

func TestTransformPassthrough(t *testing.T) {
	ind := Indicator{Transform: TransformPassthrough, Min: -100, Max: 100}
	if got := ind.Apply(4.25); got != 4.25 {
		t.Fatalf("unexpected passthrough %v", got)
	}
}

func TestTransformLog(t *testing.T) {
	ind := Indicator{Transform: TransformLog, Min: 5, Max: 150}
	if got := ind.Apply(math.E); math.Abs(got-1) > 1e-12 {
		t.Fatalf("unexpected log %v", got)
	}
	if got := ind.Apply(0); !math.IsInf(got, -1) {
		t.Fatalf("expected -Inf for log of zero, got %v", got)
	}
}

func TestTransformMinMax(t *testing.T) {
	ind := Indicator{Transform: TransformMinMax, Min: 60, Max: 130}
	if got := ind.Apply(60); got != 0 {
		t.Fatalf("expected 0 at min, got %v", got)
	}
	if got := ind.Apply(130); got != 1 {
		t.Fatalf("expected 1 at max, got %v", got)
	}
	if got := ind.Apply(95); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("expected 0.5 at midpoint, got %v", got)
	}
}

func TestCheckRejectsDuplicates(t *testing.T) {
	s := &Schema{
		Version: "v1",
		Indicators: []Indicator{
			{Name: "VIX", Transform: TransformLog, Min: 0, Max: 1},
			{Name: "VIX", Transform: TransformLog, Min: 0, Max: 1},
		},
	}
	if err := s.Check(); err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func TestCheckRejectsUnknownTransform(t *testing.T) {
	s := &Schema{
		Version:    "v1",
		Indicators: []Indicator{{Name: "VIX", Transform: "zscore", Min: 0, Max: 1}},
	}
	if err := s.Check(); err == nil {
		t.Fatalf("expected transform error")
	}
}
