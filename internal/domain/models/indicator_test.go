package models

import (
	"errors"
	"testing"

	"Cassandra/internal/domain/risk"
	"Cassandra/internal/domain/schema"
)

func validValues(sc *schema.Schema) map[string]float64 {
	m := make(map[string]float64, sc.Len())
	for _, ind := range sc.Indicators {
		m[ind.Name] = (ind.Min + ind.Max) / 2
	}
	return m
}

func TestValidateAccepts(t *testing.T) {
	sc := schema.Default()
	set := NewIndicatorSet(validValues(sc))
	warns, err := set.Validate(sc, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
}

func TestValidateUnknownIndicator(t *testing.T) {
	sc := schema.Default()
	vals := validValues(sc)
	vals["BTC"] = 42000
	_, err := NewIndicatorSet(vals).Validate(sc, false)
	if !errors.Is(err, risk.ErrUnknownIndicator) {
		t.Fatalf("expected unknown indicator, got %v", err)
	}
}

func TestValidateMissingIndicator(t *testing.T) {
	sc := schema.Default()
	vals := validValues(sc)
	delete(vals, "VIX")
	_, err := NewIndicatorSet(vals).Validate(sc, false)
	if !errors.Is(err, risk.ErrMissingIndicator) {
		t.Fatalf("expected missing indicator, got %v", err)
	}
}

func TestValidateOutOfRangeFatal(t *testing.T) {
	sc := schema.Default()
	vals := validValues(sc)
	vals["USGG2YR"] = 250 // percent rate outside [-100, 100]
	_, err := NewIndicatorSet(vals).Validate(sc, false)
	if !errors.Is(err, risk.ErrOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
}

func TestValidateOutOfRangeAdvisory(t *testing.T) {
	sc := schema.Default()
	vals := validValues(sc)
	vals["USGG2YR"] = 250
	warns, err := NewIndicatorSet(vals).Validate(sc, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warns) != 1 || risk.KindOf(warns[0]) != risk.KindOutOfRange {
		t.Fatalf("expected one out-of-range warning, got %v", warns)
	}
}

func TestSetIsCopied(t *testing.T) {
	vals := map[string]float64{"VIX": 20}
	set := NewIndicatorSet(vals)
	vals["VIX"] = 99
	if v, _ := set.Value("VIX"); v != 20 {
		t.Fatalf("set must copy input values, got %v", v)
	}
}
