package models

import (
	"sort"

	"Cassandra/internal/domain/risk"
	"Cassandra/internal/domain/schema"
)

// IndicatorSet is the raw named indicator values for one analysis
// request, from manual entry or a fetched snapshot. Absence is explicit:
// an indicator without a value is unset, never zero. The set is created
// per request and not mutated after it reaches the encoder.
type IndicatorSet struct {
	values map[string]float64
}

// NewIndicatorSet copies values into a fresh set.
func NewIndicatorSet(values map[string]float64) IndicatorSet {
	m := make(map[string]float64, len(values))
	for k, v := range values {
		m[k] = v
	}
	return IndicatorSet{values: m}
}

// Value returns the indicator value and whether it is set.
func (s IndicatorSet) Value(name string) (float64, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Len returns the number of set indicators.
func (s IndicatorSet) Len() int { return len(s.values) }

// Validate checks the set against the schema: unknown keys are rejected,
// required indicators must be set, and values must fall in the
// documented plausible range. Out-of-range is advisory: with
// allowOutOfRange it is returned as a warning instead of failing.
// Unknown and missing failures are reported in deterministic order.
func (s IndicatorSet) Validate(sc *schema.Schema, allowOutOfRange bool) ([]*risk.Error, error) {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := sc.Lookup(name); !ok {
			return nil, risk.UnknownIndicator(name)
		}
	}

	var warnings []*risk.Error
	for _, ind := range sc.Indicators {
		v, ok := s.values[ind.Name]
		if !ok {
			if ind.Required {
				return nil, risk.MissingIndicator(ind.Name)
			}
			continue
		}
		if v < ind.Min || v > ind.Max {
			oor := risk.OutOfRange(ind.Name, v, ind.Min, ind.Max)
			if !allowOutOfRange {
				return nil, oor
			}
			warnings = append(warnings, oor)
		}
	}
	return warnings, nil
}
