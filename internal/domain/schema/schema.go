package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Indicator groups, used by the API to present related inputs together.
const (
	GroupIndices    = "market_indices"
	GroupRates      = "interest_rates"
	GroupBondIndex  = "bond_indices"
	GroupCurrencies = "currencies"
)

// Indicator describes one model input: its unit, the transform applied
// before the classifier sees it, the documented plausible range, and the
// optional provider symbol used for live fetching.
type Indicator struct {
	Name           string    `yaml:"name" json:"name"`
	Unit           string    `yaml:"unit" json:"unit"`
	Group          string    `yaml:"group" json:"group"`
	Transform      Transform `yaml:"transform" json:"transform"`
	Min            float64   `yaml:"min" json:"min"`
	Max            float64   `yaml:"max" json:"max"`
	Required       bool      `yaml:"required" json:"required"`
	ProviderSymbol string    `yaml:"provider_symbol,omitempty" json:"provider_symbol,omitempty"`
}

// Schema is the versioned indicator contract shared by validation and
// encoding. Feature order is the slice order; it matches the trained
// model's input schema and must never depend on ingestion order.
type Schema struct {
	Version    string      `yaml:"version" json:"version"`
	Indicators []Indicator `yaml:"indicators" json:"indicators"`

	index map[string]int
}

// Load reads a schema file shipped alongside the model artifact.
func Load(path string) (*Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	var s Schema
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if err := s.Check(); err != nil {
		return nil, fmt.Errorf("validate schema: %w", err)
	}
	s.buildIndex()
	return &s, nil
}

// Check verifies the schema is internally consistent.
func (s *Schema) Check() error {
	if s.Version == "" {
		return fmt.Errorf("version is required")
	}
	if len(s.Indicators) == 0 {
		return fmt.Errorf("indicators cannot be empty")
	}
	seen := make(map[string]struct{}, len(s.Indicators))
	for _, ind := range s.Indicators {
		if ind.Name == "" {
			return fmt.Errorf("indicator name is required")
		}
		if _, dup := seen[ind.Name]; dup {
			return fmt.Errorf("duplicate indicator %s", ind.Name)
		}
		seen[ind.Name] = struct{}{}
		if !ind.Transform.Valid() {
			return fmt.Errorf("indicator %s: unknown transform %q", ind.Name, ind.Transform)
		}
		if ind.Min >= ind.Max {
			return fmt.Errorf("indicator %s: min %v must be below max %v", ind.Name, ind.Min, ind.Max)
		}
	}
	return nil
}

// Len returns the feature vector length defined by this schema.
func (s *Schema) Len() int { return len(s.Indicators) }

// Lookup finds an indicator by name.
func (s *Schema) Lookup(name string) (Indicator, bool) {
	if s.index == nil {
		s.buildIndex()
	}
	i, ok := s.index[name]
	if !ok {
		return Indicator{}, false
	}
	return s.Indicators[i], true
}

// Names returns indicator names in schema (feature) order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Indicators))
	for i, ind := range s.Indicators {
		names[i] = ind.Name
	}
	return names
}

func (s *Schema) buildIndex() {
	s.index = make(map[string]int, len(s.Indicators))
	for i, ind := range s.Indicators {
		s.index[ind.Name] = i
	}
}

// Default returns the built-in v1 schema matching the shipped model
// artifact. Deployments with a retrained model supply their own file
// via model.schema_path instead.
func Default() *Schema {
	s := &Schema{
		Version: "v1",
		Indicators: []Indicator{
			{Name: "VIX", Unit: "index", Group: GroupIndices, Transform: TransformLog, Min: 5, Max: 150, Required: true, ProviderSymbol: "^VIX"},
			{Name: "DXY", Unit: "index", Group: GroupIndices, Transform: TransformMinMax, Min: 60, Max: 130, Required: true, ProviderSymbol: "DX-Y.NYB"},
			{Name: "BDIY", Unit: "index", Group: GroupIndices, Transform: TransformLog, Min: 100, Max: 12000, Required: true},
			{Name: "MXEU", Unit: "index", Group: GroupIndices, Transform: TransformLog, Min: 10, Max: 10000, Required: true, ProviderSymbol: "IEUR"},
			{Name: "MXRU", Unit: "index", Group: GroupIndices, Transform: TransformLog, Min: 10, Max: 10000, Required: true, ProviderSymbol: "ERUS"},
			{Name: "MXIN", Unit: "index", Group: GroupIndices, Transform: TransformLog, Min: 10, Max: 10000, Required: true, ProviderSymbol: "INDA"},
			{Name: "USGG30YR", Unit: "percent", Group: GroupRates, Transform: TransformPassthrough, Min: -100, Max: 100, Required: true, ProviderSymbol: "^TYX"},
			{Name: "USGG2YR", Unit: "percent", Group: GroupRates, Transform: TransformPassthrough, Min: -100, Max: 100, Required: true, ProviderSymbol: "^IRX"},
			{Name: "US0001M", Unit: "percent", Group: GroupRates, Transform: TransformPassthrough, Min: -100, Max: 100, Required: true},
			{Name: "GTITL10YR", Unit: "percent", Group: GroupRates, Transform: TransformPassthrough, Min: -100, Max: 100, Required: true},
			{Name: "GTJPY10YR", Unit: "percent", Group: GroupRates, Transform: TransformPassthrough, Min: -100, Max: 100, Required: true},
			{Name: "GTGBP10YR", Unit: "percent", Group: GroupRates, Transform: TransformPassthrough, Min: -100, Max: 100, Required: true},
			{Name: "LF98TRUU", Unit: "index", Group: GroupBondIndex, Transform: TransformLog, Min: 100, Max: 10000, Required: true},
			{Name: "LG30TRUU", Unit: "index", Group: GroupBondIndex, Transform: TransformLog, Min: 100, Max: 10000, Required: true},
			{Name: "LP01TREU", Unit: "index", Group: GroupBondIndex, Transform: TransformLog, Min: 100, Max: 10000, Required: true},
			{Name: "JPY", Unit: "rate", Group: GroupCurrencies, Transform: TransformMinMax, Min: 50, Max: 400, Required: true, ProviderSymbol: "JPY=X"},
			{Name: "ECSURPUS", Unit: "index", Group: GroupCurrencies, Transform: TransformMinMax, Min: -200, Max: 200, Required: true},
		},
	}
	s.buildIndex()
	return s
}
