package entities

import (
	"encoding/json"

	"github.com/LeonardoBeccarini/ecohydro/pkg/jsonfloat"
)

// CarbonState is the mass held in each of the three soil carbon pools.
type CarbonState struct {
	Litter  float64 `json:"litter" yaml:"litter"`
	Humus   float64 `json:"humus" yaml:"humus"`
	Biomass float64 `json:"biomass" yaml:"biomass"`
}

// Total returns the carbon held across all pools.
func (c CarbonState) Total() float64 { return c.Litter + c.Humus + c.Biomass }

// MarshalJSON writes a pool that left the finite range as null.
func (c CarbonState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Litter  jsonfloat.Float `json:"litter"`
		Humus   jsonfloat.Float `json:"humus"`
		Biomass jsonfloat.Float `json:"biomass"`
	}{jsonfloat.Float(c.Litter), jsonfloat.Float(c.Humus), jsonfloat.Float(c.Biomass)})
}

// CarbonParameters drives the litter/humus/biomass decomposition model.
// Rates are per day.
type CarbonParameters struct {
	Litterfall float64     `json:"litterfall" yaml:"litterfall"` // ADD
	KD         float64     `json:"k_d" yaml:"k_d"`               // biomass death
	KL         float64     `json:"k_l" yaml:"k_l"`               // litter decomposition
	KH         float64     `json:"k_h" yaml:"k_h"`               // humus decomposition
	RH         float64     `json:"r_h" yaml:"r_h"`               // humified fraction
	RR         float64     `json:"r_r" yaml:"r_r"`               // respired fraction
	Initial    CarbonState `json:"initial" yaml:"initial"`
}
