package entities

// SoilParameters describes the active soil column of a site. All moisture
// thresholds are relative soil moisture values in [0,1]; Depth, EMax, TMax and
// Ks share the length unit of the rainfall record (mm or inches).
type SoilParameters struct {
	Depth         float64 `json:"depth" yaml:"depth"`                     // Z, active soil depth
	Porosity      float64 `json:"porosity" yaml:"porosity"`               // n
	Hygroscopic   float64 `json:"hygroscopic" yaml:"hygroscopic"`         // s_h
	Wilting       float64 `json:"wilting" yaml:"wilting"`                 // s_w
	Stress        float64 `json:"stress" yaml:"stress"`                   // s_ast
	FieldCapacity float64 `json:"field_capacity" yaml:"field_capacity"`   // s_fc
	EMax          float64 `json:"e_max" yaml:"e_max"`                     // max evaporation per day
	TMax          float64 `json:"t_max" yaml:"t_max"`                     // max transpiration per day
	PoreSizeIndex float64 `json:"pore_size_index" yaml:"pore_size_index"` // b
	Ks            float64 `json:"ks" yaml:"ks"`                           // saturated hydraulic conductivity per day

	// InitialMoisture is optional; nil starts the run at the hygroscopic point.
	InitialMoisture *float64 `json:"initial_moisture,omitempty" yaml:"initial_moisture,omitempty"`
}

// Storage returns the pore volume per unit area, n*Z.
func (s SoilParameters) Storage() float64 { return s.Porosity * s.Depth }

// Start returns the relative soil moisture a run begins from.
func (s SoilParameters) Start() float64 {
	if s.InitialMoisture != nil {
		return *s.InitialMoisture
	}
	return s.Hygroscopic
}

// Beta is the exponent of the leakage curve, 2b+4.
func (s SoilParameters) Beta() float64 { return 2*s.PoreSizeIndex + 4 }
