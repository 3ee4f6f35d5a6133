package entities

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSite is wrapped by every configuration error reported by Validate.
var ErrInvalidSite = errors.New("invalid site parameters")

// Site bundles everything a pipeline run needs. Build it once per run and
// treat it as read-only; stages receive copies of the sub-records.
type Site struct {
	Name     string             `json:"name" yaml:"name"`
	Location string             `json:"location,omitempty" yaml:"location,omitempty"`
	Rainfall RainfallParameters `json:"rainfall" yaml:"rainfall"`
	Soil     SoilParameters     `json:"soil" yaml:"soil"`
	Carbon   CarbonParameters   `json:"carbon" yaml:"carbon"`
}

// NewSite validates the parameters and returns the site, so configuration
// errors surface before any simulation starts.
func NewSite(name string, r RainfallParameters, s SoilParameters, c CarbonParameters) (Site, error) {
	site := Site{Name: name, Rainfall: r, Soil: s, Carbon: c}
	if err := site.Validate(); err != nil {
		return Site{}, err
	}
	return site, nil
}

// Validate reports every violated constraint at once.
func (s Site) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidSite, fmt.Sprintf(format, args...)))
	}
	finite := func(name string, v float64) bool {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad("%s is not finite", name)
			return false
		}
		return true
	}

	// rainfall
	r := s.Rainfall
	if r.Days <= 0 {
		bad("horizon must be positive, got %d days", r.Days)
	}
	if r.StepsPerDay < 0 {
		bad("steps per day must not be negative, got %d", r.StepsPerDay)
	}
	if finite("rainy days", r.RainyDays) {
		if r.RainyDays <= 0 {
			bad("rainy days must be positive, got %g", r.RainyDays)
		} else if p := r.RainyDayProbability(); p > 1 {
			bad("rainy day probability %g exceeds 1", p)
		}
	}
	if finite("yearly rainfall", r.YearlyRainfall) && r.YearlyRainfall <= 0 {
		bad("yearly rainfall must be positive, got %g", r.YearlyRainfall)
	}

	// soil
	so := s.Soil
	if finite("depth", so.Depth) && so.Depth <= 0 {
		bad("soil depth must be positive, got %g", so.Depth)
	}
	if finite("porosity", so.Porosity) && (so.Porosity <= 0 || so.Porosity > 1) {
		bad("porosity must be in (0,1], got %g", so.Porosity)
	}
	thresholds := []struct {
		name string
		v    float64
	}{
		{"0", 0},
		{"hygroscopic point", so.Hygroscopic},
		{"wilting point", so.Wilting},
		{"stress point", so.Stress},
		{"field capacity", so.FieldCapacity},
		{"1", 1},
	}
	for i := 1; i < len(thresholds); i++ {
		prev, cur := thresholds[i-1], thresholds[i]
		if !finite(cur.name, cur.v) {
			continue
		}
		if cur.v < prev.v {
			bad("%s (%g) below %s (%g)", cur.name, cur.v, prev.name, prev.v)
		}
	}
	if so.FieldCapacity == 0 {
		// f_d divides by field capacity
		bad("field capacity must be positive")
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"max evaporation", so.EMax},
		{"max transpiration", so.TMax},
		{"pore size index", so.PoreSizeIndex},
		{"saturated conductivity", so.Ks},
	} {
		if finite(p.name, p.v) && p.v < 0 {
			bad("%s must not be negative, got %g", p.name, p.v)
		}
	}
	if so.InitialMoisture != nil {
		m := *so.InitialMoisture
		if finite("initial moisture", m) && (m < 0 || m > 1) {
			bad("initial moisture must be in [0,1], got %g", m)
		}
	}

	// carbon
	c := s.Carbon
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"litterfall", c.Litterfall},
		{"k_d", c.KD},
		{"k_l", c.KL},
		{"k_h", c.KH},
		{"r_h", c.RH},
		{"r_r", c.RR},
		{"initial litter", c.Initial.Litter},
		{"initial humus", c.Initial.Humus},
		{"initial biomass", c.Initial.Biomass},
	} {
		if finite(p.name, p.v) && p.v < 0 {
			bad("%s must not be negative, got %g", p.name, p.v)
		}
	}
	if c.RH+c.RR > 1 {
		bad("r_h + r_r = %g exceeds 1", c.RH+c.RR)
	}

	return errors.Join(errs...)
}

// WithHorizon returns a copy of the site running for days.
func (s Site) WithHorizon(days int) Site {
	s.Rainfall.Days = days
	return s
}

// WithInitialMoisture returns a copy of the site starting from m.
func (s Site) WithInitialMoisture(m float64) Site {
	s.Soil.InitialMoisture = &m
	return s
}
