package simulator

import (
	"encoding/json"

	"github.com/LeonardoBeccarini/ecohydro/internal/model/entities"
	"github.com/LeonardoBeccarini/ecohydro/pkg/jsonfloat"
)

// CarbonSeries holds the three pools at the end of each day, as parallel
// slices of equal length.
type CarbonSeries struct {
	Litter  []float64 `json:"litter"`
	Humus   []float64 `json:"humus"`
	Biomass []float64 `json:"biomass"`
}

func (c CarbonSeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Litter  jsonfloat.Slice `json:"litter"`
		Humus   jsonfloat.Slice `json:"humus"`
		Biomass jsonfloat.Slice `json:"biomass"`
	}{c.Litter, c.Humus, c.Biomass})
}

// Len is the number of recorded days.
func (c CarbonSeries) Len() int { return len(c.Litter) }

// At returns the pools recorded on day i.
func (c CarbonSeries) At(i int) entities.CarbonState {
	return entities.CarbonState{Litter: c.Litter[i], Humus: c.Humus[i], Biomass: c.Biomass[i]}
}

// Final returns the last recorded state, or the zero state if empty.
func (c CarbonSeries) Final() entities.CarbonState {
	if c.Len() == 0 {
		return entities.CarbonState{}
	}
	return c.At(c.Len() - 1)
}

// DecompositionFactor scales decomposition by water limitation below field
// capacity and by oxygen limitation above it. It peaks at 1 at fc.
func DecompositionFactor(s, fc float64) float64 {
	if s < fc {
		return s / fc
	}
	return fc / s
}

// Fluxes are the daily carbon transfers for one state and moisture value.
type Fluxes struct {
	BiomassDeath float64 `json:"biomass_death"` // BD
	LitterDecomp float64 `json:"litter_decomp"` // DEC_l
	HumusDecomp  float64 `json:"humus_decomp"`  // DEC_h
}

// Flux evaluates the carbon fluxes for state c at moisture s.
func Flux(p entities.CarbonParameters, fc float64, c entities.CarbonState, s float64) Fluxes {
	fd := DecompositionFactor(s, fc)
	return Fluxes{
		BiomassDeath: p.KD * c.Biomass,
		LitterDecomp: fd * p.KL * c.Biomass * c.Litter,
		HumusDecomp:  fd * p.KH * c.Biomass * c.Humus,
	}
}

// Derivative returns the daily rate of change of each pool. All three rates
// come from the same pre-step state.
func Derivative(p entities.CarbonParameters, fc float64, c entities.CarbonState, s float64) entities.CarbonState {
	f := Flux(p, fc, c, s)
	return entities.CarbonState{
		Litter:  p.Litterfall + f.BiomassDeath - f.LitterDecomp,
		Humus:   p.RH*f.LitterDecomp + f.HumusDecomp,
		Biomass: (1-p.RH-p.RR)*f.LitterDecomp + (1-p.RR)*f.HumusDecomp - f.BiomassDeath,
	}
}

// SimulateCarbon integrates the pools with forward Euler, driven by one
// moisture value per day. With stepsPerDay k > 1 each day takes k sub-steps
// of length 1/k at that day's moisture. Pools are never clamped at zero.
func SimulateCarbon(moisture MoistureSeries, p entities.CarbonParameters, fc float64, init entities.CarbonState, stepsPerDay int) CarbonSeries {
	if stepsPerDay < 1 {
		stepsPerDay = 1
	}
	dt := 1 / float64(stepsPerDay)

	n := len(moisture)
	out := CarbonSeries{
		Litter:  make([]float64, n),
		Humus:   make([]float64, n),
		Biomass: make([]float64, n),
	}
	c := init
	for day, s := range moisture {
		for k := 0; k < stepsPerDay; k++ {
			d := Derivative(p, fc, c, s)
			c.Litter += d.Litter * dt
			c.Humus += d.Humus * dt
			c.Biomass += d.Biomass * dt
		}
		out.Litter[day] = c.Litter
		out.Humus[day] = c.Humus
		out.Biomass[day] = c.Biomass
	}
	return out
}
