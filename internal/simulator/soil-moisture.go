package simulator

import (
	"encoding/json"
	"math"

	"github.com/LeonardoBeccarini/ecohydro/internal/model/entities"
	"github.com/LeonardoBeccarini/ecohydro/pkg/jsonfloat"
)

// MoistureSeries holds the relative soil moisture at the end of each day.
// Values are not clamped to [0,1]; see Diagnose.
type MoistureSeries []float64

// MarshalJSON writes non-finite values as null so a runaway trajectory
// can still be inspected.
func (m MoistureSeries) MarshalJSON() ([]byte, error) { return json.Marshal(jsonfloat.Slice(m)) }

// Mean returns the average moisture, or 0 for an empty series.
func (m MoistureSeries) Mean() float64 {
	if len(m) == 0 {
		return 0
	}
	var t float64
	for _, s := range m {
		t += s
	}
	return t / float64(len(m))
}

// Infiltration is the part of a storm of depth h the soil can take up at
// moisture s; the rest runs off.
func Infiltration(p entities.SoilParameters, s, h float64) float64 {
	return math.Min(h, p.Storage()*(1-s))
}

// Evaporation ramps linearly from 0 at the hygroscopic point to EMax at the
// wilting point.
func Evaporation(p entities.SoilParameters, s float64) float64 {
	switch {
	case s < p.Hygroscopic:
		return 0
	case s < p.Wilting:
		return p.EMax * (s - p.Hygroscopic) / (p.Wilting - p.Hygroscopic)
	default:
		return p.EMax
	}
}

// Transpiration ramps linearly from 0 at the wilting point to TMax at the
// stress point.
func Transpiration(p entities.SoilParameters, s float64) float64 {
	switch {
	case s < p.Wilting:
		return 0
	case s < p.Stress:
		return p.TMax * (s - p.Wilting) / (p.Stress - p.Wilting)
	default:
		return p.TMax
	}
}

// Leakage is zero below field capacity and rises exponentially to Ks at
// saturation.
func Leakage(p entities.SoilParameters, s float64) float64 {
	if s < p.FieldCapacity {
		return 0
	}
	beta := p.Beta()
	den := math.Expm1(beta * (1 - p.FieldCapacity))
	if den == 0 {
		// field capacity at saturation
		return p.Ks
	}
	return p.Ks * math.Expm1(beta*(s-p.FieldCapacity)) / den
}

// Losses is E(s) + T(s) + L(s).
func Losses(p entities.SoilParameters, s float64) float64 {
	return Evaporation(p, s) + Transpiration(p, s) + Leakage(p, s)
}

// SimulateMoisture integrates the soil water balance with forward Euler,
// one rainfall value per day. With stepsPerDay k > 1 the day's rain
// infiltrates in the first sub-step and every sub-step applies 1/k of the
// daily losses. The moisture at the end of each day is recorded.
func SimulateMoisture(rain RainfallSeries, p entities.SoilParameters, s0 float64, stepsPerDay int) MoistureSeries {
	if stepsPerDay < 1 {
		stepsPerDay = 1
	}
	dt := 1 / float64(stepsPerDay)
	nz := p.Storage()

	out := make(MoistureSeries, len(rain))
	s := s0
	for day, h := range rain {
		for k := 0; k < stepsPerDay; k++ {
			var in float64
			if k == 0 {
				in = Infiltration(p, s, h)
			}
			s += (in - Losses(p, s)*dt) / nz
		}
		out[day] = s
	}
	return out
}

// LossPoint is one sample of the loss curve.
type LossPoint struct {
	Moisture float64 `json:"moisture"`
	Loss     float64 `json:"loss"`
}

// LossCurve samples E+T+L at n evenly spaced moisture values in [0,1).
func LossCurve(p entities.SoilParameters, n int) []LossPoint {
	if n <= 0 {
		return nil
	}
	out := make([]LossPoint, n)
	for i := range out {
		s := float64(i) / float64(n)
		out[i] = LossPoint{Moisture: s, Loss: Losses(p, s)}
	}
	return out
}
