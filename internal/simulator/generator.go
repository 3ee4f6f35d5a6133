package simulator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/LeonardoBeccarini/ecohydro/pkg/jsonfloat"
)

// ErrInvalidInput is wrapped by errors returned for out-of-domain arguments.
var ErrInvalidInput = errors.New("invalid simulator input")

// RandomSource yields uniform values in [0,1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewSource returns a deterministic source for seed.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RainfallSeries holds one rainfall depth per simulated day.
type RainfallSeries []float64

// MarshalJSON writes the series as a plain number array.
func (r RainfallSeries) MarshalJSON() ([]byte, error) { return json.Marshal(jsonfloat.Slice(r)) }

// Total is the summed depth of the series.
func (r RainfallSeries) Total() float64 {
	var t float64
	for _, h := range r {
		t += h
	}
	return t
}

// RainyDays counts days with a positive depth.
func (r RainfallSeries) RainyDays() int {
	n := 0
	for _, h := range r {
		if h > 0 {
			n++
		}
	}
	return n
}

// Cumulative returns the running total; element i includes day i.
func (r RainfallSeries) Cumulative() []float64 {
	out := make([]float64, len(r))
	var t float64
	for i, h := range r {
		t += h
		out[i] = t
	}
	return out
}

// Generate draws a daily rainfall record. Each day is independently rainy
// with probability p (a Bernoulli gate, so this only approximates a Poisson
// storm arrival process) and a rainy day's depth is exponential with the
// given mean, sampled by inverse CDF.
func Generate(src RandomSource, days int, p, mean float64) (RainfallSeries, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidInput)
	}
	if days <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidInput, days)
	}
	if !(p >= 0 && p <= 1) {
		return nil, fmt.Errorf("%w: rainy day probability %g outside [0,1]", ErrInvalidInput, p)
	}
	if !(mean > 0) || math.IsInf(mean, 0) {
		return nil, fmt.Errorf("%w: mean rain on rainy days must be positive, got %g", ErrInvalidInput, mean)
	}

	out := make(RainfallSeries, days)
	for i := range out {
		if src.Float64() < p {
			out[i] = inverseExp(src.Float64(), mean)
		}
	}
	return out, nil
}

// inverseExp maps u in [0,1) onto an exponential distribution with mean mu.
func inverseExp(u, mu float64) float64 {
	return -math.Log(1-u) * mu
}
