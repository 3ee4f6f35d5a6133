package simulator

import (
	"encoding/json"
	"math"

	"github.com/LeonardoBeccarini/ecohydro/internal/model/entities"
	"github.com/LeonardoBeccarini/ecohydro/pkg/jsonfloat"
)

// Diagnostics describes how far a run strayed from physically valid ranges.
// The integrators do not clamp, so a coarse step shows up here instead of
// being hidden.
type Diagnostics struct {
	MinMoisture float64 `json:"min_moisture"`
	MaxMoisture float64 `json:"max_moisture"`

	MoistureOutOfRange int `json:"moisture_out_of_range"` // days with s outside [0,1]
	NegativeCarbon     int `json:"negative_carbon"`       // pool values below zero
	NonFinite          int `json:"non_finite"`            // NaN or Inf anywhere

	// FirstExcursion is the first day with any out-of-range value, -1 if none.
	FirstExcursion int `json:"first_excursion"`
}

func (d Diagnostics) MarshalJSON() ([]byte, error) {
	type plain Diagnostics
	return json.Marshal(struct {
		plain
		MinMoisture jsonfloat.Float `json:"min_moisture"`
		MaxMoisture jsonfloat.Float `json:"max_moisture"`
	}{plain(d), jsonfloat.Float(d.MinMoisture), jsonfloat.Float(d.MaxMoisture)})
}

// Stable reports whether every value stayed in range.
func (d Diagnostics) Stable() bool {
	return d.MoistureOutOfRange == 0 && d.NegativeCarbon == 0 && d.NonFinite == 0
}

// Diagnose inspects the moisture and carbon series of r.
func Diagnose(r Result) Diagnostics {
	d := Diagnostics{
		MinMoisture:    math.Inf(1),
		MaxMoisture:    math.Inf(-1),
		FirstExcursion: -1,
	}
	if len(r.Moisture) == 0 {
		d.MinMoisture, d.MaxMoisture = 0, 0
	}
	mark := func(day int) {
		if d.FirstExcursion < 0 || day < d.FirstExcursion {
			d.FirstExcursion = day
		}
	}

	for day, s := range r.Moisture {
		if !isFinite(s) {
			d.NonFinite++
			mark(day)
			continue
		}
		d.MinMoisture = math.Min(d.MinMoisture, s)
		d.MaxMoisture = math.Max(d.MaxMoisture, s)
		if s < 0 || s > 1 {
			d.MoistureOutOfRange++
			mark(day)
		}
	}
	for day := 0; day < r.Carbon.Len(); day++ {
		c := r.Carbon.At(day)
		for _, v := range []float64{c.Litter, c.Humus, c.Biomass} {
			switch {
			case !isFinite(v):
				d.NonFinite++
				mark(day)
			case v < 0:
				d.NegativeCarbon++
				mark(day)
			}
		}
	}
	return d
}

// Summary condenses a run for reporting.
type Summary struct {
	Days         int                  `json:"days"`
	TotalRain    float64              `json:"total_rain"`
	RainyDays    int                  `json:"rainy_days"`
	MeanMoisture float64              `json:"mean_moisture"`
	Final        entities.CarbonState `json:"final_carbon"`
	FinalTotal   float64              `json:"final_total_carbon"`
}

// MarshalJSON writes non-finite totals as null; Diagnostics tells why.
func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Summary
	return json.Marshal(struct {
		plain
		TotalRain    jsonfloat.Float `json:"total_rain"`
		MeanMoisture jsonfloat.Float `json:"mean_moisture"`
		FinalTotal   jsonfloat.Float `json:"final_total_carbon"`
	}{plain(s), jsonfloat.Float(s.TotalRain), jsonfloat.Float(s.MeanMoisture), jsonfloat.Float(s.FinalTotal)})
}

// Summarize computes the Summary of r.
func Summarize(r Result) Summary {
	final := r.Carbon.Final()
	return Summary{
		Days:         r.Days(),
		TotalRain:    r.Rainfall.Total(),
		RainyDays:    r.Rainfall.RainyDays(),
		MeanMoisture: r.Moisture.Mean(),
		Final:        final,
		FinalTotal:   final.Total(),
	}
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
