package messages

import (
	"encoding/json"
	"time"

	"github.com/LeonardoBeccarini/ecohydro/internal/model/entities"
	"github.com/LeonardoBeccarini/ecohydro/pkg/jsonfloat"
)

// RunResult is published once per handled RunRequest. Series are not
// included; they go to the reporting sink when the request asked for export.
type RunResult struct {
	RunID     string `json:"run_id"`
	RequestID string `json:"request_id"`
	Site      string `json:"site"`
	Location  string `json:"location,omitempty"`
	Days      int    `json:"days"`
	Seed      int64  `json:"seed"`

	TotalRain    float64              `json:"total_rain"`
	RainyDays    int                  `json:"rainy_days"`
	MeanMoisture float64              `json:"mean_moisture"`
	MinMoisture  float64              `json:"min_moisture"`
	MaxMoisture  float64              `json:"max_moisture"`
	Final        entities.CarbonState `json:"final_carbon"`

	// out-of-range counts; the integrators never clamp
	MoistureOutOfRange int `json:"moisture_out_of_range"`
	NegativeCarbon     int `json:"negative_carbon"`
	NonFinite          int `json:"non_finite"`

	Exported   bool      `json:"exported"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// MarshalJSON writes moisture statistics of a runaway run as null; the
// out-of-range counts carry the signal.
func (r RunResult) MarshalJSON() ([]byte, error) {
	type plain RunResult
	return json.Marshal(struct {
		plain
		TotalRain    jsonfloat.Float `json:"total_rain"`
		MeanMoisture jsonfloat.Float `json:"mean_moisture"`
		MinMoisture  jsonfloat.Float `json:"min_moisture"`
		MaxMoisture  jsonfloat.Float `json:"max_moisture"`
	}{
		plain:        plain(r),
		TotalRain:    jsonfloat.Float(r.TotalRain),
		MeanMoisture: jsonfloat.Float(r.MeanMoisture),
		MinMoisture:  jsonfloat.Float(r.MinMoisture),
		MaxMoisture:  jsonfloat.Float(r.MaxMoisture),
	})
}
