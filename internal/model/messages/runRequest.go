package messages

import (
	"time"

	"github.com/LeonardoBeccarini/ecohydro/internal/model/entities"
)

// RunRequest asks a worker to run the pipeline once. Either Preset names a
// built-in site or Site carries a full ad-hoc parameter set; Days and Seed
// override the horizon and random seed when non-zero.
type RunRequest struct {
	RequestID string         `json:"request_id"`
	Preset    string         `json:"preset,omitempty"`
	Site      *entities.Site `json:"site,omitempty"`
	Days      int            `json:"days,omitempty"`
	Seed      int64          `json:"seed"`
	Export    bool           `json:"export"` // also write the series to the reporting sink
	Timestamp time.Time      `json:"timestamp"`
}
