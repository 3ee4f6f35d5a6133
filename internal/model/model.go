package model

import (
	"github.com/LeonardoBeccarini/ecohydro/internal/model/entities"
	"github.com/LeonardoBeccarini/ecohydro/internal/model/messages"
)

// Alias per esporre tipi comuni ai servizi

type (
	Site        = entities.Site
	CarbonState = entities.CarbonState
	RunRequest  = messages.RunRequest
	RunResult   = messages.RunResult
)
