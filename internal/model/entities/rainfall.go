package entities

// DaysInYear is the year length used to turn rainy days into a daily probability.
const DaysInYear = 365

// RainfallParameters holds the climate record of a site and the simulation horizon.
type RainfallParameters struct {
	RainyDays      float64 `json:"rainy_days" yaml:"rainy_days"`           // expected rainy days per year
	YearlyRainfall float64 `json:"yearly_rainfall" yaml:"yearly_rainfall"` // expected yearly total
	Days           int     `json:"days" yaml:"days"`                       // horizon
	StepsPerDay    int     `json:"steps_per_day" yaml:"steps_per_day"`     // 0 is read as 1
}

// RainyDayProbability is the chance that any single day is rainy.
func (r RainfallParameters) RainyDayProbability() float64 {
	return r.RainyDays / DaysInYear
}

// MeanRainGivenRainy is the expected depth on a rainy day.
func (r RainfallParameters) MeanRainGivenRainy() float64 {
	if r.RainyDays == 0 {
		return 0
	}
	return r.YearlyRainfall / r.RainyDays
}

// Steps returns the number of integration steps per simulated day.
func (r RainfallParameters) Steps() int {
	if r.StepsPerDay < 1 {
		return 1
	}
	return r.StepsPerDay
}
