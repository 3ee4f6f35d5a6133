package simulator

import (
	"github.com/LeonardoBeccarini/ecohydro/internal/model/entities"
)

// testSoil is the soil used by the end-to-end scenario.
func testSoil() entities.SoilParameters {
	return entities.SoilParameters{
		Depth:         300,
		Porosity:      0.5,
		Hygroscopic:   0.02,
		Wilting:       0.065,
		Stress:        0.17,
		FieldCapacity: 0.3,
		EMax:          0.8,
		TMax:          3.3,
		PoreSizeIndex: 0.2,
		Ks:            1.1,
	}
}

func testCarbon() entities.CarbonParameters {
	return entities.CarbonParameters{
		Litterfall: 1.5,
		KD:         8.5e-3,
		KL:         6.5e-5,
		KH:         2.5e-6,
		RH:         0.25,
		RR:         0.6,
		Initial:    entities.CarbonState{Litter: 1200, Humus: 8500, Biomass: 80},
	}
}

// testSite rains every day with a mean depth of 1.
func testSite(days int) entities.Site {
	s := entities.Site{
		Name: "scenario",
		Rainfall: entities.RainfallParameters{
			RainyDays:      entities.DaysInYear,
			YearlyRainfall: entities.DaysInYear,
			Days:           days,
			StepsPerDay:    1,
		},
		Soil:   testSoil(),
		Carbon: testCarbon(),
	}
	return s.WithInitialMoisture(0.11)
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
