package sim

import (
	"math"

	"icuflow/internal/domain"
)

// ComposeWorkload combines census-driven base load with consult load,
// normalized per provider. Consults belong to physicians (they run the
// 8 AM - 5 PM consult window), so the physician figure carries the consult
// load and the APP figure is census-only. The structure is always fully
// populated; an idle shift composes to zeros.
func ComposeWorkload(p Parameters, in domain.WorkloadInputs) domain.Workload {
	providers := in.Providers
	if providers < 1 {
		providers = 1
	}

	base := float64(in.Census) / BedCapacity
	consultMinutes := float64(in.Consults) * p.AdmissionDurations[AdmissionConsult]
	consultLoad := consultMinutes / (providers * ShiftMinutes)

	physician := base + consultLoad
	app := base
	return domain.Workload{
		Physician: physician,
		APP:       app,
		Combined:  (physician + app) / 2,
	}
}

// HourlyTimeline projects the combined workload across the dayshift
// (8 AM - 8 PM) with a mid-afternoon peak: baseline x (1 + sin((h-8)pi/12) x 0.3).
func HourlyTimeline(baseline float64) []domain.HourlyWorkload {
	series := make([]domain.HourlyWorkload, 0, 13)
	for hour := 8; hour <= 20; hour++ {
		factor := 1 + math.Sin(float64(hour-8)*math.Pi/12)*0.3
		series = append(series, domain.HourlyWorkload{
			Hour:     hour,
			Workload: baseline * factor,
		})
	}
	return series
}
