package sim

// InterruptionTimePerProvider converts per-hour interruption rates into
// minutes lost per provider over the shift: sum(rate x duration) x 12.
// Rates for event types without a configured duration contribute nothing.
func InterruptionTimePerProvider(p Parameters, rates map[string]float64) float64 {
	var perHour float64
	for event, rate := range rates {
		perHour += rate * p.InterruptionDurations[event]
	}
	return perHour * ShiftHours
}

// InterruptionTimeTotal is the organization-wide interruption minutes:
// per-provider minutes scaled by provider count.
func InterruptionTimeTotal(p Parameters, rates map[string]float64, providers float64) float64 {
	return InterruptionTimePerProvider(p, rates) * providers
}

// TaskTimes holds the non-interruption time impacts for a shift, in minutes.
type TaskTimes struct {
	Admission float64 // admissions + consults + transfers
	Critical  float64
}

// TaskTime computes admission and critical-event minutes for the shift.
// Admissions are costed with the fixed 0.7 simple / 0.3 complex mix.
func TaskTime(p Parameters, admissions, consults, transfers int, criticalPerDay float64) TaskTimes {
	perAdmission := AdmissionSimpleShare*p.AdmissionDurations[AdmissionSimple] +
		AdmissionComplexShare*p.AdmissionDurations[AdmissionComplex]
	return TaskTimes{
		Admission: float64(admissions)*perAdmission +
			float64(consults)*p.AdmissionDurations[AdmissionConsult] +
			float64(transfers)*p.AdmissionDurations[AdmissionTransfer],
		Critical: criticalPerDay * p.CriticalEventDuration,
	}
}

// InterruptsPerProvider is the interruption count per provider per shift.
func InterruptsPerProvider(rates map[string]float64, providers float64) float64 {
	if providers < 1 {
		return 0
	}
	var perHour float64
	for _, rate := range rates {
		perHour += rate
	}
	return perHour * ShiftHours / providers
}

// HoursLost converts per-provider interruption minutes to hours.
func HoursLost(p Parameters, rates map[string]float64) float64 {
	return InterruptionTimePerProvider(p, rates) / 60.0
}
