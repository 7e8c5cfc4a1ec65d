package sim

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"icuflow/internal/domain"
)

// OversampleError reports an attempt to place more events on the shift
// timeline than it has minutes. Callers must cap event counts below the
// shift length before simulating.
type OversampleError struct {
	Kind    string
	Events  int
	Minutes int
}

func (e *OversampleError) Error() string {
	return fmt.Sprintf("cannot place %d %s events in a %d-minute shift", e.Events, e.Kind, e.Minutes)
}

// EfficiencyResult is the availability simulation output per role plus the
// ratio-weighted combined figure. All values are clamped to [0.3, 1.0].
type EfficiencyResult struct {
	Physician float64
	APP       float64
	Combined  float64
}

// SimulateEfficiency builds a minute-resolution availability timeline for
// the shift and reduces it to an efficiency scalar per role.
//
// Admission and critical-event start minutes are drawn uniformly without
// replacement, so the result models overlapping unavailability instead of
// double-counting summed percentages. When rng is nil a time-seeded source
// is used: repeated calls with identical inputs then yield different values
// within a bounded range. That variability is intentional (arrival times
// are uncertain); pass a fixed-seed rng to pin results in tests.
//
// The per-day critical event count is fractional (weekly/7); the timeline
// places round(count) whole events while the scalar risk formulas keep the
// fraction.
func SimulateEfficiency(p Parameters, in domain.WorkloadInputs, rates map[string]float64, rng *rand.Rand) (EfficiencyResult, error) {
	if in.Providers < 1 {
		return EfficiencyResult{}, fmt.Errorf("provider count must be >= 1, got %g", in.Providers)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	nAdmissions := in.Admissions
	nCritical := int(math.Round(in.CriticalEventsPerDay()))
	if nAdmissions >= ShiftMinutes {
		return EfficiencyResult{}, &OversampleError{Kind: "admission", Events: nAdmissions, Minutes: ShiftMinutes}
	}
	if nCritical >= ShiftMinutes {
		return EfficiencyResult{}, &OversampleError{Kind: "critical", Events: nCritical, Minutes: ShiftMinutes}
	}

	admissionStarts := sampleMinutes(rng, nAdmissions)
	criticalStarts := sampleMinutes(rng, nCritical)

	phys := roleEfficiency(p, in, rates, domain.RolePhysician, admissionStarts, criticalStarts)
	app := roleEfficiency(p, in, rates, domain.RoleAPP, admissionStarts, criticalStarts)

	combined := phys*p.ProviderRatios[domain.RolePhysician] + app*p.ProviderRatios[domain.RoleAPP]
	return EfficiencyResult{
		Physician: phys,
		APP:       app,
		Combined:  clamp(combined, EfficiencyFloor, 1.0),
	}, nil
}

// sampleMinutes draws n distinct minute offsets uniformly from the shift.
func sampleMinutes(rng *rand.Rand, n int) []int {
	if n <= 0 {
		return nil
	}
	return rng.Perm(ShiftMinutes)[:n]
}

func roleEfficiency(p Parameters, in domain.WorkloadInputs, rates map[string]float64, role domain.Role, admissionStarts, criticalStarts []int) float64 {
	providers := in.Providers

	avail := make([]float64, ShiftMinutes)
	for i := range avail {
		avail[i] = 1.0
	}

	// Physicians run the consult window; availability inside it drops in
	// proportion to how much of the window their consult load fills.
	if role == domain.RolePhysician {
		physProviders := math.Max(1, p.ProviderRatios[domain.RolePhysician]*providers)
		consultMinutes := float64(in.Consults) * p.AdmissionDurations[AdmissionConsult]
		occupancy := math.Min(1, consultMinutes/(physProviders*float64(ConsultWindowEndMin-ConsultWindowStartMin)))
		factor := 1 - ConsultWindowImpact*occupancy
		for m := ConsultWindowStartMin; m < ConsultWindowEndMin; m++ {
			avail[m] *= factor
		}
	}

	// Each admission occupies one provider for about two hours. A lone
	// provider cannot partially degrade: the window halves outright.
	admissionFactor := 0.5
	if providers > 1 {
		admissionFactor = (providers - 1) / providers
	}
	for _, start := range admissionStarts {
		for m := start; m < start+AdmissionWindowMinutes && m < ShiftMinutes; m++ {
			avail[m] *= admissionFactor
		}
	}

	// Critical events are all-hands for the first hour; any remainder
	// holds a single provider.
	allHands := int(math.Min(CriticalAllHandsMinutes, p.CriticalEventDuration))
	remainder := int(math.Max(0, p.CriticalEventDuration-CriticalAllHandsMinutes))
	tailFactor := (providers - 1) / providers
	for _, start := range criticalStarts {
		for m := start; m < start+allHands && m < ShiftMinutes; m++ {
			avail[m] = 0
		}
		for m := start + allHands; m < start+allHands+remainder && m < ShiftMinutes; m++ {
			avail[m] *= tailFactor
		}
	}

	var sum float64
	for _, a := range avail {
		sum += a
	}
	avgAvailability := sum / ShiftMinutes

	var interruptsPerHour float64
	for _, r := range rates {
		interruptsPerHour += r
	}
	interruptionLoss := clamp(interruptsPerHour*ShiftHours*InterruptionCost[role], 0, 1)

	roundingPenalty := (RoundingOverhead + DataRecollectionLoss) * (RoundingHours / ShiftHours) / providers

	baseEfficiency := math.Min(1.0, CrowdingBase-CrowdingSlope*(float64(in.Census)/providers))

	eff := baseEfficiency*avgAvailability*(1-interruptionLoss) - roundingPenalty
	return clamp(eff, EfficiencyFloor, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
