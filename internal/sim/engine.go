package sim

import (
	"fmt"
	"math/rand"

	"icuflow/internal/domain"
)

// Result is one full pipeline evaluation: the flat metrics record plus the
// structured views the presentation and advisory collaborators consume.
type Result struct {
	Metrics         domain.Metrics
	Workload        domain.Workload
	Efficiency      EfficiencyResult
	Risk            domain.RiskBreakdown
	Timeline        []domain.HourlyWorkload
	Recommendations []string
}

// ValidateInputs rejects numerically out-of-domain shift inputs instead of
// letting negative counts propagate into the formulas.
func ValidateInputs(in domain.WorkloadInputs) error {
	if in.Census < 0 || in.Census > int(BedCapacity) {
		return fmt.Errorf("census must be in [0,%d], got %d", int(BedCapacity), in.Census)
	}
	if in.Providers < 1 {
		return fmt.Errorf("provider count must be >= 1, got %g", in.Providers)
	}
	if in.Admissions < 0 || in.Consults < 0 || in.Transfers < 0 {
		return fmt.Errorf("admission/consult/transfer counts must be >= 0")
	}
	if in.CriticalEventsPerWeek < 0 {
		return fmt.Errorf("critical events per week must be >= 0, got %g", in.CriticalEventsPerWeek)
	}
	for event, rate := range in.Rates {
		if rate < 0 {
			return fmt.Errorf("interruption rate %q must be >= 0, got %g", event, rate)
		}
	}
	return nil
}

// Evaluate runs the full pipeline against one parameter set. Parameters are
// passed by value and never mutated, so there is nothing to restore after a
// run. A nil rng keeps the documented arrival-time variability; tests pass a
// seeded one.
func Evaluate(p Parameters, in domain.WorkloadInputs, rng *rand.Rand) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid parameters: %w", err)
	}
	if err := ValidateInputs(in); err != nil {
		return Result{}, fmt.Errorf("invalid inputs: %w", err)
	}

	rates := in.Rates
	if rates == nil {
		rates = p.DeriveRates(in.Census)
	}
	criticalPerDay := in.CriticalEventsPerDay()

	var ratesPerHour float64
	for _, r := range rates {
		ratesPerHour += r
	}

	workload := ComposeWorkload(p, in)
	tasks := TaskTime(p, in.Admissions, in.Consults, in.Transfers, criticalPerDay)

	eff, err := SimulateEfficiency(p, in, rates, rng)
	if err != nil {
		return Result{}, err
	}

	interruptsPerProvider := InterruptsPerProvider(rates, in.Providers)
	cognitive := CognitiveLoad(p, interruptsPerProvider, criticalPerDay, in.Admissions, workload.Combined)
	burnout := BurnoutRisk(workload.Combined, ratesPerHour, criticalPerDay)
	breakdown := DetailedBurnoutRisk(p, "", workload.Combined, ratesPerHour, criticalPerDay, eff.Combined, cognitive)

	metrics := domain.Metrics{
		InterruptsPerProvider: interruptsPerProvider,
		TimeLost:              HoursLost(p, rates),
		Efficiency:            eff.Combined,
		CognitiveLoad:         cognitive,
		BurnoutRisk:           burnout,
		InterruptTime:         InterruptionTimeTotal(p, rates, in.Providers),
		AdmissionTime:         tasks.Admission,
		CriticalTime:          tasks.Critical,
	}

	return Result{
		Metrics:         metrics,
		Workload:        workload,
		Efficiency:      eff,
		Risk:            breakdown,
		Timeline:        HourlyTimeline(workload.Combined),
		Recommendations: Recommendations(metrics),
	}, nil
}

// Recommendations derives the threshold-driven advisories shown alongside
// the metrics.
func Recommendations(m domain.Metrics) []string {
	var recs []string
	if m.BurnoutRisk > 0.7 {
		recs = append(recs, "High burnout risk detected. Consider increasing provider coverage or implementing interruption reduction strategies.")
	}
	if m.CognitiveLoad > 80 {
		recs = append(recs, "High cognitive load detected. Consider workflow optimization or additional support staff.")
	}
	if m.Efficiency < 0.7 {
		recs = append(recs, "Low efficiency detected. Review interruption patterns and implement protected time for critical tasks.")
	}
	if m.InterruptTime+m.AdmissionTime+m.CriticalTime > ShiftMinutes {
		recs = append(recs, "Total task time exceeds shift duration. Current workload may not be sustainable.")
	}
	return recs
}
