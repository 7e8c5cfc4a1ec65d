package sim

import (
	"math"

	"icuflow/internal/domain"
)

// CognitiveLoad scores mental workload on a 0-100 index from interruption,
// critical-event, admission and over-capacity drivers. An entirely idle
// shift (all four drivers zero) scores 0; any activity starts from the base
// load of 30.
func CognitiveLoad(p Parameters, interruptions, criticalPerDay float64, admissions int, workload float64) float64 {
	if interruptions == 0 && criticalPerDay == 0 && admissions == 0 && workload == 0 {
		return 0
	}

	interruptHours := interruptions * (p.AverageInterruptionDuration() / 60)
	criticalHours := criticalPerDay * (p.CriticalEventDuration / 60)
	avgAdmission := (p.AdmissionDurations[AdmissionSimple] + p.AdmissionDurations[AdmissionComplex]) / 2
	admissionHours := float64(admissions) * (avgAdmission / 60)
	overload := math.Max(0, workload-1.0) * CognitiveOverloadSlope

	total := CognitiveBaseLoad +
		interruptHours*CognitiveInterruptPts +
		criticalHours*CognitiveCriticalPts +
		admissionHours*CognitiveAdmissionPts +
		overload
	return clamp(total, 0, 100)
}

// BurnoutRisk is the simple composite score: interruption, workload and
// critical-event factors plus the fixed rounds-window impact, weighted and
// clamped to [0,1].
func BurnoutRisk(workloadPerProvider, interruptsPerHour, criticalPerDay float64) float64 {
	interruptionFactor := interruptsPerHour * RiskPerInterruptHour
	workloadFactor := workloadPerProvider * RiskPerWorkloadUnit
	criticalFactor := criticalPerDay * RiskPerCriticalEvent

	w := SimpleRiskWeights
	risk := interruptionFactor*w.Interruption +
		workloadFactor*w.Workload +
		criticalFactor*w.Critical +
		RoundingImpact()*w.Rounding
	return clamp(risk, 0, 1)
}

// DetailedBurnoutRisk produces the five-component breakdown. The role
// selects a weight table; the zero value ("") uses the combined weights.
func DetailedBurnoutRisk(p Parameters, role domain.Role, workloadPerProvider, interruptsPerHour, criticalPerDay, efficiency, cognitiveLoad float64) domain.RiskBreakdown {
	rounding := RoundingImpact()

	components := map[string]float64{
		CompInterruption:  clamp(interruptsPerHour*RiskPerInterruptHour, 0, 1),
		CompWorkload:      clamp(workloadPerProvider*RiskPerWorkloadUnit+rounding, 0, 1),
		CompCritical:      clamp(criticalPerDay*RiskPerCriticalEvent, 0, 1),
		CompEfficiency:    clamp((1-efficiency)*EfficiencyRiskScale, 0, 1),
		CompCognitiveLoad: clamp(cognitiveLoad/100*CognitiveRiskScale+rounding*0.5, 0, 1),
	}

	weights, ok := RiskWeights[role]
	if !ok {
		weights = RiskWeights[""]
	}

	var total float64
	for name, risk := range components {
		total += risk * weights[name]
	}

	return domain.RiskBreakdown{
		TotalRisk:  total,
		Category:   CategorizeRisk(p, total),
		Components: components,
		Weights:    weights,
	}
}

// CategorizeRisk scans the ordered thresholds ascending and keeps the last
// one the total meets or exceeds. A total exactly on a boundary belongs to
// that boundary's category; below the lowest threshold stays "low".
func CategorizeRisk(p Parameters, totalRisk float64) string {
	category := "low"
	for _, t := range p.BurnoutThresholds {
		if totalRisk >= t.Value {
			category = t.Name
		}
	}
	return category
}
