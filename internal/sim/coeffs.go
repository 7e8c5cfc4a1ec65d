package sim

import "icuflow/internal/domain"

// Calibrated model coefficients. Every constant that used to be buried in a
// formula lives here so it can be tested and tuned independently.
const (
	// ShiftHours is the modeled dayshift length (8 AM - 8 PM).
	ShiftHours = 12
	// ShiftMinutes is the minute-resolution timeline length.
	ShiftMinutes = ShiftHours * 60

	// BedCapacity is the census ceiling the base workload is normalized
	// against.
	BedCapacity = 16.0

	// AdmissionSimpleShare and AdmissionComplexShare model the observed
	// simple/complex admission mix. The split is a fixed policy constant
	// and downstream consumers depend on it exactly.
	AdmissionSimpleShare  = 0.7
	AdmissionComplexShare = 0.3

	// RoundingOverhead and DataRecollectionLoss model the 9-11 AM rounds
	// window: fixed coordination overhead plus repeated data collection.
	RoundingOverhead     = 0.8
	DataRecollectionLoss = 0.3
	RoundingHours        = 2.0
	// RoundingRiskScale converts the rounds overhead into a burnout risk
	// contribution.
	RoundingRiskScale = 0.25

	// ConsultWindowStart/End bound the physician-only consult window,
	// minutes measured from 8 AM (8 AM - 5 PM).
	ConsultWindowStartMin = 0
	ConsultWindowEndMin   = 540
	// ConsultWindowImpact is the availability reduction magnitude a full
	// consult load imposes on physicians inside the window.
	ConsultWindowImpact = 0.8

	// AdmissionWindowMinutes is how long one admission occupies a provider.
	AdmissionWindowMinutes = 120
	// CriticalAllHandsMinutes is the initial span of a critical event
	// during which every provider is pulled in.
	CriticalAllHandsMinutes = 60.0

	// CrowdingBase and CrowdingSlope shape the census-per-provider penalty
	// on base efficiency: min(1, base - slope*(census/providers)).
	CrowdingBase  = 1.2
	CrowdingSlope = 0.15

	// EfficiencyFloor is the irreducible minimum productivity.
	EfficiencyFloor = 0.3

	// Cognitive load model.
	CognitiveBaseLoad      = 30.0
	CognitiveInterruptPts  = 5.0 // per hour of interruptions
	CognitiveCriticalPts   = 10.0
	CognitiveAdmissionPts  = 8.0
	CognitiveOverloadSlope = 20.0 // per workload unit above 1.0

	// Simple-risk per-unit factors.
	RiskPerInterruptHour = 0.03
	RiskPerWorkloadUnit  = 0.1
	RiskPerCriticalEvent = 0.15

	// Efficiency/cognitive contributions in the detailed breakdown.
	EfficiencyRiskScale = 0.5
	CognitiveRiskScale  = 0.4
)

// InterruptionCost is the per-interruption-hour efficiency cost by role.
// Physicians also own consults, so each interruption costs them more.
var InterruptionCost = map[domain.Role]float64{
	domain.RolePhysician: 0.025,
	domain.RoleAPP:       0.020,
}

// SimpleRiskWeights combine interruption, workload, critical-event and
// rounding factors into the simple burnout score.
var SimpleRiskWeights = struct {
	Interruption float64
	Workload     float64
	Critical     float64
	Rounding     float64
}{0.20, 0.25, 0.20, 0.35}

// Detailed-risk component names, in ledger order.
const (
	CompInterruption  = "interruption_risk"
	CompWorkload      = "workload_risk"
	CompCritical      = "critical_events_risk"
	CompEfficiency    = "efficiency_risk"
	CompCognitiveLoad = "cognitive_load_risk"
)

// RiskWeights maps a role (or "" for the combined view) to its component
// weight table. Each table sums to 1.0: the combined weights come from the
// original calibration, physicians shift weight toward workload and
// critical events, APPs toward workload.
var RiskWeights = map[domain.Role]map[string]float64{
	"": {
		CompInterruption:  0.20,
		CompWorkload:      0.25,
		CompCritical:      0.20,
		CompEfficiency:    0.15,
		CompCognitiveLoad: 0.20,
	},
	domain.RolePhysician: {
		CompInterruption:  0.15,
		CompWorkload:      0.30,
		CompCritical:      0.25,
		CompEfficiency:    0.15,
		CompCognitiveLoad: 0.15,
	},
	domain.RoleAPP: {
		CompInterruption:  0.15,
		CompWorkload:      0.35,
		CompCritical:      0.15,
		CompEfficiency:    0.15,
		CompCognitiveLoad: 0.20,
	},
}

// RoundingImpact is the rounds-window burnout contribution shared by the
// simple and detailed risk calculations.
func RoundingImpact() float64 {
	return (RoundingOverhead + DataRecollectionLoss) * RoundingRiskScale
}
