package domain

import "time"

// Role identifies a provider role. Role-specific behavior (weight tables,
// consult ownership, interruption cost) is looked up by role rather than
// branched in formulas, so adding a role means adding table entries.
type Role string

const (
	RolePhysician Role = "physician"
	RoleAPP       Role = "app"
)

// WorkloadInputs is a snapshot of per-shift counts for one evaluation run.
// CriticalEventsPerWeek is the raw weekly figure; the engine converts it to
// a daily average by dividing by 7.
type WorkloadInputs struct {
	Census                int     // ICU patients, 0-16
	Providers             float64 // >= 1; fractional when coverage windows add part-shift staff
	Admissions            int     // new admissions per shift
	Consults              int     // floor consults per shift
	Transfers             int     // transfer center calls per shift
	CriticalEventsPerWeek float64

	// Per-hour interruption rates. When nil, rates are derived as
	// census x per-patient scale from the parameter set.
	Rates map[string]float64
}

// CriticalEventsPerDay converts the weekly count to a daily average.
func (in WorkloadInputs) CriticalEventsPerDay() float64 {
	return in.CriticalEventsPerWeek / 7.0
}

// Metrics is the flat per-run output record consumed by persistence,
// delivery and advisory collaborators.
type Metrics struct {
	InterruptsPerProvider float64 // interruptions per provider per shift
	TimeLost              float64 // hours lost to interruptions per provider
	Efficiency            float64 // [0.3, 1.0]
	CognitiveLoad         float64 // [0, 100]
	BurnoutRisk           float64 // [0, 1]
	InterruptTime         float64 // org-wide interruption minutes per shift
	AdmissionTime         float64 // admission/consult/transfer minutes per shift
	CriticalTime          float64 // critical event minutes per shift
}

// Workload is the composer output. All three fields are always populated;
// an all-zero shift yields zeros, not an error.
type Workload struct {
	Physician float64
	APP       float64
	Combined  float64
}

// RiskBreakdown is the detailed burnout risk result: five clamped
// components, the weights used, the weighted total and its category label.
type RiskBreakdown struct {
	TotalRisk  float64
	Category   string
	Components map[string]float64
	Weights    map[string]float64
}

// HourlyWorkload is one point of the projected dayshift workload series.
type HourlyWorkload struct {
	Hour     int // 8..20, hour of day
	Workload float64
}

// ShiftRecord is a persisted evaluation: inputs alongside computed metrics,
// risk components and recommendations.
type ShiftRecord struct {
	ID              int64
	NursingQ        float64
	ExamCallbacks   float64
	PeerInterrupts  float64
	Census          int
	Providers       float64
	Admissions      int
	Consults        int
	Transfers       int
	CriticalPerWeek float64

	Metrics         Metrics
	RiskComponents  map[string]float64
	Recommendations []string

	CreatedAt time.Time
}

// ScenarioRun is a persisted scenario evaluation result.
type ScenarioRun struct {
	ID           int64
	ScenarioName string
	Metrics      Metrics
	Error        string
	CreatedAt    time.Time
}
