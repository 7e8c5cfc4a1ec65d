package sim

import (
	"fmt"
	"math"

	"icuflow/internal/domain"
)

// Interruption event type keys.
const (
	EventNursingQuestion = "nursing_question"
	EventExamCallback    = "exam_callback"
	EventPeerInterrupt   = "peer_interrupt"
)

// Admission type keys.
const (
	AdmissionSimple   = "simple"
	AdmissionComplex  = "complex"
	AdmissionConsult  = "consult"
	AdmissionTransfer = "transfer"
)

// Threshold is one burnout category boundary. Thresholds are held in an
// ordered slice and scanned ascending; order is data, never map iteration.
type Threshold struct {
	Name  string
	Value float64
}

// Parameters is the full tunable configuration. It is a value: calculations
// receive it explicitly and intervention application returns a new one, so
// there is no shared mutable store to snapshot and restore.
type Parameters struct {
	// InterruptionDurations holds minutes per event type.
	InterruptionDurations map[string]float64
	// InterruptionScales holds occurrences per hour per patient.
	InterruptionScales map[string]float64
	// AdmissionDurations holds minutes per admission type.
	AdmissionDurations map[string]float64
	// CriticalEventDuration is minutes per critical event.
	CriticalEventDuration float64
	// BurnoutThresholds are strictly increasing category boundaries.
	BurnoutThresholds []Threshold
	// ProviderRatios split the provider pool by role, summing to 1.
	ProviderRatios map[domain.Role]float64
}

// PartialSettings is a sparse update. Map entries merge key-by-key into the
// existing maps; nil maps and nil pointers leave the current values alone.
type PartialSettings struct {
	InterruptionDurations map[string]float64
	InterruptionScales    map[string]float64
	AdmissionDurations    map[string]float64
	CriticalEventDuration *float64
	ProviderRatios        map[domain.Role]float64
}

// DefaultParameters returns the calibrated defaults: interruption medians
// from observed ranges (nursing 1-3 min, callbacks and peer 5-10 min),
// admission and critical-event medians, and the standard risk bands.
func DefaultParameters() Parameters {
	return Parameters{
		InterruptionDurations: map[string]float64{
			EventNursingQuestion: 2,
			EventExamCallback:    7.5,
			EventPeerInterrupt:   7.5,
		},
		InterruptionScales: map[string]float64{
			EventNursingQuestion: 0.36,
			EventExamCallback:    0.21,
			EventPeerInterrupt:   0.14,
		},
		AdmissionDurations: map[string]float64{
			AdmissionSimple:   60,
			AdmissionComplex:  90,
			AdmissionConsult:  45,
			AdmissionTransfer: 30,
		},
		CriticalEventDuration: 105,
		BurnoutThresholds: []Threshold{
			{Name: "low", Value: 0.3},
			{Name: "moderate", Value: 0.5},
			{Name: "high", Value: 0.7},
			{Name: "severe", Value: 0.85},
		},
		ProviderRatios: map[domain.Role]float64{
			domain.RolePhysician: 0.5,
			domain.RoleAPP:       0.5,
		},
	}
}

// Clone returns a deep copy. Parameters contain maps, so plain assignment
// would alias them.
func (p Parameters) Clone() Parameters {
	out := p
	out.InterruptionDurations = copyMap(p.InterruptionDurations)
	out.InterruptionScales = copyMap(p.InterruptionScales)
	out.AdmissionDurations = copyMap(p.AdmissionDurations)
	out.BurnoutThresholds = append([]Threshold(nil), p.BurnoutThresholds...)
	out.ProviderRatios = make(map[domain.Role]float64, len(p.ProviderRatios))
	for k, v := range p.ProviderRatios {
		out.ProviderRatios[k] = v
	}
	return out
}

// Apply merges the partial settings into a copy and returns it. Keys absent
// from the partial maps keep their current values.
func (p Parameters) Apply(s PartialSettings) Parameters {
	out := p.Clone()
	for k, v := range s.InterruptionDurations {
		out.InterruptionDurations[k] = v
	}
	for k, v := range s.InterruptionScales {
		out.InterruptionScales[k] = v
	}
	for k, v := range s.AdmissionDurations {
		out.AdmissionDurations[k] = v
	}
	if s.CriticalEventDuration != nil {
		out.CriticalEventDuration = *s.CriticalEventDuration
	}
	for k, v := range s.ProviderRatios {
		out.ProviderRatios[k] = v
	}
	return out
}

// Validate rejects out-of-domain values: durations must be positive, rates
// non-negative, thresholds strictly increasing in [0,1], ratios summing to 1.
func (p Parameters) Validate() error {
	for k, v := range p.InterruptionDurations {
		if v <= 0 {
			return fmt.Errorf("interruption duration %q must be > 0, got %g", k, v)
		}
	}
	for k, v := range p.InterruptionScales {
		if v < 0 {
			return fmt.Errorf("interruption scale %q must be >= 0, got %g", k, v)
		}
	}
	for k, v := range p.AdmissionDurations {
		if v <= 0 {
			return fmt.Errorf("admission duration %q must be > 0, got %g", k, v)
		}
	}
	if p.CriticalEventDuration <= 0 {
		return fmt.Errorf("critical event duration must be > 0, got %g", p.CriticalEventDuration)
	}
	prev := math.Inf(-1)
	for _, t := range p.BurnoutThresholds {
		if t.Value < 0 || t.Value > 1 {
			return fmt.Errorf("burnout threshold %q out of [0,1]: %g", t.Name, t.Value)
		}
		if t.Value <= prev {
			return fmt.Errorf("burnout thresholds must be strictly increasing, %q (%g) does not exceed %g", t.Name, t.Value, prev)
		}
		prev = t.Value
	}
	var ratioSum float64
	for _, v := range p.ProviderRatios {
		if v < 0 {
			return fmt.Errorf("provider ratios must be >= 0")
		}
		ratioSum += v
	}
	if math.Abs(ratioSum-1.0) > 1e-6 {
		return fmt.Errorf("provider ratios must sum to 1, got %g", ratioSum)
	}
	return nil
}

// AverageInterruptionDuration is the mean minutes across event types.
func (p Parameters) AverageInterruptionDuration() float64 {
	if len(p.InterruptionDurations) == 0 {
		return 0
	}
	var sum float64
	for _, v := range p.InterruptionDurations {
		sum += v
	}
	return sum / float64(len(p.InterruptionDurations))
}

// DeriveRates returns per-hour rates for the census: census x per-patient
// scale for each event type. Used when the caller supplies no explicit rates.
func (p Parameters) DeriveRates(census int) map[string]float64 {
	rates := make(map[string]float64, len(p.InterruptionScales))
	for k, scale := range p.InterruptionScales {
		rates[k] = scale * float64(census)
	}
	return rates
}

func copyMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
