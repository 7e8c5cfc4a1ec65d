package scenario

import (
	"math"

	"icuflow/internal/domain"
	"icuflow/internal/sim"
)

// ProtectedTimeBlock suppresses nursing-question interruptions for part of
// the shift. ReductionFactor is the fraction of the rate removed at nominal
// effectiveness; placement and length scale it.
type ProtectedTimeBlock struct {
	StartHour       float64
	EndHour         float64
	ReductionFactor float64
}

// StaffDistribution adjusts the physician/APP split or adds time-windowed
// extra coverage.
type StaffDistribution struct {
	PhysicianRatio *float64 // override for the physician share; APP gets the remainder

	AddPhysician      bool
	PhysicianStart    float64
	PhysicianDuration float64 // hours

	AddAPP      bool
	APPStart    float64
	APPDuration float64 // hours
}

// TaskBundling scales every admission-type duration by one efficiency
// factor; < 1.0 means bundled tasks finish faster.
type TaskBundling struct {
	EfficiencyFactor float64
}

// Interventions is the full intervention set of a scenario.
type Interventions struct {
	ProtectedTimeBlocks []ProtectedTimeBlock
	StaffDistribution   *StaffDistribution
	TaskBundling        *TaskBundling
}

// Effectiveness reports how strongly each intervention type applied.
type Effectiveness struct {
	// ProtectedTime is the combined nursing-question rate multiplier after
	// all blocks; 1.0 means no effect.
	ProtectedTime float64
	// StaffCoverage is the extra effective provider count added by
	// coverage windows.
	StaffCoverage float64
	// TaskBundling is the admission-duration multiplier; 1.0 means no
	// effect.
	TaskBundling float64
}

const (
	dayshiftStartHour = 8.0
	dayshiftEndHour   = 20.0
	// Protected blocks are most effective during the morning interruption
	// peak; effectiveness falls off linearly toward the afternoon.
	protectedPeakFactor  = 1.2
	protectedFloorFactor = 0.8
	// Blocks longer than this see diminishing returns.
	protectedNominalHours = 3.0
)

// Apply transforms a working parameter copy and the scenario inputs,
// returning new values; nothing shared is mutated.
func (iv Interventions) Apply(p sim.Parameters, in domain.WorkloadInputs) (sim.Parameters, domain.WorkloadInputs, Effectiveness) {
	eff := Effectiveness{ProtectedTime: 1.0, TaskBundling: 1.0}

	if len(iv.ProtectedTimeBlocks) > 0 {
		multiplier := 1.0
		for _, block := range iv.ProtectedTimeBlocks {
			multiplier *= block.rateMultiplier()
		}
		eff.ProtectedTime = multiplier

		scale := p.InterruptionScales[sim.EventNursingQuestion] * multiplier
		p = p.Apply(sim.PartialSettings{
			InterruptionScales: map[string]float64{sim.EventNursingQuestion: scale},
		})
		if in.Rates != nil {
			rates := make(map[string]float64, len(in.Rates))
			for k, v := range in.Rates {
				rates[k] = v
			}
			rates[sim.EventNursingQuestion] *= multiplier
			in.Rates = rates
		}
	}

	if sd := iv.StaffDistribution; sd != nil {
		if sd.PhysicianRatio != nil {
			ratio := clampFloat(*sd.PhysicianRatio, 0, 1)
			p = p.Apply(sim.PartialSettings{
				ProviderRatios: map[domain.Role]float64{
					domain.RolePhysician: ratio,
					domain.RoleAPP:       1 - ratio,
				},
			})
		}
		extra := 0.0
		if sd.AddPhysician {
			extra += coverageFTE(sd.PhysicianStart, sd.PhysicianDuration)
		}
		if sd.AddAPP {
			extra += coverageFTE(sd.APPStart, sd.APPDuration)
		}
		eff.StaffCoverage = extra
		in.Providers += extra
	}

	if tb := iv.TaskBundling; tb != nil && tb.EfficiencyFactor > 0 {
		eff.TaskBundling = tb.EfficiencyFactor
		durations := make(map[string]float64, len(p.AdmissionDurations))
		for k, v := range p.AdmissionDurations {
			durations[k] = v * tb.EfficiencyFactor
		}
		p = p.Apply(sim.PartialSettings{AdmissionDurations: durations})
	}

	return p, in, eff
}

// rateMultiplier is the nursing-question rate multiplier one block applies:
// 1 - reduction x timeOfDay x duration, floored at zero.
func (b ProtectedTimeBlock) rateMultiplier() float64 {
	hours := b.EndHour - b.StartHour
	if hours <= 0 || b.ReductionFactor <= 0 {
		return 1.0
	}
	effectiveness := b.ReductionFactor * timeOfDayFactor(b.StartHour) * durationFactor(hours)
	return clampFloat(1-effectiveness, 0, 1)
}

// timeOfDayFactor rewards morning placement: 1.2 at 8 AM falling linearly to
// 0.8 at 5 PM. Continuous in the start hour so effectiveness has no jumps at
// block boundaries.
func timeOfDayFactor(startHour float64) float64 {
	f := protectedPeakFactor - (protectedPeakFactor-protectedFloorFactor)*(startHour-8)/9
	return clampFloat(f, protectedFloorFactor, protectedPeakFactor)
}

// durationFactor penalizes blocks past three hours with diminishing returns:
// (3/hours)^0.5.
func durationFactor(hours float64) float64 {
	if hours <= protectedNominalHours {
		return 1.0
	}
	return math.Sqrt(protectedNominalHours / hours)
}

// coverageFTE converts a coverage window into the fraction of the shift it
// staffs, clipping the window to the 8 AM - 8 PM dayshift.
func coverageFTE(startHour, durationHours float64) float64 {
	if durationHours <= 0 {
		return 0
	}
	start := math.Max(startHour, dayshiftStartHour)
	end := math.Min(startHour+durationHours, dayshiftEndHour)
	if end <= start {
		return 0
	}
	return (end - start) / sim.ShiftHours
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
