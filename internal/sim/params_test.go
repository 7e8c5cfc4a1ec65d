package sim

import (
	"math"
	"testing"

	"icuflow/internal/domain"
)

func TestDefaultParametersValidate(t *testing.T) {
	p := DefaultParameters()
	if err := p.Validate(); err != nil {
		t.Fatalf("default parameters failed validation: %v", err)
	}
	if got := p.InterruptionDurations[EventNursingQuestion]; got != 2 {
		t.Fatalf("unexpected nursing question duration: %g", got)
	}
	if got := p.AdmissionDurations[AdmissionTransfer]; got != 30 {
		t.Fatalf("unexpected transfer duration: %g", got)
	}
	if got := p.CriticalEventDuration; got != 105 {
		t.Fatalf("unexpected critical event duration: %g", got)
	}
}

func TestApplyMergesAndPreservesUnspecifiedKeys(t *testing.T) {
	p := DefaultParameters()

	critical := 90.0
	updated := p.Apply(PartialSettings{
		InterruptionDurations: map[string]float64{EventNursingQuestion: 3},
		CriticalEventDuration: &critical,
	})

	if got := updated.InterruptionDurations[EventNursingQuestion]; got != 3 {
		t.Fatalf("override not applied: %g", got)
	}
	if got := updated.InterruptionDurations[EventExamCallback]; got != 7.5 {
		t.Fatalf("unspecified key changed: %g", got)
	}
	if got := updated.CriticalEventDuration; got != 90 {
		t.Fatalf("critical duration override not applied: %g", got)
	}

	// The original must be untouched.
	if got := p.InterruptionDurations[EventNursingQuestion]; got != 2 {
		t.Fatalf("Apply mutated the original: %g", got)
	}
	if got := p.CriticalEventDuration; got != 105 {
		t.Fatalf("Apply mutated the original critical duration: %g", got)
	}
}

func TestApplyEmptySettingsIsIdentity(t *testing.T) {
	p := DefaultParameters()
	updated := p.Apply(PartialSettings{})
	if !paramsEqual(p, updated) {
		t.Fatalf("empty settings changed the parameters")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Parameters)
	}{
		{"zero duration", func(p *Parameters) { p.InterruptionDurations[EventNursingQuestion] = 0 }},
		{"negative scale", func(p *Parameters) { p.InterruptionScales[EventExamCallback] = -0.1 }},
		{"zero critical duration", func(p *Parameters) { p.CriticalEventDuration = 0 }},
		{"non-increasing thresholds", func(p *Parameters) { p.BurnoutThresholds[1].Value = 0.3 }},
		{"threshold above one", func(p *Parameters) { p.BurnoutThresholds[3].Value = 1.5 }},
		{"ratios not summing to one", func(p *Parameters) { p.ProviderRatios[domain.RolePhysician] = 0.9 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParameters()
			tc.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestDeriveRates(t *testing.T) {
	p := DefaultParameters()
	rates := p.DeriveRates(10)
	if got := rates[EventNursingQuestion]; math.Abs(got-3.6) > 1e-9 {
		t.Fatalf("unexpected nursing question rate: %g", got)
	}
	if got := rates[EventPeerInterrupt]; math.Abs(got-1.4) > 1e-9 {
		t.Fatalf("unexpected peer interrupt rate: %g", got)
	}
}

func TestAverageInterruptionDuration(t *testing.T) {
	p := DefaultParameters()
	want := (2 + 7.5 + 7.5) / 3.0
	if got := p.AverageInterruptionDuration(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("unexpected average duration: got %g want %g", got, want)
	}
}

func paramsEqual(a, b Parameters) bool {
	if a.CriticalEventDuration != b.CriticalEventDuration {
		return false
	}
	for k, v := range a.InterruptionDurations {
		if b.InterruptionDurations[k] != v {
			return false
		}
	}
	for k, v := range a.InterruptionScales {
		if b.InterruptionScales[k] != v {
			return false
		}
	}
	for k, v := range a.AdmissionDurations {
		if b.AdmissionDurations[k] != v {
			return false
		}
	}
	if len(a.BurnoutThresholds) != len(b.BurnoutThresholds) {
		return false
	}
	for i, th := range a.BurnoutThresholds {
		if b.BurnoutThresholds[i] != th {
			return false
		}
	}
	for k, v := range a.ProviderRatios {
		if b.ProviderRatios[k] != v {
			return false
		}
	}
	return true
}
