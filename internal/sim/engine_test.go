package sim

import (
	"math"
	"math/rand"
	"testing"

	"icuflow/internal/domain"
)

func TestEvaluateTypicalShift(t *testing.T) {
	p := DefaultParameters()
	in := testInputs()

	result, err := Evaluate(p, in, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	// Census 8 of 16 beds with a consult load lands the combined workload
	// just above half capacity.
	if result.Workload.Combined < 0.5 || result.Workload.Combined > 0.7 {
		t.Fatalf("combined workload out of expected band: %g", result.Workload.Combined)
	}
	if result.Metrics.Efficiency < EfficiencyFloor || result.Metrics.Efficiency > 1.0 {
		t.Fatalf("efficiency out of range: %g", result.Metrics.Efficiency)
	}
	if result.Metrics.CognitiveLoad < 30 || result.Metrics.CognitiveLoad > 100 {
		t.Fatalf("cognitive load out of expected range: %g", result.Metrics.CognitiveLoad)
	}
	if result.Metrics.BurnoutRisk <= 0 || result.Metrics.BurnoutRisk > 1 {
		t.Fatalf("burnout risk out of range: %g", result.Metrics.BurnoutRisk)
	}

	// Org-wide interruption minutes are the per-provider figure scaled by
	// provider count; the rates derive from the census.
	rates := p.DeriveRates(in.Census)
	wantPerProvider := InterruptionTimePerProvider(p, rates)
	if math.Abs(result.Metrics.InterruptTime-wantPerProvider*in.Providers) > 1e-9 {
		t.Fatalf("interrupt time inconsistent: got %g want %g", result.Metrics.InterruptTime, wantPerProvider*in.Providers)
	}
	if math.Abs(result.Metrics.TimeLost-wantPerProvider/60) > 1e-9 {
		t.Fatalf("time lost inconsistent: got %g want %g", result.Metrics.TimeLost, wantPerProvider/60)
	}

	if len(result.Timeline) != 13 {
		t.Fatalf("expected a 13-point timeline, got %d", len(result.Timeline))
	}
	if result.Risk.Category == "" {
		t.Fatalf("risk breakdown missing category")
	}
}

func TestEvaluateSeededDeterminism(t *testing.T) {
	p := DefaultParameters()
	in := testInputs()

	first, err := Evaluate(p, in, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	second, err := Evaluate(p, in, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if first.Metrics != second.Metrics {
		t.Fatalf("same seed should pin the metrics:\n%+v\n%+v", first.Metrics, second.Metrics)
	}
}

func TestEvaluateExplicitRatesOverrideDerivation(t *testing.T) {
	p := DefaultParameters()
	in := testInputs()
	in.Rates = map[string]float64{
		EventNursingQuestion: 0,
		EventExamCallback:    0,
		EventPeerInterrupt:   0,
	}

	result, err := Evaluate(p, in, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if result.Metrics.InterruptTime != 0 || result.Metrics.TimeLost != 0 {
		t.Fatalf("explicit zero rates should zero the interruption figures: %+v", result.Metrics)
	}
}

func TestEvaluateRejectsInvalidInputs(t *testing.T) {
	p := DefaultParameters()
	cases := []struct {
		name   string
		mutate func(*domain.WorkloadInputs)
	}{
		{"census above capacity", func(in *domain.WorkloadInputs) { in.Census = 17 }},
		{"negative census", func(in *domain.WorkloadInputs) { in.Census = -1 }},
		{"no providers", func(in *domain.WorkloadInputs) { in.Providers = 0 }},
		{"negative admissions", func(in *domain.WorkloadInputs) { in.Admissions = -1 }},
		{"negative criticals", func(in *domain.WorkloadInputs) { in.CriticalEventsPerWeek = -1 }},
		{"negative rate", func(in *domain.WorkloadInputs) {
			in.Rates = map[string]float64{EventNursingQuestion: -0.5}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := testInputs()
			tc.mutate(&in)
			if _, err := Evaluate(p, in, rand.New(rand.NewSource(1))); err == nil {
				t.Fatalf("expected input validation error")
			}
		})
	}
}

func TestEvaluateRejectsInvalidParameters(t *testing.T) {
	p := DefaultParameters()
	p.BurnoutThresholds[0].Value = 0.9 // no longer increasing
	if _, err := Evaluate(p, testInputs(), rand.New(rand.NewSource(1))); err == nil {
		t.Fatalf("expected parameter validation error")
	}
}

func TestRecommendations(t *testing.T) {
	quiet := domain.Metrics{BurnoutRisk: 0.2, CognitiveLoad: 40, Efficiency: 0.9}
	if recs := Recommendations(quiet); len(recs) != 0 {
		t.Fatalf("quiet shift should produce no recommendations, got %v", recs)
	}

	overloaded := domain.Metrics{
		BurnoutRisk:   0.8,
		CognitiveLoad: 90,
		Efficiency:    0.5,
		InterruptTime: 400,
		AdmissionTime: 300,
		CriticalTime:  100,
	}
	recs := Recommendations(overloaded)
	if len(recs) != 4 {
		t.Fatalf("expected all four advisories, got %d: %v", len(recs), recs)
	}
}
