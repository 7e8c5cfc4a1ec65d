package scenario

import (
	"errors"
	"math/rand"
	"testing"

	"icuflow/internal/domain"
	"icuflow/internal/sim"
)

func testInputs() domain.WorkloadInputs {
	return domain.WorkloadInputs{
		Census:                8,
		Providers:             2,
		Admissions:            3,
		Consults:              4,
		Transfers:             2,
		CriticalEventsPerWeek: 5,
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(sim.DefaultParameters())
	m.SetRand(rand.New(rand.NewSource(42)))
	return m
}

func TestCreateRejectsDuplicateNames(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Create(Config{Name: "reduce-interruptions", Inputs: testInputs()}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := m.Create(Config{Name: "reduce-interruptions", Inputs: testInputs()}); err == nil {
		t.Fatalf("expected duplicate name error")
	}
	if _, err := m.Create(Config{Name: "", Inputs: testInputs()}); err == nil {
		t.Fatalf("expected empty name error")
	}
}

func TestNamesSorted(t *testing.T) {
	m := newTestManager(t)
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		if _, err := m.Create(Config{Name: name, Inputs: testInputs()}); err != nil {
			t.Fatalf("Create(%q) failed: %v", name, err)
		}
	}
	names := m.Names()
	want := []string{"alpha", "bravo", "charlie"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("unexpected name order: got %v want %v", names, want)
		}
	}
}

func TestRunUnknownScenario(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Run("never-created")
	var unknown *UnknownScenarioError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownScenarioError, got %v", err)
	}
	if unknown.Name != "never-created" {
		t.Fatalf("unexpected error name: %q", unknown.Name)
	}
}

func TestRunLeavesBaselineUntouched(t *testing.T) {
	m := newTestManager(t)
	before := m.Baseline()

	critical := 60.0
	_, err := m.Create(Config{
		Name:   "aggressive-overrides",
		Inputs: testInputs(),
		Settings: &sim.PartialSettings{
			InterruptionScales:    map[string]float64{sim.EventNursingQuestion: 0.1},
			CriticalEventDuration: &critical,
		},
		Interventions: Interventions{
			TaskBundling: &TaskBundling{EfficiencyFactor: 0.8},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := m.Run("aggressive-overrides"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	after := m.Baseline()
	if after.CriticalEventDuration != before.CriticalEventDuration {
		t.Fatalf("run mutated baseline critical duration: %g -> %g", before.CriticalEventDuration, after.CriticalEventDuration)
	}
	if after.InterruptionScales[sim.EventNursingQuestion] != before.InterruptionScales[sim.EventNursingQuestion] {
		t.Fatalf("run mutated baseline interruption scale")
	}
	if after.AdmissionDurations[sim.AdmissionSimple] != before.AdmissionDurations[sim.AdmissionSimple] {
		t.Fatalf("run mutated baseline admission duration")
	}
}

func TestRunFailureLeavesBaselineUntouched(t *testing.T) {
	m := newTestManager(t)
	before := m.Baseline()

	bad := testInputs()
	bad.Census = 20
	if _, err := m.Create(Config{Name: "broken", Inputs: bad}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := m.Run("broken"); err == nil {
		t.Fatalf("expected run to fail on invalid census")
	}

	after := m.Baseline()
	if after.CriticalEventDuration != before.CriticalEventDuration {
		t.Fatalf("failed run mutated baseline")
	}
}

func TestComparePartialFailure(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Create(Config{Name: "baseline-copy", Inputs: testInputs()}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := m.Create(Config{
		Name:   "protected-morning",
		Inputs: testInputs(),
		Interventions: Interventions{
			ProtectedTimeBlocks: []ProtectedTimeBlock{{StartHour: 9, EndHour: 11, ReductionFactor: 0.5}},
		},
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rows := m.Compare([]string{"baseline-copy", "missing", "protected-morning"})
	if len(rows) != 3 {
		t.Fatalf("expected one row per requested name, got %d", len(rows))
	}
	if rows[0].Err != "" || rows[2].Err != "" {
		t.Fatalf("valid scenarios should not carry errors: %+v", rows)
	}
	if rows[1].Err == "" {
		t.Fatalf("missing scenario should carry its error")
	}
	if rows[1].ScenarioName != "missing" {
		t.Fatalf("failed row should keep the requested name, got %q", rows[1].ScenarioName)
	}
	if rows[0].Metrics.Efficiency == 0 || rows[2].Metrics.Efficiency == 0 {
		t.Fatalf("valid rows should carry metrics: %+v", rows)
	}
}
