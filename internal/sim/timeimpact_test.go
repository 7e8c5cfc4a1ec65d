package sim

import (
	"math"
	"testing"
)

func TestInterruptionTimePerProvider(t *testing.T) {
	p := DefaultParameters()
	rates := map[string]float64{
		EventNursingQuestion: 3, // 3/h x 2 min = 6 min/h
		EventExamCallback:    1, // 1/h x 7.5 min = 7.5 min/h
	}
	want := (3*2 + 1*7.5) * 12.0
	if got := InterruptionTimePerProvider(p, rates); math.Abs(got-want) > 1e-9 {
		t.Fatalf("unexpected per-provider minutes: got %g want %g", got, want)
	}

	if got := InterruptionTimeTotal(p, rates, 2); math.Abs(got-2*want) > 1e-9 {
		t.Fatalf("total should scale by providers: got %g want %g", got, 2*want)
	}
	if got := HoursLost(p, rates); math.Abs(got-want/60) > 1e-9 {
		t.Fatalf("unexpected hours lost: got %g want %g", got, want/60)
	}
}

func TestInterruptionTimeIgnoresUnknownEvents(t *testing.T) {
	p := DefaultParameters()
	rates := map[string]float64{"pager_storm": 5}
	if got := InterruptionTimePerProvider(p, rates); got != 0 {
		t.Fatalf("event without a duration should contribute nothing, got %g", got)
	}
}

func TestTaskTimeAdmissionMix(t *testing.T) {
	p := DefaultParameters()

	// 0.7x60 + 0.3x90 = 69 min per admission.
	tasks := TaskTime(p, 3, 4, 2, 5.0/7)
	wantAdmission := 3*69.0 + 4*45 + 2*30
	if math.Abs(tasks.Admission-wantAdmission) > 1e-9 {
		t.Fatalf("unexpected admission time: got %g want %g", tasks.Admission, wantAdmission)
	}
	wantCritical := (5.0 / 7) * 105
	if math.Abs(tasks.Critical-wantCritical) > 1e-9 {
		t.Fatalf("unexpected critical time: got %g want %g", tasks.Critical, wantCritical)
	}
}

func TestTaskTimeZeroActivity(t *testing.T) {
	p := DefaultParameters()
	tasks := TaskTime(p, 0, 0, 0, 0)
	if tasks.Admission != 0 || tasks.Critical != 0 {
		t.Fatalf("idle shift should have zero task time: %+v", tasks)
	}
}

func TestInterruptsPerProvider(t *testing.T) {
	rates := map[string]float64{
		EventNursingQuestion: 2,
		EventExamCallback:    1,
	}
	if got := InterruptsPerProvider(rates, 2); math.Abs(got-18) > 1e-9 {
		t.Fatalf("unexpected interrupts per provider: got %g want 18", got)
	}
	if got := InterruptsPerProvider(rates, 0); got != 0 {
		t.Fatalf("zero providers should yield zero, got %g", got)
	}
}
