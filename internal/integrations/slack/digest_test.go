package slack

import (
	"strings"
	"testing"

	"icuflow/internal/domain"
	"icuflow/internal/scenario"
)

func sampleMetrics() domain.Metrics {
	return domain.Metrics{
		InterruptsPerProvider: 34.1,
		TimeLost:              3.2,
		Efficiency:            0.72,
		CognitiveLoad:         68,
		BurnoutRisk:           0.41,
		InterruptTime:         384,
		AdmissionTime:         447,
		CriticalTime:          75,
	}
}

func TestFormatShiftDigest(t *testing.T) {
	risk := domain.RiskBreakdown{TotalRisk: 0.41, Category: "moderate"}
	text := FormatShiftDigest(sampleMetrics(), risk, []string{"Review interruption patterns."})

	if strings.Contains(text, ":rotating_light:") {
		t.Fatalf("moderate risk should not escalate the headline:\n%s", text)
	}
	for _, want := range []string{
		"*ICU Shift Digest*",
		"34.1/shift",
		"72%",
		"68/100",
		"0.41 (moderate)",
		"*Recommendations*",
		"Review interruption patterns.",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("digest missing %q:\n%s", want, text)
		}
	}
}

func TestFormatShiftDigestEscalatesAtHighRisk(t *testing.T) {
	for _, category := range []string{"high", "severe"} {
		risk := domain.RiskBreakdown{TotalRisk: 0.75, Category: category}
		text := FormatShiftDigest(sampleMetrics(), risk, nil)
		if !strings.Contains(text, ":rotating_light:") {
			t.Fatalf("%s risk should escalate the headline:\n%s", category, text)
		}
		if !strings.Contains(text, category+" burnout risk") {
			t.Fatalf("headline should name the category:\n%s", text)
		}
		if strings.Contains(text, "*Recommendations*") {
			t.Fatalf("no recommendations section expected without recommendations:\n%s", text)
		}
	}
}

func TestFormatComparison(t *testing.T) {
	rows := []scenario.ComparisonRow{
		{RunResult: scenario.RunResult{
			ScenarioName: "protected-morning",
			Metrics:      sampleMetrics(),
			Risk:         domain.RiskBreakdown{TotalRisk: 0.35, Category: "low"},
		}},
		{
			RunResult: scenario.RunResult{ScenarioName: "broken"},
			Err:       `scenario "broken" not found`,
		},
	}

	text := FormatComparison(rows)

	if !strings.Contains(text, "*Scenario Comparison*") {
		t.Fatalf("missing header:\n%s", text)
	}
	if !strings.Contains(text, "protected-morning") || !strings.Contains(text, "0.35 (low)") {
		t.Fatalf("valid row not rendered:\n%s", text)
	}
	if !strings.Contains(text, `broken`) || !strings.Contains(text, "not found") {
		t.Fatalf("failed row should render its error:\n%s", text)
	}
}
