package slack

import (
	"fmt"
	"log"
	"strings"

	"github.com/slack-go/slack"

	"icuflow/internal/domain"
	"icuflow/internal/scenario"
)

// Poster delivers shift digests and scenario comparisons to a channel.
type Poster struct {
	api       *slack.Client
	channelID string
}

func NewPoster(botToken, channelID string) *Poster {
	return &Poster{
		api:       slack.New(botToken),
		channelID: channelID,
	}
}

// PostShiftDigest posts the formatted digest, returning the message timestamp.
func (p *Poster) PostShiftDigest(metrics domain.Metrics, risk domain.RiskBreakdown, recommendations []string) (string, error) {
	text := FormatShiftDigest(metrics, risk, recommendations)
	_, ts, err := p.api.PostMessage(p.channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return "", fmt.Errorf("posting shift digest: %w", err)
	}
	log.Printf("posted shift digest channel=%s ts=%s", p.channelID, ts)
	return ts, nil
}

// PostComparison posts a scenario comparison table.
func (p *Poster) PostComparison(rows []scenario.ComparisonRow) (string, error) {
	text := FormatComparison(rows)
	_, ts, err := p.api.PostMessage(p.channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return "", fmt.Errorf("posting scenario comparison: %w", err)
	}
	log.Printf("posted scenario comparison channel=%s ts=%s rows=%d", p.channelID, ts, len(rows))
	return ts, nil
}

// FormatShiftDigest renders the per-shift metrics as a Slack message. The
// headline escalates once the risk category reaches "high".
func FormatShiftDigest(m domain.Metrics, risk domain.RiskBreakdown, recommendations []string) string {
	var b strings.Builder

	switch risk.Category {
	case "high", "severe":
		b.WriteString(fmt.Sprintf(":rotating_light: *ICU Shift Digest — %s burnout risk*\n", risk.Category))
	default:
		b.WriteString("*ICU Shift Digest*\n")
	}

	b.WriteString(fmt.Sprintf("• Interruptions per provider: %.1f/shift (%.1f h lost)\n", m.InterruptsPerProvider, m.TimeLost))
	b.WriteString(fmt.Sprintf("• Provider efficiency: %.0f%%\n", m.Efficiency*100))
	b.WriteString(fmt.Sprintf("• Cognitive load: %.0f/100\n", m.CognitiveLoad))
	b.WriteString(fmt.Sprintf("• Burnout risk: %.2f (%s)\n", risk.TotalRisk, risk.Category))
	b.WriteString(fmt.Sprintf("• Time impact: %.0f min interruptions, %.0f min admissions/transfers, %.0f min critical events\n",
		m.InterruptTime, m.AdmissionTime, m.CriticalTime))

	if len(recommendations) > 0 {
		b.WriteString("\n*Recommendations*\n")
		for _, rec := range recommendations {
			b.WriteString("• " + rec + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatComparison renders one line per scenario; failed rows carry the
// error instead of metrics.
func FormatComparison(rows []scenario.ComparisonRow) string {
	var b strings.Builder
	b.WriteString("*Scenario Comparison*\n")
	for _, row := range rows {
		if row.Err != "" {
			b.WriteString(fmt.Sprintf("• %s — error: %s\n", row.ScenarioName, row.Err))
			continue
		}
		b.WriteString(fmt.Sprintf("• %s — efficiency %.0f%%, cognitive load %.0f, burnout %.2f (%s)\n",
			row.ScenarioName,
			row.Metrics.Efficiency*100,
			row.Metrics.CognitiveLoad,
			row.Risk.TotalRisk,
			row.Risk.Category,
		))
	}
	return strings.TrimRight(b.String(), "\n")
}
