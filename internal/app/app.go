package app

import (
	"context"
	"log"
	"time"

	"icuflow/internal/config"
	"icuflow/internal/integrations/llm"
	slackdigest "icuflow/internal/integrations/slack"
	"icuflow/internal/snapshot"
	"icuflow/internal/storage/sqlite"
)

// Main wires the engine together: config, database, optional Slack and LLM
// integrations, one immediate baseline evaluation, and the snapshot
// scheduler when configured.
func Main() {
	cfg := config.LoadConfig()

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	var poster *slackdigest.Poster
	if cfg.SlackEnabled() {
		poster = slackdigest.NewPoster(cfg.SlackBotToken, cfg.ReportChannelID)
		log.Printf("Slack digest delivery enabled (channel %s)", cfg.ReportChannelID)
	}

	runner := &snapshot.Runner{
		Params: cfg.Parameters(),
		Inputs: cfg.Inputs(),
		DB:     db,
		Poster: poster,
	}

	log.Println("Starting ICU flow engine...")
	result, err := runner.RunOnce()
	if err != nil {
		log.Fatalf("Baseline evaluation failed: %v", err)
	}
	log.Printf("Baseline shift: workload=%.2f efficiency=%.2f cognitive_load=%.0f burnout=%.2f (%s)",
		result.Workload.Combined, result.Metrics.Efficiency,
		result.Metrics.CognitiveLoad, result.Risk.TotalRisk, result.Risk.Category)
	for _, rec := range result.Recommendations {
		log.Printf("  recommendation: %s", rec)
	}

	if cfg.AdvisorEnabled() {
		advisor := &llm.Advisor{
			Provider:        cfg.LLMProvider,
			Model:           cfg.LLMModel,
			AnthropicAPIKey: cfg.AnthropicAPIKey,
			OpenAIAPIKey:    cfg.OpenAIAPIKey,
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		advice, usage, err := advisor.ScenarioAdvice(ctx, "baseline", cfg.Inputs(), result.Metrics)
		cancel()
		if err != nil {
			log.Printf("Advisor error: %v", err)
		} else {
			log.Printf("Advisor (%s, %d tokens, confidence %.0f%%):",
				cfg.LLMProvider, usage.TotalTokens(), advice.Confidence*100)
			for _, rec := range advice.Recommendations {
				log.Printf("  advisor: %s", rec)
			}
		}
	}

	if cfg.SnapshotSchedule == "" {
		return
	}
	snapshot.StartScheduler(cfg.SnapshotSchedule, cfg.Location, runner)
	select {}
}
