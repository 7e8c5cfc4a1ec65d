package snapshot

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"icuflow/internal/domain"
	slackdigest "icuflow/internal/integrations/slack"
	"icuflow/internal/sim"
	"icuflow/internal/storage/sqlite"
)

// Runner evaluates the baseline shift, persists the result, and optionally
// delivers a digest.
type Runner struct {
	Params sim.Parameters
	Inputs domain.WorkloadInputs
	DB     *sql.DB
	Poster *slackdigest.Poster // nil disables delivery
}

// RunOnce performs one snapshot evaluation.
func (r *Runner) RunOnce() (sim.Result, error) {
	result, err := sim.Evaluate(r.Params, r.Inputs, nil)
	if err != nil {
		return sim.Result{}, fmt.Errorf("snapshot evaluation: %w", err)
	}

	rates := r.Inputs.Rates
	if rates == nil {
		rates = r.Params.DeriveRates(r.Inputs.Census)
	}

	rec := domain.ShiftRecord{
		NursingQ:        rates[sim.EventNursingQuestion],
		ExamCallbacks:   rates[sim.EventExamCallback],
		PeerInterrupts:  rates[sim.EventPeerInterrupt],
		Census:          r.Inputs.Census,
		Providers:       r.Inputs.Providers,
		Admissions:      r.Inputs.Admissions,
		Consults:        r.Inputs.Consults,
		Transfers:       r.Inputs.Transfers,
		CriticalPerWeek: r.Inputs.CriticalEventsPerWeek,
		Metrics:         result.Metrics,
		RiskComponents:  result.Risk.Components,
		Recommendations: result.Recommendations,
	}
	if err := sqlite.InsertShiftRecord(r.DB, rec); err != nil {
		return result, fmt.Errorf("storing shift record: %w", err)
	}

	if r.Poster != nil {
		if _, err := r.Poster.PostShiftDigest(result.Metrics, result.Risk, result.Recommendations); err != nil {
			// Delivery failure leaves the stored record intact.
			log.Printf("snapshot digest post error: %v", err)
		}
	}

	return result, nil
}

// StartScheduler starts a cron-based scheduler that periodically runs a
// snapshot. The schedule is a standard 5-field cron expression
// (minute hour day-of-month month day-of-week).
// Examples: "0 20 * * *" (daily 8pm), "0 20 * * 1-5" (weekdays 8pm).
func StartScheduler(schedule string, loc *time.Location, r *Runner) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		log.Println("Snapshot scheduler disabled (snapshot_schedule not set)")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid snapshot_schedule '%s': %v (snapshot scheduler disabled)", schedule, err)
		return
	}

	log.Printf("Snapshot scheduled (cron: %s)", schedule)

	go func() {
		for {
			now := time.Now().In(loc)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next snapshot at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			result, err := r.RunOnce()
			if err != nil {
				log.Printf("Snapshot error: %v", err)
				continue
			}
			log.Printf("Snapshot complete: efficiency=%.2f cognitive_load=%.0f burnout=%.2f (%s)",
				result.Metrics.Efficiency, result.Metrics.CognitiveLoad,
				result.Risk.TotalRisk, result.Risk.Category)
		}
	}()
}
