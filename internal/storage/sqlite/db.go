package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"icuflow/internal/domain"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS shift_records (
		id                       INTEGER PRIMARY KEY AUTOINCREMENT,
		nursing_questions        REAL DEFAULT 0,
		exam_callbacks           REAL DEFAULT 0,
		peer_interrupts          REAL DEFAULT 0,
		census                   INTEGER DEFAULT 0,
		providers                REAL DEFAULT 0,
		admissions               INTEGER DEFAULT 0,
		consults                 INTEGER DEFAULT 0,
		transfers                INTEGER DEFAULT 0,
		critical_events_per_week REAL DEFAULT 0,
		interrupts_per_provider  REAL DEFAULT 0,
		time_lost                REAL DEFAULT 0,
		efficiency               REAL DEFAULT 0,
		cognitive_load           REAL DEFAULT 0,
		burnout_risk             REAL DEFAULT 0,
		interrupt_time           REAL DEFAULT 0,
		admission_time           REAL DEFAULT 0,
		critical_time            REAL DEFAULT 0,
		risk_components          TEXT DEFAULT '{}',
		recommendations          TEXT DEFAULT '[]',
		created_at               DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_shift_records_created_at ON shift_records(created_at);

	CREATE TABLE IF NOT EXISTS scenario_runs (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario_name TEXT NOT NULL,
		metrics       TEXT DEFAULT '{}',
		error         TEXT DEFAULT '',
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_scenario_runs_name ON scenario_runs(scenario_name);
	CREATE INDEX IF NOT EXISTS idx_scenario_runs_created_at ON scenario_runs(created_at);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func InsertShiftRecord(db *sql.DB, rec domain.ShiftRecord) error {
	components, err := json.Marshal(orEmptyMap(rec.RiskComponents))
	if err != nil {
		return fmt.Errorf("marshaling risk components: %w", err)
	}
	recommendations, err := json.Marshal(orEmptySlice(rec.Recommendations))
	if err != nil {
		return fmt.Errorf("marshaling recommendations: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO shift_records
		 (nursing_questions, exam_callbacks, peer_interrupts, census, providers,
		  admissions, consults, transfers, critical_events_per_week,
		  interrupts_per_provider, time_lost, efficiency, cognitive_load, burnout_risk,
		  interrupt_time, admission_time, critical_time, risk_components, recommendations)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.NursingQ, rec.ExamCallbacks, rec.PeerInterrupts, rec.Census, rec.Providers,
		rec.Admissions, rec.Consults, rec.Transfers, rec.CriticalPerWeek,
		rec.Metrics.InterruptsPerProvider, rec.Metrics.TimeLost, rec.Metrics.Efficiency,
		rec.Metrics.CognitiveLoad, rec.Metrics.BurnoutRisk,
		rec.Metrics.InterruptTime, rec.Metrics.AdmissionTime, rec.Metrics.CriticalTime,
		string(components), string(recommendations),
	)
	return err
}

func GetRecentShiftRecords(db *sql.DB, limit int) ([]domain.ShiftRecord, error) {
	rows, err := db.Query(
		`SELECT id, nursing_questions, exam_callbacks, peer_interrupts, census, providers,
		        admissions, consults, transfers, critical_events_per_week,
		        interrupts_per_provider, time_lost, efficiency, cognitive_load, burnout_risk,
		        interrupt_time, admission_time, critical_time, risk_components, recommendations, created_at
		 FROM shift_records ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ShiftRecord
	for rows.Next() {
		var rec domain.ShiftRecord
		var components, recommendations string
		err := rows.Scan(
			&rec.ID, &rec.NursingQ, &rec.ExamCallbacks, &rec.PeerInterrupts, &rec.Census, &rec.Providers,
			&rec.Admissions, &rec.Consults, &rec.Transfers, &rec.CriticalPerWeek,
			&rec.Metrics.InterruptsPerProvider, &rec.Metrics.TimeLost, &rec.Metrics.Efficiency,
			&rec.Metrics.CognitiveLoad, &rec.Metrics.BurnoutRisk,
			&rec.Metrics.InterruptTime, &rec.Metrics.AdmissionTime, &rec.Metrics.CriticalTime,
			&components, &recommendations, &rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(components), &rec.RiskComponents); err != nil {
			return nil, fmt.Errorf("parsing risk components for record %d: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(recommendations), &rec.Recommendations); err != nil {
			return nil, fmt.Errorf("parsing recommendations for record %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func InsertScenarioRuns(db *sql.DB, runs []domain.ScenarioRun) (int, error) {
	if len(runs) == 0 {
		return 0, nil
	}
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO scenario_runs (scenario_name, metrics, error) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, run := range runs {
		metrics, err := json.Marshal(run.Metrics)
		if err != nil {
			return inserted, fmt.Errorf("marshaling metrics for %q: %w", run.ScenarioName, err)
		}
		if _, err := stmt.Exec(run.ScenarioName, string(metrics), run.Error); err != nil {
			return inserted, err
		}
		inserted++
	}

	return inserted, tx.Commit()
}

func GetScenarioRunsByName(db *sql.DB, name string, limit int) ([]domain.ScenarioRun, error) {
	rows, err := db.Query(
		`SELECT id, scenario_name, metrics, error, created_at
		 FROM scenario_runs WHERE scenario_name = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		name, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.ScenarioRun
	for rows.Next() {
		var run domain.ScenarioRun
		var metrics string
		if err := rows.Scan(&run.ID, &run.ScenarioName, &metrics, &run.Error, &run.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(metrics), &run.Metrics); err != nil {
			return nil, fmt.Errorf("parsing metrics for run %d: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetAverageBurnoutSince returns the mean recorded burnout risk for records
// newer than the cutoff, or 0 when there are none.
func GetAverageBurnoutSince(db *sql.DB, since time.Time) (float64, int, error) {
	var avg float64
	var count int
	err := db.QueryRow(
		`SELECT COALESCE(AVG(burnout_risk), 0), COUNT(*)
		 FROM shift_records WHERE created_at >= ?`,
		since,
	).Scan(&avg, &count)
	return avg, count, err
}

func orEmptyMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
