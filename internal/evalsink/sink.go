// Package evalsink provides SQLite-backed, append-only persistence for
// orchestrator.EvalRecord, grounded on the teacher's reasoning-trace store
// (internal/store/trace_store.go): one write path, several read paths for
// after-the-fact analysis, no updates or deletes beyond explicit retention
// cleanup.
package evalsink

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"codenerd/internal/logging"
	"codenerd/internal/orchestrator"
	"codenerd/internal/phenotype"
)

// Sink persists EvalRecords to a SQLite database. It implements
// orchestrator.EvalSink.
type Sink struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if necessary) a SQLite database at path and ensures
// the eval_records schema exists.
func Open(path string) (*Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open eval sink db: %w", err)
	}

	s := &Sink{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure eval_records schema: %w", err)
	}

	logging.EvalSink("eval sink opened at %s", path)
	return s, nil
}

func (s *Sink) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS eval_records (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		module_id TEXT NOT NULL,
		training_example_index INTEGER NOT NULL,
		ok BOOLEAN NOT NULL,
		score REAL NOT NULL,
		accuracy REAL NOT NULL,
		latency REAL NOT NULL,
		cost REAL NOT NULL,
		usage REAL NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		prompt_tokens INTEGER NOT NULL,
		completion_tokens INTEGER NOT NULL,
		model_name TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_eval_module ON eval_records(module_id);
	CREATE INDEX IF NOT EXISTS idx_eval_ok ON eval_records(ok);
	CREATE INDEX IF NOT EXISTS idx_eval_created ON eval_records(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append inserts one eval record. The table is append-only: nothing ever
// updates or deletes a row except CleanupOlderThan.
func (s *Sink) Append(ctx context.Context, r orchestrator.EvalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO eval_records
		(module_id, training_example_index, ok, score, accuracy, latency, cost, usage,
		 elapsed_ms, prompt_tokens, completion_tokens, model_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ModuleID, r.TrainingExampleIndex, r.OK, r.Score,
		r.Phenotype.Accuracy, r.Phenotype.Latency, r.Phenotype.Cost, r.Phenotype.Usage,
		r.ElapsedMs, r.PromptTokens, r.CompletionTokens, r.ModelName,
	)
	if err != nil {
		logging.EvalSinkError("append failed for module %s: %v", r.ModuleID, err)
		return fmt.Errorf("eval sink append: %w", err)
	}
	return nil
}

// ForModule retrieves the most recent eval records for a module, newest
// first.
func (s *Sink) ForModule(ctx context.Context, moduleID string, limit int) ([]orchestrator.EvalRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT module_id, training_example_index, ok, score, accuracy, latency, cost, usage,
		       elapsed_ms, prompt_tokens, completion_tokens, model_name
		FROM eval_records
		WHERE module_id = ?
		ORDER BY rowid DESC
		LIMIT ?`, moduleID, limit)
	if err != nil {
		return nil, fmt.Errorf("eval sink query: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// SuccessRate returns the fraction of moduleID's most recent limit records
// where OK was true. Records are not filtered by training_example_index, so
// turn records and training-example records count alike.
func (s *Sink) SuccessRate(ctx context.Context, moduleID string, limit int) (float64, error) {
	records, err := s.ForModule(ctx, moduleID, limit)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	ok := 0
	for _, r := range records {
		if r.OK {
			ok++
		}
	}
	return float64(ok) / float64(len(records)), nil
}

// CleanupOlderThan deletes records older than the retention window and
// returns the number of rows removed.
func (s *Sink) CleanupOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-retention)
	result, err := s.db.ExecContext(ctx, `DELETE FROM eval_records WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("eval sink cleanup: %w", err)
	}
	n, _ := result.RowsAffected()
	logging.EvalSink("cleaned up %d eval records older than %s", n, retention)
	return n, nil
}

// Close releases the underlying database connection.
func (s *Sink) Close() error {
	return s.db.Close()
}

func scanRecords(rows *sql.Rows) ([]orchestrator.EvalRecord, error) {
	var out []orchestrator.EvalRecord
	for rows.Next() {
		var r orchestrator.EvalRecord
		var p phenotype.Phenotype
		var modelName sql.NullString
		if err := rows.Scan(
			&r.ModuleID, &r.TrainingExampleIndex, &r.OK, &r.Score,
			&p.Accuracy, &p.Latency, &p.Cost, &p.Usage,
			&r.ElapsedMs, &r.PromptTokens, &r.CompletionTokens, &modelName,
		); err != nil {
			return nil, fmt.Errorf("eval sink scan: %w", err)
		}
		r.Phenotype = p
		if modelName.Valid {
			r.ModelName = modelName.String
		}
		out = append(out, r)
	}
	return out, nil
}
