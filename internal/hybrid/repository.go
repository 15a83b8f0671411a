package hybrid

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
)

// Repository persists hybrid run summaries to Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a run repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveRun stores one run row plus one row per ranked result.
func (r *Repository) SaveRun(ctx context.Context, run *contracts.HybridRun) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO scoring.hybrid_runs
			(run_id, persona_id, universe_size, top_n, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, run.RunID, string(run.PersonaID), run.UniverseSize, run.TopN,
		run.StartedAt, run.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for rank, result := range run.Results {
		criteria, err := json.Marshal(result.Criteria)
		if err != nil {
			return fmt.Errorf("marshal criteria for %s: %w", result.Symbol, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO scoring.hybrid_results
				(run_id, rank, symbol, preliminary_score, final_score,
				 verdict, confidence, thesis, key_risks, criteria)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, run.RunID, rank+1, result.Symbol, result.PreliminaryScore,
			result.FinalScore, result.Verdict, result.Confidence,
			result.Thesis, result.KeyRisks, criteria)
		if err != nil {
			return fmt.Errorf("insert result %s: %w", result.Symbol, err)
		}
	}

	return tx.Commit(ctx)
}

// GetRecentRuns returns the most recent run summaries for a persona,
// without result rows.
func (r *Repository) GetRecentRuns(ctx context.Context, persona contracts.PersonaID, limit int) ([]contracts.HybridRun, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT run_id, persona_id, universe_size, top_n, started_at, duration_ms
		FROM scoring.hybrid_runs
		WHERE persona_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`, string(persona), limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []contracts.HybridRun
	for rows.Next() {
		var run contracts.HybridRun
		var personaID string
		var durationMs int64
		if err := rows.Scan(&run.RunID, &personaID, &run.UniverseSize,
			&run.TopN, &run.StartedAt, &durationMs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.PersonaID = contracts.PersonaID(personaID)
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
