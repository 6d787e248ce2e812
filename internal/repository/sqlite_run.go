package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/roaster/internal/db"
	"github.com/alexanderramin/roaster/internal/domain"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 20

const runColumns = `id, created_at, input, rows, model_kind, provider, mae, rmse, r2, cv_mean, cv_std, valid`

// SQLiteRunRepo implements RunRepo on top of any DBTX, so it can run inside
// a unit of work or directly against the pool.
type SQLiteRunRepo struct {
	db db.DBTX
}

// NewSQLiteRunRepo creates a new SQLiteRunRepo.
func NewSQLiteRunRepo(conn db.DBTX) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: conn}
}

func (r *SQLiteRunRepo) Create(ctx context.Context, run *domain.Run) error {
	query := `INSERT INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339),
		run.Input,
		run.Rows,
		string(run.ModelKind),
		run.Provider,
		run.MAE,
		run.RMSE,
		run.R2,
		nullableFloat(run.CVMean),
		nullableFloat(run.CVStd),
		boolToInt(run.Valid),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// AddResults appends results to a run in order. Positions continue from the
// results already stored for the run.
func (r *SQLiteRunRepo) AddResults(ctx context.Context, runID string, results []domain.RoastResult) error {
	var offset int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM roast_results WHERE run_id = ?`, runID).Scan(&offset); err != nil {
		return fmt.Errorf("counting results for run %s: %w", runID, err)
	}

	query := `INSERT INTO roast_results
		(run_id, position, user_id, app_name, actual_usage, predicted_usage,
		 roast_intensity, roast_category, day_of_week, roast_prompt, generated_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, res := range results {
		_, err := r.db.ExecContext(ctx, query,
			runID,
			offset+i,
			res.UserID,
			res.AppName,
			res.ActualUsage,
			res.PredictedUsage,
			res.RoastIntensity,
			res.RoastCategory,
			res.DayOfWeek,
			res.RoastPrompt,
			res.GeneratedText,
		)
		if err != nil {
			return fmt.Errorf("inserting result %d for run %s: %w", offset+i, runID, err)
		}
	}
	return nil
}

// List returns the most recent runs first.
func (r *SQLiteRunRepo) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func (r *SQLiteRunRepo) GetByID(ctx context.Context, ref string) (*domain.Run, error) {
	id, err := r.resolveID(ctx, ref)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", ref, ErrNotFound)
	}
	return run, err
}

// resolveID maps a full ID or unique prefix onto the stored run ID. An exact
// match wins over longer IDs sharing the same prefix.
func (r *SQLiteRunRepo) resolveID(ctx context.Context, ref string) (string, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return "", fmt.Errorf("run %q: %w", ref, ErrNotFound)
	}
	query := `SELECT id FROM runs WHERE lower(id) LIKE ? ESCAPE '\'
		ORDER BY lower(id) = ? DESC, id LIMIT 2`
	rows, err := r.db.QueryContext(ctx, query, likePrefix.Replace(ref)+"%", ref)
	if err != nil {
		return "", fmt.Errorf("resolving run %s: %w", ref, err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return "", fmt.Errorf("scanning run id: %w", err)
		}
		ids = append(ids, id)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return "", fmt.Errorf("resolving run %s: %w", ref, err)
	}

	switch {
	case len(ids) == 0:
		return "", fmt.Errorf("run %s: %w", ref, ErrNotFound)
	case strings.ToLower(ids[0]) == ref || len(ids) == 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("run %s: %w", ref, ErrAmbiguous)
	}
}

var likePrefix = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *SQLiteRunRepo) Results(ctx context.Context, runID string) ([]domain.RoastResult, error) {
	query := `SELECT user_id, app_name, actual_usage, predicted_usage, roast_intensity,
		roast_category, day_of_week, roast_prompt, generated_text
		FROM roast_results WHERE run_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("listing results for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []domain.RoastResult
	for rows.Next() {
		var res domain.RoastResult
		if err := rows.Scan(
			&res.UserID, &res.AppName, &res.ActualUsage, &res.PredictedUsage,
			&res.RoastIntensity, &res.RoastCategory, &res.DayOfWeek,
			&res.RoastPrompt, &res.GeneratedText,
		); err != nil {
			return nil, fmt.Errorf("scanning roast result: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roast results: %w", err)
	}
	return out, nil
}

// Delete removes a run; its results go with it through the foreign key.
func (r *SQLiteRunRepo) Delete(ctx context.Context, ref string) error {
	id, err := r.resolveID(ctx, ref)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*domain.Run, error) {
	var (
		run       domain.Run
		createdAt string
		kind      string
		cvMean    sql.NullFloat64
		cvStd     sql.NullFloat64
		valid     int
	)
	err := s.Scan(&run.ID, &createdAt, &run.Input, &run.Rows, &kind, &run.Provider,
		&run.MAE, &run.RMSE, &run.R2, &cvMean, &cvStd, &valid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing run created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = t
	run.ModelKind = domain.ModelKind(kind)
	run.CVMean = floatPtr(cvMean)
	run.CVStd = floatPtr(cvStd)
	run.Valid = valid != 0
	return &run, nil
}
