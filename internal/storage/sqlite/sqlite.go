package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/farmer/internal/log"
	"github.com/slok/farmer/internal/model"
	"github.com/slok/farmer/internal/storage"
	"github.com/slok/farmer/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.RunReportRepository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository, the schema is migrated on creation.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	schema, err := migrations.NewHistorySchema(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create run history schema: %w", err)
	}
	version, err := schema.Migrate(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate run history schema: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s (schema v%d)", cfg.DBPath, version)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// SaveRunReport stores a run report and its steps.
func (r *Repository) SaveRunReport(ctx context.Context, report model.RunReport) error {
	if report.ID == "" {
		return fmt.Errorf("run report id is required: %w", model.ErrNotValid)
	}

	initial, err := progressToJSON(report.Initial)
	if err != nil {
		return err
	}
	final, err := progressToJSON(report.Final)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // Rollback is safe to call after Commit

	query := `
		INSERT INTO runs (
			id, account_id, account_name,
			started_at, finished_at,
			aborted, abort_reason,
			initial_progress, final_progress
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(
		ctx,
		query,
		report.ID,
		report.AccountID,
		report.AccountName,
		report.StartedAt.UnixMilli(),
		report.FinishedAt.UnixMilli(),
		report.Aborted,
		report.AbortReason,
		initial,
		final,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: runs.") {
			return fmt.Errorf("run report %s: %w", report.ID, model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_steps (run_id, sequence, step, status, reward, message, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("could not prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, s := range report.Steps {
		_, err := stmt.ExecContext(ctx,
			report.ID,
			i,
			s.Step,
			s.Outcome.Status,
			s.Outcome.Reward,
			s.Outcome.Message,
			s.StartedAt.UnixMilli(),
			s.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("could not insert run step: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Saved run report %s with %d steps", report.ID, len(report.Steps))
	return nil
}

const selectRuns = `
	SELECT
		id, account_id, account_name,
		started_at, finished_at,
		aborted, abort_reason,
		initial_progress, final_progress
	FROM runs
`

// GetRunReport retrieves a run report by ID.
func (r *Repository) GetRunReport(ctx context.Context, id string) (*model.RunReport, error) {
	report, err := r.scanRun(r.db.QueryRowContext(ctx, selectRuns+`WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run report %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query run report: %w", err)
	}

	report.Steps, err = r.steps(ctx, id)
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// ListRunReports returns the run reports newest first.
func (r *Repository) ListRunReports(ctx context.Context, opts storage.ListRunReportsOpts) ([]model.RunReport, error) {
	query := selectRuns
	args := []any{}
	if opts.AccountID != "" {
		query += `WHERE account_id = ? `
		args = append(args, opts.AccountID)
	}
	query += `ORDER BY started_at DESC, id DESC LIMIT ?`
	limit := -1 // No limit.
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query run reports: %w", err)
	}
	defer rows.Close()

	reports := []model.RunReport{}
	for rows.Next() {
		report, err := r.scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	for i := range reports {
		reports[i].Steps, err = r.steps(ctx, reports[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return reports, nil
}

func (r *Repository) steps(ctx context.Context, runID string) ([]model.StepResult, error) {
	query := `
		SELECT step, status, reward, message, started_at, duration_ms
		FROM run_steps
		WHERE run_id = ?
		ORDER BY sequence ASC
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("could not query run steps: %w", err)
	}
	defer rows.Close()

	var steps []model.StepResult
	for rows.Next() {
		var s model.StepResult
		var startedAt, durationMs int64
		err := rows.Scan(&s.Step, &s.Outcome.Status, &s.Outcome.Reward, &s.Outcome.Message, &startedAt, &durationMs)
		if err != nil {
			return nil, fmt.Errorf("could not scan run step: %w", err)
		}
		s.StartedAt = timeFromUnixMilli(startedAt)
		s.Duration = time.Duration(durationMs) * time.Millisecond
		steps = append(steps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return steps, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanRun(s scanner) (model.RunReport, error) {
	var report model.RunReport
	var startedAt, finishedAt int64
	var initial, final sql.NullString

	err := s.Scan(
		&report.ID,
		&report.AccountID,
		&report.AccountName,
		&startedAt,
		&finishedAt,
		&report.Aborted,
		&report.AbortReason,
		&initial,
		&final,
	)
	if err != nil {
		return model.RunReport{}, err
	}

	report.StartedAt = timeFromUnixMilli(startedAt)
	report.FinishedAt = timeFromUnixMilli(finishedAt)
	if report.Initial, err = progressFromJSON(initial); err != nil {
		return model.RunReport{}, err
	}
	if report.Final, err = progressFromJSON(final); err != nil {
		return model.RunReport{}, err
	}

	return report, nil
}

func progressToJSON(p *model.FarmProgress) (sql.NullString, error) {
	if p == nil {
		return sql.NullString{}, nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("could not encode farm progress: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func progressFromJSON(s sql.NullString) (*model.FarmProgress, error) {
	if !s.Valid {
		return nil, nil
	}

	var p model.FarmProgress
	if err := json.Unmarshal([]byte(s.String), &p); err != nil {
		return nil, fmt.Errorf("could not decode farm progress: %w", err)
	}
	return &p, nil
}

func timeFromUnixMilli(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
