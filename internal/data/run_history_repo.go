package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rajatvd/GifGenerator/internal/core"
	"github.com/rajatvd/GifGenerator/internal/data/pgxutil"
	"github.com/rajatvd/GifGenerator/internal/domain/model"
	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
)

// RunHistoryRepo persists run summaries in generation_runs and
// generation_items.
type RunHistoryRepo struct {
	DB *sql.DB
}

var _ core.RunHistoryRepository = (*RunHistoryRepo)(nil)

// NewRunHistoryRepo constructs a RunHistoryRepo.
func NewRunHistoryRepo(db *sql.DB) *RunHistoryRepo {
	return &RunHistoryRepo{DB: db}
}

type runRow struct {
	RunID      string    `db:"run_id"`
	Generator  string    `db:"generator"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	Requested  int       `db:"requested"`
	Aborted    bool      `db:"aborted"`
	AbortError string    `db:"abort_error"`
}

type itemRow struct {
	RunID         string `db:"run_id"`
	Seq           int    `db:"seq"`
	Status        string `db:"status"`
	Path          string `db:"path"`
	Attempts      int    `db:"attempts"`
	FailureReason string `db:"failure_reason"`
	Error         string `db:"error"`
}

func (r runRow) summary(items []model.ItemOutcome) model.RunSummary {
	return model.RunSummary{
		RunID:      r.RunID,
		Generator:  r.Generator,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Requested:  r.Requested,
		Items:      items,
		Aborted:    r.Aborted,
		AbortError: r.AbortError,
	}
}

func (i itemRow) outcome() model.ItemOutcome {
	return model.ItemOutcome{
		Seq:           i.Seq,
		Status:        model.ItemStatus(i.Status),
		Path:          i.Path,
		Attempts:      i.Attempts,
		FailureReason: model.FailureReason(i.FailureReason),
		Error:         i.Error,
	}
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Record inserts the run and its items in one transaction.
func (r *RunHistoryRepo) Record(ctx context.Context, summary model.RunSummary) error {
	if r == nil || r.DB == nil {
		return ErrHistoryNotConfigured
	}
	if strings.TrimSpace(summary.RunID) == "" {
		return ErrRunIDRequired
	}

	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		const insertRun = `
			INSERT INTO generation_runs (run_id, generator, started_at, finished_at, requested, aborted, abort_error)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := tx.ExecContext(ctx, insertRun,
			summary.RunID,
			summary.Generator,
			summary.StartedAt.UTC(),
			summary.FinishedAt.UTC(),
			summary.Requested,
			summary.Aborted,
			nullIfEmpty(summary.AbortError),
		); err != nil {
			return err
		}

		const insertItem = `
			INSERT INTO generation_items (run_id, seq, status, path, attempts, failure_reason, error)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		for _, it := range summary.Items {
			if _, err := tx.ExecContext(ctx, insertItem,
				summary.RunID,
				it.Seq,
				string(it.Status),
				nullIfEmpty(it.Path),
				it.Attempts,
				nullIfEmpty(string(it.FailureReason)),
				nullIfEmpty(it.Error),
			); err != nil {
				return err
			}
		}
		return nil
	}})
	if err != nil {
		return fmt.Errorf("record run %s: %w", summary.RunID, apperrors.MapDBError(err))
	}
	return nil
}

const selectRuns = `
	SELECT run_id, generator, started_at, finished_at, requested, aborted,
		COALESCE(abort_error, '') AS abort_error
	FROM generation_runs`

const selectItems = `
	SELECT run_id, seq, status, COALESCE(path, '') AS path, attempts,
		COALESCE(failure_reason, '') AS failure_reason, COALESCE(error, '') AS error
	FROM generation_items
	WHERE run_id = ANY($1)
	ORDER BY run_id, seq`

// GetByID returns one run with its items. A missing run maps to NotFound.
func (r *RunHistoryRepo) GetByID(ctx context.Context, runID string) (*model.RunSummary, error) {
	if r == nil || r.DB == nil {
		return nil, ErrHistoryNotConfigured
	}
	if strings.TrimSpace(runID) == "" {
		return nil, ErrRunIDRequired
	}

	var out *model.RunSummary
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, selectRuns+` WHERE run_id = $1`, runID)
		if err != nil {
			return err
		}
		run, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[runRow])
		if err != nil {
			return err
		}
		items, err := loadItems(ctx, conn, []string{runID})
		if err != nil {
			return err
		}
		s := run.summary(items[runID])
		out = &s
		return nil
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// ListRecent returns up to limit runs ordered by start time, newest first.
func (r *RunHistoryRepo) ListRecent(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if r == nil || r.DB == nil {
		return nil, ErrHistoryNotConfigured
	}
	if limit <= 0 {
		limit = 20
	}

	var out []model.RunSummary
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, selectRuns+` ORDER BY started_at DESC LIMIT $1`, limit)
		if err != nil {
			return err
		}
		runs, err := pgx.CollectRows(rows, pgx.RowToStructByName[runRow])
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return nil
		}

		ids := make([]string, len(runs))
		for i, run := range runs {
			ids[i] = run.RunID
		}
		items, err := loadItems(ctx, conn, ids)
		if err != nil {
			return err
		}
		out = make([]model.RunSummary, 0, len(runs))
		for _, run := range runs {
			out = append(out, run.summary(items[run.RunID]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

func loadItems(ctx context.Context, conn *pgx.Conn, runIDs []string) (map[string][]model.ItemOutcome, error) {
	rows, err := conn.Query(ctx, selectItems, runIDs)
	if err != nil {
		return nil, err
	}
	collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[itemRow])
	if err != nil {
		return nil, err
	}
	out := make(map[string][]model.ItemOutcome, len(runIDs))
	for _, it := range collected {
		out[it.RunID] = append(out[it.RunID], it.outcome())
	}
	return out, nil
}
