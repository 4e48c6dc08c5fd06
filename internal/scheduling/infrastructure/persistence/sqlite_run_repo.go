// Package persistence stores scheduling run history.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/calendraio/calendra/internal/scheduling/domain"
	"github.com/calendraio/calendra/internal/shared/infrastructure/database"
)

const createRunsTableSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	input_hash       TEXT NOT NULL,
	calendar_start   TEXT NOT NULL,
	calendar_end     TEXT NOT NULL,
	scheduled_hours  INTEGER NOT NULL,
	impossible_count INTEGER NOT NULL,
	finished_at      TEXT NOT NULL,
	version          INTEGER NOT NULL,
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
)`

// SQLiteRunRepository implements domain.Repository[*domain.Run] over a raw
// database.Connection. It hand-writes SQL rather than going through
// generated query bindings, since no code generation step can run here; see
// DESIGN.md for the substitution rationale.
type SQLiteRunRepository struct {
	conn database.Connection
	uow  *database.GenericUnitOfWork
}

// NewSQLiteRunRepository builds a repository and ensures its table exists.
func NewSQLiteRunRepository(ctx context.Context, conn database.Connection) (*SQLiteRunRepository, error) {
	if _, err := conn.Exec(ctx, createRunsTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}
	return &SQLiteRunRepository{conn: conn, uow: database.NewUnitOfWork(conn)}, nil
}

// Save inserts or updates a Run record inside its own unit of work, unless
// the caller's context already carries a transaction.
func (r *SQLiteRunRepository) Save(ctx context.Context, run *domain.Run) error {
	txCtx, err := r.uow.Begin(ctx)
	if err != nil {
		return err
	}

	_, err = database.ExecutorFromContext(txCtx, r.conn).Exec(txCtx, `
		INSERT INTO runs (id, input_hash, calendar_start, calendar_end, scheduled_hours, impossible_count, finished_at, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			scheduled_hours = excluded.scheduled_hours,
			impossible_count = excluded.impossible_count,
			finished_at = excluded.finished_at,
			version = excluded.version,
			updated_at = excluded.updated_at
	`,
		run.ID().String(),
		run.InputHash,
		run.CalendarStart.Format(time.RFC3339),
		run.CalendarEnd.Format(time.RFC3339),
		run.ScheduledHours,
		run.ImpossibleCount,
		run.FinishedAt.Format(time.RFC3339),
		run.Version(),
		run.CreatedAt().Format(time.RFC3339),
		run.UpdatedAt().Format(time.RFC3339),
	)
	if err != nil {
		_ = r.uow.Rollback(txCtx)
		return err
	}
	if err := r.uow.Commit(txCtx); err != nil {
		return err
	}
	run.IncrementVersion()
	return nil
}

// FindByID loads a Run by id, returning database.ErrNoRows if absent.
func (r *SQLiteRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		SELECT id, input_hash, calendar_start, calendar_end, scheduled_hours, impossible_count, finished_at, version, created_at, updated_at
		FROM runs WHERE id = ?
	`, id.String())
	return scanRun(row)
}

// Delete removes a Run record.
func (r *SQLiteRunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `DELETE FROM runs WHERE id = ?`, id.String())
	return err
}

// ListRecent returns the most recently finished runs, newest first, used by
// the `calendra schedule history` command.
func (r *SQLiteRunRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Run, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, `
		SELECT id, input_hash, calendar_start, calendar_end, scheduled_hours, impossible_count, finished_at, version, created_at, updated_at
		FROM runs ORDER BY finished_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Run
	for rows.Next() {
		run, err := scanRunRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.Run, error) {
	return scanRunRow(row)
}

func scanRunRow(row rowScanner) (*domain.Run, error) {
	var (
		idStr, inputHash                          string
		calendarStartStr, calendarEndStr          string
		scheduledHours, impossibleCount, version  int
		finishedAtStr, createdAtStr, updatedAtStr string
	)

	if err := row.Scan(&idStr, &inputHash, &calendarStartStr, &calendarEndStr, &scheduledHours, &impossibleCount, &finishedAtStr, &version, &createdAtStr, &updatedAtStr); err != nil {
		if database.IsNoRows(err) {
			return nil, database.ErrNoRows
		}
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid run id in storage: %w", err)
	}
	calendarStart, _ := time.Parse(time.RFC3339, calendarStartStr)
	calendarEnd, _ := time.Parse(time.RFC3339, calendarEndStr)
	finishedAt, _ := time.Parse(time.RFC3339, finishedAtStr)
	createdAt, _ := time.Parse(time.RFC3339, createdAtStr)
	updatedAt, _ := time.Parse(time.RFC3339, updatedAtStr)

	return domain.RehydrateRun(id, createdAt, updatedAt, version, inputHash, calendarStart, calendarEnd, scheduledHours, impossibleCount, finishedAt), nil
}
