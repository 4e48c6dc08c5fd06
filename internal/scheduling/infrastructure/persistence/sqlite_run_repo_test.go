package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calendraio/calendra/internal/scheduling/domain"
	"github.com/calendraio/calendra/internal/shared/infrastructure/database"
	_ "github.com/calendraio/calendra/internal/shared/infrastructure/database/sqlite"
)

func newTestConnection(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()

	tmpDir, err := os.MkdirTemp("", "calendra-run-repo-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	conn, err := database.NewConnection(ctx, database.Config{SQLitePath: filepath.Join(tmpDir, "runs.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSQLiteRunRepositorySaveAndFindByID(t *testing.T) {
	ctx := context.Background()
	conn := newTestConnection(t)

	repo, err := NewSQLiteRunRepository(ctx, conn)
	require.NoError(t, err)

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	run := domain.NewRun("hash-1", start, end, domain.FinalTasks{
		Scheduled: []domain.ScheduledDay{
			{Day: start, Tasks: []domain.ScheduledTask{{GoalID: "a", Duration: 2}}},
		},
	})

	require.NoError(t, repo.Save(ctx, run))
	assert.Equal(t, 1, run.Version(), "a committed save bumps the aggregate's write count")

	found, err := repo.FindByID(ctx, run.ID())
	require.NoError(t, err)
	assert.Equal(t, run.ID(), found.ID())
	assert.Equal(t, "hash-1", found.InputHash)
	assert.Equal(t, 2, found.ScheduledHours)
	assert.True(t, found.CalendarStart.Equal(start))
}

func TestSQLiteRunRepositoryFindByIDMissing(t *testing.T) {
	ctx := context.Background()
	conn := newTestConnection(t)

	repo, err := NewSQLiteRunRepository(ctx, conn)
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, domain.NewRun("x", time.Now().UTC(), time.Now().UTC(), domain.FinalTasks{}).ID())
	assert.ErrorIs(t, err, database.ErrNoRows)
}

func TestSQLiteRunRepositoryListRecentOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	conn := newTestConnection(t)

	repo, err := NewSQLiteRunRepository(ctx, conn)
	require.NoError(t, err)

	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	older := domain.NewRun("older", base, base.AddDate(0, 0, 1), domain.FinalTasks{})
	older.FinishedAt = base
	newer := domain.NewRun("newer", base, base.AddDate(0, 0, 1), domain.FinalTasks{})
	newer.FinishedAt = base.Add(time.Hour)

	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	recent, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "newer", recent[0].InputHash)
	assert.Equal(t, "older", recent[1].InputHash)
}

func TestSQLiteRunRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	conn := newTestConnection(t)

	repo, err := NewSQLiteRunRepository(ctx, conn)
	require.NoError(t, err)

	run := domain.NewRun("to-delete", time.Now().UTC(), time.Now().UTC(), domain.FinalTasks{})
	require.NoError(t, repo.Save(ctx, run))
	require.NoError(t, repo.Delete(ctx, run.ID()))

	_, err = repo.FindByID(ctx, run.ID())
	assert.ErrorIs(t, err, database.ErrNoRows)
}
