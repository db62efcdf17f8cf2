package repos

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvisoryLockAcquireAndRelease(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(`SELECT pg_try_advisory_lock`).
		WithArgs(pipelineLockKey).
		WillReturnRows(sqlmock.NewRows([]string{"pg_try_advisory_lock"}).AddRow(true))
	mock.ExpectExec(`SELECT pg_advisory_unlock`).
		WithArgs(pipelineLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))

	l := NewAdvisoryLock(sqlDB)
	ctx := context.Background()

	ok, err := l.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// A second acquire on the same guard is refused locally, without a query.
	ok, err = l.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Unlock(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvisoryLockHeldElsewhere(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(`SELECT pg_try_advisory_lock`).
		WithArgs(pipelineLockKey).
		WillReturnRows(sqlmock.NewRows([]string{"pg_try_advisory_lock"}).AddRow(false))

	l := NewAdvisoryLock(sqlDB)
	ok, err := l.TryLock(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	// Nothing held, so Unlock is a no-op.
	require.NoError(t, l.Unlock(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
