package repos

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Discard,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return gdb, mock
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestShiftDaysOrderedWithBreakFlag(t *testing.T) {
	gdb, mock := newMockGorm(t)

	d1 := time.Date(2023, 11, 27, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2023, 11, 28, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT`).WillReturnRows(
		sqlmock.NewRows([]string{"day", "has_break"}).
			AddRow(d1, false).
			AddRow(d2, true),
	)

	days, err := NewKpisRepo(gdb, discardLogger()).ShiftDays(context.Background())
	require.NoError(t, err)

	require.Len(t, days, 2)
	assert.Equal(t, d1, days[0].Day)
	assert.False(t, days[0].HasBreak)
	assert.True(t, days[1].HasBreak)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertDailyWritesSixRowsInOneStatement(t *testing.T) {
	gdb, mock := newMockGorm(t)

	mock.ExpectExec(`INSERT INTO kpis`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 6))

	err := NewKpisRepo(gdb, discardLogger()).InsertDaily(context.Background(), 3)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertDailySurfacesQueryFailure(t *testing.T) {
	gdb, mock := newMockGorm(t)

	mock.ExpectExec(`INSERT INTO kpis`).WillReturnError(assert.AnError)

	err := NewKpisRepo(gdb, discardLogger()).InsertDaily(context.Background(), 0)
	require.Error(t, err)
}

func TestLatestReturnsMostRecentRunOrderedByName(t *testing.T) {
	gdb, mock := newMockGorm(t)

	day := time.Date(2023, 11, 28, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "kpis"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "kpi_name", "kpi_date", "kpi_value"}).
			AddRow(int64(1), "mean_shift_cost", day, 81.55).
			AddRow(int64(2), "total_number_of_paid_breaks", day, 4.0),
	)

	rows, err := NewKpisRepo(gdb, discardLogger()).Latest(context.Background())
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "mean_shift_cost", rows[0].KpiName)
	assert.Equal(t, 81.55, rows[0].KpiValue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearAllDeletesChildrenFirst(t *testing.T) {
	gdb, mock := newMockGorm(t)

	mock.ExpectExec(`DELETE FROM breaks`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM allowances`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM award_interpretations`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM shifts`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM kpis`).WillReturnResult(sqlmock.NewResult(0, 6))

	err := NewMaintenanceRepo(gdb, discardLogger()).ClearAll()
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearAllStopsOnFirstStorageError(t *testing.T) {
	gdb, mock := newMockGorm(t)

	mock.ExpectExec(`DELETE FROM breaks`).WillReturnError(assert.AnError)

	err := NewMaintenanceRepo(gdb, discardLogger()).ClearAll()
	require.ErrorIs(t, err, assert.AnError)
}
