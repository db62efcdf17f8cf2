package etl

import (
	"context"
	"io"
	"log"
	"testing"

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

func TestLoaderCommitsPageInOneTransaction(t *testing.T) {
	gdb, mock := newMockGorm(t)

	bundle, err := Transform(decodePage(t, twoShiftPage), nil)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "shifts"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO "breaks"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO "allowances"`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO "award_interpretations"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	l := NewLoader(gdb, discardLogger())
	require.NoError(t, l.Load(context.Background(), bundle))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoaderRollsBackWholePageOnChildInsertFailure(t *testing.T) {
	gdb, mock := newMockGorm(t)

	bundle, err := Transform(decodePage(t, twoShiftPage), nil)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "shifts"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO "breaks"`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	l := NewLoader(gdb, discardLogger())
	err = l.Load(context.Background(), bundle)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoaderSkipsEmptyCollections(t *testing.T) {
	gdb, mock := newMockGorm(t)

	bundle, err := Transform(decodePage(t, `[
	  {"id": "s1", "date": "2023-11-27", "start": 1701077400000, "finish": 1701108900000}
	]`), nil)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "shifts"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	l := NewLoader(gdb, discardLogger())
	require.NoError(t, l.Load(context.Background(), bundle))
	assert.NoError(t, mock.ExpectationsWereMet())
}
