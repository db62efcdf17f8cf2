package etl

import (
	"context"
	"log"

	"github.com/ivanovicnikola/shifts-etl/internal/repos"
	"gorm.io/gorm"
)

// Loader persists one transformed page inside a single transaction: shifts
// first, then the child collections. All-or-nothing per page.
type Loader struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewLoader(db *gorm.DB, lg *log.Logger) *Loader {
	return &Loader{DB: db, Logger: lg}
}

func (l *Loader) Load(ctx context.Context, b *Bundle) error {
	tx := l.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := repos.NewShiftsRepo(tx, l.Logger).InsertBatch(b.Shifts); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := repos.NewBreaksRepo(tx, l.Logger).InsertBatch(b.Breaks); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := repos.NewAllowancesRepo(tx, l.Logger).InsertBatch(b.Allowances); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := repos.NewAwardsRepo(tx, l.Logger).InsertBatch(b.AwardInterpretations); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
