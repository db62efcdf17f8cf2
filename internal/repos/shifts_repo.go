package repos

import (
	"log"

	"github.com/ivanovicnikola/shifts-etl/internal/models"
	"gorm.io/gorm"
)

type ShiftsRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewShiftsRepo(db *gorm.DB, lg *log.Logger) *ShiftsRepo {
	return &ShiftsRepo{db: db, lg: lg}
}

// InsertBatch writes one page's shifts as a single multi-row INSERT. Rows are
// insert-once; a duplicate identifier is a constraint violation, not an upsert.
func (r *ShiftsRepo) InsertBatch(rows []models.Shift) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.Create(&rows).Error; err != nil {
		return err
	}
	r.lg.Printf("Inserted %d shifts rows", len(rows))
	return nil
}
