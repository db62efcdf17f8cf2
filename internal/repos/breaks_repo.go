package repos

import (
	"log"

	"github.com/ivanovicnikola/shifts-etl/internal/models"
	"gorm.io/gorm"
)

type BreaksRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewBreaksRepo(db *gorm.DB, lg *log.Logger) *BreaksRepo {
	return &BreaksRepo{db: db, lg: lg}
}

func (r *BreaksRepo) InsertBatch(rows []models.Break) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.Create(&rows).Error; err != nil {
		return err
	}
	r.lg.Printf("Inserted %d breaks rows", len(rows))
	return nil
}
