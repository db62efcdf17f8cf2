package repos

import (
	"log"

	"github.com/ivanovicnikola/shifts-etl/internal/models"
	"gorm.io/gorm"
)

type AwardsRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewAwardsRepo(db *gorm.DB, lg *log.Logger) *AwardsRepo {
	return &AwardsRepo{db: db, lg: lg}
}

func (r *AwardsRepo) InsertBatch(rows []models.AwardInterpretation) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.Create(&rows).Error; err != nil {
		return err
	}
	r.lg.Printf("Inserted %d award_interpretations rows", len(rows))
	return nil
}
