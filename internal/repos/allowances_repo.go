package repos

import (
	"log"

	"github.com/ivanovicnikola/shifts-etl/internal/models"
	"gorm.io/gorm"
)

type AllowancesRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewAllowancesRepo(db *gorm.DB, lg *log.Logger) *AllowancesRepo {
	return &AllowancesRepo{db: db, lg: lg}
}

func (r *AllowancesRepo) InsertBatch(rows []models.Allowance) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.Create(&rows).Error; err != nil {
		return err
	}
	r.lg.Printf("Inserted %d allowances rows", len(rows))
	return nil
}
