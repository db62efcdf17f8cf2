package repos

import (
	"log"

	"gorm.io/gorm"
)

type MaintenanceRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewMaintenanceRepo(db *gorm.DB, lg *log.Logger) *MaintenanceRepo {
	return &MaintenanceRepo{db: db, lg: lg}
}

// ClearAll deletes every row from every pipeline table, children first so the
// statements stay valid even without ON DELETE CASCADE. Operator action only;
// the pipeline never invokes it.
func (r *MaintenanceRepo) ClearAll() error {
	for _, table := range []string{"breaks", "allowances", "award_interpretations", "shifts", "kpis"} {
		if err := r.db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	r.lg.Println("Cleared all pipeline tables")
	return nil
}
