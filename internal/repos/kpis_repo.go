package repos

import (
	"context"
	"log"
	"time"

	"github.com/ivanovicnikola/shifts-etl/internal/models"
	"gorm.io/gorm"
)

// ShiftDay is one distinct shift date and whether any break is attached to a
// shift on that date. Rows are ordered by date.
type ShiftDay struct {
	Day      time.Time `gorm:"column:day"`
	HasBreak bool      `gorm:"column:has_break"`
}

type KpisRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewKpisRepo(db *gorm.DB, lg *log.Logger) *KpisRepo {
	return &KpisRepo{db: db, lg: lg}
}

// ShiftDays returns the loaded shift dates in order, flagged with break
// attachment. Input for the break-free-period metric.
func (r *KpisRepo) ShiftDays(ctx context.Context) ([]ShiftDay, error) {
	const q = `
SELECT
  s.shift_date       AS day,
  COUNT(b.break_id) > 0 AS has_break
FROM shifts s
LEFT JOIN breaks b ON b.shift_id = s.shift_id
GROUP BY s.shift_date
ORDER BY s.shift_date;
`
	var out []ShiftDay
	if err := r.db.WithContext(ctx).Raw(q).Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// InsertDaily computes the aggregate metrics in the store and inserts all six
// KPI rows in one statement, dated with the current date. Every aggregate is
// wrapped in COALESCE so an empty database still yields six zero-valued rows.
// The break-free-period value is computed in Go and passed in.
func (r *KpisRepo) InsertDaily(ctx context.Context, maxBreakFreeDays int) error {
	const q = `
INSERT INTO kpis (kpi_name, kpi_date, kpi_value)
VALUES
    (
        'mean_break_length_in_minutes',
        CURRENT_DATE,
        (SELECT COALESCE(EXTRACT(EPOCH FROM AVG(break_finish - break_start)) / 60, 0) FROM breaks)
    ),
    (
        'mean_shift_cost',
        CURRENT_DATE,
        (SELECT COALESCE(AVG(shift_cost), 0) FROM shifts)
    ),
    (
        'max_allowance_cost_14d',
        CURRENT_DATE,
        (
            SELECT COALESCE(MAX(allowance_cost), 0)
            FROM allowances
            INNER JOIN shifts ON allowances.shift_id = shifts.shift_id
            WHERE shift_date >= CURRENT_DATE - INTERVAL '14 days'
        )
    ),
    (
        'max_break_free_shift_period_in_days',
        CURRENT_DATE,
        ?
    ),
    (
        'min_shift_length_in_hours',
        CURRENT_DATE,
        (SELECT COALESCE(MIN(EXTRACT(EPOCH FROM (shift_finish - shift_start)) / 3600), 0) FROM shifts)
    ),
    (
        'total_number_of_paid_breaks',
        CURRENT_DATE,
        (SELECT COUNT(*) FROM breaks WHERE is_paid = true)
    );
`
	if err := r.db.WithContext(ctx).Exec(q, maxBreakFreeDays).Error; err != nil {
		return err
	}
	r.lg.Println("Inserted daily KPI rows")
	return nil
}

// Latest returns the most recent run's KPI rows.
func (r *KpisRepo) Latest(ctx context.Context) ([]models.Kpi, error) {
	var out []models.Kpi
	err := r.db.WithContext(ctx).
		Where("kpi_date = (SELECT MAX(kpi_date) FROM kpis)").
		Order("kpi_name").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
