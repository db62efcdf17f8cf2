package models

import "time"

// Shift is one worked shift as loaded from the shifts API. Cost is derived at
// transform time, not supplied by the source.
type Shift struct {
	ShiftID string `gorm:"primaryKey;column:shift_id"`

	ShiftDate   string    `gorm:"column:shift_date"` // YYYY-MM-DD, as delivered
	ShiftStart  time.Time `gorm:"column:shift_start"`
	ShiftFinish time.Time `gorm:"column:shift_finish"`
	ShiftCost   float64   `gorm:"column:shift_cost"`
}

func (Shift) TableName() string { return "shifts" }
