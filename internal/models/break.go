package models

import "time"

// Break belongs to exactly one Shift.
type Break struct {
	BreakID string `gorm:"primaryKey;column:break_id"`
	ShiftID string `gorm:"column:shift_id"`

	BreakStart  time.Time `gorm:"column:break_start"`
	BreakFinish time.Time `gorm:"column:break_finish"`
	IsPaid      bool      `gorm:"column:is_paid"`
}

func (Break) TableName() string { return "breaks" }
