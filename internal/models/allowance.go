package models

// Allowance belongs to exactly one Shift.
type Allowance struct {
	AllowanceID string `gorm:"primaryKey;column:allowance_id"`
	ShiftID     string `gorm:"column:shift_id"`

	AllowanceValue float64 `gorm:"column:allowance_value"`
	AllowanceCost  float64 `gorm:"column:allowance_cost"`
}

func (Allowance) TableName() string { return "allowances" }
