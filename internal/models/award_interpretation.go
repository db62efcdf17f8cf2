package models

// AwardInterpretation belongs to exactly one Shift.
type AwardInterpretation struct {
	AwardID string `gorm:"primaryKey;column:award_id"`
	ShiftID string `gorm:"column:shift_id"`

	AwardDate  string  `gorm:"column:award_date"` // YYYY-MM-DD, as delivered
	AwardUnits float64 `gorm:"column:award_units"`
	AwardCost  float64 `gorm:"column:award_cost"`
}

func (AwardInterpretation) TableName() string { return "award_interpretations" }
