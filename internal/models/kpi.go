package models

import "time"

// Kpi is one named, dated metric row, written once per pipeline run. Not
// foreign-keyed to shifts.
type Kpi struct {
	ID int64 `gorm:"primaryKey;column:id" json:"id"`

	KpiName  string    `gorm:"column:kpi_name" json:"kpi_name"`
	KpiDate  time.Time `gorm:"column:kpi_date" json:"kpi_date"`
	KpiValue float64   `gorm:"column:kpi_value" json:"kpi_value"`
}

func (Kpi) TableName() string { return "kpis" }
