package etl

import (
	"context"
	"fmt"
	"log"

	"github.com/ivanovicnikola/shifts-etl/internal/repos"
	"gorm.io/gorm"
)

// KpiEngine derives the run-level metrics from the loaded tables, once, after
// the last page has committed. Failure here never undoes loaded data.
type KpiEngine struct {
	Repo   *repos.KpisRepo
	Logger *log.Logger
}

func NewKpiEngine(db *gorm.DB, lg *log.Logger) *KpiEngine {
	return &KpiEngine{Repo: repos.NewKpisRepo(db, lg), Logger: lg}
}

func (e *KpiEngine) ComputeAndStore(ctx context.Context) error {
	days, err := e.Repo.ShiftDays(ctx)
	if err != nil {
		return fmt.Errorf("query shift days: %w", err)
	}

	if err := e.Repo.InsertDaily(ctx, MaxBreakFreePeriod(days)); err != nil {
		return fmt.Errorf("insert kpis: %w", err)
	}
	return nil
}
