package etl

import (
	"context"
	"fmt"
	"log"

	"github.com/ivanovicnikola/shifts-etl/internal/config"
	"github.com/ivanovicnikola/shifts-etl/internal/repos"
	"github.com/ivanovicnikola/shifts-etl/internal/shiftsapi"
	"gorm.io/gorm"
)

// State is the controller's position in the run lifecycle.
type State string

const (
	StateIdle         State = "idle"
	StateExtracting   State = "extracting"
	StateTransforming State = "transforming"
	StateLoading      State = "loading"
	StateAggregating  State = "aggregating"
	StateClearing     State = "clearing"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// PageFetcher is the extraction surface: a start URL for a chosen page size,
// and one fetch per page returning records plus the next-page URL.
type PageFetcher interface {
	StartURL(pageSize int) (string, error)
	FetchPage(ctx context.Context, pageURL string) ([]shiftsapi.RawShift, string, error)
}

// PageLoader commits one transformed page atomically.
type PageLoader interface {
	Load(ctx context.Context, b *Bundle) error
}

// Aggregator computes and stores the post-run metrics.
type Aggregator interface {
	ComputeAndStore(ctx context.Context) error
}

// Guard serialises runs and clears.
type Guard interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// RunReport is what a trigger caller gets back: how far the run got and how
// much it committed. Committed pages stay committed even when the run fails.
type RunReport struct {
	Pages                int   `json:"pages"`
	Shifts               int   `json:"shifts"`
	Breaks               int   `json:"breaks"`
	Allowances           int   `json:"allowances"`
	AwardInterpretations int   `json:"award_interpretations"`
	State                State `json:"state"`
	FailedStage          Stage `json:"failed_stage,omitempty"`
}

// Runner drives one pipeline invocation: fetch page, transform, load, advance
// to the next link, then aggregate once when pagination ends. Strictly
// sequential; one page of records in memory at a time.
type Runner struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger

	Fetcher PageFetcher
	Loader  PageLoader
	Kpis    Aggregator
	Guard   Guard
	Cost    CostFunc
}

func NewRunner(gdb *gorm.DB, cfg *config.Config, lg *log.Logger) (*Runner, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}

	return &Runner{
		DB:      gdb,
		Cfg:     cfg,
		Logger:  lg,
		Fetcher: shiftsapi.NewClient(cfg.ShiftsAPIURL),
		Loader:  NewLoader(gdb, lg),
		Kpis:    NewKpiEngine(gdb, lg),
		Guard:   repos.NewAdvisoryLock(sqlDB),
		Cost:    SumComponentCosts,
	}, nil
}

// Run executes the full pipeline once with the given page size. The report is
// always returned, also on failure, so callers can see how many pages were
// committed before the failing stage.
func (r *Runner) Run(ctx context.Context, pageSize int) (*RunReport, error) {
	report := &RunReport{State: StateIdle}

	// Validated before any network call.
	size, err := r.Cfg.ResolvePageSize(pageSize)
	if err != nil {
		report.State = StateFailed
		return report, err
	}

	ok, err := r.Guard.TryLock(ctx)
	if err != nil {
		report.State = StateFailed
		return report, fmt.Errorf("pipeline lock: %w", err)
	}
	if !ok {
		return report, ErrRunInProgress
	}
	defer func() {
		if err := r.Guard.Unlock(ctx); err != nil {
			r.Logger.Printf("⚠️  release pipeline lock: %v", err)
		}
	}()

	pageURL, err := r.Fetcher.StartURL(size)
	if err != nil {
		return r.fail(report, StageExtract, 0, err)
	}

	r.Logger.Printf("▶️ Starting run (page size %d)", size)

	page := 0
	for pageURL != "" {
		select {
		case <-ctx.Done():
			return r.fail(report, StageExtract, page+1, ctx.Err())
		default:
		}
		page++

		report.State = StateExtracting
		records, next, err := r.Fetcher.FetchPage(ctx, pageURL)
		if err != nil {
			return r.fail(report, StageExtract, page, err)
		}

		report.State = StateTransforming
		bundle, err := Transform(records, r.Cost)
		if err != nil {
			return r.fail(report, StageTransform, page, err)
		}

		report.State = StateLoading
		if err := r.Loader.Load(ctx, bundle); err != nil {
			return r.fail(report, StageLoad, page, err)
		}

		report.Pages++
		report.Shifts += len(bundle.Shifts)
		report.Breaks += len(bundle.Breaks)
		report.Allowances += len(bundle.Allowances)
		report.AwardInterpretations += len(bundle.AwardInterpretations)

		r.Logger.Printf("✅ page %d committed (%d shifts, %d breaks, %d allowances, %d award interpretations)",
			page, len(bundle.Shifts), len(bundle.Breaks), len(bundle.Allowances), len(bundle.AwardInterpretations))

		pageURL = next
	}

	report.State = StateAggregating
	if err := r.Kpis.ComputeAndStore(ctx); err != nil {
		return r.fail(report, StageAggregate, 0, err)
	}

	report.State = StateDone
	r.Logger.Printf("🎉 Run complete: %d pages, %d shifts", report.Pages, report.Shifts)
	return report, nil
}

// Clear deletes all rows from all pipeline tables in one transaction. Refused
// while a run holds the lock.
func (r *Runner) Clear(ctx context.Context) error {
	ok, err := r.Guard.TryLock(ctx)
	if err != nil {
		return fmt.Errorf("pipeline lock: %w", err)
	}
	if !ok {
		return ErrRunInProgress
	}
	defer func() {
		if err := r.Guard.Unlock(ctx); err != nil {
			r.Logger.Printf("⚠️  release pipeline lock: %v", err)
		}
	}()

	tx := r.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := repos.NewMaintenanceRepo(tx, r.Logger).ClearAll(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (r *Runner) fail(report *RunReport, stage Stage, page int, err error) (*RunReport, error) {
	report.State = StateFailed
	report.FailedStage = stage
	serr := &StageError{Stage: stage, Page: page, Err: err}
	r.Logger.Printf("❌ %v (%d pages committed)", serr, report.Pages)
	return report, serr
}
