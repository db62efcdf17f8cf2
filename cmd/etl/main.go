package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"

	"github.com/ivanovicnikola/shifts-etl/internal/config"
	"github.com/ivanovicnikola/shifts-etl/internal/db"
	"github.com/ivanovicnikola/shifts-etl/internal/etl"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := cfg.Logger

	pageSize := flag.Int("page-size", 0, "records per page (0 = configured default)")
	wipe := flag.Bool("clear", false, "delete all rows from all pipeline tables and exit")
	flag.Parse()

	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("DB connection failed: %v", err)
	}
	defer db.Close(gdb)

	if err := db.HealthCheck(gdb, 3*time.Second); err != nil {
		logger.Fatalf("DB health check failed: %v", err)
	}
	logger.Println("✅ Database connection healthy.")

	if cfg.AutoMigrate {
		logger.Println("Running SQL migrations...")
		if err := db.RunMigrations(cfg.DatabaseURL, "migrations", logger); err != nil {
			logger.Fatalf("Database migration failed: %v", err)
		}
		logger.Println("✅ Database migrated successfully.")
	}

	runner, err := etl.NewRunner(gdb, cfg, logger)
	if err != nil {
		logger.Fatalf("runner init failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if *wipe {
		if err := runner.Clear(ctx); err != nil {
			logger.Fatalf("clear failed: %v", err)
		}
		logger.Println("✅ All pipeline tables cleared.")
		return
	}

	size := *pageSize
	if size == 0 {
		size = cfg.PageSize
	}

	report, err := runner.Run(ctx, size)
	if err != nil {
		logger.Fatalf("run failed after %d committed pages: %v", report.Pages, err)
	}
	logger.Printf("✅ Run finished: %d pages, %d shifts, %d breaks, %d allowances, %d award interpretations",
		report.Pages, report.Shifts, report.Breaks, report.Allowances, report.AwardInterpretations)
}
