package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ivanovicnikola/shifts-etl/internal/config"
	"github.com/ivanovicnikola/shifts-etl/internal/db"
	"github.com/ivanovicnikola/shifts-etl/internal/etl"
	"github.com/ivanovicnikola/shifts-etl/internal/repos"
)

type pipelineHandler struct {
	runner *etl.Runner
	kpis   *repos.KpisRepo
	cfg    *config.Config
}

func (h *pipelineHandler) runHandler(c echo.Context) error {
	pageSize := h.cfg.PageSize
	if raw := c.QueryParam("batch_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "batch_size must be an integer"})
		}
		pageSize = n
	}

	report, err := h.runner.Run(c.Request().Context(), pageSize)
	if err != nil {
		if errors.Is(err, etl.ErrRunInProgress) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		var stageErr *etl.StageError
		if !errors.As(err, &stageErr) {
			// Pre-flight failure (page-size bounds): nothing was attempted.
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":  err.Error(),
			"report": report,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"report": report})
}

func (h *pipelineHandler) clearHandler(c echo.Context) error {
	if err := h.runner.Clear(c.Request().Context()); err != nil {
		if errors.Is(err, etl.ErrRunInProgress) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "all pipeline tables cleared"})
}

func (h *pipelineHandler) kpisHandler(c echo.Context) error {
	rows, err := h.kpis.Latest(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"kpis": rows})
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := cfg.Logger

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
	h := &pipelineHandler{runner: runner, kpis: repos.NewKpisRepo(gdb, logger), cfg: cfg}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.POST("/run", h.runHandler)
	e.POST("/clear", h.clearHandler)
	e.GET("/kpis", h.kpisHandler)
	e.GET("/healthz", func(c echo.Context) error {
		if err := db.HealthCheck(gdb, 2*time.Second); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	logger.Printf("🚀 Listening on %s", cfg.HTTPAddr)
	if err := e.Start(cfg.HTTPAddr); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
