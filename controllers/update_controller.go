package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"stock_updater_project/models"
	"stock_updater_project/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UpdateRunner runs updates and remembers the last one
type UpdateRunner interface {
	RunDailyUpdate(ctx context.Context) (*models.UpdateRun, error)
	LastRun() *models.UpdateRun
}

// Pinger checks the storage backend
type Pinger interface {
	Ping(ctx context.Context) error
}

// UpdateController exposes probes, the last run report and a manual trigger
type UpdateController struct {
	runner  UpdateRunner
	storage Pinger
	nextRun func() time.Time
	logger  *zap.Logger
}

// runReport is the JSON shape of an UpdateRun
type runReport struct {
	Success      int                   `json:"success"`
	Total        int                   `json:"total"`
	StartedAt    time.Time             `json:"started_at"`
	FinishedAt   time.Time             `json:"finished_at"`
	DurationMS   int64                 `json:"duration_ms"`
	UsedFallback bool                  `json:"used_fallback"`
	Results      []models.TickerResult `json:"results"`
}

func newRunReport(run *models.UpdateRun) runReport {
	success, total := run.Counts()
	return runReport{
		Success:      success,
		Total:        total,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
		DurationMS:   run.Duration().Milliseconds(),
		UsedFallback: run.UsedFallback,
		Results:      run.Results,
	}
}

// NewUpdateController creates the controller; nextRun may be nil
func NewUpdateController(runner UpdateRunner, storage Pinger, nextRun func() time.Time, logger *zap.Logger) *UpdateController {
	return &UpdateController{
		runner:  runner,
		storage: storage,
		nextRun: nextRun,
		logger:  logger,
	}
}

// Health is the liveness probe
func (uc *UpdateController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready checks that the storage backend answers
func (uc *UpdateController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := uc.storage.Ping(ctx); err != nil {
		uc.logger.Warn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not_ready",
			"message": "Storage not reachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// LastRun returns the report of the most recent run
func (uc *UpdateController) LastRun(c *gin.Context) {
	resp := gin.H{}
	if uc.nextRun != nil {
		if next := uc.nextRun(); !next.IsZero() {
			resp["next_run"] = next
		}
	}

	run := uc.runner.LastRun()
	if run == nil {
		resp["message"] = "No update has run yet"
		c.JSON(http.StatusOK, resp)
		return
	}
	resp["run"] = newRunReport(run)
	c.JSON(http.StatusOK, resp)
}

// TriggerRun runs an update now and returns its report
func (uc *UpdateController) TriggerRun(c *gin.Context) {
	uc.logger.Info("Manual update requested", zap.String("client_ip", c.ClientIP()))

	// The run is not tied to the request: a disconnecting client must not cut it short
	run, err := uc.runner.RunDailyUpdate(context.Background())
	if errors.Is(err, services.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		uc.logger.Error("Manual update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": newRunReport(run)})
}
