package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stock_updater_project/models"
	"stock_updater_project/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRunner struct {
	run  *models.UpdateRun
	err  error
	last *models.UpdateRun
}

func (s *stubRunner) RunDailyUpdate(ctx context.Context) (*models.UpdateRun, error) {
	return s.run, s.err
}

func (s *stubRunner) LastRun() *models.UpdateRun {
	return s.last
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

func sampleRun() *models.UpdateRun {
	start := time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC)
	run := &models.UpdateRun{StartedAt: start, FinishedAt: start.Add(2 * time.Second)}
	run.Add(models.TickerResult{Ticker: "PETR4", Status: models.StatusUpdated, Action: models.ActionInserted, Date: "2024-03-15"})
	run.Add(models.TickerResult{Ticker: "VALE3", Status: models.StatusFetchFailed, Err: errors.New("timeout")})
	return run
}

func newTestRouter(uc *UpdateController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", uc.Health)
	router.GET("/ready", uc.Ready)
	router.GET("/last", uc.LastRun)
	router.POST("/run", uc.TriggerRun)
	return router
}

func serve(router *gin.Engine, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestHealthAndReady(t *testing.T) {
	uc := NewUpdateController(&stubRunner{}, stubPinger{}, nil, zap.NewNop())
	router := newTestRouter(uc)

	w, body := serve(router, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", body["status"])

	w, body = serve(router, http.MethodGet, "/ready")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ready", body["status"])

	down := newTestRouter(NewUpdateController(&stubRunner{}, stubPinger{err: errors.New("dial tcp: refused")}, nil, zap.NewNop()))
	w, body = serve(down, http.MethodGet, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, "not_ready", body["status"])
}

func TestLastRun(t *testing.T) {
	next := time.Date(2024, time.March, 15, 19, 0, 0, 0, time.UTC)
	runner := &stubRunner{}
	uc := NewUpdateController(runner, stubPinger{}, func() time.Time { return next }, zap.NewNop())
	router := newTestRouter(uc)

	w, body := serve(router, http.MethodGet, "/last")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "No update has run yet", body["message"])
	require.Equal(t, "2024-03-15T19:00:00Z", body["next_run"])

	runner.last = sampleRun()
	w, body = serve(router, http.MethodGet, "/last")
	require.Equal(t, http.StatusOK, w.Code)

	report := body["run"].(map[string]interface{})
	require.Equal(t, 1.0, report["success"])
	require.Equal(t, 2.0, report["total"])
	require.Equal(t, 2000.0, report["duration_ms"])

	results := report["results"].([]interface{})
	require.Len(t, results, 2)
	failed := results[1].(map[string]interface{})
	require.Equal(t, "fetch_failed", failed["status"])
	require.Equal(t, "timeout", failed["reason"])
}

func TestTriggerRun(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		uc := NewUpdateController(&stubRunner{run: sampleRun()}, stubPinger{}, nil, zap.NewNop())
		w, body := serve(newTestRouter(uc), http.MethodPost, "/run")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 1.0, body["run"].(map[string]interface{})["success"])
	})

	t.Run("already running", func(t *testing.T) {
		uc := NewUpdateController(&stubRunner{err: services.ErrRunInProgress}, stubPinger{}, nil, zap.NewNop())
		w, _ := serve(newTestRouter(uc), http.MethodPost, "/run")
		require.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("failure", func(t *testing.T) {
		uc := NewUpdateController(&stubRunner{err: errors.New("boom")}, stubPinger{}, nil, zap.NewNop())
		w, _ := serve(newTestRouter(uc), http.MethodPost, "/run")
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
