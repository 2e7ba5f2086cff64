package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"stock_updater_project/models"
	"stock_updater_project/services/datafetcher"

	"go.uber.org/zap"
)

//go:generate mockgen -source=stock_updater.go -destination=mock_stock_updater_test.go -package=services

// FallbackTickers are processed when the configuration store cannot be read.
// The list may be stale; it keeps the daily run going.
var FallbackTickers = []string{"PETR4", "VALE3"}

// DefaultTickerPause spaces out requests to the data source
const DefaultTickerPause = time.Second

// ErrRunInProgress is returned when an update is requested while another is running
var ErrRunInProgress = errors.New("an update run is already in progress")

// TickerRepository lists the tickers to update
type TickerRepository interface {
	GetActiveTickers(ctx context.Context) ([]string, error)
}

// RecordStore writes daily records into the per-ticker tables
type RecordStore interface {
	UpsertDailyRecord(ctx context.Context, ticker string, rec *models.DailyRecord) (models.WriteAction, error)
}

// MarketDataSource provides today's record for a ticker
type MarketDataSource interface {
	datafetcher.Source
}

// Store is a storage backend serving both the ticker configuration and the price tables
type Store interface {
	TickerRepository
	RecordStore
	Ping(ctx context.Context) error
}

// StockUpdater runs the daily update: discover tickers, fetch, write
type StockUpdater struct {
	tickers TickerRepository
	store   RecordStore
	source  MarketDataSource
	logger  *zap.Logger

	pause time.Duration
	sleep func(time.Duration)
	now   func() time.Time

	runMu   sync.Mutex
	lastMu  sync.RWMutex
	lastRun *models.UpdateRun
}

// UpdaterOption customizes a StockUpdater
type UpdaterOption func(*StockUpdater)

// WithTickerPause sets the delay between tickers
func WithTickerPause(d time.Duration) UpdaterOption {
	return func(u *StockUpdater) {
		u.pause = d
	}
}

// WithSleepFunc replaces time.Sleep for the pause between tickers
func WithSleepFunc(sleep func(time.Duration)) UpdaterOption {
	return func(u *StockUpdater) {
		u.sleep = sleep
	}
}

// WithClock replaces time.Now for run timestamps
func WithClock(now func() time.Time) UpdaterOption {
	return func(u *StockUpdater) {
		u.now = now
	}
}

// NewStockUpdater creates an updater
func NewStockUpdater(tickers TickerRepository, store RecordStore, source MarketDataSource, logger *zap.Logger, opts ...UpdaterOption) *StockUpdater {
	u := &StockUpdater{
		tickers: tickers,
		store:   store,
		source:  source,
		logger:  logger,
		pause:   DefaultTickerPause,
		sleep:   time.Sleep,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// GetActiveStocks returns the active ticker codes, or FallbackTickers if they cannot be read
func (u *StockUpdater) GetActiveStocks(ctx context.Context) []string {
	codes, _ := u.discoverTickers(ctx)
	return codes
}

func (u *StockUpdater) discoverTickers(ctx context.Context) ([]string, bool) {
	codes, err := u.tickers.GetActiveTickers(ctx)
	if err != nil {
		u.logger.Error("Failed to load active tickers, using fallback list",
			zap.Error(err),
			zap.Strings("fallback", FallbackTickers))
		return append([]string(nil), FallbackTickers...), true
	}

	codes = normalizeTickers(codes)
	u.logger.Info("Loaded active tickers", zap.Int("count", len(codes)), zap.Strings("tickers", codes))
	return codes, false
}

// GetStockData fetches today's record for a ticker, returning nil when there is none
func (u *StockUpdater) GetStockData(ctx context.Context, ticker string) *models.DailyRecord {
	rec, err := u.fetch(ctx, ticker)
	if err != nil {
		return nil
	}
	return rec
}

func (u *StockUpdater) fetch(ctx context.Context, ticker string) (*models.DailyRecord, error) {
	rec, err := u.source.FetchDailyRecord(ctx, ticker)
	if errors.Is(err, datafetcher.ErrNoData) {
		u.logger.Warn("No data for ticker", zap.String("ticker", ticker), zap.String("source", u.source.Name()), zap.Error(err))
		return nil, err
	}
	if err != nil {
		u.logger.Error("Failed to fetch data", zap.String("ticker", ticker), zap.String("source", u.source.Name()), zap.Error(err))
		return nil, err
	}
	if rec == nil {
		u.logger.Warn("No data returned", zap.String("ticker", ticker), zap.String("source", u.source.Name()))
		return nil, nil
	}

	if err := rec.Validate(); err != nil {
		u.logger.Warn("Record breaks OHLCV invariants", zap.String("ticker", ticker), zap.Error(err))
	}
	u.logger.Info("Fetched data",
		zap.String("ticker", ticker),
		zap.String("date", rec.DateString()),
		zap.String("open", rec.Open.StringFixed(2)),
		zap.String("high", rec.High.StringFixed(2)),
		zap.String("low", rec.Low.StringFixed(2)),
		zap.String("close", rec.Close.StringFixed(2)),
		zap.Int64("volume", rec.Volume))
	return rec, nil
}

// WriteRecord upserts the record into the ticker's table, reporting success
func (u *StockUpdater) WriteRecord(ctx context.Context, ticker string, rec *models.DailyRecord) bool {
	_, err := u.write(ctx, ticker, rec)
	return err == nil
}

func (u *StockUpdater) write(ctx context.Context, ticker string, rec *models.DailyRecord) (models.WriteAction, error) {
	action, err := u.store.UpsertDailyRecord(ctx, ticker, rec)
	if err != nil {
		u.logger.Error("Failed to write data",
			zap.String("ticker", ticker),
			zap.String("date", rec.DateString()),
			zap.Error(err))
		return "", err
	}

	u.logger.Info("Data written",
		zap.String("ticker", ticker),
		zap.String("date", rec.DateString()),
		zap.String("action", string(action)))
	return action, nil
}

// RunDailyUpdate processes every active ticker once, in order.
// Per-ticker failures are recorded in the returned run and never abort it.
func (u *StockUpdater) RunDailyUpdate(ctx context.Context) (*models.UpdateRun, error) {
	if !u.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer u.runMu.Unlock()

	u.logger.Info("Starting daily stock update", zap.String("source", u.source.Name()))

	run := &models.UpdateRun{StartedAt: u.now()}
	tickers, usedFallback := u.discoverTickers(ctx)
	run.UsedFallback = usedFallback

	for i, ticker := range tickers {
		if i > 0 && u.pause > 0 {
			u.sleep(u.pause)
		}
		run.Add(u.processTicker(ctx, ticker))
	}

	run.FinishedAt = u.now()
	u.setLastRun(run)

	success, total := run.Counts()
	fields := []zap.Field{
		zap.Int("success", success),
		zap.Int("total", total),
		zap.Duration("duration", run.Duration()),
		zap.Bool("fallback", usedFallback),
	}
	if success == total {
		u.logger.Info("Daily stock update completed", fields...)
	} else {
		failed := make([]string, 0, total-success)
		for _, res := range run.Failed() {
			failed = append(failed, fmt.Sprintf("%s(%s)", res.Ticker, res.Status))
		}
		u.logger.Warn("Daily stock update completed with failures", append(fields, zap.Strings("failed", failed))...)
	}
	return run, nil
}

// processTicker fetches and writes one ticker. A panic fails the ticker, not the run.
func (u *StockUpdater) processTicker(ctx context.Context, ticker string) (result models.TickerResult) {
	result = models.TickerResult{Ticker: ticker}
	defer func() {
		if r := recover(); r != nil {
			u.logger.Error("Recovered from panic while processing ticker",
				zap.String("ticker", ticker),
				zap.Any("panic", r))
			result.Status = models.StatusWriteFailed
			if result.Date == "" {
				result.Status = models.StatusFetchFailed
			}
			result.Err = fmt.Errorf("panic: %v", r)
		}
	}()

	u.logger.Info("Processing ticker", zap.String("ticker", ticker))

	rec, err := u.fetch(ctx, ticker)
	if errors.Is(err, datafetcher.ErrNoData) {
		result.Status = models.StatusNoData
		result.Err = err
		return result
	}
	if err != nil {
		result.Status = models.StatusFetchFailed
		result.Err = err
		return result
	}
	if rec == nil {
		result.Status = models.StatusNoData
		return result
	}
	result.Date = rec.DateString()

	action, err := u.write(ctx, ticker, rec)
	if err != nil {
		result.Status = models.StatusWriteFailed
		result.Err = err
		return result
	}

	result.Status = models.StatusUpdated
	result.Action = action
	return result
}

// LastRun returns a copy of the most recent run report, or nil before the first run
func (u *StockUpdater) LastRun() *models.UpdateRun {
	u.lastMu.RLock()
	defer u.lastMu.RUnlock()
	if u.lastRun == nil {
		return nil
	}
	run := *u.lastRun
	run.Results = append([]models.TickerResult(nil), u.lastRun.Results...)
	return &run
}

func (u *StockUpdater) setLastRun(run *models.UpdateRun) {
	u.lastMu.Lock()
	defer u.lastMu.Unlock()
	u.lastRun = run
}

// normalizeTickers trims and upper-cases codes, dropping blanks and duplicates
func normalizeTickers(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}
