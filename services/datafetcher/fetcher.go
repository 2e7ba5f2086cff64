package datafetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"stock_updater_project/config"
	"stock_updater_project/models"

	"go.uber.org/zap"
)

// ErrNoData means the source has no record for the ticker today
var ErrNoData = errors.New("no data available")

// ErrMalformedPayload means the source answered with something we cannot parse
var ErrMalformedPayload = errors.New("malformed payload")

// Source fetches today's OHLCV record for a ticker
type Source interface {
	Name() string
	FetchDailyRecord(ctx context.Context, ticker string) (*models.DailyRecord, error)
}

// NewFromConfig builds the data source selected in the configuration
func NewFromConfig(cfg *config.Config, logger *zap.Logger) (Source, error) {
	loc := cfg.Location()
	switch cfg.DataSource {
	case config.DataSourceSynthetic, "":
		return NewSyntheticFetcher(loc), nil
	case config.DataSourceYahoo:
		return NewYahooFetcher(cfg.YahooSymbolSuffix, newHTTPClient(), logger), nil
	case config.DataSourceAlphaVantage:
		return NewAlphaVantageFetcher(cfg.AlphaVantageAPIKey, loc, newHTTPClient(), logger), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
	}
}

// sameDate compares calendar dates
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
