package datafetcher

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"stock_updater_project/models"

	"github.com/shopspring/decimal"
)

// Base prices for the synthetic generator
const (
	syntheticBasePETR4   = 40.0
	syntheticBaseDefault = 70.0

	syntheticMinVolume = 30_000_000
	syntheticMaxVolume = 60_000_000
)

// SyntheticFetcher generates plausible looking daily records.
// It stands in for a market data feed in development and demos.
type SyntheticFetcher struct {
	mu  sync.Mutex
	rng *rand.Rand
	loc *time.Location
	now func() time.Time
}

// NewSyntheticFetcher creates a generator that dates records in loc
func NewSyntheticFetcher(loc *time.Location) *SyntheticFetcher {
	return NewSyntheticFetcherWithSeed(loc, time.Now().UnixNano())
}

// NewSyntheticFetcherWithSeed creates a deterministic generator
func NewSyntheticFetcherWithSeed(loc *time.Location, seed int64) *SyntheticFetcher {
	if loc == nil {
		loc = time.Local
	}
	return &SyntheticFetcher{
		rng: rand.New(rand.NewSource(seed)),
		loc: loc,
		now: time.Now,
	}
}

func (f *SyntheticFetcher) Name() string {
	return "synthetic"
}

// FetchDailyRecord never fails; the context is accepted for interface parity
func (f *SyntheticFetcher) FetchDailyRecord(ctx context.Context, ticker string) (*models.DailyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	basePrice := syntheticBaseDefault
	if strings.EqualFold(ticker, "PETR4") {
		basePrice = syntheticBasePETR4
	}

	openPrice := basePrice * (1 + f.uniform(-0.05, 0.05))
	closePrice := openPrice * (1 + f.uniform(-0.03, 0.03))
	highPrice := max(openPrice, closePrice) * (1 + f.uniform(0, 0.02))
	lowPrice := min(openPrice, closePrice) * (1 - f.uniform(0, 0.02))
	volume := syntheticMinVolume + f.rng.Int63n(syntheticMaxVolume-syntheticMinVolume+1)

	return models.NewDailyRecord(
		f.now().In(f.loc),
		decimal.NewFromFloat(openPrice),
		decimal.NewFromFloat(highPrice),
		decimal.NewFromFloat(lowPrice),
		decimal.NewFromFloat(closePrice),
		volume,
	), nil
}

func (f *SyntheticFetcher) uniform(lo, hi float64) float64 {
	return lo + f.rng.Float64()*(hi-lo)
}
