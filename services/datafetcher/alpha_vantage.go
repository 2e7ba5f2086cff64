package datafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"stock_updater_project/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AlphaVantageBaseURL is the query endpoint
const AlphaVantageBaseURL = "https://www.alphavantage.co/query"

// AlphaVantageB3Suffix is the exchange suffix Alpha Vantage uses for B3 symbols
const AlphaVantageB3Suffix = ".SAO"

type alphaVantageQuoteResult struct {
	GlobalQuote struct {
		Symbol           string `json:"symbol"`
		Open             string `json:"open"`
		High             string `json:"high"`
		Low              string `json:"low"`
		Price            string `json:"price"`
		Volume           string `json:"volume"`
		LatestTradingDay string `json:"latest trading day"`
		PreviousClose    string `json:"previous close"`
	} `json:"Global Quote"`
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

// AlphaVantageFetcher reads GLOBAL_QUOTE for a ticker
type AlphaVantageFetcher struct {
	baseURL      string
	apiKey       string
	symbolSuffix string
	getter       *httpGetter
	logger       *zap.Logger
	loc          *time.Location
	now          func() time.Time
}

// NewAlphaVantageFetcher creates an Alpha Vantage client for B3 symbols.
// Trading days are compared with today's date in loc.
func NewAlphaVantageFetcher(apiKey string, loc *time.Location, httpClient *http.Client, logger *zap.Logger) *AlphaVantageFetcher {
	if loc == nil {
		loc = time.Local
	}
	return &AlphaVantageFetcher{
		baseURL:      AlphaVantageBaseURL,
		apiKey:       apiKey,
		symbolSuffix: AlphaVantageB3Suffix,
		getter: &httpGetter{
			httpClient: httpClient,
			logger:     logger,
			// free tier allows 5 calls per minute
			policy: RetryPolicy{InitialInterval: 15 * time.Second, MaxInterval: time.Minute, MaxRetries: 3},
		},
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

func (f *AlphaVantageFetcher) Name() string {
	return "alphavantage"
}

func (f *AlphaVantageFetcher) FetchDailyRecord(ctx context.Context, ticker string) (*models.DailyRecord, error) {
	symbol := strings.ToUpper(ticker) + f.symbolSuffix

	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)
	params.Set("apikey", f.apiKey)
	reqURL := f.baseURL + "?" + params.Encode()

	var quote alphaVantageQuoteResult
	err := f.getter.get(ctx, reqURL, func(body []byte) error {
		quote = alphaVantageQuoteResult{}
		// API uses odd format which includes numbers in JSON keys
		if err := json.Unmarshal(cleanResponseBody(body), &quote); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		if isRateLimitNote(quote.Note) || isRateLimitNote(quote.Information) {
			return errRateLimited
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}

	q := quote.GlobalQuote
	if q.Symbol == "" {
		return nil, fmt.Errorf("%w: empty quote for %s", ErrNoData, symbol)
	}

	latestTradingDay, err := time.Parse(models.DateLayout, q.LatestTradingDay)
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse latest trading day: %v", ErrMalformedPayload, err)
	}
	if !sameDate(latestTradingDay, f.now().In(f.loc)) {
		return nil, fmt.Errorf("%w: last session for %s was %s", ErrNoData, symbol, q.LatestTradingDay)
	}

	prices := make([]decimal.Decimal, 4)
	for i, raw := range []string{q.Open, q.High, q.Low, q.Price} {
		prices[i], err = decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: bad price %q: %v", ErrMalformedPayload, raw, err)
		}
	}
	volume, err := strconv.ParseInt(q.Volume, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad volume %q: %v", ErrMalformedPayload, q.Volume, err)
	}

	return models.NewDailyRecord(latestTradingDay, prices[0], prices[1], prices[2], prices[3], volume), nil
}

var numberedKey = regexp.MustCompile(`"[0-9]+\. `)

func cleanResponseBody(body []byte) []byte {
	return numberedKey.ReplaceAll(body, []byte(`"`))
}

func isRateLimitNote(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "call frequency") || strings.Contains(msg, "rate limit")
}
