package datafetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stock_updater_project/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// YahooChartBaseURL is the public chart endpoint
const YahooChartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// yahooChartResponse is the subset of the chart payload we read
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				Currency  string `json:"currency"`
				GMTOffset int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// YahooFetcher reads the latest daily bar from the Yahoo Finance chart API
type YahooFetcher struct {
	baseURL      string
	symbolSuffix string
	getter       *httpGetter
	logger       *zap.Logger
	now          func() time.Time
}

// NewYahooFetcher creates a Yahoo Finance client. symbolSuffix selects the
// exchange, e.g. ".SA" for B3.
func NewYahooFetcher(symbolSuffix string, httpClient *http.Client, logger *zap.Logger) *YahooFetcher {
	return &YahooFetcher{
		baseURL:      YahooChartBaseURL,
		symbolSuffix: symbolSuffix,
		getter: &httpGetter{
			httpClient: httpClient,
			logger:     logger,
			policy:     DefaultRetryPolicy,
			userAgent:  "Mozilla/5.0 (compatible; stock-updater/1.0)",
		},
		logger: logger,
		now:    time.Now,
	}
}

func (f *YahooFetcher) Name() string {
	return "yahoo"
}

// FetchDailyRecord returns today's bar, or ErrNoData when the last bar is from an earlier session
func (f *YahooFetcher) FetchDailyRecord(ctx context.Context, ticker string) (*models.DailyRecord, error) {
	symbol := strings.ToUpper(ticker) + f.symbolSuffix
	reqURL := fmt.Sprintf("%s/%s?range=5d&interval=1d", f.baseURL, url.PathEscape(symbol))

	var chart yahooChartResponse
	err := f.getter.get(ctx, reqURL, func(body []byte) error {
		chart = yahooChartResponse{}
		if err := json.Unmarshal(body, &chart); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return nil
	})
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: unknown symbol %s", ErrNoData, symbol)
		}
		return nil, fmt.Errorf("failed to fetch chart for %s: %w", symbol, err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoData, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: empty chart for %s", ErrNoData, symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	zone := time.FixedZone(symbol, result.Meta.GMTOffset)

	// Latest bar with a close; intraday the current session may still be incomplete
	for i := len(result.Timestamp) - 1; i >= 0; i-- {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil {
			return nil, fmt.Errorf("%w: incomplete bar for %s", ErrMalformedPayload, symbol)
		}

		barTime := time.Unix(result.Timestamp[i], 0).In(zone)
		if !sameDate(barTime, f.now().In(zone)) {
			return nil, fmt.Errorf("%w: last session for %s was %s", ErrNoData, symbol, barTime.Format(models.DateLayout))
		}

		var volume int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}

		return models.NewDailyRecord(
			barTime,
			decimal.NewFromFloat(*quote.Open[i]),
			decimal.NewFromFloat(*quote.High[i]),
			decimal.NewFromFloat(*quote.Low[i]),
			decimal.NewFromFloat(*quote.Close[i]),
			volume,
		), nil
	}

	return nil, fmt.Errorf("%w: no closed bar for %s", ErrNoData, symbol)
}
