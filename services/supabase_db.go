package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stock_updater_project/config"
	"stock_updater_project/models"

	"go.uber.org/zap"
)

// SupabaseError is a non-success response from the Supabase REST API
type SupabaseError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *SupabaseError) Error() string {
	return fmt.Sprintf("supabase %s failed (status %d): %s", e.Op, e.StatusCode, e.Body)
}

// SupabaseDBClient handles database operations via the Supabase REST API (PostgREST)
type SupabaseDBClient struct {
	URL        string
	ServiceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// restDailyRecord is the JSON row of a per-ticker table
type restDailyRecord struct {
	Data       string      `json:"data"`
	Abertura   json.Number `json:"abertura"`
	Maxima     json.Number `json:"maxima"`
	Minima     json.Number `json:"minima"`
	Fechamento json.Number `json:"fechamento"`
	Volume     int64       `json:"volume"`
}

func toRESTRecord(rec *models.DailyRecord) restDailyRecord {
	return restDailyRecord{
		Data:       rec.DateString(),
		Abertura:   json.Number(rec.Open.StringFixed(2)),
		Maxima:     json.Number(rec.High.StringFixed(2)),
		Minima:     json.Number(rec.Low.StringFixed(2)),
		Fechamento: json.Number(rec.Close.StringFixed(2)),
		Volume:     rec.Volume,
	}
}

// NewSupabaseDBClient creates a new Supabase database client
func NewSupabaseDBClient(cfg *config.Config, logger *zap.Logger) *SupabaseDBClient {
	return &SupabaseDBClient{
		URL:        strings.TrimRight(cfg.SupabaseURL, "/"),
		ServiceKey: cfg.SupabaseServiceKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// GetRESTURL returns the Supabase REST API URL
func (c *SupabaseDBClient) GetRESTURL() string {
	return fmt.Sprintf("%s/rest/v1", c.URL)
}

// newRequest builds a PostgREST request with the service credentials
func (c *SupabaseDBClient) newRequest(ctx context.Context, method, table string, query url.Values, payload interface{}) (*http.Request, error) {
	queryURL := fmt.Sprintf("%s/%s", c.GetRESTURL(), table)
	if len(query) > 0 {
		queryURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, queryURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers for Supabase REST API
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.ServiceKey))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends the request and returns the body when the status is one of the accepted codes
func (c *SupabaseDBClient) do(req *http.Request, op string, accepted ...int) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	for _, code := range accepted {
		if resp.StatusCode == code {
			return body, nil
		}
	}
	return nil, &SupabaseError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
}

// GetActiveTickers lists the codes of tickers flagged active in ativos_config
func (c *SupabaseDBClient) GetActiveTickers(ctx context.Context) ([]string, error) {
	query := url.Values{}
	query.Set("select", "codigo")
	query.Set("ativo", "eq.true")

	req, err := c.newRequest(ctx, http.MethodGet, models.Ticker{}.TableName(), query, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req, "list tickers", http.StatusOK)
	if err != nil {
		return nil, err
	}

	var rows []models.Ticker
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, row.Code)
	}
	return codes, nil
}

// RecordExists checks whether the ticker's table has a row for the date
func (c *SupabaseDBClient) RecordExists(ctx context.Context, ticker string, date string) (bool, error) {
	query := url.Values{}
	query.Set("select", "data")
	query.Set("data", "eq."+date)
	query.Set("limit", "1")

	req, err := c.newRequest(ctx, http.MethodGet, models.TickerTableName(ticker), query, nil)
	if err != nil {
		return false, err
	}
	body, err := c.do(req, "read record", http.StatusOK)
	if err != nil {
		return false, err
	}

	var rows []struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return false, fmt.Errorf("failed to parse response: %w", err)
	}
	return len(rows) > 0, nil
}

// InsertDailyRecord inserts a new row into the ticker's table
func (c *SupabaseDBClient) InsertDailyRecord(ctx context.Context, ticker string, rec *models.DailyRecord) error {
	req, err := c.newRequest(ctx, http.MethodPost, models.TickerTableName(ticker), nil, toRESTRecord(rec))
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")

	_, err = c.do(req, "insert record", http.StatusCreated, http.StatusOK, http.StatusNoContent)
	return err
}

// UpdateDailyRecord overwrites the row of the record's date in the ticker's table
func (c *SupabaseDBClient) UpdateDailyRecord(ctx context.Context, ticker string, rec *models.DailyRecord) error {
	query := url.Values{}
	query.Set("data", "eq."+rec.DateString())

	req, err := c.newRequest(ctx, http.MethodPatch, models.TickerTableName(ticker), query, toRESTRecord(rec))
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")

	_, err = c.do(req, "update record", http.StatusOK, http.StatusNoContent)
	return err
}

// UpsertDailyRecord updates the row for the record's date if one exists, inserting otherwise.
// The check and the write are separate requests; callers must not write the same
// (ticker, date) concurrently.
func (c *SupabaseDBClient) UpsertDailyRecord(ctx context.Context, ticker string, rec *models.DailyRecord) (models.WriteAction, error) {
	exists, err := c.RecordExists(ctx, ticker, rec.DateString())
	if err != nil {
		return "", err
	}

	if exists {
		if err := c.UpdateDailyRecord(ctx, ticker, rec); err != nil {
			return "", err
		}
		return models.ActionUpdated, nil
	}

	if err := c.InsertDailyRecord(ctx, ticker, rec); err != nil {
		return "", err
	}
	return models.ActionInserted, nil
}

// Ping tests the connection to Supabase
func (c *SupabaseDBClient) Ping(ctx context.Context) error {
	query := url.Values{}
	query.Set("limit", "0")

	req, err := c.newRequest(ctx, http.MethodGet, models.Ticker{}.TableName(), query, nil)
	if err != nil {
		return err
	}
	if _, err := c.do(req, "connection test", http.StatusOK); err != nil {
		return fmt.Errorf("failed to connect to Supabase: %w", err)
	}
	return nil
}
