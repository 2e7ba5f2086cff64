package models

import "time"

// TickerStatus is the outcome of processing one ticker in a run
type TickerStatus string

const (
	StatusUpdated     TickerStatus = "updated"
	StatusNoData      TickerStatus = "no_data"
	StatusFetchFailed TickerStatus = "fetch_failed"
	StatusWriteFailed TickerStatus = "write_failed"
)

// WriteAction tells whether a write inserted a new row or replaced an existing one
type WriteAction string

const (
	ActionInserted WriteAction = "inserted"
	ActionUpdated  WriteAction = "updated"
)

// TickerResult records what happened to one ticker
type TickerResult struct {
	Ticker string       `json:"ticker"`
	Status TickerStatus `json:"status"`
	Action WriteAction  `json:"action,omitempty"`
	Date   string       `json:"date,omitempty"`
	Reason string       `json:"reason,omitempty"`
	Err    error        `json:"-"`
}

// OK reports whether the ticker's record was stored
func (r TickerResult) OK() bool {
	return r.Status == StatusUpdated
}

// UpdateRun is the in-memory report of one update pass
type UpdateRun struct {
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
	UsedFallback bool           `json:"used_fallback"`
	Results      []TickerResult `json:"results"`
}

// Add appends a ticker result, deriving Reason from Err
func (r *UpdateRun) Add(result TickerResult) {
	if result.Err != nil && result.Reason == "" {
		result.Reason = result.Err.Error()
	}
	r.Results = append(r.Results, result)
}

// Total is the number of tickers processed
func (r *UpdateRun) Total() int {
	return len(r.Results)
}

// Success is the number of tickers successfully written
func (r *UpdateRun) Success() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}

// Counts returns (success, total)
func (r *UpdateRun) Counts() (int, int) {
	return r.Success(), r.Total()
}

// Failed returns the tickers that were not written
func (r *UpdateRun) Failed() []TickerResult {
	var out []TickerResult
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Duration is the wall time of the run
func (r *UpdateRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
