package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewDailyRecord(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	rec := NewDailyRecord(time.Date(2024, time.March, 15, 22, 45, 0, 0, loc),
		d("40.125"), d("41.999"), d("39.004"), d("40.5"), 42_000_000)

	require.Equal(t, "2024-03-15", rec.DateString())
	require.Equal(t, "40.13", rec.Open.String())
	require.Equal(t, "42", rec.High.String())
	require.Equal(t, "39", rec.Low.String())
	require.Equal(t, "40.5", rec.Close.String())
	require.NoError(t, rec.Validate())
}

func TestDailyRecordValidate(t *testing.T) {
	date := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rec     *DailyRecord
		problem string
	}{
		{"high below close", NewDailyRecord(date, d("10"), d("10.5"), d("9"), d("11"), 1), "high below open/close"},
		{"low above open", NewDailyRecord(date, d("10"), d("12"), d("10.5"), d("11"), 1), "low above open/close"},
		{"negative price", NewDailyRecord(date, d("-1"), d("1"), d("-2"), d("0"), 1), "open is negative"},
		{"negative volume", NewDailyRecord(date, d("10"), d("11"), d("9"), d("10"), -5), "volume is negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestTickerTableName(t *testing.T) {
	require.Equal(t, "ativo_petr4", TickerTableName("PETR4"))
	require.Equal(t, "ativo_vale3", TickerTableName(" vale3 "))
}

func TestUpdateRunCounts(t *testing.T) {
	start := time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC)
	run := &UpdateRun{StartedAt: start}
	run.Add(TickerResult{Ticker: "PETR4", Status: StatusUpdated, Action: ActionInserted})
	run.Add(TickerResult{Ticker: "VALE3", Status: StatusWriteFailed, Err: errors.New("permission denied")})
	run.Add(TickerResult{Ticker: "ITUB4", Status: StatusNoData})

	require.Equal(t, 0*time.Second, run.Duration())
	run.FinishedAt = start.Add(3 * time.Second)

	success, total := run.Counts()
	require.Equal(t, 1, success)
	require.Equal(t, 3, total)
	require.Equal(t, 3*time.Second, run.Duration())

	failed := run.Failed()
	require.Len(t, failed, 2)
	require.Equal(t, "permission denied", failed[0].Reason)
	require.Empty(t, failed[1].Reason)
}
