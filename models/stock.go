package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DateLayout is the wire and column format of record dates
const DateLayout = "2006-01-02"

// TickerTablePrefix prefixes the per-ticker price tables (e.g. ativo_petr4)
const TickerTablePrefix = "ativo_"

// Ticker is a configured stock symbol, maintained outside this service
type Ticker struct {
	Code   string `gorm:"column:codigo;primaryKey" json:"codigo"`
	Active bool   `gorm:"column:ativo" json:"ativo"`
}

// TableName maps tickers to the configuration table
func (Ticker) TableName() string {
	return "ativos_config"
}

// TickerTableName returns the price table for a ticker code
func TickerTableName(code string) string {
	return TickerTablePrefix + strings.ToLower(strings.TrimSpace(code))
}

// DailyRecord holds one ticker's OHLCV summary for one calendar date
type DailyRecord struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// NewDailyRecord builds a record with prices rounded to cents
func NewDailyRecord(date time.Time, open, high, low, close decimal.Decimal, volume int64) *DailyRecord {
	return &DailyRecord{
		Date:   CalendarDate(date),
		Open:   open.Round(2),
		High:   high.Round(2),
		Low:    low.Round(2),
		Close:  close.Round(2),
		Volume: volume,
	}
}

// DateString returns the record date as YYYY-MM-DD
func (r *DailyRecord) DateString() string {
	return r.Date.Format(DateLayout)
}

// Validate reports values that break the usual OHLCV invariants
func (r *DailyRecord) Validate() error {
	var problems []string
	for name, v := range map[string]decimal.Decimal{"open": r.Open, "high": r.High, "low": r.Low, "close": r.Close} {
		if v.IsNegative() {
			problems = append(problems, name+" is negative")
		}
	}
	if r.Volume < 0 {
		problems = append(problems, "volume is negative")
	}
	if r.High.LessThan(decimal.Max(r.Open, r.Close)) {
		problems = append(problems, "high below open/close")
	}
	if r.Low.GreaterThan(decimal.Min(r.Open, r.Close)) {
		problems = append(problems, "low above open/close")
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid record for %s: %s", r.DateString(), strings.Join(problems, "; "))
}

// CalendarDate truncates t to its calendar date, keeping the date as seen in t's location
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DailyRecordRow is the column layout of a per-ticker price table
type DailyRecordRow struct {
	Date   time.Time       `gorm:"column:data;type:date;uniqueIndex"`
	Open   decimal.Decimal `gorm:"column:abertura;type:decimal(15,2)"`
	High   decimal.Decimal `gorm:"column:maxima;type:decimal(15,2)"`
	Low    decimal.Decimal `gorm:"column:minima;type:decimal(15,2)"`
	Close  decimal.Decimal `gorm:"column:fechamento;type:decimal(15,2)"`
	Volume int64           `gorm:"column:volume"`
}

// ToRow converts a record to its table layout
func (r *DailyRecord) ToRow() DailyRecordRow {
	return DailyRecordRow{
		Date:   r.Date,
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Volume: r.Volume,
	}
}

// MigrateTickerTable creates the price table for a ticker if it does not exist
func MigrateTickerTable(db *gorm.DB, code string) error {
	return db.Table(TickerTableName(code)).AutoMigrate(&DailyRecordRow{})
}

// MigrateConfigModels creates the ticker configuration table if it does not exist
func MigrateConfigModels(db *gorm.DB) error {
	return db.AutoMigrate(&Ticker{})
}
