package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported market data sources
const (
	DataSourceSynthetic    = "synthetic"
	DataSourceYahoo        = "yahoo"
	DataSourceAlphaVantage = "alphavantage"
)

// Config holds the process configuration, validated once at startup
type Config struct {
	SupabaseURL        string        `env:"SUPABASE_URL" validate:"required,url"`
	SupabaseServiceKey string        `env:"SUPABASE_SERVICE_ROLE_KEY" validate:"required"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	DataSource         string        `env:"DATA_SOURCE" validate:"oneof=synthetic yahoo alphavantage"`
	AlphaVantageAPIKey string        `env:"ALPHA_VANTAGE_API_KEY" validate:"required_if=DataSource alphavantage"`
	YahooSymbolSuffix  string        `env:"YAHOO_SYMBOL_SUFFIX"`
	TickerPause        time.Duration `env:"TICKER_PAUSE" validate:"gte=0"`
	CheckInterval      time.Duration `env:"CHECK_INTERVAL" validate:"gte=1s"`
	Schedule           ScheduleConfig
	HTTPEnabled        bool   `env:"HTTP_ENABLED"`
	Port               string `env:"PORT" validate:"omitempty,numeric"`
	LogLevel           string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFile            string `env:"LOG_FILE"`
	Environment        string `env:"ENVIRONMENT"`

	// EnvFileLoaded reports whether a .env file was found and applied
	EnvFileLoaded bool `env:"-"`
}

// ScheduleConfig describes the wall-clock triggers of the updater
type ScheduleConfig struct {
	DailyAt    string   `env:"SCHEDULE_DAILY_AT" validate:"required,datetime=15:04"`
	BackupAt   []string `env:"SCHEDULE_BACKUP_AT" validate:"dive,datetime=15:04"`
	BackupDays []string `env:"SCHEDULE_BACKUP_DAYS" validate:"dive,oneof=sun mon tue wed thu fri sat"`
	Timezone   string   `env:"SCHEDULE_TIMEZONE" validate:"required"`
}

// ValidationError is returned when the configuration cannot be used to start the process
type ValidationError struct {
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration (%s): %v", strings.Join(e.Fields, ", "), e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LoadConfig loads environment variables (and an optional .env file) into a validated Config
func LoadConfig() (*Config, error) {
	envLoaded := godotenv.Load() == nil

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		SupabaseURL:        strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
		SupabaseServiceKey: v.GetString("SUPABASE_SERVICE_ROLE_KEY"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		DataSource:         strings.ToLower(v.GetString("DATA_SOURCE")),
		AlphaVantageAPIKey: v.GetString("ALPHA_VANTAGE_API_KEY"),
		YahooSymbolSuffix:  v.GetString("YAHOO_SYMBOL_SUFFIX"),
		TickerPause:        v.GetDuration("TICKER_PAUSE"),
		CheckInterval:      v.GetDuration("CHECK_INTERVAL"),
		Schedule: ScheduleConfig{
			DailyAt:    v.GetString("SCHEDULE_DAILY_AT"),
			BackupAt:   splitList(v.GetString("SCHEDULE_BACKUP_AT")),
			BackupDays: splitList(strings.ToLower(v.GetString("SCHEDULE_BACKUP_DAYS"))),
			Timezone:   v.GetString("SCHEDULE_TIMEZONE"),
		},
		HTTPEnabled:   v.GetBool("HTTP_ENABLED"),
		Port:          v.GetString("PORT"),
		LogLevel:      strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFile:       v.GetString("LOG_FILE"),
		Environment:   v.GetString("ENVIRONMENT"),
		EnvFileLoaded: envLoaded,
	}

	// Older deployments use the shorter key name
	if cfg.SupabaseServiceKey == "" {
		cfg.SupabaseServiceKey = v.GetString("SUPABASE_SERVICE_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults sets default values for optional settings
func setDefaults(v *viper.Viper) {
	v.SetDefault("DATA_SOURCE", DataSourceSynthetic)
	v.SetDefault("YAHOO_SYMBOL_SUFFIX", ".SA")
	v.SetDefault("TICKER_PAUSE", time.Second)
	v.SetDefault("CHECK_INTERVAL", time.Minute)

	// Daily run after market close, plus weekday backups
	v.SetDefault("SCHEDULE_DAILY_AT", "18:30")
	v.SetDefault("SCHEDULE_BACKUP_AT", "19:00")
	v.SetDefault("SCHEDULE_BACKUP_DAYS", "mon,tue,wed,thu,fri")
	v.SetDefault("SCHEDULE_TIMEZONE", "America/Sao_Paulo")

	v.SetDefault("HTTP_ENABLED", false)
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "stock_updater.log")
	v.SetDefault("ENVIRONMENT", "development")
}

// Validate checks required settings and value formats
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("env"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	err := validate.Struct(c)
	if err == nil {
		if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
			return &ValidationError{Fields: []string{"SCHEDULE_TIMEZONE"}, Err: err}
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Err: err}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields, Err: err}
}

// Location returns the timezone the schedule is evaluated in
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// UsesDirectDatabase reports whether writes go straight to Postgres instead of the REST API
func (c *Config) UsesDirectDatabase() bool {
	return c.DatabaseURL != ""
}

// MaskedSupabaseURL returns the Supabase URL masked for logging
func (c *Config) MaskedSupabaseURL() string {
	return maskHost(c.SupabaseURL)
}

// maskHost masks host for logging, preserving domain structure
func maskHost(host string) string {
	if len(host) <= 3 {
		return "***"
	}
	if len(host) <= 15 {
		return host[:3] + "***"
	}
	return host[:8] + "***" + host[len(host)-10:]
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
