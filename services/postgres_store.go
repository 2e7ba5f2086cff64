package services

import (
	"context"
	"fmt"

	"stock_updater_project/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStore talks to the Supabase Postgres database directly.
// Upserts are a single INSERT ... ON CONFLICT statement, so they stay correct
// even if two runs ever overlap.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore wraps an open gorm connection
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetActiveTickers lists the codes of tickers flagged active
func (s *PostgresStore) GetActiveTickers(ctx context.Context) ([]string, error) {
	var codes []string
	err := s.db.WithContext(ctx).
		Model(&models.Ticker{}).
		Where("ativo = ?", true).
		Order("codigo").
		Pluck("codigo", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active tickers: %w", err)
	}
	return codes, nil
}

// UpsertDailyRecord inserts the record or replaces the row with the same date.
// The table needs a unique index on data (see models.MigrateTickerTable).
func (s *PostgresStore) UpsertDailyRecord(ctx context.Context, ticker string, rec *models.DailyRecord) (models.WriteAction, error) {
	table := models.TickerTableName(ticker)
	row := rec.ToRow()

	var existing int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(table).Where("data = ?", row.Date).Count(&existing).Error; err != nil {
			return err
		}
		return tx.Table(table).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "data"}},
			DoUpdates: clause.AssignmentColumns([]string{"abertura", "maxima", "minima", "fechamento", "volume"}),
		}).Create(&row).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to upsert %s on %s: %w", table, rec.DateString(), err)
	}

	if existing > 0 {
		return models.ActionUpdated, nil
	}
	return models.ActionInserted, nil
}

// Ping verifies the database connection
func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
