package database

import (
	"context"
	"fmt"

	"upbit-trade-dashboard/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the trade record store. The schema is owned by the
// trading bot and is not migrated here.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// AutoMigrate creates the trades table when it does not exist yet.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Trade{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// TradeStore reads trade rows from the record store.
type TradeStore struct {
	db *gorm.DB
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(db *gorm.DB) *TradeStore {
	return &TradeStore{db: db}
}

// LoadTrades returns all trade rows in storage order, restricted to coin
// when it is not nil.
func (s *TradeStore) LoadTrades(ctx context.Context, coin *models.Coin) ([]models.Trade, error) {
	q := s.db.WithContext(ctx).Order("id asc")
	if coin != nil {
		q = q.Where("coin_type = ?", *coin)
	}

	var trades []models.Trade
	if err := q.Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}
	return trades, nil
}

// Close releases the underlying connection pool.
func (s *TradeStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
