package db

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/trabajostecnicos73/app-control-smartparking/config"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/model"
)

// Init opens the configured database, applies pool settings, and runs
// migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Println("Running database migrations...")
	if err := Migrate(gormDB); err != nil {
		return nil, err
	}

	log.Println("Database initialization complete.")
	return gormDB, nil
}

// Migrate creates the schema and seeds the live-state singleton with zero
// values. The singleton exists from initialization onward, so reads never
// have to handle a missing row.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&model.MovementRecord{},
		&model.LiveState{},
		&model.CashoutReport{},
		&model.Alert{},
		&model.PushSubscription{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	seed := model.LiveState{
		ID:           model.LiveStateID,
		TodayRevenue: decimal.Zero,
		Detail:       model.OccupancyDetail{},
	}
	if err := gormDB.FirstOrCreate(&seed, model.LiveState{ID: model.LiveStateID}).Error; err != nil {
		return fmt.Errorf("failed to seed live state: %w", err)
	}
	return nil
}
