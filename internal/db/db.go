package db

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"housekeeping-backend/config"
	"housekeeping-backend/internal/model"
)

// Init initializes the database connection, runs migrations and seeds the
// static inventory reference data.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(dialectorFor(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
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
	if err := db.AutoMigrate(
		&model.Room{},
		&model.Staff{},
		&model.LinenEntry{},
		&model.InventoryItem{},
		&model.PushSubscription{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if err := seedInventory(db); err != nil {
		return nil, fmt.Errorf("inventory seed failed: %w", err)
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// dialectorFor picks sqlite for file-style DSNs and postgres otherwise.
func dialectorFor(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "file:") || strings.HasSuffix(dsn, ".db") {
		return sqlite.Open(dsn)
	}
	return postgres.Open(dsn)
}

// seedInventory writes the standard per-maid kit once, on first boot.
func seedInventory(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.InventoryItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []model.InventoryItem{
		{Name: "Rags", PerMaidQty: 2},
		{Name: "Mops", PerMaidQty: 1},
		{Name: "Dustpan", PerMaidQty: 1},
		{Name: "Bucket", PerMaidQty: 1},
	}
	log.Printf("Seeding %d inventory items...", len(items))
	return db.Create(&items).Error
}
