package infra

import (
	"fmt"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, and configures the connection pool.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates or updates the schema. Also used by integration tests
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() needs pgcrypto on PostgreSQL < 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Store{},
		&model.User{},
		&model.Category{},
		&model.Brand{},
		&model.TaxCategory{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Customer{},
		&model.LoyaltyPointsHistory{},
		&model.PaymentMethod{},
		&model.POSTerminal{},
		&model.Inventory{},
		&model.InventoryMovement{},
		&model.TransferLog{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Payment{},
		&model.Return{},
		&model.ReturnItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return nil
}
