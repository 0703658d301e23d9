package database

import (
	"fmt"
	"time"

	"github.com/sangkips/tablepos-api/internal/config"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the database selected by cfg.Driver (postgres, mysql or sqlite).
func NewDB(cfg *config.DatabaseConfig, log logrus.FieldLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres", "":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		})
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := open(dialector, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// one writer at a time; a second connection would just hit SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.WithField("driver", db.Dialector.Name()).Info("Successfully connected to database")
	return db, nil
}

// OpenSQLite opens a sqlite database, e.g. "file:pos?mode=memory&cache=shared"
// for tests.
func OpenSQLite(dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	db, err := open(sqlite.Open(dsn), log)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func open(dialector gorm.Dialector, log logrus.FieldLogger) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log logrus.FieldLogger) error {
	log.Info("Running database migrations...")

	err := db.AutoMigrate(
		// Catalog
		&entity.Kitchen{},
		&entity.DiningTable{},
		&entity.Product{},

		// Order pipeline
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Bill{},
		&entity.OrderHistory{},
		&entity.Sequence{},

		// System entities
		&entity.StoreSettings{},
		&entity.PrintJob{},
		&entity.PrinterConfig{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the settings row and the order/bill counters if
// they do not exist yet. Existing rows are left alone.
func SeedDefaultData(db *gorm.DB, store *config.StoreConfig, log logrus.FieldLogger) error {
	log.Info("Seeding default data...")

	for _, name := range []string{entity.SequenceOrder, entity.SequenceBill} {
		seq := entity.Sequence{Name: name, Value: entity.SequenceStart(name)}
		if err := db.Where(entity.Sequence{Name: name}).FirstOrCreate(&seq).Error; err != nil {
			return fmt.Errorf("seed sequence %s: %w", name, err)
		}
	}

	var count int64
	if err := db.Model(&entity.StoreSettings{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count settings: %w", err)
	}
	if count == 0 {
		settings := SettingsFromConfig(store)
		if err := db.Create(settings).Error; err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
	}

	log.Info("Default data seeding completed")
	return nil
}

// SettingsFromConfig builds the initial settings row from configuration.
// Unparseable tax rates fall back to zero.
func SettingsFromConfig(store *config.StoreConfig) *entity.StoreSettings {
	return &entity.StoreSettings{
		ID:             entity.StoreSettingsID,
		StoreName:      store.Name,
		StoreAddress:   store.Address,
		StoreContact:   store.Contact,
		GSTNumber:      store.GSTNumber,
		GSTAvailable:   store.GSTNumber != "",
		FSSAINumber:    store.FSSAINumber,
		FSSAIAvailable: store.FSSAINumber != "",
		StockUpdate:    store.StockUpdate,
		TaxStatus:      store.TaxEnabled,
		SGST:           rate(store.SGST),
		CGST:           rate(store.CGST),
		IGST:           rate(store.IGST),
		AutoPrintBill:  store.AutoPrintBill,
		AutoPrintKOT:   store.AutoPrintKOT,
		AutoPrintToken: store.AutoPrintToken,
	}
}

func rate(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
