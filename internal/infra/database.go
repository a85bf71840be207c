package infra

import (
	"fmt"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the engine's tables, then applies the idempotent SQL patches GORM
// cannot express (the ledger query index and the append-only trigger).
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

	if err := db.AutoMigrate(
		&model.Product{},
		&model.CompositionEntry{},
		&model.StockLedgerEntry{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL. Each statement uses IF NOT EXISTS
// semantics so re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Composite index for the ledger-sum query per product and reason.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stock_ledger_product_reason') THEN
		    CREATE INDEX idx_stock_ledger_product_reason
		        ON stock_ledger (product_id, reason);
		  END IF;
		END $$`,
		// The ledger is append-only: block UPDATE and DELETE at the schema level.
		`CREATE OR REPLACE FUNCTION stock_ledger_immutable() RETURNS trigger AS $$
		BEGIN
		  RAISE EXCEPTION 'stock_ledger is append-only';
		END;
		$$ LANGUAGE plpgsql`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_stock_ledger_immutable') THEN
		    CREATE TRIGGER trg_stock_ledger_immutable
		        BEFORE UPDATE OR DELETE ON stock_ledger
		        FOR EACH ROW EXECUTE FUNCTION stock_ledger_immutable();
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
