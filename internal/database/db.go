package database

import (
	"saraf-backend/internal/config"
	"saraf-backend/internal/logger"
	"saraf-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.L.Fatalf("could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		logger.L.Fatalf("migration failed: %v", err)
	}

	logger.L.Info("database connected, migration complete")
}

// Migrate runs AutoMigrate plus the raw-SQL indexes AutoMigrate cannot
// express. Kept separate from Init so tests can run it against sqlite.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Vendor{},
		&models.LedgerEntry{},
		&models.InventoryItem{},
		&models.MetalRate{},
		&models.CustomerTransaction{},
		&models.AuditLog{},
	)
	if err != nil {
		return err
	}

	// HUID uniqueness is global across vendors, but only for gold items
	// with a HUID set. Partial index, supported by postgres and sqlite.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_inventory_items_gold_huid
		ON inventory_items(huid_no)
		WHERE metal_type = 'gold' AND huid_no <> ''`).Error
}
