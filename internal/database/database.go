package database

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fxbridge/fxbridge-api/internal/catalog"
)

// NewDatabase opens the precision catalog store and migrates its schema.
// This is the only thing the bridge persists; order history deliberately
// never touches disk.
func NewDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&catalog.PrecisionEntry{}); err != nil {
		return nil, err
	}

	return db, nil
}
