package catalog

import (
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// GetEntries returns the persisted precision table for one trading type.
// An empty slice means the table has not been derived yet.
func (d *Database) GetEntries(tradingType string) ([]PrecisionEntry, error) {
	var entries []PrecisionEntry
	if err := d.db.Where("trading_type = ?", tradingType).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveEntries persists a freshly derived table in one transaction, so a
// concurrent reader never observes a half-written table.
func (d *Database) SaveEntries(entries []PrecisionEntry) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := tx.Create(&entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
