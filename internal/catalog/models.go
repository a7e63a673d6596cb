package catalog

import "gorm.io/gorm"

// PrecisionEntry maps one instrument to the number of price decimals the
// broker accepts for it, per trading environment. Rows are written once
// when the table is first derived and never mutated afterwards.
type PrecisionEntry struct {
	gorm.Model  `json:"-"`
	Instrument  string `gorm:"uniqueIndex:idx_instrument_env" json:"instrument"`
	TradingType string `gorm:"uniqueIndex:idx_instrument_env" json:"trading_type"`
	Precision   int    `json:"precision"`
}
