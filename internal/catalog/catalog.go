// Package catalog resolves the price precision of an instrument. The
// full instrument->precision table for a trading type is derived once,
// from the on-disk copy if one exists and otherwise from the broker's
// instrument list, and is immutable for the rest of the process.
package catalog

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fxbridge/fxbridge-api/internal/broker"
	"github.com/fxbridge/fxbridge-api/internal/types"
)

// InstrumentLister is the one broker call the catalog depends on
type InstrumentLister interface {
	Instruments(ctx context.Context) ([]broker.Instrument, error)
}

// Catalog holds one lazily-built precision table per trading type.
// First construction for a trading type is serialized: concurrent first
// requests perform the broker fetch and the disk write at most once.
// Reads after that go against the immutable in-memory table.
type Catalog struct {
	db      *Database
	listers map[types.TradingType]InstrumentLister
	logger  zerolog.Logger

	mu     sync.RWMutex
	tables map[types.TradingType]map[string]int
}

// New creates a catalog backed by the given database and one instrument
// lister per configured trading type.
func New(gormDB *gorm.DB, listers map[types.TradingType]InstrumentLister) *Catalog {
	return &Catalog{
		db:      NewDatabase(gormDB),
		listers: listers,
		logger:  log.With().Str("component", "catalog").Logger(),
		tables:  make(map[types.TradingType]map[string]int),
	}
}

// PrecisionFor returns the decimal places for one instrument, building
// the trading type's table on first use. It fails with an UpstreamError
// if the broker fetch fails and with a NotFoundError if the instrument
// is not in the table.
func (c *Catalog) PrecisionFor(ctx context.Context, instrument string, tradingType types.TradingType) (int, error) {
	table, err := c.table(ctx, tradingType)
	if err != nil {
		return 0, err
	}

	precision, ok := table[instrument]
	if !ok {
		return 0, &types.NotFoundError{Instrument: instrument}
	}
	return precision, nil
}

// table returns the immutable table for a trading type, constructing it
// under the write lock on first use. The lock is held across the one-time
// fetch and persist, which is the only place this service holds a lock
// over a network call.
func (c *Catalog) table(ctx context.Context, tradingType types.TradingType) (map[string]int, error) {
	c.mu.RLock()
	table, ok := c.tables[tradingType]
	c.mu.RUnlock()
	if ok {
		return table, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another request may have built the table while we waited
	if table, ok := c.tables[tradingType]; ok {
		return table, nil
	}

	table, err := c.loadOrDerive(ctx, tradingType)
	if err != nil {
		return nil, err
	}

	c.tables[tradingType] = table
	return table, nil
}

func (c *Catalog) loadOrDerive(ctx context.Context, tradingType types.TradingType) (map[string]int, error) {
	entries, err := c.db.GetEntries(string(tradingType))
	if err != nil {
		return nil, &types.UpstreamError{Op: "load precision table", Err: err}
	}

	if len(entries) > 0 {
		c.logger.Info().
			Str("trading_type", string(tradingType)).
			Int("instruments", len(entries)).
			Msg("loaded precision table from disk")
		return toTable(entries), nil
	}

	lister, ok := c.listers[tradingType]
	if !ok {
		return nil, types.NewValidationError("no broker configured for trading type " + string(tradingType))
	}

	instruments, err := lister.Instruments(ctx)
	if err != nil {
		return nil, err
	}

	entries = make([]PrecisionEntry, 0, len(instruments))
	for _, in := range instruments {
		entries = append(entries, PrecisionEntry{
			Instrument:  in.Name,
			TradingType: string(tradingType),
			Precision:   in.DisplayPrecision,
		})
	}

	if err := c.db.SaveEntries(entries); err != nil {
		return nil, &types.UpstreamError{Op: "persist precision table", Err: err}
	}

	c.logger.Info().
		Str("trading_type", string(tradingType)).
		Int("instruments", len(entries)).
		Msg("derived precision table from broker instrument list")

	return toTable(entries), nil
}

func toTable(entries []PrecisionEntry) map[string]int {
	table := make(map[string]int, len(entries))
	for _, e := range entries {
		table[e.Instrument] = e.Precision
	}
	return table
}
