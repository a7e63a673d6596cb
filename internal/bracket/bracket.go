// Package bracket computes the absolute prices of the three-leg order
// from the canonical request and an instrument's precision. It performs
// no I/O; time enters only through an injected clock so builds are
// deterministic under test.
package bracket

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fxbridge/fxbridge-api/internal/types"
)

// Leg tags used in client correlation ids
const (
	LegEntry            = "entry"
	LegTrailingStopLoss = "trailing_stop_loss"
	LegTakeProfit       = "take_profit"
	LegClose            = "close"
)

// entryExpiry is how long the limit entry stays good-till-date
const entryExpiry = 15 * time.Minute

// idLayout matches an ISO-8601 UTC timestamp with microseconds
const idLayout = "2006-01-02T15:04:05.000000"

// Clock supplies the current time; nil means time.Now
type Clock func() time.Time

// CorrelationID builds the client id for one leg: the UTC timestamp of
// the instant the id was generated, suffixed with the leg tag.
func CorrelationID(t time.Time, legTag string) string {
	return t.UTC().Format(idLayout) + "Z_" + legTag
}

// Builder turns order requests into broker-ready bracket orders
type Builder struct {
	clock Clock
}

// NewBuilder creates a builder. Pass nil to use the wall clock.
func NewBuilder(clock Clock) *Builder {
	if clock == nil {
		clock = time.Now
	}
	return &Builder{clock: clock}
}

// Build computes the bracket's absolute prices and formats them to the
// instrument's precision:
//
//	entry           = round(price)
//	trailing stop   = round(trailingStopLossPercent * price), a distance
//	take profit     = round(price * (1 + takeProfitPercent))
//
// Rounding is half-up (ties away from zero) in every case, so leg prices
// are bit-exact across implementations. The entry expires 15 minutes
// after the build instant; each leg id is generated at a distinct,
// non-decreasing instant.
func (b *Builder) Build(req *types.OrderRequest, precision int) (*types.BracketOrder, error) {
	if precision < 0 {
		return nil, types.NewValidationError("precision must not be negative")
	}
	if !req.Price.IsPositive() {
		return nil, types.NewValidationError("price must be greater than zero, got " + req.Price.String())
	}

	places := int32(precision)
	trailingDistance := req.TrailingStopLossPercent.Mul(req.Price)
	takeProfit := req.Price.Mul(decimal.NewFromInt(1).Add(req.TakeProfitPercent))

	now := b.clock()

	return &types.BracketOrder{
		Instrument:           req.Instrument,
		Units:                req.Units,
		Price:                req.Price.StringFixed(places),
		TrailingStopDistance: trailingDistance.StringFixed(places),
		TakeProfitPrice:      takeProfit.StringFixed(places),
		GTDTime:              now.Add(entryExpiry).UTC().Format(time.RFC3339),
		EntryID:              CorrelationID(now, LegEntry),
		TrailingStopID:       CorrelationID(b.clock(), LegTrailingStopLoss),
		TakeProfitID:         CorrelationID(b.clock(), LegTakeProfit),
	}, nil
}
