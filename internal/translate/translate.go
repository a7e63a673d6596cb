// Package translate turns a raw webhook signal into a canonical
// OrderRequest: the ticker is rewritten as a broker instrument and
// missing fields are filled from a fallback table.
package translate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fxbridge/fxbridge-api/internal/types"
)

// Defaults is the fallback table for the optional signal fields. Each
// entry applies independently: a signal may override any subset.
type Defaults struct {
	Units                   int64
	TrailingStopLossPercent decimal.Decimal
	TakeProfitPercent       decimal.Decimal
	TradingType             types.TradingType
}

// StandardDefaults returns the stock fallback table: 500 units, 1%
// trailing stop, 6% take profit, practice environment.
func StandardDefaults() Defaults {
	return Defaults{
		Units:                   500,
		TrailingStopLossPercent: decimal.NewFromFloat(0.01),
		TakeProfitPercent:       decimal.NewFromFloat(0.06),
		TradingType:             types.TradingPractice,
	}
}

// Translate rewrites the signal's 6-character ticker (e.g. "XAUEUR") as
// a broker instrument ("XAU_EUR"). The ticker is consumed: it is cleared
// from the signal and Instrument is set in its place.
func Translate(sig *types.Signal) error {
	if sig.Ticker == "" {
		return types.NewValidationError("ticker is missing")
	}
	if len(sig.Ticker) != 6 {
		return types.NewValidationError(fmt.Sprintf("ticker %q does not have exactly 6 characters", sig.Ticker))
	}

	sig.Instrument = sig.Ticker[:3] + "_" + sig.Ticker[3:]
	sig.Ticker = ""
	return nil
}

// FillDefaults completes a translated signal into an OrderRequest,
// applying the fallback table for any field the caller left out. It is
// pure and idempotent: re-filling a signal built from its own output
// yields the same request.
func FillDefaults(sig *types.Signal, d Defaults) (*types.OrderRequest, error) {
	if sig.Instrument == "" {
		return nil, types.NewValidationError("instrument is missing")
	}
	if sig.Price == nil {
		return nil, types.NewValidationError("price is missing")
	}
	if !sig.Price.IsPositive() {
		return nil, types.NewValidationError("price must be greater than zero, got " + sig.Price.String())
	}

	req := &types.OrderRequest{
		Instrument:              sig.Instrument,
		Units:                   d.Units,
		Price:                   *sig.Price,
		TrailingStopLossPercent: d.TrailingStopLossPercent,
		TakeProfitPercent:       d.TakeProfitPercent,
		TradingType:             d.TradingType,
	}

	if sig.Units != nil {
		req.Units = *sig.Units
	}
	if sig.TrailingStopLossPercent != nil {
		req.TrailingStopLossPercent = *sig.TrailingStopLossPercent
	}
	if sig.TakeProfitPercent != nil {
		req.TakeProfitPercent = *sig.TakeProfitPercent
	}
	if sig.TradingType != nil {
		req.TradingType = types.TradingType(*sig.TradingType)
	}

	if req.TrailingStopLossPercent.IsNegative() || req.TrailingStopLossPercent.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, types.NewValidationError("trailing_stop_loss_percent must be in [0,1), got " + req.TrailingStopLossPercent.String())
	}
	if req.TakeProfitPercent.IsNegative() {
		return nil, types.NewValidationError("take_profit_percent must not be negative, got " + req.TakeProfitPercent.String())
	}
	if !req.TradingType.Valid() {
		return nil, types.NewValidationError("trading_type must be practice or live, got " + string(req.TradingType))
	}

	return req, nil
}
