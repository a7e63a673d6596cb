package translate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxbridge/fxbridge-api/internal/types"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name       string
		ticker     string
		instrument string
		wantErr    bool
	}{
		{name: "forex pair", ticker: "EURUSD", instrument: "EUR_USD"},
		{name: "metal pair", ticker: "XAUEUR", instrument: "XAU_EUR"},
		{name: "arbitrary six characters", ticker: "ABCDEF", instrument: "ABC_DEF"},
		{name: "missing ticker", ticker: "", wantErr: true},
		{name: "too short", ticker: "EURUS", wantErr: true},
		{name: "too long", ticker: "EURUSDT", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := &types.Signal{Ticker: tt.ticker}
			err := Translate(sig)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, types.IsValidation(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.instrument, sig.Instrument)
			assert.Empty(t, sig.Ticker, "ticker should be consumed")
		})
	}
}

func TestFillDefaults_AppliesFallbacks(t *testing.T) {
	sig := &types.Signal{
		Instrument: "XAU_EUR",
		Price:      dec("1486.891"),
	}

	req, err := FillDefaults(sig, StandardDefaults())
	require.NoError(t, err)

	assert.Equal(t, "XAU_EUR", req.Instrument)
	assert.Equal(t, int64(500), req.Units)
	assert.True(t, req.Price.Equal(decimal.RequireFromString("1486.891")))
	assert.True(t, req.TrailingStopLossPercent.Equal(decimal.RequireFromString("0.01")))
	assert.True(t, req.TakeProfitPercent.Equal(decimal.RequireFromString("0.06")))
	assert.Equal(t, types.TradingPractice, req.TradingType)
}

func TestFillDefaults_OverridesApplyIndependently(t *testing.T) {
	units := int64(250)
	tradingType := "live"
	sig := &types.Signal{
		Instrument:        "EUR_USD",
		Price:             dec("1.0855"),
		Units:             &units,
		TakeProfitPercent: dec("0.1"),
		TradingType:       &tradingType,
	}

	req, err := FillDefaults(sig, StandardDefaults())
	require.NoError(t, err)

	assert.Equal(t, int64(250), req.Units)
	assert.True(t, req.TakeProfitPercent.Equal(decimal.RequireFromString("0.1")))
	assert.Equal(t, types.TradingLive, req.TradingType)
	// Untouched field still defaulted
	assert.True(t, req.TrailingStopLossPercent.Equal(decimal.RequireFromString("0.01")))
}

func TestFillDefaults_Idempotent(t *testing.T) {
	sig := &types.Signal{
		Instrument: "EUR_USD",
		Price:      dec("1.0855"),
	}

	first, err := FillDefaults(sig, StandardDefaults())
	require.NoError(t, err)

	// Re-fill a signal carrying the first result's values: nothing may change
	tradingType := string(first.TradingType)
	again := &types.Signal{
		Instrument:              first.Instrument,
		Price:                   &first.Price,
		Units:                   &first.Units,
		TrailingStopLossPercent: &first.TrailingStopLossPercent,
		TakeProfitPercent:       &first.TakeProfitPercent,
		TradingType:             &tradingType,
	}

	second, err := FillDefaults(again, StandardDefaults())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFillDefaults_Errors(t *testing.T) {
	tests := []struct {
		name string
		sig  *types.Signal
	}{
		{name: "missing instrument", sig: &types.Signal{Price: dec("1.5")}},
		{name: "missing price", sig: &types.Signal{Instrument: "EUR_USD"}},
		{name: "zero price", sig: &types.Signal{Instrument: "EUR_USD", Price: dec("0")}},
		{name: "negative price", sig: &types.Signal{Instrument: "EUR_USD", Price: dec("-1.2")}},
		{name: "trailing stop of one", sig: &types.Signal{Instrument: "EUR_USD", Price: dec("1.5"), TrailingStopLossPercent: dec("1")}},
		{name: "negative trailing stop", sig: &types.Signal{Instrument: "EUR_USD", Price: dec("1.5"), TrailingStopLossPercent: dec("-0.01")}},
		{name: "negative take profit", sig: &types.Signal{Instrument: "EUR_USD", Price: dec("1.5"), TakeProfitPercent: dec("-0.06")}},
		{
			name: "unknown trading type",
			sig: func() *types.Signal {
				tradingType := "paper"
				return &types.Signal{Instrument: "EUR_USD", Price: dec("1.5"), TradingType: &tradingType}
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FillDefaults(tt.sig, StandardDefaults())
			require.Error(t, err)
			assert.True(t, types.IsValidation(err))
		})
	}
}
