package bracket

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxbridge/fxbridge-api/internal/types"
)

var buildInstant = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func fixedClock() Clock {
	return func() time.Time { return buildInstant }
}

func request(price string) *types.OrderRequest {
	return &types.OrderRequest{
		Instrument:              "XAU_EUR",
		Units:                   500,
		Price:                   decimal.RequireFromString(price),
		TrailingStopLossPercent: decimal.RequireFromString("0.01"),
		TakeProfitPercent:       decimal.RequireFromString("0.06"),
		TradingType:             types.TradingPractice,
	}
}

func TestBuild_Prices(t *testing.T) {
	builder := NewBuilder(fixedClock())

	order, err := builder.Build(request("1486.891"), 3)
	require.NoError(t, err)

	assert.Equal(t, "1486.891", order.Price)
	// 1486.891 * 1.06 = 1576.10446, rounded half-up to 3 places
	assert.Equal(t, "1576.104", order.TakeProfitPrice)
	// 1486.891 * 0.01 = 14.86891
	assert.Equal(t, "14.869", order.TrailingStopDistance)
}

func TestBuild_TrailingDistance(t *testing.T) {
	builder := NewBuilder(fixedClock())

	order, err := builder.Build(request("1490.322"), 3)
	require.NoError(t, err)

	// 1490.322 * 0.01 = 14.90322
	assert.Equal(t, "14.903", order.TrailingStopDistance)
}

func TestBuild_RoundsHalfUpAtBoundary(t *testing.T) {
	builder := NewBuilder(fixedClock())

	// 1.0005 at 3 places sits exactly on the boundary: half-up gives
	// 1.001, banker's rounding would give 1.000
	order, err := builder.Build(request("1.0005"), 3)
	require.NoError(t, err)
	assert.Equal(t, "1.001", order.Price)
}

func TestBuild_FormatsToPrecision(t *testing.T) {
	builder := NewBuilder(fixedClock())

	t.Run("pads with zeros", func(t *testing.T) {
		order, err := builder.Build(request("1.5"), 5)
		require.NoError(t, err)
		assert.Equal(t, "1.50000", order.Price)
	})

	t.Run("zero precision", func(t *testing.T) {
		order, err := builder.Build(request("1486.891"), 0)
		require.NoError(t, err)
		assert.Equal(t, "1487", order.Price)
		// 14.86891 rounds to 15
		assert.Equal(t, "15", order.TrailingStopDistance)
	})
}

func TestBuild_ExpiryAndIDs(t *testing.T) {
	builder := NewBuilder(fixedClock())

	order, err := builder.Build(request("1486.891"), 3)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01T12:45:00Z", order.GTDTime, "entry expires 15 minutes after build")
	assert.Equal(t, "2024-03-01T12:30:00.000000Z_entry", order.EntryID)
	assert.Equal(t, "2024-03-01T12:30:00.000000Z_trailing_stop_loss", order.TrailingStopID)
	assert.Equal(t, "2024-03-01T12:30:00.000000Z_take_profit", order.TakeProfitID)
}

func TestBuild_IDsNonDecreasing(t *testing.T) {
	// A ticking clock must never hand a later leg an earlier instant
	now := buildInstant
	ticking := func() time.Time {
		now = now.Add(time.Microsecond)
		return now
	}

	order, err := NewBuilder(ticking).Build(request("1486.891"), 3)
	require.NoError(t, err)

	assert.Less(t, order.EntryID, order.TrailingStopID)
	assert.Less(t, order.TrailingStopID, order.TakeProfitID)
}

func TestBuild_Errors(t *testing.T) {
	builder := NewBuilder(fixedClock())

	t.Run("negative precision", func(t *testing.T) {
		_, err := builder.Build(request("1486.891"), -1)
		require.Error(t, err)
		assert.True(t, types.IsValidation(err))
	})

	t.Run("non-positive price", func(t *testing.T) {
		_, err := builder.Build(request("0"), 3)
		require.Error(t, err)
		assert.True(t, types.IsValidation(err))
	})
}

func TestCorrelationID(t *testing.T) {
	id := CorrelationID(time.Date(2019, 11, 2, 9, 4, 5, 123456000, time.UTC), LegClose)
	assert.Equal(t, "2019-11-02T09:04:05.123456Z_close", id)
}
