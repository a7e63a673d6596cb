package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxbridge/fxbridge-api/internal/types"
)

type fakeClient struct {
	order       *types.BracketOrder
	closedInstr string
	closeID     string
}

func (f *fakeClient) CreateOrder(_ context.Context, order *types.BracketOrder) (*types.BrokerResponse, error) {
	f.order = order
	return &types.BrokerResponse{StatusCode: 201, Body: "{}"}, nil
}

func (f *fakeClient) ClosePosition(_ context.Context, instrument, closeID string) (*types.BrokerResponse, error) {
	f.closedInstr = instrument
	f.closeID = closeID
	return &types.BrokerResponse{StatusCode: 200, Body: "{}"}, nil
}

func TestSubmitBuy(t *testing.T) {
	client := &fakeClient{}
	d := New(map[types.TradingType]BrokerClient{types.TradingPractice: client}, nil)

	order := &types.BracketOrder{Instrument: "XAU_EUR", Units: 500}
	resp, err := d.SubmitBuy(context.Background(), order, types.TradingPractice)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Same(t, order, client.order)
}

func TestSubmitSell(t *testing.T) {
	client := &fakeClient{}
	instant := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	d := New(map[types.TradingType]BrokerClient{types.TradingPractice: client}, func() time.Time { return instant })

	_, err := d.SubmitSell(context.Background(), "XAU_EUR", types.TradingPractice)
	require.NoError(t, err)
	assert.Equal(t, "XAU_EUR", client.closedInstr)
	assert.Equal(t, "2024-03-01T12:30:00.000000Z_close", client.closeID)
}

func TestUnknownTradingType(t *testing.T) {
	d := New(map[types.TradingType]BrokerClient{}, nil)

	_, err := d.SubmitBuy(context.Background(), &types.BracketOrder{}, types.TradingLive)
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))

	_, err = d.SubmitSell(context.Background(), "XAU_EUR", types.TradingLive)
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}
