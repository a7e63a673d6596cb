// Package dispatch routes built orders to the broker client for the
// requested trading type. One attempt per request; a broker rejection is
// reported, never retried.
package dispatch

import (
	"context"
	"time"

	"github.com/fxbridge/fxbridge-api/internal/bracket"
	"github.com/fxbridge/fxbridge-api/internal/types"
)

// BrokerClient is the slice of the broker API the dispatcher uses
type BrokerClient interface {
	CreateOrder(ctx context.Context, order *types.BracketOrder) (*types.BrokerResponse, error)
	ClosePosition(ctx context.Context, instrument, closeID string) (*types.BrokerResponse, error)
}

// Dispatcher submits orders through one broker client per trading type
type Dispatcher struct {
	clients map[types.TradingType]BrokerClient
	clock   bracket.Clock
}

// New creates a dispatcher. Pass nil for clock to use the wall clock.
func New(clients map[types.TradingType]BrokerClient, clock bracket.Clock) *Dispatcher {
	if clock == nil {
		clock = time.Now
	}
	return &Dispatcher{clients: clients, clock: clock}
}

// SubmitBuy places the bracket order as a new limit entry with its two
// contingent legs attached.
func (d *Dispatcher) SubmitBuy(ctx context.Context, order *types.BracketOrder, tradingType types.TradingType) (*types.BrokerResponse, error) {
	client, err := d.client(tradingType)
	if err != nil {
		return nil, err
	}
	return client.CreateOrder(ctx, order)
}

// SubmitSell closes the full long quantity of the instrument. Units and
// percentages from the signal are deliberately ignored on this path:
// a sell is always a 100% close of long exposure.
func (d *Dispatcher) SubmitSell(ctx context.Context, instrument string, tradingType types.TradingType) (*types.BrokerResponse, error) {
	client, err := d.client(tradingType)
	if err != nil {
		return nil, err
	}
	return client.ClosePosition(ctx, instrument, bracket.CorrelationID(d.clock(), bracket.LegClose))
}

func (d *Dispatcher) client(tradingType types.TradingType) (BrokerClient, error) {
	client, ok := d.clients[tradingType]
	if !ok {
		return nil, types.NewValidationError("no broker configured for trading type " + string(tradingType))
	}
	return client, nil
}
