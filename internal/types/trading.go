package types

import (
	"github.com/shopspring/decimal"
)

// TradingType selects which OANDA environment an order is routed to
type TradingType string

const (
	TradingPractice TradingType = "practice"
	TradingLive     TradingType = "live"
)

// Valid reports whether the trading type is one of the recognized environments
func (t TradingType) Valid() bool {
	return t == TradingPractice || t == TradingLive
}

// Actions accepted on the webhook
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// Signal is the decoded webhook body. It is decoded exactly once at the
// HTTP boundary; everything downstream works with OrderRequest.
// Price and the percent overrides accept either a JSON number or a
// numeric string, which is how charting tools send them.
type Signal struct {
	Ticker                  string           `json:"ticker"`
	Action                  string           `json:"action"`
	Price                   *decimal.Decimal `json:"price"`
	Units                   *int64           `json:"units"`
	TrailingStopLossPercent *decimal.Decimal `json:"trailing_stop_loss_percent"`
	TakeProfitPercent       *decimal.Decimal `json:"take_profit_percent"`
	TradingType             *string          `json:"trading_type"`

	// Instrument is set by the translator from Ticker and never
	// arrives on the wire.
	Instrument string `json:"-"`
}

// OrderRequest is the canonical, fully defaulted order description.
// Invariants: Instrument is "XXX_YYY", Price > 0,
// TrailingStopLossPercent in [0,1), TakeProfitPercent >= 0.
type OrderRequest struct {
	Instrument              string          `json:"instrument"`
	Units                   int64           `json:"units"`
	Price                   decimal.Decimal `json:"price"`
	TrailingStopLossPercent decimal.Decimal `json:"trailing_stop_loss_percent"`
	TakeProfitPercent       decimal.Decimal `json:"take_profit_percent"`
	TradingType             TradingType     `json:"trading_type"`
}

// BracketOrder is the three-leg order sent to the broker. All prices are
// pre-formatted to the instrument's precision; the builder owns rounding.
type BracketOrder struct {
	Instrument           string `json:"instrument"`
	Units                int64  `json:"units"`
	Price                string `json:"price"`
	TrailingStopDistance string `json:"trailing_stop_distance"`
	TakeProfitPrice      string `json:"take_profit_price"`
	GTDTime              string `json:"gtd_time"` // RFC3339, Z-suffixed

	// Client correlation ids, one per leg
	EntryID        string `json:"entry_id"`
	TrailingStopID string `json:"trailing_stop_id"`
	TakeProfitID   string `json:"take_profit_id"`
}

// BrokerResponse carries the broker's raw answer to an order submission
// or a position close. The body is kept verbatim for the run log.
type BrokerResponse struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}
