// Package broker is a minimal OANDA v20 REST client covering the three
// calls the bridge needs: the account instrument list, limit order
// creation and long position close.
package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fxbridge/fxbridge-api/internal/types"
)

const (
	// PracticeURL is the URL for OANDA's practice/demo environment
	PracticeURL = "https://api-fxpractice.oanda.com"
	// LiveURL is the URL for OANDA's live trading environment
	LiveURL = "https://api-fxtrade.oanda.com"
)

// Client talks to one OANDA environment with one account
type Client struct {
	baseURL    string
	token      string
	accountID  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates an OANDA client for the given trading type. All
// calls carry a bounded timeout; there are no retries at this layer.
func NewClient(tradingType types.TradingType, token, accountID string) *Client {
	baseURL := LiveURL
	if tradingType == types.TradingPractice {
		baseURL = PracticeURL
	}

	return &Client{
		baseURL:   baseURL,
		token:     token,
		accountID: accountID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.With().Str("component", "broker").Str("trading_type", string(tradingType)).Logger(),
	}
}

// Instrument is one entry of the account instrument list
type Instrument struct {
	Name             string `json:"name"`
	DisplayPrecision int    `json:"displayPrecision"`
}

// instrumentsResponse represents the API response for the instrument list
type instrumentsResponse struct {
	Instruments []Instrument `json:"instruments"`
}

type clientExtensions struct {
	Comment string `json:"comment"`
	Tag     string `json:"tag"`
	ID      string `json:"id"`
}

type trailingStopLossOnFill struct {
	Distance         string           `json:"distance"`
	TimeInForce      string           `json:"timeInForce"`
	ClientExtensions clientExtensions `json:"clientExtensions"`
}

type takeProfitOnFill struct {
	Price            string           `json:"price"`
	ClientExtensions clientExtensions `json:"clientExtensions"`
}

type limitOrder struct {
	Type                   string                 `json:"type"`
	PositionFill           string                 `json:"positionFill"`
	TimeInForce            string                 `json:"timeInForce"`
	GTDTime                string                 `json:"gtdTime"`
	Instrument             string                 `json:"instrument"`
	Units                  string                 `json:"units"`
	Price                  string                 `json:"price"`
	TrailingStopLossOnFill trailingStopLossOnFill `json:"trailingStopLossOnFill"`
	TakeProfitOnFill       takeProfitOnFill       `json:"takeProfitOnFill"`
	ClientExtensions       clientExtensions       `json:"clientExtensions"`
}

type createOrderRequest struct {
	Order limitOrder `json:"order"`
}

type closePositionRequest struct {
	LongUnits            string           `json:"longUnits"`
	LongClientExtensions clientExtensions `json:"longClientExtensions"`
	ShortUnits           string           `json:"shortUnits"`
}

// Instruments fetches the account's tradable instrument list
func (c *Client) Instruments(ctx context.Context) ([]Instrument, error) {
	apiURL := fmt.Sprintf("%s/v3/accounts/%s/instruments", c.baseURL, c.accountID)

	resp, err := c.do(ctx, http.MethodGet, apiURL, nil, "list instruments")
	if err != nil {
		return nil, err
	}

	var apiResp instrumentsResponse
	if err := json.Unmarshal([]byte(resp.Body), &apiResp); err != nil {
		return nil, &types.UpstreamError{Op: "list instruments", Err: fmt.Errorf("decode response: %w", err)}
	}

	return apiResp.Instruments, nil
}

// CreateOrder submits the bracket as a single limit order: GTD entry with
// the trailing stop and take profit attached on fill, both GTC.
func (c *Client) CreateOrder(ctx context.Context, order *types.BracketOrder) (*types.BrokerResponse, error) {
	apiURL := fmt.Sprintf("%s/v3/accounts/%s/orders", c.baseURL, c.accountID)

	payload := createOrderRequest{
		Order: limitOrder{
			Type:         "LIMIT",
			PositionFill: "DEFAULT",
			TimeInForce:  "GTD",
			GTDTime:      order.GTDTime,
			Instrument:   order.Instrument,
			Units:        fmt.Sprintf("%d", order.Units),
			Price:        order.Price,
			TrailingStopLossOnFill: trailingStopLossOnFill{
				Distance:    order.TrailingStopDistance,
				TimeInForce: "GTC",
				ClientExtensions: clientExtensions{
					Comment: "fxbridge/buy/trailing_stop_loss",
					Tag:     "trailing_stop_loss",
					ID:      order.TrailingStopID,
				},
			},
			TakeProfitOnFill: takeProfitOnFill{
				Price: order.TakeProfitPrice,
				ClientExtensions: clientExtensions{
					Comment: "fxbridge/buy/take_profit",
					Tag:     "take_profit",
					ID:      order.TakeProfitID,
				},
			},
			ClientExtensions: clientExtensions{
				Comment: "fxbridge/buy/entry",
				Tag:     "entry",
				ID:      order.EntryID,
			},
		},
	}

	return c.do(ctx, http.MethodPost, apiURL, payload, "create order")
}

// ClosePosition closes the full long quantity of the instrument. Short
// exposure is left untouched: this is a full-close sell, not a new short.
func (c *Client) ClosePosition(ctx context.Context, instrument, closeID string) (*types.BrokerResponse, error) {
	apiURL := fmt.Sprintf("%s/v3/accounts/%s/positions/%s/close", c.baseURL, c.accountID, instrument)

	payload := closePositionRequest{
		LongUnits: "ALL",
		LongClientExtensions: clientExtensions{
			Comment: "fxbridge/sell/close",
			Tag:     "close",
			ID:      closeID,
		},
		ShortUnits: "NONE",
	}

	return c.do(ctx, http.MethodPut, apiURL, payload, "close position")
}

// do executes one request against the broker. Any transport failure or
// non-2xx answer surfaces as an UpstreamError carrying status and body.
func (c *Client) do(ctx context.Context, method, apiURL string, payload interface{}, op string) (*types.BrokerResponse, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &types.UpstreamError{Op: op, Err: fmt.Errorf("encode payload: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
	if err != nil {
		return nil, &types.UpstreamError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept-Datetime-Format", "RFC3339")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &types.UpstreamError{Op: op, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().
			Str("op", op).
			Int("status", resp.StatusCode).
			Str("body", string(respBody)).
			Msg("broker rejected request")
		return nil, &types.UpstreamError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	c.logger.Info().
		Str("op", op).
		Int("status", resp.StatusCode).
		Msg("broker request succeeded")

	return &types.BrokerResponse{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}, nil
}
