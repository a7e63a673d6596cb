// Package webhook drives one trading signal from HTTP body to broker
// order to notification to response. The flow is a small state machine:
//
//	received -> validated -> translated -> dispatched
//	  -> succeeded | failed -> notified -> responded
//
// Every path ends in a response; notification is attempted on success
// and failure alike and its own failure never replaces the outcome.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fxbridge/fxbridge-api/internal/bracket"
	"github.com/fxbridge/fxbridge-api/internal/notify"
	"github.com/fxbridge/fxbridge-api/internal/translate"
	"github.com/fxbridge/fxbridge-api/internal/types"
	"github.com/fxbridge/fxbridge-api/pkg/response"
)

type state string

const (
	stateReceived   state = "received"
	stateValidated  state = "validated"
	stateTranslated state = "translated"
	stateDispatched state = "dispatched"
	stateSucceeded  state = "succeeded"
	stateFailed     state = "failed"
	stateNotified   state = "notified"
)

const failSubject = "TradingView to OANDA: Fail"

// PrecisionSource resolves an instrument's price precision
type PrecisionSource interface {
	PrecisionFor(ctx context.Context, instrument string, tradingType types.TradingType) (int, error)
}

// OrderDispatcher submits orders to the broker
type OrderDispatcher interface {
	SubmitBuy(ctx context.Context, order *types.BracketOrder, tradingType types.TradingType) (*types.BrokerResponse, error)
	SubmitSell(ctx context.Context, instrument string, tradingType types.TradingType) (*types.BrokerResponse, error)
}

// Notifier mails the run log to the operator
type Notifier interface {
	Notify(ctx context.Context, subject string, runLog *notify.RunLog) error
}

// Service orchestrates signal handling
type Service struct {
	catalog    PrecisionSource
	dispatcher OrderDispatcher
	builder    *bracket.Builder
	notifier   Notifier
	defaults   translate.Defaults
	logger     zerolog.Logger
}

// NewService wires the pipeline together
func NewService(catalog PrecisionSource, dispatcher OrderDispatcher, builder *bracket.Builder, notifier Notifier, defaults translate.Defaults) *Service {
	return &Service{
		catalog:    catalog,
		dispatcher: dispatcher,
		builder:    builder,
		notifier:   notifier,
		defaults:   defaults,
		logger:     log.With().Str("component", "webhook").Logger(),
	}
}

// Outcome is the settled result of one signal: which terminal state it
// reached, the subject it was reported under and the full run log that
// becomes the HTTP body.
type Outcome struct {
	Succeeded bool
	Subject   string
	Log       *notify.RunLog
	Err       error
}

// run tracks one request through the state machine
type run struct {
	service *Service
	logger  zerolog.Logger
	runLog  *notify.RunLog
	state   state
}

func (r *run) transition(to state) {
	r.logger.Debug().Str("from", string(r.state)).Str("to", string(to)).Msg("state transition")
	r.state = to
}

// Process handles one raw webhook body end to end. It always returns an
// outcome; it never panics a request away without a response.
func (s *Service) Process(ctx context.Context, body []byte) *Outcome {
	r := &run{
		service: s,
		logger:  s.logger.With().Str("request_id", uuid.New().String()).Logger(),
		runLog:  notify.NewRunLog(nil),
		state:   stateReceived,
	}

	subject, brokerResp, err := r.handle(ctx, body)
	if err != nil {
		r.transition(stateFailed)
		r.logger.Error().Err(err).Msg("signal handling failed")
		r.runLog.Add("ERROR: %v", err)
		subject = failSubject
	} else {
		r.transition(stateSucceeded)
		r.runLog.Add("Sent the order to OANDA. They replied:\n%s", indentJSON(brokerResp.Body))
	}

	// Always notify, and never let a notification failure shadow the
	// outcome being reported.
	if notifyErr := s.notifier.Notify(ctx, subject, r.runLog); notifyErr != nil {
		r.logger.Warn().Err(notifyErr).Msg("notification failed")
	}
	r.transition(stateNotified)

	return &Outcome{
		Succeeded: err == nil,
		Subject:   subject,
		Log:       r.runLog,
		Err:       err,
	}
}

// handle walks the happy path and returns the success subject and broker
// response; any error routes the caller to the failure path.
func (r *run) handle(ctx context.Context, body []byte) (string, *types.BrokerResponse, error) {
	sig, err := decodeSignal(body)
	if err != nil {
		r.runLog.Add("Request received with invalid JSON:\n%s", string(body))
		return "", nil, err
	}
	r.transition(stateValidated)
	r.runLog.Add("Request received with valid JSON:\n%s", indentJSON(string(body)))

	if err := translate.Translate(sig); err != nil {
		return "", nil, err
	}
	req, err := translate.FillDefaults(sig, r.service.defaults)
	if err != nil {
		return "", nil, err
	}
	r.transition(stateTranslated)
	r.runLog.Add("Translated that to order parameters: instrument=%s units=%d price=%s trailing_stop_loss_percent=%s take_profit_percent=%s trading_type=%s",
		req.Instrument, req.Units, req.Price, req.TrailingStopLossPercent, req.TakeProfitPercent, req.TradingType)

	switch sig.Action {
	case types.ActionBuy:
		return r.buy(ctx, req)
	case types.ActionSell:
		return r.sell(ctx, req)
	default:
		return "", nil, types.NewValidationError("unknown action " + fmt.Sprintf("%q", sig.Action))
	}
}

func (r *run) buy(ctx context.Context, req *types.OrderRequest) (string, *types.BrokerResponse, error) {
	precision, err := r.service.catalog.PrecisionFor(ctx, req.Instrument, req.TradingType)
	if err != nil {
		return "", nil, err
	}
	r.runLog.Add("Resolved %s to %d decimal places of precision", req.Instrument, precision)

	order, err := r.service.builder.Build(req, precision)
	if err != nil {
		return "", nil, err
	}
	r.runLog.Add("Built bracket order: entry=%s trailing_stop_distance=%s take_profit=%s expires=%s",
		order.Price, order.TrailingStopDistance, order.TakeProfitPrice, order.GTDTime)

	r.transition(stateDispatched)
	resp, err := r.service.dispatcher.SubmitBuy(ctx, order, req.TradingType)
	if err != nil {
		return "", nil, err
	}

	subject := fmt.Sprintf("TradingView to OANDA: Sent an order to buy %d units of %s", req.Units, req.Instrument)
	return subject, resp, nil
}

func (r *run) sell(ctx context.Context, req *types.OrderRequest) (string, *types.BrokerResponse, error) {
	// A sell always closes 100% of long exposure; precision and the
	// bracket builder are not involved.
	r.transition(stateDispatched)
	resp, err := r.service.dispatcher.SubmitSell(ctx, req.Instrument, req.TradingType)
	if err != nil {
		return "", nil, err
	}

	subject := fmt.Sprintf("TradingView to OANDA: Sent an order to close all positions of %s", req.Instrument)
	return subject, resp, nil
}

// decodeSignal is the single point where the loose webhook payload
// becomes typed. Unknown fields are rejected here rather than coerced
// further down the pipeline.
func decodeSignal(body []byte) (*types.Signal, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	var sig types.Signal
	if err := dec.Decode(&sig); err != nil {
		return nil, &types.ValidationError{Msg: "invalid JSON", Err: err}
	}
	return &sig, nil
}

// indentJSON pretty-prints a JSON document for the run log; anything
// that does not parse is passed through untouched.
func indentJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}
	return buf.String()
}

// GinHandlers contains the HTTP handler for the webhook endpoint
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates the HTTP handlers for the webhook endpoint
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

// SignalHandler handles the token-scoped POST from the charting tool.
// It always answers text/plain: 200 with the run log on success, 500
// with the run log on any failure.
func (h *GinHandlers) SignalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.PlainFailure(c, "could not read request body")
			return
		}

		outcome := h.service.Process(c.Request.Context(), body)
		if outcome.Succeeded {
			response.PlainSuccess(c, outcome.Log.String())
			return
		}
		response.PlainFailure(c, outcome.Log.String())
	}
}
