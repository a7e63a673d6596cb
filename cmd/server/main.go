package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/fxbridge/fxbridge-api/internal/auth"
	"github.com/fxbridge/fxbridge-api/internal/bracket"
	"github.com/fxbridge/fxbridge-api/internal/broker"
	"github.com/fxbridge/fxbridge-api/internal/catalog"
	"github.com/fxbridge/fxbridge-api/internal/config"
	"github.com/fxbridge/fxbridge-api/internal/database"
	"github.com/fxbridge/fxbridge-api/internal/dispatch"
	"github.com/fxbridge/fxbridge-api/internal/notify"
	"github.com/fxbridge/fxbridge-api/internal/translate"
	"github.com/fxbridge/fxbridge-api/internal/types"
	"github.com/fxbridge/fxbridge-api/internal/webhook"
	"github.com/fxbridge/fxbridge-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// init configures the application logging based on environment settings.
// In development mode, it enables pretty printing with timestamps.
// Debug logging can be enabled via DEBUG environment variable.
func init() {
	if os.Getenv("ENV") != "production" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// main initializes and runs the webhook bridge with graceful shutdown
// support. It wires the signal pipeline (translator, precision catalog,
// bracket builder, dispatcher, notifier) and exposes the HTTP surface.
func main() {
	configPath := os.Getenv("CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		zlog.Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
	}

	db, err := database.NewDatabase(cfg.Catalog.Database)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize catalog database")
	}

	// One broker client per configured trading type; requests naming an
	// unconfigured type fail validation instead of reaching the broker.
	brokerClients := make(map[types.TradingType]dispatch.BrokerClient)
	listers := make(map[types.TradingType]catalog.InstrumentLister)
	for _, tradingType := range []types.TradingType{types.TradingPractice, types.TradingLive} {
		creds, err := cfg.BrokerCredentialsFor(tradingType)
		if err != nil {
			zlog.Warn().Str("trading_type", string(tradingType)).Msg("No broker credentials configured")
			continue
		}
		client := broker.NewClient(tradingType, creds.APIKey, creds.AccountID)
		brokerClients[tradingType] = client
		listers[tradingType] = client
	}

	// Initialize services and handlers
	authService := auth.NewService(cfg.Server.JWTSecret, cfg.Server.APIKey, cfg.Server.APISecret)
	authHandlers := auth.NewGinHandlers(authService)

	precisionCatalog := catalog.New(db, listers)
	catalogHandlers := catalog.NewGinHandlers(precisionCatalog)

	defaults := translate.Defaults{
		Units:                   cfg.Defaults.Units,
		TrailingStopLossPercent: cfg.Defaults.TrailingStopLossPercent,
		TakeProfitPercent:       cfg.Defaults.TakeProfitPercent,
		TradingType:             types.TradingType(cfg.Defaults.TradingType),
	}

	webhookService := webhook.NewService(
		precisionCatalog,
		dispatch.New(brokerClients, nil),
		bracket.NewBuilder(nil),
		notify.NewManager(notify.NewSendGridClient(cfg.SendGrid.APIKey, cfg.SendGrid.EmailAddress)),
		defaults,
	)
	webhookHandlers := webhook.NewGinHandlers(webhookService)

	router := gin.Default()
	router.Use(middleware.RateLimit())
	setupRoutes(router, cfg, authService, authHandlers, webhookHandlers, catalogHandlers)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Graceful shutdown setup
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("Shutting down server...")

	// Give outstanding operations 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	zlog.Info().Msg("Server exiting")
}

// setupRoutes configures all endpoints:
// - Webhook route: token-scoped, consumed by the charting tool
// - Auth route: public, exchanges operator credentials for a JWT
// - Catalog routes: JWT-protected operator inspection
func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authService *auth.Service,
	authHandlers *auth.GinHandlers,
	webhookHandlers *webhook.GinHandlers,
	catalogHandlers *catalog.GinHandlers,
) {
	hook := router.Group("/webhook")
	hook.Use(middleware.WebhookTokenAuth(cfg.Server.AccessTokens))
	{
		hook.POST("/:token", webhookHandlers.SignalHandler())
	}

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/token", authHandlers.GenerateTokenHandler())
		}

		catalogGroup := v1.Group("/catalog")
		catalogGroup.Use(middleware.JWTAuth(authService))
		{
			catalogGroup.GET("/:trading_type/:instrument", catalogHandlers.PrecisionHandler())
		}
	}
}
