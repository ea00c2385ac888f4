package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/wsquared-be/internal/api"
	"github.com/isdelr/wsquared-be/internal/auth"
	"github.com/isdelr/wsquared-be/internal/config"
	"github.com/isdelr/wsquared-be/internal/database"
	"github.com/isdelr/wsquared-be/internal/logger"
	"github.com/isdelr/wsquared-be/internal/monitoring"
	"github.com/isdelr/wsquared-be/internal/services"
	"github.com/isdelr/wsquared-be/internal/storage"
	"github.com/isdelr/wsquared-be/internal/web"
	"github.com/isdelr/wsquared-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.IsProduction())

	// Events always live in SQLite; with the memory driver that is a private
	// in-memory database.
	dbPath := cfg.DatabasePath
	if cfg.StorageDriver == "memory" {
		dbPath = ":memory:"
	}
	db, err := database.New(dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	var store storage.Store
	var healthDB *sql.DB
	if cfg.StorageDriver == "memory" {
		store = storage.NewMemoryStore()
	} else {
		store = storage.NewSQLiteStore(db)
		healthDB = db
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(db)
	sessionService := services.NewSessionService(store, eventService, hub)
	authService := services.NewAuthService(services.NewUserStore(store), sessionService, eventService)
	paymentService := services.NewPaymentService(
		sessionService,
		eventService,
		services.SimulatedConfirmer{Delay: cfg.PaymentVerifyDelay},
		services.NewPaymentInstructions(cfg.PaymentAmountKES, cfg.PaybillNumber, cfg.PaybillAccount, cfg.SupportEmail),
	)

	// Set up and run the background sweeper
	sweeper, err := monitoring.NewSweeper(cfg.SweepSchedule, cfg.StorageRetention, store, eventService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure storage sweeper")
	}
	sweeper.Run()

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load templates")
	}

	// Set up router
	router := api.NewRouter(api.Deps{
		Config:   cfg,
		DB:       healthDB,
		Hub:      hub,
		Tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.ClientTokenTTL),
		Renderer: renderer,
		Auth:     authService,
		Sessions: sessionService,
		Payments: paymentService,
		Events:   eventService,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.AppEnv).Str("storage", cfg.StorageDriver).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	sweeper.Stop() // Stop the sweeper
	hub.Stop()     // Close websocket connections

	log.Info().Msg("Server exiting")
}
