/*
Package main is the entry point for the LiveLinks token service.

It is responsible for loading configuration, initializing the global logging system,
connecting the database pool, wiring the identity, authorization, and signing
collaborators into the HTTP handlers, and gracefully handling operating system
interrupt signals (SIGINT, SIGTERM) for a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/authz"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/db"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/identity"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/store"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/app/token"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/configs"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/handler"
	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("signing_configured", cfg.SigningConfigured()).
		Msg("Configuration loaded successfully")

	if !cfg.SigningConfigured() {
		// Deliberately not fatal: the token route fails every request with a
		// token_sign error until the credentials are fixed, but the service
		// stays up for health checks and eligibility reads.
		logx.Warn("LiveKit signing credentials are missing; token requests will fail until LIVEKIT_URL, LIVEKIT_API_KEY, and LIVEKIT_API_SECRET are set")
	}

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	dataStore := store.New(pool)

	deps := &handler.AppDeps{
		Config:   cfg,
		Identity: identity.NewHTTPProvider(cfg.IdentityURL, cfg.IdentityAnonKey),
		Resolver: authz.NewResolver(dataStore, dataStore, dataStore),
		Signer:   token.NewHMACSigner(cfg.LiveKitAPIKey, cfg.LiveKitAPISecret),
		Caps:     dataStore,
		Profiles: dataStore,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("LiveLinks token service starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
