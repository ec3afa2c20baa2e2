package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	gameCfg, err := loadGameConfig(cfg.GameConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load game config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	docs, closeStore, err := setupStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup document store")
	}
	defer closeStore()

	publisher, err := setupPublisher(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup event publisher")
	}
	defer publisher.Close()

	services := setupServices(docs, publisher, cfg, gameCfg)
	defer services.Timers.Close()

	server := setupServer(cfg, services)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return services.Orchestrator.Run(gctx)
	})
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("game server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case <-gctx.Done():
		log.Error().Msg("server component stopped unexpectedly")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	cancel()

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("game server exited with error")
	}
	log.Info().Msg("game server shutdown complete")
}
