package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/scythe504/rhetoric-frontier/internal/catalog"
	"github.com/scythe504/rhetoric-frontier/internal/database"
	"github.com/scythe504/rhetoric-frontier/internal/game"
	"github.com/scythe504/rhetoric-frontier/internal/logger"
	"github.com/scythe504/rhetoric-frontier/internal/server"
	"github.com/scythe504/rhetoric-frontier/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger.Setup(utils.GetEnvDefault("LOG_LEVEL", "info"), utils.GetEnvDefault("LOG_FORMAT", "console"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(utils.GetEnvDefault("CATALOG_DIR", "data"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalogs")
	}

	var db database.Service
	opts := []game.RegistryOption{}
	if dbCfg := database.ConfigFromEnv(); dbCfg.Enabled() {
		db, err = database.New(ctx, dbCfg.ConnString())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		opts = append(opts, game.WithArchive(db))
	} else {
		log.Info().Msg("DB_HOST not set, round archive disabled")
	}

	registry := game.NewRegistry(game.ConfigFromEnv(), cat, opts...)
	httpServer := server.New(registry, db).HTTPServer()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", httpServer.Addr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		registry.Shutdown()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("graceful shutdown complete")
}
