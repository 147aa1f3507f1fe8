package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"restoplan/internal/http/handlers"
	httpapi "restoplan/internal/http/httpapi"
	"restoplan/internal/infra"
	"restoplan/internal/infra/geoip"
	"restoplan/internal/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogFile)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	var lookup middleware.CountryLookup
	countries, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if countries != nil {
		defer countries.Close()
		lookup = countries.Country
	}

	runner := infra.NewSQLRunner(dbpool, logger)
	app := handlers.NewApp(cfg, logger, runner)
	router := httpapi.NewRouter(app, lookup)
	server := infra.NewHTTPServer(cfg, router, logger)

	if !cfg.ResetEnabled() {
		logger.Info().Msg("RESET_DB_TOKEN not set; reset-db route disabled")
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
