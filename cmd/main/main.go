package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace-recon/internal/catalogue"
	"marketplace-recon/internal/config"
	"marketplace-recon/internal/match"
	serverhttp "marketplace-recon/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	store := catalogue.Open(cfg.CataloguePath, logger)

	rules, err := match.LoadRules(cfg.RulesPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.RulesPath).Msg("rules file unusable, running on defaults")
		rules = match.DefaultRules()
	}
	matcher := match.New(store, rules, cfg.MatchThreshold, logger)

	r := serverhttp.NewRouter(cfg, store, matcher, logger)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().
		Str("addr", cfg.Addr()).
		Int("products", store.Len()).
		Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
