// Package main is the entry point for the stock movement report API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockreport/internal/app"
	v1 "stockreport/internal/infrastructure/http/v1"
	"stockreport/pkg/config"
	"stockreport/pkg/logger"
)

const version = "0.1.0"

func main() {
	demo := flag.Bool("demo", false, "serve the built-in demo dataset instead of the database")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting stockreport server", "env", cfg.App.Env, "version", version)

	a, err := app.New(ctx, cfg, *demo)
	if err != nil {
		log.Fatalw("failed to initialize", "error", err)
	}
	defer a.Close()

	routerCfg := v1.RouterConfig{
		Logger:  log,
		Reports: a.Reports,
		Version: version,
	}
	if a.DB != nil {
		routerCfg.DB = a.DB
	}
	if a.JWT != nil {
		routerCfg.JWTValidator = a.JWT
	} else {
		log.Warn("JWT_SECRET not set, report endpoints are unauthenticated")
	}
	router := v1.NewRouter(routerCfg)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Report.StatementTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Reports in flight get the statement timeout to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Report.StatementTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	if a.DB != nil {
		a.DB.LogStats(ctx)
	}
	log.Info("server stopped")
}
