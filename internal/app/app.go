// Package app wires the report service from configuration for the server
// and the command line tool.
package app

import (
	"context"
	"fmt"

	"stockreport/internal/domain/auth"
	"stockreport/internal/domain/reports"
	"stockreport/internal/infrastructure/objectstore"
	"stockreport/internal/infrastructure/pdf"
	"stockreport/internal/infrastructure/storage/memory"
	"stockreport/internal/infrastructure/storage/postgres"
	"stockreport/internal/infrastructure/storage/postgres/report_repo"
	"stockreport/internal/infrastructure/xlsx"
	"stockreport/pkg/config"
	"stockreport/pkg/logger"
)

// App holds the wired components.
type App struct {
	Reports *reports.Service
	// DB is nil when the in-memory demo store is used.
	DB  *postgres.Pool
	JWT *auth.JWTService
}

// New connects the record store and the artifact store. With demo set, or
// without DATABASE_URL, reports run against the built-in demo dataset.
func New(ctx context.Context, cfg *config.Config, demo bool) (*App, error) {
	a := &App{}
	logCtx := logger.WithComponent(ctx, "app")

	var (
		store   reports.Store
		journal reports.Journal
	)
	if demo || cfg.DB.URL == "" {
		logger.Warn(logCtx, "using in-memory demo dataset")
		store = memory.New(memory.Demo())
		journal = memory.NewJournal(100)
	} else {
		poolCfg := postgres.DefaultPoolConfig(cfg.DB.URL)
		poolCfg.MaxConns = int32(cfg.DB.MaxConns)
		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			return nil, err
		}
		a.DB = pool

		txm := postgres.NewTxManager(pool)
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, txm); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		store = report_repo.NewStore(txm, cfg.Report.StatementTimeout, cfg.Report.Lang)
		runs, err := postgres.NewRunJournal(txm, 0)
		if err != nil {
			pool.Close()
			return nil, err
		}
		journal = runs
		logger.Info(logCtx, "database connection established", "max_conns", poolCfg.MaxConns)
	}

	artifacts, err := newArtifactStore(logCtx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	var renderer reports.Renderer = xlsx.New(xlsx.Options{CurrencyFormat: cfg.Report.CurrencyFormat})
	if cfg.Report.Format == config.FormatPDF {
		renderer = pdf.New(pdf.Options{CurrencyPrefix: cfg.Report.CurrencyPrefix})
	}
	a.Reports = reports.NewService(store, renderer, artifacts, reports.NewAssembler(cfg.Report.Workers)).
		WithJournal(journal)

	if cfg.JWT.Secret != "" {
		jwtCfg := auth.DefaultJWTConfig(cfg.JWT.Secret)
		jwtCfg.Issuer = cfg.JWT.Issuer
		a.JWT = auth.NewJWTService(jwtCfg)
	}
	return a, nil
}

func newArtifactStore(ctx context.Context, cfg *config.Config) (reports.ArtifactStore, error) {
	switch cfg.Artifact.Backend {
	case config.BackendS3:
		logger.Info(ctx, "storing reports in s3", "bucket", cfg.Artifact.S3Bucket, "prefix", cfg.Artifact.S3Prefix)
		return objectstore.NewS3(ctx, objectstore.S3Config{
			Bucket:  cfg.Artifact.S3Bucket,
			Prefix:  cfg.Artifact.S3Prefix,
			Region:  cfg.Artifact.S3Region,
			Profile: cfg.Artifact.S3Profile,
			URLTTL:  cfg.Artifact.URLTTL,
		})
	default:
		logger.Info(ctx, "storing reports on disk", "dir", cfg.Artifact.Dir)
		return objectstore.NewLocal(cfg.Artifact.Dir, cfg.HTTP.PublicBaseURL)
	}
}

// Close releases the database pool.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
