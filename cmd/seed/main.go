// Package main loads the demo dataset into the report database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"stockreport/internal/infrastructure/storage/memory"
	"stockreport/internal/infrastructure/storage/postgres"
	"stockreport/pkg/config"
	"stockreport/pkg/logger"
)

func main() {
	migrate := flag.Bool("migrate", true, "apply schema migrations before loading")
	flag.Parse()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}
	if cfg.DB.URL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx := logger.WithLogger(context.Background(), log)

	poolCfg := postgres.DefaultPoolConfig(cfg.DB.URL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txm := postgres.NewTxManager(pool)
	if *migrate {
		if err := postgres.Migrate(ctx, txm); err != nil {
			log.Fatalw("failed to migrate", "error", err)
		}
	}

	if err := seedDemo(ctx, txm, memory.Demo()); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Info("seeding completed successfully")
}

func seedDemo(ctx context.Context, txm *postgres.TxManager, data memory.Dataset) error {
	inserter := postgres.NewBatchInserter(txm)
	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		counts, err := inserter.Copy(ctx, tables(data))
		if err != nil {
			return err
		}
		for table, n := range counts {
			logger.Info(ctx, "loaded table", "table", table, "rows", n)
		}
		return inserter.ResetSequences(ctx, sequenceTables)
	})
}
