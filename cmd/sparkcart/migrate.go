package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/spark_cart/internal/config"
	"github.com/Skotchmaster/spark_cart/internal/repo"
	pkgconfig "github.com/Skotchmaster/spark_cart/pkg/config"
	pkgdb "github.com/Skotchmaster/spark_cart/pkg/db"
	"github.com/Skotchmaster/spark_cart/pkg/logging"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and the vote notification trigger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadEnv()
			cfg := pkgconfig.Load()
			pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
			l := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := (&repo.GormRepo{DB: db}).Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			l.Info("migrate_done")
			return nil
		},
	}
}
