package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
)

func migrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the checkout ledger migrations to DATABASE_DSN",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configFile)
			if err != nil {
				return err
			}
			if cfg.DatabaseDSN == "" {
				return errors.New("DATABASE_DSN is not set")
			}
			return db.RunMigrations(cfg.DatabaseDSN, logger)
		},
	}
}
