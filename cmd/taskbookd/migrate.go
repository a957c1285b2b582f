package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/taskbook/internal/server/db"
	"github.com/cuemby/taskbook/pkg/config"
	"github.com/cuemby/taskbook/pkg/log"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := db.Migrate(cfg.DSN()); err != nil {
			return fmt.Errorf("applying migrations: %w", err)
		}
		log.Logger.Info().Msg("migrations applied")
		return nil
	},
}
