package main

import (
	"fmt"

	"go-leave/internal/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "apply the embedded schema migrations",
	}
	migrateRollback bool
	migrateStatus   bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "roll back the latest migration")
	migrateCmd.Flags().BoolVarP(&migrateStatus, "status", "s", false, "print migration status only")
	rootCmd.AddCommand(migrateCmd)
}

func runMigration(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := goose.OpenDBWithDriver("pgx", cfg.DSN())
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	switch {
	case migrateStatus:
		return migrations.Status(ctx, db)
	case migrateRollback:
		logger.Info("rolling back latest migration")
		return migrations.Down(ctx, db)
	default:
		if err := migrations.Up(ctx, db); err != nil {
			return err
		}
		logger.Info("migrations applied")
		return nil
	}
}
