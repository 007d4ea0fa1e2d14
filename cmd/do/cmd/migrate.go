package cmd

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/templui/bikeshare/internal/config"
	"github.com/templui/bikeshare/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the users database schema",
	}

	cmd.AddCommand(
		migrateSubCmd("up", "Apply all pending migrations", db.RunMigrations),
		migrateSubCmd("down", "Roll back the latest migration", db.MigrateDown),
		&cobra.Command{
			Use:   "status",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(database *sqlx.DB, driver string) error {
					version, err := db.MigrationVersion(database.DB, driver)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s schema version: %d\n", driver, version)
					return nil
				})
			},
		},
	)

	return cmd
}

func migrateSubCmd(use, short string, run func(*sql.DB, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(database *sqlx.DB, driver string) error {
				return run(database.DB, driver)
			})
		},
	}
}

// withDB opens the database configured by the environment
func withDB(fn func(database *sqlx.DB, driver string) error) error {
	cfg := config.Load()

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close(database) }()

	return fn(database, cfg.DBDriver)
}
