package cmd

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/toolscout/internal/logger"
)

var migrationsPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down]",
	Short: "Apply database schema migrations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if !cfg.Database.Configured() {
			return errors.New("DATABASE_URL must be set to run migrations")
		}

		m, err := migrate.New("file://"+migrationsPath, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("open migrations: %w", err)
		}
		defer func() { _, _ = m.Close() }()

		direction := "up"
		if len(args) == 1 {
			direction = args[0]
		}

		switch direction {
		case "up":
			err = m.Up()
		case "down":
			err = m.Steps(-1)
		default:
			return fmt.Errorf("unknown direction %q (want up or down)", direction)
		}

		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("database schema already up to date")
			return nil
		}
		if err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		log.Info("migrations applied", logger.String("direction", direction))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsPath, "path", "migrations",
		"path to the migrations directory")
	rootCmd.AddCommand(migrateCmd)
}
