package main

import (
	"fmt"
	"os"

	"emergency-center-scheduler/internal/config"
	"emergency-center-scheduler/internal/database"
	"emergency-center-scheduler/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ecs-admin",
	Short: "Maintenance commands for the emergency center scheduler",
	Long: `ecs-admin runs operator tasks against the scheduler database using the
same environment configuration as the server.

  ecs-admin migrate                  Create or update tables
  ecs-admin create-admin --email X   Seed an approved admin account
  ecs-admin purge-tokens             Delete expired or revoked refresh tokens`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.LoadConfig()
		var err error
		log, err = logging.New(cfg.Server.GinMode)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, createAdminCmd, purgeTokensCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// openDatabase connects and migrates so every command sees the current schema
func openDatabase() (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return db, nil
}
