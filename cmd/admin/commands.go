package main

import (
	"errors"
	"fmt"

	"emergency-center-scheduler/internal/app"
	"emergency-center-scheduler/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openDatabase(); err != nil {
			return err
		}
		log.Info("migration complete", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}

var (
	flagAdminEmail     string
	flagAdminPassword  string
	flagAdminFirstName string
	flagAdminLastName  string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an approved admin account if the email is unused",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email := flagAdminEmail
		if email == "" {
			email = cfg.Admin.Email
		}
		password := flagAdminPassword
		if password == "" {
			password = cfg.Admin.Password
		}
		if email == "" || password == "" {
			return errors.New("--email and --password (or ADMIN_EMAIL and ADMIN_PASSWORD) are required")
		}

		container, err := newContainer()
		if err != nil {
			return err
		}
		created, err := container.Auth.EnsureAdmin(email, password, flagAdminFirstName, flagAdminLastName)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", service.NormalizeEmail(email))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, nothing to do\n", service.NormalizeEmail(email))
		}
		return nil
	},
}

var purgeTokensCmd = &cobra.Command{
	Use:   "purge-tokens",
	Short: "Delete expired or revoked refresh tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := newContainer()
		if err != nil {
			return err
		}
		purged := container.Worker.PurgeOnce()
		fmt.Fprintf(cmd.OutOrStdout(), "purged %d refresh tokens\n", purged)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&flagAdminEmail, "email", "", "Admin email (default: ADMIN_EMAIL)")
	createAdminCmd.Flags().StringVar(&flagAdminPassword, "password", "", "Admin password (default: ADMIN_PASSWORD)")
	createAdminCmd.Flags().StringVar(&flagAdminFirstName, "first-name", "Admin", "First name")
	createAdminCmd.Flags().StringVar(&flagAdminLastName, "last-name", "User", "Last name")
}

func newContainer() (*app.Container, error) {
	db, err := openDatabase()
	if err != nil {
		return nil, err
	}
	return app.NewContainer(db, cfg, service.NewCalendar(cfg.Schedule.Location), log), nil
}
