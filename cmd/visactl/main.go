package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"visaconsult/internal/adapters/mail"
	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/config"
	"visaconsult/internal/core/services"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "visactl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "visactl",
		Short:        "Visa Consult maintenance CLI",
		Long:         `visactl runs database maintenance and scheduled jobs against the configured database.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newCreateAdminCmd(),
		newCleanupCmd(),
		newRemindersCmd(),
	)
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := open()
			if err != nil {
				return err
			}
			defer config.CloseDatabase()
			return models.AutoMigrate(db)
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed visa types, default settings and the bootstrap admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cfg, err := open()
			if err != nil {
				return err
			}
			defer config.CloseDatabase()
			if err := models.AutoMigrate(db); err != nil {
				return err
			}
			return config.NewSeeder(db, cfg).Run()
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator or promote an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := open()
			if err != nil {
				return err
			}
			defer config.CloseDatabase()

			admin, err := config.CreateAdmin(db, username, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q ready (id %d)\n", admin.Username, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "admin", "Admin username")
	cmd.Flags().StringVarP(&email, "email", "e", "admin@visaconsult.local", "Admin e-mail")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired and revoked refresh tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			cron, closeAll, err := cronService()
			if err != nil {
				return err
			}
			defer closeAll()

			n, err := cron.PurgeRefreshTokens(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d refresh tokens\n", n)
			return nil
		},
	}
}

func newRemindersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reminders",
		Short: "Send reminders for tomorrow's appointments now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cron, closeAll, err := cronService()
			if err != nil {
				return err
			}
			defer closeAll()

			n, err := cron.SendReminders(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d reminders\n", n)
			return nil
		},
	}
}

func open() (*gorm.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}

// cronService builds the job runner without the blob store, which neither
// job touches
func cronService() (*services.CronService, func(), error) {
	db, cfg, err := open()
	if err != nil {
		return nil, nil, err
	}
	sender, closeSender := mail.NewSender(cfg)
	store := repositories.NewStore(db)
	settings := services.NewSettingsService(store)
	notifications := services.NewNotificationService(store, sender, settings, cfg.AppURL)

	closeAll := func() {
		notifications.Wait()
		closeSender()
		config.CloseDatabase()
	}
	return services.NewCronService(store, notifications, settings), closeAll, nil
}
