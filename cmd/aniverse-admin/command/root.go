package command

// root.go defines the root command of the admin tool and opens the database
// for every subcommand.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"aniverse/database"
	"aniverse/internal/config"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	db     *gorm.DB
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "aniverse-admin",
	Short: "aniverse-admin - operator tool for the aniverse catalog",
	Long: `aniverse-admin manages the parts of aniverse that have no public endpoint:
granting and revoking the moderator and admin roles, applying database migrations
and importing anime from AniList.

Configuration is read from the environment (and a .env file), same as the API server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("could not load config: %w", err)
		}
		logger = cfg.NewLogger()

		db, err = database.Open(cfg, logger)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db == nil {
			return nil
		}
		return database.Close(db)
	},
}

// Execute runs the root command; called once from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.Migrate(db, logger)
	},
}
