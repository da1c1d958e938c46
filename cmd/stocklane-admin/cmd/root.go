// Package cmd implements the stocklane-admin CLI. Commands talk to the
// database directly and are meant for operators, not tenants.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stocklane/api/internal/config"
	"github.com/stocklane/api/internal/infra/postgres"
	"github.com/stocklane/api/pkg/logger"
)

var version string

var rootCmd = &cobra.Command{
	Use:   "stocklane-admin",
	Short: "Stocklane platform administration CLI",
	Long: `stocklane-admin manages tenants, users, roles, and the permission
catalog directly against the database.

Database connection settings come from the same DB_* environment
variables the server uses.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the CLI version from build flags.
func SetVersion(v string) {
	version = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(tenantCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(roleCmd)
	rootCmd.AddCommand(permissionCmd)
	rootCmd.AddCommand(membershipCmd)
}

// adminEnv bundles the connections a command needs.
type adminEnv struct {
	cfg *config.Config
	db  *postgres.DB
	log *logger.Logger
}

func newAdminEnv() (*adminEnv, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.Config{Level: "warn", Format: "text"})

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	cleanup := func() {
		_ = db.Close()
	}
	return &adminEnv{cfg: cfg, db: db, log: log}, cleanup, nil
}
