package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stocklane/api/pkg/migrations"
)

var migrateDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newAdminEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		runner := migrations.NewRunner(env.db.DB, migrateDir)
		applied, err := runner.Up(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Applied %d migration(s)\n", applied)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDir, "dir", "migrations", "Migrations directory")
	rootCmd.AddCommand(migrateCmd)
}
