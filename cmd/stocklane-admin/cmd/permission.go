package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stocklane/api/internal/app"
	"github.com/stocklane/api/internal/infra/postgres"
	"github.com/stocklane/api/pkg/domain/shared"
)

var (
	permissionName        string
	permissionGuard       string
	permissionDescription string
)

// defaultCatalog is the starter permission set seeded for new
// deployments.
var defaultCatalog = []string{
	"products_view", "products_create", "products_edit", "products_delete", "products_manage",
	"sales_view", "sales_create", "sales_edit", "sales_delete",
	"purchases_view", "purchases_create", "purchases_edit",
	"reports_view",
	"settings_view", "settings_manage",
}

var permissionCmd = &cobra.Command{
	Use:   "permission",
	Short: "Manage the permission catalog",
}

var permissionDefineCmd = &cobra.Command{
	Use:   "define",
	Short: "Define a permission",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newAdminEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		svc := app.NewPermissionService(postgres.NewPermissionRepository(env.db), nil, env.log)

		rec, err := svc.DefinePermission(cmd.Context(), shared.ID{}, app.DefinePermissionInput{
			Name:        permissionName,
			Guard:       permissionGuard,
			Description: permissionDescription,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Defined permission %s (module %s)\n", rec.Name(), rec.Module())
		return nil
	},
}

var permissionSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the default permission catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newAdminEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		svc := app.NewPermissionService(postgres.NewPermissionRepository(env.db), nil, env.log)

		var created, skipped int
		for _, name := range defaultCatalog {
			_, err := svc.DefinePermission(cmd.Context(), shared.ID{}, app.DefinePermissionInput{Name: name})
			if err != nil {
				if shared.IsAlreadyExists(err) {
					skipped++
					continue
				}
				return err
			}
			created++
		}

		fmt.Printf("Seeded catalog: %d created, %d already present\n", created, skipped)
		return nil
	},
}

var permissionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the permission catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newAdminEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		records, err := postgres.NewPermissionRepository(env.db).List(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MODULE\tNAME\tGUARD")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\n", rec.Module(), rec.Name(), rec.Guard())
		}
		return w.Flush()
	},
}

func init() {
	permissionDefineCmd.Flags().StringVar(&permissionName, "name", "", "Permission name, e.g. products_view (required)")
	permissionDefineCmd.Flags().StringVar(&permissionGuard, "guard", "", "Guard (defaults to api)")
	permissionDefineCmd.Flags().StringVar(&permissionDescription, "description", "", "Description")
	_ = permissionDefineCmd.MarkFlagRequired("name")

	permissionCmd.AddCommand(permissionDefineCmd)
	permissionCmd.AddCommand(permissionSeedCmd)
	permissionCmd.AddCommand(permissionListCmd)
}
