package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stocklane/api/internal/app"
	"github.com/stocklane/api/internal/infra/postgres"
	"github.com/stocklane/api/pkg/domain/shared"
)

var (
	roleName        string
	roleDescription string
	rolePermissions []string
	roleUserID      string
	roleID          string
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage roles",
}

var roleCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a role",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newAdminEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		svc := app.NewRoleService(
			postgres.NewRoleRepository(env.db),
			postgres.NewUserRepository(env.db),
			nil,
			nil,
			env.log,
		)

		r, err := svc.CreateRole(cmd.Context(), shared.ID{}, app.CreateRoleInput{
			Name:        roleName,
			Description: roleDescription,
			Permissions: rolePermissions,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created role %s (%s)\n", r.ID(), r.Name())
		return nil
	},
}

var roleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newAdminEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		roles, err := postgres.NewRoleRepository(env.db).List(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPERMISSIONS")
		for _, r := range roles {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID(), r.Name(), strings.Join(r.Permissions(), ","))
		}
		return w.Flush()
	},
}

var roleAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign a role to a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		rID, err := shared.IDFromString(roleID)
		if err != nil {
			return fmt.Errorf("invalid role id: %w", err)
		}
		uID, err := shared.IDFromString(roleUserID)
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}

		env, cleanup, err := newAdminEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		svc := app.NewRoleService(
			postgres.NewRoleRepository(env.db),
			postgres.NewUserRepository(env.db),
			nil,
			nil,
			env.log,
		)

		if err := svc.AssignRole(cmd.Context(), shared.ID{}, uID, rID); err != nil {
			return err
		}

		fmt.Printf("Assigned role %s to user %s\n", roleID, roleUserID)
		return nil
	},
}

func init() {
	roleCreateCmd.Flags().StringVar(&roleName, "name", "", "Role name (required)")
	roleCreateCmd.Flags().StringVar(&roleDescription, "description", "", "Role description")
	roleCreateCmd.Flags().StringSliceVar(&rolePermissions, "permissions", nil, "Permission names")
	_ = roleCreateCmd.MarkFlagRequired("name")

	roleAssignCmd.Flags().StringVar(&roleID, "role", "", "Role ID (required)")
	roleAssignCmd.Flags().StringVar(&roleUserID, "user", "", "User ID (required)")
	_ = roleAssignCmd.MarkFlagRequired("role")
	_ = roleAssignCmd.MarkFlagRequired("user")

	roleCmd.AddCommand(roleCreateCmd)
	roleCmd.AddCommand(roleListCmd)
	roleCmd.AddCommand(roleAssignCmd)
}
