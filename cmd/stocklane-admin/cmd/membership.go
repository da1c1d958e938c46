package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stocklane/api/internal/app"
	"github.com/stocklane/api/internal/infra/postgres"
	"github.com/stocklane/api/pkg/domain/shared"
)

var (
	membershipUserID      string
	membershipTenantID    string
	membershipPermissions []string
)

var membershipCmd = &cobra.Command{
	Use:   "membership",
	Short: "Manage tenant memberships",
}

func newMembershipService(env *adminEnv) *app.TenantService {
	return app.NewTenantService(
		postgres.NewTenantRepository(env.db),
		postgres.NewUserRepository(env.db),
		nil,
		nil,
		env.log,
	)
}

var membershipGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant a user access to a tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newAdminEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		m, err := newMembershipService(env).AssignMembership(cmd.Context(), shared.ID{}, app.AssignMembershipInput{
			UserID:      membershipUserID,
			TenantID:    membershipTenantID,
			Permissions: membershipPermissions,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Granted membership %s (user %s, tenant %s)\n", m.ID(), m.UserID(), m.TenantID())
		return nil
	},
}

var membershipRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke a user's access to a tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := shared.IDFromString(membershipUserID)
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		tenantID, err := shared.IDFromString(membershipTenantID)
		if err != nil {
			return fmt.Errorf("invalid tenant id: %w", err)
		}

		env, cleanup, err := newAdminEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := newMembershipService(env).RevokeMembership(cmd.Context(), shared.ID{}, userID, tenantID); err != nil {
			return err
		}

		fmt.Printf("Revoked membership (user %s, tenant %s)\n", userID, tenantID)
		return nil
	},
}

var membershipSwitchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Switch a user's current tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := shared.IDFromString(membershipUserID)
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		tenantID, err := shared.IDFromString(membershipTenantID)
		if err != nil {
			return fmt.Errorf("invalid tenant id: %w", err)
		}

		env, cleanup, err := newAdminEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := newMembershipService(env).SwitchTenant(cmd.Context(), userID, tenantID); err != nil {
			return err
		}

		fmt.Printf("Switched user %s to tenant %s\n", userID, tenantID)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{membershipGrantCmd, membershipRevokeCmd, membershipSwitchCmd} {
		c.Flags().StringVar(&membershipUserID, "user", "", "User ID (required)")
		c.Flags().StringVar(&membershipTenantID, "tenant", "", "Tenant ID (required)")
		_ = c.MarkFlagRequired("user")
		_ = c.MarkFlagRequired("tenant")
	}
	membershipGrantCmd.Flags().StringSliceVar(&membershipPermissions, "permissions", nil, "Extra permission grants for this tenant")

	membershipCmd.AddCommand(membershipGrantCmd)
	membershipCmd.AddCommand(membershipRevokeCmd)
	membershipCmd.AddCommand(membershipSwitchCmd)
}
