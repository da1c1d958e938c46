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
	tenantCompanyID string
	tenantName      string
	tenantCode      string
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage tenants",
}

var tenantCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newAdminEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		svc := app.NewTenantService(
			postgres.NewTenantRepository(env.db),
			postgres.NewUserRepository(env.db),
			nil,
			nil,
			env.log,
		)

		t, err := svc.CreateTenant(cmd.Context(), shared.ID{}, app.CreateTenantInput{
			CompanyID: tenantCompanyID,
			Name:      tenantName,
			Code:      tenantCode,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created tenant %s (code %s)\n", t.ID(), t.Code())
		return nil
	},
}

var tenantListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tenants of a company",
	RunE: func(cmd *cobra.Command, args []string) error {
		companyID, err := shared.IDFromString(tenantCompanyID)
		if err != nil {
			return fmt.Errorf("invalid company id: %w", err)
		}

		env, cleanup, err := newAdminEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		tenants, err := postgres.NewTenantRepository(env.db).ListByCompany(cmd.Context(), companyID)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCODE\tNAME\tCREATED")
		for _, t := range tenants {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID(), t.Code(), t.Name(), t.CreatedAt().Format("2006-01-02"))
		}
		return w.Flush()
	},
}

func init() {
	tenantCreateCmd.Flags().StringVar(&tenantCompanyID, "company", "", "Company ID (required)")
	tenantCreateCmd.Flags().StringVar(&tenantName, "name", "", "Tenant name (required)")
	tenantCreateCmd.Flags().StringVar(&tenantCode, "code", "", "Tenant code (derived from name when omitted)")
	_ = tenantCreateCmd.MarkFlagRequired("company")
	_ = tenantCreateCmd.MarkFlagRequired("name")

	tenantListCmd.Flags().StringVar(&tenantCompanyID, "company", "", "Company ID (required)")
	_ = tenantListCmd.MarkFlagRequired("company")

	tenantCmd.AddCommand(tenantCreateCmd)
	tenantCmd.AddCommand(tenantListCmd)
}
