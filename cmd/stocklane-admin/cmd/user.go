package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stocklane/api/internal/app"
	"github.com/stocklane/api/internal/infra/postgres"
	"github.com/stocklane/api/pkg/password"
)

var (
	userCompanyID string
	userEmail     string
	userName      string
	userPassword  string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newAdminEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		hasher := password.NewHasher(env.cfg.Auth.BcryptCost)
		svc := app.NewAuthService(postgres.NewUserRepository(env.db), hasher, nil, env.log)

		u, err := svc.Register(cmd.Context(), app.RegisterInput{
			CompanyID: userCompanyID,
			Email:     userEmail,
			Name:      userName,
			Password:  userPassword,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created user %s (%s)\n", u.ID(), u.Email())
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userCompanyID, "company", "", "Company ID (required)")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address (required)")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name (required)")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Initial password (required)")
	_ = userCreateCmd.MarkFlagRequired("company")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
}
