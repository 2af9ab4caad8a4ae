package main

import (
	"context"
	"fmt"

	"linkboard/backend/common"
	"linkboard/backend/model"
	"linkboard/backend/service"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the users, links and votes tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		closeStores, err := openStores()
		if err != nil {
			return err
		}
		// InitDB migrates on open
		defer closeStores()
		fmt.Fprintln(cmd.OutOrStdout(), "Database migrations completed.")
		return nil
	},
}

var (
	newUserName     string
	newUserEmail    string
	newUserPassword string
	newUserAdmin    bool
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user who can post links and vote",
	RunE: func(cmd *cobra.Command, args []string) error {
		closeStores, err := openStores()
		if err != nil {
			return err
		}
		defer closeStores()

		role := common.RoleCommonUser
		if newUserAdmin {
			role = common.RoleAdminUser
		}
		users := service.NewUserService(model.NewUserRepository(model.DB))
		user, err := users.CreateUser(context.Background(), service.NewUser{
			Name:     newUserName,
			Email:    newUserEmail,
			Password: newUserPassword,
		}, role)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s)\n", user.ID, user.Email)
		return nil
	},
}

var (
	tokenEmail    string
	tokenPassword string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue or revoke access tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Print a bearer token for the given credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		closeStores, err := openStores()
		if err != nil {
			return err
		}
		defer closeStores()

		users := service.NewUserService(model.NewUserRepository(model.DB))
		token, _, err := users.IssueToken(context.Background(), tokenEmail, tokenPassword)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var tokenRevokeCmd = &cobra.Command{
	Use:   "revoke <token>",
	Short: "Revoke a token until it expires (requires Redis)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := common.InitRedisClient(); err != nil {
			return err
		}
		defer func() { _ = common.CloseRedisClient() }()

		if err := service.RevokeToken(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token revoked.")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), common.Version)
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&newUserName, "name", "", "display name")
	userCreateCmd.Flags().StringVar(&newUserEmail, "email", "", "login email")
	userCreateCmd.Flags().StringVar(&newUserPassword, "password", "", "password, at least 8 characters")
	userCreateCmd.Flags().BoolVar(&newUserAdmin, "admin", false, "create an admin user")
	for _, name := range []string{"name", "email", "password"} {
		_ = userCreateCmd.MarkFlagRequired(name)
	}
	userCmd.AddCommand(userCreateCmd)

	tokenIssueCmd.Flags().StringVar(&tokenEmail, "email", "", "login email")
	tokenIssueCmd.Flags().StringVar(&tokenPassword, "password", "", "password")
	_ = tokenIssueCmd.MarkFlagRequired("email")
	_ = tokenIssueCmd.MarkFlagRequired("password")
	tokenCmd.AddCommand(tokenIssueCmd, tokenRevokeCmd)
}
