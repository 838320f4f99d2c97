package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/heritage-atlas/heritage-api/internal/models"
	"github.com/spf13/cobra"
)

var (
	userName     string
	userEmail    string
	userPassword string
	userRole     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account, typically the first admin",
	Long: `Create an account directly in the database.

The password is read from --password or, when omitted, from HERITAGE_PASSWORD.

Examples:
  heritagectl user create --name "Site Admin" --email admin@example.org --role admin`,
	RunE: runUserCreate,
}

func init() {
	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Login email")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password (default $HERITAGE_PASSWORD)")
	userCreateCmd.Flags().StringVar(&userRole, "role", models.RoleAdmin, "Role: admin or user")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("name")
	userCmd.AddCommand(userCreateCmd)
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	pw := userPassword
	if pw == "" {
		pw = os.Getenv("HERITAGE_PASSWORD")
	}
	if pw == "" {
		return errors.New("password required: pass --password or set HERITAGE_PASSWORD")
	}
	u, err := userSvc.Register(cmd.Context(), userName, userEmail, pw, userRole)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", u.Role, u.Email, u.ID)
	return nil
}
