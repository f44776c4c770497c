package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"coursetrack/middleware"
	"coursetrack/models"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed JWT for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetUint("user-id")
		role, _ := cmd.Flags().GetString("role")
		name, _ := cmd.Flags().GetString("name")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		switch role {
		case models.RoleStudent, models.RoleTeacher, models.RoleAdmin:
		default:
			return fmt.Errorf("unknown role %q", role)
		}

		cfg, _, err := setup(cmd)
		if err != nil {
			return err
		}
		token, err := middleware.GenerateJWT(cfg.JWTKey, userID, name, role, "", ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Uint("user-id", 1, "User id to embed")
	tokenCmd.Flags().String("role", models.RoleStudent, "student, teacher or admin")
	tokenCmd.Flags().String("name", "Dev User", "Display name")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
}
