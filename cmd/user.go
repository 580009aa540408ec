package cmd

import (
	"fmt"

	"github.com/abhisek/studentperf/internal/auth"
	"github.com/abhisek/studentperf/internal/store"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage login accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create a login account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		u, err := auth.New(s.Users(), auth.ConfigFromEnv()).AddUser(cmd.Context(), args[0], password, role)
		if err != nil {
			return fmt.Errorf("add user: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s account %q\n", u.Role, u.Username)
		return nil
	},
}

func init() {
	userAddCmd.Flags().String("password", "", "Password (at least 6 characters)")
	userAddCmd.Flags().String("role", store.RoleTeacher, "Role: admin or teacher")
	_ = userAddCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userAddCmd)
}
