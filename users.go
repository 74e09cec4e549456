package main

import (
	"github.com/spf13/cobra"
)

// newUsersCmd groups the tenant-user subcommands.
func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Work with tenant users",
	}

	cmd.AddCommand(newUsersListCmd())

	return cmd
}

func newUsersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tenant users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			users, err := client.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(cmd.OutOrStdout(), users)
			}

			rows := make([][]string, 0, len(users))
			for _, user := range users {
				rows = append(rows, []string{
					user.Email,
					user.DisplayName(),
					user.Role,
				})
			}

			printTable(cmd.OutOrStdout(), []string{"EMAIL", "NAME", "ROLE"}, rows)

			return nil
		},
	}
}
