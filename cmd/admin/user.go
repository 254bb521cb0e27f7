package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"blog-backend/pkg/container"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users"},
	Short:   "Manage accounts",
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete an account with its posts, comments and follows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *container.Container) error {
			if err := c.UserService.DeleteByUsername(ctx, args[0]); err != nil {
				return err
			}
			if err := invalidatePages(ctx, cmd, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])
			return nil
		})
	},
}

func init() {
	userCmd.AddCommand(userDeleteCmd)
	RootCmd.AddCommand(userCmd)
}
