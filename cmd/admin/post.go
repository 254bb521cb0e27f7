package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"blog-backend/pkg/container"
)

var postCmd = &cobra.Command{
	Use:     "post",
	Aliases: []string{"posts"},
	Short:   "Manage posts",
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a post with its comments and images",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid post id %q", args[0])
		}

		return withContainer(cmd, func(ctx context.Context, c *container.Container) error {
			if err := c.PostService.Delete(ctx, id); err != nil {
				return err
			}
			if err := invalidatePages(ctx, cmd, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted post %d\n", id)
			return nil
		})
	},
}

var exportPath string

var postExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every post to an xlsx workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Create(exportPath)
		if err != nil {
			return err
		}
		defer f.Close()

		return withContainer(cmd, func(ctx context.Context, c *container.Container) error {
			n, err := c.PostService.Export(ctx, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d post(s) to %s\n", n, exportPath)
			return nil
		})
	},
}

func init() {
	postExportCmd.Flags().StringVarP(&exportPath, "out", "o", "posts.xlsx", "output file")

	postCmd.AddCommand(postDeleteCmd, postExportCmd)
	RootCmd.AddCommand(postCmd)
}
