package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"blog-backend/internal/domains/group"
	"blog-backend/pkg/container"
)

var groupCmd = &cobra.Command{
	Use:     "group",
	Aliases: []string{"groups"},
	Short:   "Manage community groups",
}

var newGroup group.CreateGroupRequest

var groupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *container.Container) error {
			g, err := c.GroupService.Create(ctx, newGroup)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created group %d (%s)\n", g.ID, g.Slug)
			return nil
		})
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *container.Container) error {
			groups, err := c.GroupService.List(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSLUG\tTITLE")
			for _, g := range groups {
				fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
			}
			return w.Flush()
		})
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete a group; its posts stay without a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *container.Container) error {
			if err := c.GroupService.Delete(ctx, args[0]); err != nil {
				return err
			}
			// Cached index pages may still show the group.
			if err := invalidatePages(ctx, cmd, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %s\n", args[0])
			return nil
		})
	},
}

var groupImportCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Create groups from a workbook with columns title, slug, description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		return withContainer(cmd, func(ctx context.Context, c *container.Container) error {
			result, err := c.GroupService.Import(ctx, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.Success {
				for _, e := range result.Errors {
					fmt.Fprintf(out, "row %d: %s: %s\n", e.Row, e.Field, e.Error)
				}
				return fmt.Errorf("import rejected: %d error(s) in %d row(s)", len(result.Errors), result.TotalRows)
			}

			fmt.Fprintf(out, "Imported %d group(s)\n", len(result.Created))
			return nil
		})
	},
}

func init() {
	groupCreateCmd.Flags().StringVar(&newGroup.Title, "title", "", "group title")
	groupCreateCmd.Flags().StringVar(&newGroup.Slug, "slug", "", "URL slug, derived from the title when empty")
	groupCreateCmd.Flags().StringVar(&newGroup.Description, "description", "", "group description")
	_ = groupCreateCmd.MarkFlagRequired("title")

	groupCmd.AddCommand(groupCreateCmd, groupListCmd, groupDeleteCmd, groupImportCmd)
	RootCmd.AddCommand(groupCmd)
}
