package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"blog-backend/internal/shared/middleware"
	"blog-backend/pkg/container"
)

// errLocalPageCache is returned when the page cache lives inside the API
// process, where this tool cannot reach it.
var errLocalPageCache = errors.New("CACHE_DRIVER=memory keeps pages inside the API process; restart the API to drop them")

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the page cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *container.Container) error {
			if err := clearPageCache(ctx, c); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Page cache cleared")
			return nil
		})
	},
}

func clearPageCache(ctx context.Context, c *container.Container) error {
	if c.Config.Cache.Driver == "memory" {
		return errLocalPageCache
	}
	return middleware.ClearPages(ctx, c.Cache)
}

// invalidatePages runs after a successful delete. A process-local cache
// only earns a warning since the delete itself already happened.
func invalidatePages(ctx context.Context, cmd *cobra.Command, c *container.Container) error {
	err := clearPageCache(ctx, c)
	if errors.Is(err, errLocalPageCache) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: page cache not cleared: %v\n", err)
		return nil
	}
	return err
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	RootCmd.AddCommand(cacheCmd)
}
