package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"blog-backend/pkg/container"
)

// RootCmd is the blog administration tool. It talks to the same database,
// cache and object storage as the API and processes images inline.
var RootCmd = &cobra.Command{
	Use:           "blog-admin [command]",
	Short:         "Administer groups, posts, users and the page cache",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var commandTimeout time.Duration

func init() {
	RootCmd.PersistentFlags().DurationVar(&commandTimeout, "timeout", 5*time.Minute, "abort the command after this long")
}

// withContainer runs fn against a fully wired container.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *container.Container) error) error {
	c, err := container.NewContainer(container.Options{})
	if err != nil {
		return err
	}
	defer c.Cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	return fn(ctx, c)
}
