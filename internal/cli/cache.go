package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitlanes/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the feed, layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached feed, layout and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := c.Config.Cache
			switch cc.Backend {
			case cache.BackendRedis:
				printWarning("Redis entries expire on their own (ttl %s)", cc.TTL)
				return nil
			case cache.BackendNone:
				printInfo("Caching is disabled")
				return nil
			}

			if _, err := os.Stat(cc.Dir); errors.Is(err, fs.ErrNotExist) {
				printInfo("Cache is empty")
				return nil
			}
			fc, err := cache.NewFileCache(cc.Dir)
			if err != nil {
				return err
			}
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared cache")
			printDetail("Directory: %s", cc.Dir)
			return nil
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand for the bolt backend.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop expired entries from the bolt cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := c.Config.Cache
			if cc.Backend != cache.BackendBolt {
				printInfo("Only the bolt backend needs pruning; %s entries expire when read", cc.Backend)
				return nil
			}
			bc, err := cache.NewBoltCache(filepath.Join(cc.Dir, cache.BoltFile))
			if err != nil {
				return err
			}
			defer bc.Close()

			n, err := bc.Prune()
			if err != nil {
				return fmt.Errorf("prune cache: %w", err)
			}
			printSuccess("Pruned %d expired entries", n)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.Config.Cache.Dir)
			return nil
		},
	}
}
