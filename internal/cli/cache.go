package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/octomap/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// clearer is implemented by every backend that can drop all entries.
type clearer interface {
	Clear(ctx context.Context) error
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and conflict listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ch, err := cache.Open(cmd.Context(), cfg.Cache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			switch ch := ch.(type) {
			case *cache.FileCache:
				if err := ch.Clear(); err != nil {
					return err
				}
				printSuccess("Cleared file cache")
				printDetail("Directory: %s", ch.Dir())
			case clearer:
				if err := ch.Clear(cmd.Context()); err != nil {
					return err
				}
				printSuccess("Cleared %s cache", cfg.Cache.Backend)
			default:
				printInfo("Cache is disabled")
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(cacheLocation(cfg.Cache))
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory for the file
// cache, an address for the network backends.
func cacheLocation(cfg cache.Config) string {
	switch cfg.Backend {
	case cache.BackendNone:
		return "(disabled)"
	case cache.BackendRedis:
		return "redis://" + cfg.RedisAddr
	case cache.BackendMongo:
		return cfg.MongoURI
	}
	if cfg.Dir != "" {
		return cfg.Dir
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return "(unavailable)"
	}
	return dir
}
