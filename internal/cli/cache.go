package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barchart/pkg/cache"
	"github.com/matzehuels/barchart/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the aggregated table cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. It clears
// whichever backend the flags and config select.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			store, err := c.newCache(ctx, cfg.Cache)
			if err != nil {
				return err
			}
			defer store.Close()

			if _, ok := store.(cache.NullCache); ok {
				printInfo("Cache is disabled")
				return nil
			}
			clearer, ok := store.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeInternal, "cache backend %T cannot be cleared", store)
			}

			spin := newSpinnerWithContext(ctx, "Clearing cache...")
			spin.Start()
			n, err := clearer.Clear(ctx)
			if err != nil {
				spin.StopWithError("Cache clear failed")
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}
			spin.StopWithSuccess(fmt.Sprintf("Cleared %d cached tables", n))
			if fc, ok := store.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
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
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
