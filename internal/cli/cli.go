package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barchart/pkg/buildinfo"
	"github.com/matzehuels/barchart/pkg/cache"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/records"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "barchart"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	redisAddr  string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Barchart renders animated bar charts from CSV files",
		Long:         `Barchart aggregates a CSV file by its first column and draws the result as an animated bar chart, either to a file (SVG, PNG, JSON, text) or live in the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "chart config file (TOML)")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the table cache")
	pf.StringVar(&c.redisAddr, "redis", "", "cache tables in redis at host:port instead of on disk")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.measuresCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Loader Factory
// =============================================================================

// newLoader builds the CSV loader for a command. The returned cache must be
// closed by the caller.
func (c *CLI) newLoader(ctx context.Context, cfg cacheConfig) (*records.Loader, cache.Cache, error) {
	store, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	opts := []records.LoaderOption{
		records.WithCache(store),
		records.WithLogger(c.Logger),
	}
	if cfg.TTL.Duration > 0 {
		opts = append(opts, records.WithTTL(cfg.TTL.Duration))
	}
	return records.NewLoader(opts...), store, nil
}

// newCache picks the cache backend. Flags win over the config file. A file
// cache that cannot be created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, cfg cacheConfig) (cache.Cache, error) {
	if c.noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	addr := cfg.Redis
	if c.redisAddr != "" {
		addr = c.redisAddr
	}
	if addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     addr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.Prefix,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeLoad, err, "connect to redis at %s", addr)
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("file cache unavailable", "dir", dir, "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the table cache directory (~/.cache/barchart/ on Linux).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}
