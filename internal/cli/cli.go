// Package cli implements the maffei command-line interface.
//
// The commands serve the studio site, compute and export the home gallery
// layout, preview the gallery in the terminal, and manage the layout cache.
// Every command shares one logger, configured from --verbose or log.level.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/woodfordbl/maffei-design/internal/config"
	"github.com/woodfordbl/maffei-design/pkg/buildinfo"
	"github.com/woodfordbl/maffei-design/pkg/cache"
	"github.com/woodfordbl/maffei-design/pkg/content"
	"github.com/woodfordbl/maffei-design/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "maffei"

	// redisKeyPrefix namespaces cache keys in a shared Redis.
	redisKeyPrefix = "maffei:"
)

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
	verbose    bool
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
		Short:        "Maffei Design studio site and gallery tools",
		Long:         `maffei serves the Maffei Design studio site and packs its portfolio gallery into justified rows for the web, PDF, spreadsheets and the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultFile+" if present)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.collectionsCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// Execute runs the CLI with signal handling, version output and completions.
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return fang.Execute(ctx, c.RootCommand(),
		fang.WithVersion(buildinfo.ResolvedVersion()),
		fang.WithCommit(buildinfo.Commit),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the layered configuration, letting flags registered on
// cmd with config.Bind override it. An explicit --verbose wins over
// log.level.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{Path: c.configPath, Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}
	if !c.verbose {
		c.SetLogLevel(cfg.LogLevel())
	}
	return cfg, nil
}

// loadLibrary loads content from path, falling back to the configured
// content file and then the embedded content.
func loadLibrary(path string, cfg *config.Config) (*content.Library, error) {
	if path == "" && cfg != nil {
		path = cfg.Site.Content
	}
	return content.Load(path)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, newKeyer(cfg, noCache), c.Logger), nil
}

// newKeyer namespaces keys under redisKeyPrefix when the cache is a shared
// Redis. Other backends use the default keyer.
func newKeyer(cfg *config.Config, noCache bool) cache.Keyer {
	if noCache || cfg.Cache.Backend != config.CacheRedis {
		return nil
	}
	return cache.NewScopedKeyer(nil, redisKeyPrefix)
}

// newCache opens the configured cache backend. An unusable file cache
// directory degrades to no caching.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		return cache.NewMemoryCache(cfg.Cache.MemoryEntries), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}

	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache directory unusable, caching disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/maffei/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
