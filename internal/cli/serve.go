package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/woodfordbl/maffei-design/internal/config"
	"github.com/woodfordbl/maffei-design/internal/server"
	"github.com/woodfordbl/maffei-design/pkg/buildinfo"
	"github.com/woodfordbl/maffei-design/pkg/forms"
	"github.com/woodfordbl/maffei-design/pkg/telemetry"
)

// closeTimeout bounds releasing stores after the server stops.
const closeTimeout = 5 * time.Second

// serveCommand creates the command that runs the site.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the studio site",
		Long: `Run the studio site until interrupted.

Configuration is read from maffei.toml (or --config), MAFFEI_* environment
variables and the flags below, later sources winning. On SIGINT or SIGTERM
the server stops accepting connections and waits for in-flight requests.`,
		Example: `  # Serve the embedded content on :3000
  maffei serve

  # Custom content, Redis layout cache, MongoDB form storage
  MAFFEI_CACHE_REDIS_ADDR=localhost:6379 MAFFEI_FORMS_MONGO_URI=mongodb://localhost \
    maffei serve --content site.yaml --cache redis --forms mongo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd)
		},
	}
	config.Bind(cmd.Flags())
	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := c.startTelemetry(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				c.Logger.Warn("telemetry shutdown", "err", err)
			}
		}()
	}

	lib, err := loadLibrary("", cfg)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	runner, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer runner.Close()

	store, err := newFormStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize form store: %w", err)
	}
	svc := forms.NewService(store, c.Logger)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := svc.Close(sctx); err != nil {
			c.Logger.Warn("close form store", "err", err)
		}
	}()

	srv, err := server.New(server.Options{
		Library:      lib,
		Runner:       runner,
		Forms:        svc,
		Logger:       c.Logger,
		SiteURL:      cfg.Site.URL,
		Gap:          &cfg.Gallery.Gap,
		DefaultWidth: cfg.Gallery.DefaultWidth,
	})
	if err != nil {
		return err
	}

	c.Logger.Info("starting",
		"version", buildinfo.ResolvedVersion(),
		"collections", len(lib.Collections),
		"portfolio", len(srv.Items()),
		"cache", cfg.Cache.Backend,
		"forms", cfg.Forms.Backend)
	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
}

func newFormStore(ctx context.Context, cfg *config.Config) (forms.Store, error) {
	if cfg.Forms.Backend == config.FormsMongo {
		ms, err := forms.NewMongoStore(ctx, forms.MongoConfig{
			URI:      cfg.Forms.MongoURI,
			Database: cfg.Forms.MongoDatabase,
		})
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	return forms.NewMemoryStore(), nil
}

func (c *CLI) startTelemetry(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    appName,
		ServiceVersion: buildinfo.ResolvedVersion(),
		Endpoint:       cfg.Telemetry.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}
	if err := telemetry.Register(); err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("register telemetry hooks: %w", err)
	}
	c.Logger.Debug("telemetry enabled", "endpoint", cfg.Telemetry.Endpoint)
	return shutdown, nil
}
