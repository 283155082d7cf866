package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/woodfordbl/maffei-design/internal/config"
	"github.com/woodfordbl/maffei-design/pkg/pipeline"
)

// layoutFlags holds the layout command's flag values.
type layoutFlags struct {
	opts    pipeline.Options
	gap     float64
	formats string
	output  string
	noCache bool
}

// layoutCommand creates the layout command for packing and exporting the
// portfolio gallery.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [content.yaml]",
		Short: "Pack the portfolio gallery and export it",
		Long: `Pack the portfolio gallery and export it.

The layout command collects every image marked showInPortfolio from the
content file (the embedded site content by default), packs them into
justified rows at the given width, and writes one file per format:
svg, json, pdf or xlsx.

Layouts and artifacts are cached, so repeated runs with the same content
and options are instant.`,
		Example: `  # SVG at the default 1200px width
  maffei layout

  # Every format at tablet width, written to out/gallery.*
  maffei layout -w 768 -f svg,json,pdf,xlsx -o out/gallery`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runLayout(cmd, input, f)
		},
	}

	flags := cmd.Flags()
	flags.Float64VarP(&f.opts.Width, "width", "w", 0, "container width in pixels (default: gallery.default_width)")
	flags.Float64Var(&f.gap, "gap", 0, "gap between items in pixels (default: gallery.gap)")
	flags.Float64Var(&f.opts.TargetRowHeight, "row-height", 0, "target row height in pixels (default 320)")
	flags.Float64Var(&f.opts.Tolerance, "tolerance", 0, "accepted deviation from the target row height (default 0.35)")
	flags.IntVar(&f.opts.MaxItemsPerRow, "max-per-row", 0, "maximum items per row (default 5)")
	flags.StringVarP(&f.formats, "format", "f", pipeline.FormatSVG, "output formats, comma separated: svg, json, pdf, xlsx")
	flags.StringVarP(&f.output, "output", "o", "gallery", "output path without extension")
	flags.StringVar(&f.opts.Title, "title", "", "document title (default: site name)")
	flags.StringVar(&f.opts.LinkBase, "link-base", "", "base URL for collection links in SVG output (default: site.url)")
	flags.BoolVar(&f.opts.Refresh, "refresh", false, "ignore cached results")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout loads content, runs the pipeline and writes one file per format.
func (c *CLI) runLayout(cmd *cobra.Command, input string, f layoutFlags) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	lib, err := loadLibrary(input, cfg)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	items := lib.Portfolio(c.Logger)

	opts := f.opts
	if cmd.Flags().Changed("gap") {
		gap := f.gap
		opts.Gap = &gap
	}
	if opts.Formats, err = pipeline.ParseFormats(f.formats); err != nil {
		return err
	}
	applyConfigDefaults(&opts, cfg, lib.Site.Name)
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, cfg, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Packing %d items at %.0fpx...", len(items), opts.Width))
	spinner.Start()
	result, err := runner.Execute(ctx, items, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(f.output, opts.Formats, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Layout complete")
	for _, p := range paths {
		printFile(p)
	}
	fmt.Println(layoutStats(result.Stats.Items, result.Stats.Rows, result.Layout.Height, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit))
	printNewline()
	printNextStep("Preview in the terminal", appName+" preview")
	return nil
}

// applyConfigDefaults fills options left unset on the command line from the
// configuration.
func applyConfigDefaults(opts *pipeline.Options, cfg *config.Config, siteName string) {
	if opts.Gap == nil {
		gap := cfg.Gallery.Gap
		opts.Gap = &gap
	}
	if opts.Width == 0 {
		opts.Width = cfg.Gallery.DefaultWidth
	}
	if opts.Title == "" {
		opts.Title = siteName
	}
	if opts.LinkBase == "" {
		opts.LinkBase = cfg.Site.URL
	}
}

// writeArtifacts writes base.<format> for each format, in order, and returns
// the written paths.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return paths, fmt.Errorf("no %s output produced", format)
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
