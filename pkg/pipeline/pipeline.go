// Package pipeline runs the gallery layout and render stages with caching.
//
// The CLI and the HTTP server both go through a [Runner] so that they share
// defaults, cache keys and observability events.
//
// # Stages
//
//  1. Layout: resolve dimensions, pack rows and measure height for one width
//  2. Render: turn the layout into artifacts (SVG, JSON, PDF, XLSX)
//
// Each stage can be run on its own or through [Runner.Execute].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, items, pipeline.Options{
//	    Width:   1200,
//	    Formats: []string{"svg", "pdf"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/woodfordbl/maffei-design/pkg/cache"
	"github.com/woodfordbl/maffei-design/pkg/errors"
	"github.com/woodfordbl/maffei-design/pkg/gallery"
)

// =============================================================================
// Default Values - Shared by CLI and Server
// =============================================================================

// DefaultWidth is the container width used when none is given. It matches a
// typical desktop content column.
const DefaultWidth = 1200.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatPDF:  true,
	FormatXLSX: true,
}

// ContentTypes maps formats to HTTP media types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatJSON: "application/json",
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. Zero values select defaults, except
// Gap, where nil selects [gallery.DefaultGap] and an explicit 0 packs items
// edge to edge.
type Options struct {
	// Layout options
	Width           float64  `json:"width,omitempty"`
	Gap             *float64 `json:"gap,omitempty"`
	TargetRowHeight float64 `json:"target_row_height,omitempty"`
	Tolerance       float64 `json:"tolerance,omitempty"`
	MaxItemsPerRow  int     `json:"max_items_per_row,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Title    string   `json:"title,omitempty"`
	LinkBase string   `json:"link_base,omitempty"`

	// Refresh bypasses cached results; fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ContentHash identifies the item list the layout was computed from.
	ContentHash string

	// Layout is the packed gallery.
	Layout gallery.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items      int
	Rows       int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all requested artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, pdf, xlsx)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming spaces and
// dropping duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults fills zero layout options.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Gap == nil {
		gap := gallery.DefaultGap
		o.Gap = &gap
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout applies defaults and checks layout options.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if !finite(o.Width) || o.Width < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width must be positive, got %v", o.Width)
	}
	if gap := o.gap(); !finite(gap) || gap < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "gap must not be negative, got %v", gap)
	}
	if !(o.Tolerance >= 0 && o.Tolerance < 1) {
		return errors.New(errors.ErrCodeInvalidInput, "tolerance must be in [0, 1), got %v", o.Tolerance)
	}
	if !finite(o.TargetRowHeight) || o.TargetRowHeight < 0 || o.MaxItemsPerRow < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "row parameters must not be negative")
	}
	return nil
}

// SetRenderDefaults fills zero render options.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender applies defaults and checks render options.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Packer builds the row packer the options describe.
func (o *Options) Packer() *gallery.Packer {
	var opts []gallery.Option
	if o.TargetRowHeight > 0 {
		opts = append(opts, gallery.WithTargetRowHeight(o.TargetRowHeight))
	}
	if o.Tolerance > 0 {
		opts = append(opts, gallery.WithTolerance(o.Tolerance))
	}
	if o.MaxItemsPerRow > 0 {
		opts = append(opts, gallery.WithMaxItemsPerRow(o.MaxItemsPerRow))
	}
	return gallery.NewPacker(opts...)
}

// gap returns the effective gap.
func (o *Options) gap() float64 {
	if o.Gap == nil {
		return gallery.DefaultGap
	}
	return *o.Gap
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:           o.Width,
		Gap:             o.gap(),
		TargetRowHeight: o.TargetRowHeight,
		Tolerance:       o.Tolerance,
		MaxItemsPerRow:  o.MaxItemsPerRow,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Title: o.Title, LinkBase: o.LinkBase}
}

