package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/woodfordbl/maffei-design/pkg/cache"
	"github.com/woodfordbl/maffei-design/pkg/gallery"
	"github.com/woodfordbl/maffei-design/pkg/observability"
)

// Cache key types reported to cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner executes pipeline stages with caching.
//
// The Runner holds no per-run state, so one Runner can serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses [cache.NewDefaultKeyer]; a nil
// cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// ContentHash identifies an item list for cache keys. Items with non-finite
// scale factors cannot be encoded and are an error.
func ContentHash(items []gallery.Item) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}
	return cache.Hash(data), nil
}

// Execute runs layout then render.
func (r *Runner) Execute(ctx context.Context, items []gallery.Item, opts Options) (*Result, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := ContentHash(items)
	if err != nil {
		return nil, err
	}
	result := &Result{ContentHash: hash}

	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, items, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.Items = len(l.Items)
	result.Stats.Rows = len(l.Rows())
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"items", result.Stats.Items,
		"rows", result.Stats.Rows,
		"height", l.Height,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, items, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeLayoutWithCacheInfo packs items with caching and reports whether
// the layout came from the cache.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, items []gallery.Item, opts Options) (gallery.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return gallery.Layout{}, false, err
	}

	hash, err := ContentHash(items)
	if err != nil {
		return gallery.Layout{}, false, err
	}
	key, err := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())
	if err != nil {
		return gallery.Layout{}, false, fmt.Errorf("layout cache key: %w", err)
	}
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached gallery.Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				hooks.OnCacheHit(ctx, keyTypeLayout)
				return cached, true, nil
			}
			// corrupt entry: recompute and overwrite
		} else if err != nil {
			r.Logger.Debug("layout cache read failed", "err", err)
		}
		hooks.OnCacheMiss(ctx, keyTypeLayout)
	}

	l := ComputeLayout(ctx, items, opts)

	if data, err := json.Marshal(l); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.LayoutTTL); err != nil {
			r.Logger.Warn("layout cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}

	return l, false, nil
}

// ComputeLayout packs items without caching, reporting pipeline hooks.
func ComputeLayout(ctx context.Context, items []gallery.Item, opts Options) gallery.Layout {
	opts.SetLayoutDefaults()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(items), opts.Width)
	start := time.Now()

	l := gallery.Compute(items, opts.Width, opts.gap(), opts.Packer())

	hooks.OnLayoutComplete(ctx, len(items), l.Height, time.Since(start), nil)
	return l
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, items []gallery.Item, opts Options) (gallery.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, items, opts)
	return l, err
}

// RenderWithCacheInfo renders artifacts with caching and reports whether
// every requested format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l gallery.Layout, items []gallery.Item, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	keyData, err := json.Marshal(struct {
		Layout gallery.Layout `json:"layout"`
		Items  []gallery.Item `json:"items"`
	}{l, items})
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(keyData)
	keys := make(map[string]string, len(opts.Formats))
	for _, format := range opts.Formats {
		if keys[format], err = r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)); err != nil {
			return nil, false, fmt.Errorf("artifact cache key: %w", err)
		}
	}
	hooks := observability.Cache()

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, keys[format])
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, keyTypeArtifact)
			return artifacts, true, nil
		}
		hooks.OnCacheMiss(ctx, keyTypeArtifact)
	}

	ph := observability.Pipeline()
	ph.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(l, items, opts)
	ph.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		if err := r.Cache.Set(ctx, keys[format], data, cache.ArtifactTTL); err != nil {
			r.Logger.Warn("artifact cache write failed", "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l gallery.Layout, items []gallery.Item, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, items, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
