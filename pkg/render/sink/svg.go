package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/woodfordbl/maffei-design/pkg/gallery"
)

const svgTileCSS = `
    .tile rect { stroke: #1f1f1f; stroke-width: 0; transition: stroke-width 0.2s ease; }
    .tile:hover rect { stroke-width: 2; }
    .tile text { font: 12px sans-serif; fill: #1f1f1f; }`

// Tile fills, assigned to collections in order of first appearance.
var palette = []string{"#e8e2d9", "#d6dccf", "#d9dde6", "#eadbd3", "#e3dce9", "#dfe6e3"}

// Labels are drawn only on tiles at least this large.
const (
	minLabelWidth  = 80.0
	minLabelHeight = 24.0
	labelInset     = 8.0
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title    string
	linkBase string
	links    bool
	images   bool
}

// WithTitle adds a document title.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithLinks wraps each tile in a link to its collection page under base.
func WithLinks(base string) SVGOption {
	return func(r *svgRenderer) { r.links = true; r.linkBase = base }
}

// WithImages fills tiles with their image instead of a flat colour.
func WithImages() SVGOption { return func(r *svgRenderer) { r.images = true } }

// RenderSVG renders the layout as an SVG document sized to the layout.
func RenderSVG(l gallery.Layout, items []gallery.Item, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(l.Width), num(l.Height), num(l.Width), num(l.Height))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgTileCSS)

	fills := make(map[string]string)
	for _, t := range Tiles(l, items) {
		fill, ok := fills[t.CollectionSlug]
		if !ok {
			fill = palette[len(fills)%len(palette)]
			fills[t.CollectionSlug] = fill
		}
		r.renderTile(&buf, t, fill)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderTile(buf *bytes.Buffer, t Tile, fill string) {
	fmt.Fprintf(buf, "  <g class=\"tile\" id=\"tile-%s\">\n", html.EscapeString(t.ID))
	indent := "    "
	linked := r.links && t.CollectionSlug != ""
	if linked {
		fmt.Fprintf(buf, "    <a href=\"%s/collections/%s\">\n", html.EscapeString(r.linkBase), html.EscapeString(t.CollectionSlug))
		indent = "      "
	}

	fmt.Fprintf(buf, "%s<rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" fill=\"%s\"/>\n",
		indent, num(t.X), num(t.Y), num(t.Width), num(t.Height), fill)
	if r.images && t.ImageURL != "" {
		fmt.Fprintf(buf, "%s<image href=\"%s\" x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" preserveAspectRatio=\"xMidYMid slice\"/>\n",
			indent, html.EscapeString(t.ImageURL), num(t.X), num(t.Y), num(t.Width), num(t.Height))
	}
	if t.Width >= minLabelWidth && t.Height >= minLabelHeight {
		fmt.Fprintf(buf, "%s<text x=\"%s\" y=\"%s\">%s</text>\n",
			indent, num(t.X+labelInset), num(t.Y+t.Height-labelInset), html.EscapeString(t.Title))
	}

	if linked {
		buf.WriteString("    </a>\n")
	}
	buf.WriteString("  </g>\n")
}
