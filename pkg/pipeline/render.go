package pipeline

import (
	"fmt"

	"github.com/woodfordbl/maffei-design/pkg/gallery"
	"github.com/woodfordbl/maffei-design/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(l gallery.Layout, items []gallery.Item, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, items, buildSVGOptions(opts)...)
		case FormatJSON:
			data, err = sink.RenderJSON(l, items)
		case FormatPDF:
			var pdfOpts []sink.PDFOption
			if opts.Title != "" {
				pdfOpts = append(pdfOpts, sink.WithPDFTitle(opts.Title))
			}
			data, err = sink.RenderPDF(l, items, pdfOpts...)
		case FormatXLSX:
			data, err = sink.RenderXLSX(l, items)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithLinks(opts.LinkBase)}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}
