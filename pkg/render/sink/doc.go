// Package sink turns a computed gallery layout into output files.
//
// A sink takes a [gallery.Layout] plus the items it was computed from and
// produces one format:
//
//   - SVG: absolutely positioned tiles, optionally linked to collection pages
//   - JSON: tile geometry with titles and row numbers, readable by [ReadJSON]
//   - PDF: a printable contact sheet scaled to the page width
//   - XLSX: one placement per row, for planning print runs
//
// [RenderQR] is separate: it encodes a share URL as a PNG QR code.
//
// Sinks join items to packed rectangles by id. Packed items without a
// matching item render with their id as the title.
//
// [gallery.Layout]: github.com/woodfordbl/maffei-design/pkg/gallery.Layout
package sink
