package sink

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/woodfordbl/maffei-design/pkg/gallery"
)

// Page layout constants (A4 portrait in mm).
const (
	pdfPageWidth    = 210.0
	pdfPageHeight   = 297.0
	pdfMargin       = 12.0
	pdfHeaderHeight = 10.0
	pdfContentTop   = pdfMargin + pdfHeaderHeight + 4.0
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	title string
}

// WithPDFTitle sets the heading printed on every page.
func WithPDFTitle(title string) PDFOption { return func(r *pdfRenderer) { r.title = title } }

// RenderPDF renders the layout as a contact sheet. The layout is scaled to
// the printable width; rows that would cross the bottom margin start a new
// page.
func RenderPDF(l gallery.Layout, items []gallery.Item, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{title: "Portfolio"}
	for _, opt := range opts {
		opt(&r)
	}
	if l.Width <= 0 || len(l.Items) == 0 {
		return nil, fmt.Errorf("no tiles to render")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	drawWidth := pdfPageWidth - 2*pdfMargin
	scale := drawWidth / l.Width
	bottom := pdfPageHeight - pdfMargin

	page := 0
	newPage := func() {
		pdf.AddPage()
		page++
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(pdfMargin, pdfMargin)
		pdf.CellFormat(drawWidth, pdfHeaderHeight, tr(r.title), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(pdfMargin, pdfMargin)
		pdf.CellFormat(drawWidth, pdfHeaderHeight, "Page "+strconv.Itoa(page), "", 0, "R", false, 0, "")
	}

	tiles := Tiles(l, items)
	fills := make(map[string]string)
	offset := 0.0 // layout y shown at pdfContentTop on the current page
	newPage()

	for _, row := range groupRows(tiles) {
		top := row[0].Y
		rowBottom := pdfContentTop + (top-offset+row[0].Height)*scale
		if rowBottom > bottom && top > offset {
			newPage()
			offset = top
		}
		for _, t := range row {
			fill, ok := fills[t.CollectionSlug]
			if !ok {
				fill = palette[len(fills)%len(palette)]
				fills[t.CollectionSlug] = fill
			}
			drawTile(pdf, tr, t, fill, scale, pdfMargin, pdfContentTop-offset*scale)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func groupRows(tiles []Tile) [][]Tile {
	var rows [][]Tile
	for i, t := range tiles {
		if i == 0 || t.Row != tiles[i-1].Row {
			rows = append(rows, nil)
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], t)
	}
	return rows
}

func drawTile(pdf *fpdf.Fpdf, tr func(string) string, t Tile, fill string, scale, ox, oy float64) {
	x, y := ox+t.X*scale, oy+t.Y*scale
	w, h := t.Width*scale, t.Height*scale

	cr, cg, cb := hexRGB(fill)
	pdf.SetFillColor(cr, cg, cb)
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.2)
	pdf.Rect(x, y, w, h, "FD")

	if w < 20 || h < 8 {
		return
	}
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(30, 30, 30)
	label := tr(t.Title)
	for len(label) > 0 && pdf.GetStringWidth(label) > w-2 {
		label = label[:len(label)-1]
	}
	pdf.SetXY(x+1, y+h-5)
	pdf.CellFormat(w-2, 4, label, "", 0, "L", false, 0, "")
}

// hexRGB parses "#rrggbb".
func hexRGB(s string) (int, int, int) {
	if len(s) != 7 || s[0] != '#' {
		return 200, 200, 200
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 200, 200, 200
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
