package sink

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/woodfordbl/maffei-design/pkg/gallery"
)

const (
	placementsSheet = "Placements"
	summarySheet    = "Summary"
)

var placementHeader = []any{"ID", "Title", "Collection", "Row", "X", "Y", "Width", "Height", "Image"}

// RenderXLSX renders one placement per spreadsheet row plus a summary sheet.
func RenderXLSX(l gallery.Layout, items []gallery.Item) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", placementsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(placementsSheet, "A1", &placementHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	tiles := Tiles(l, items)
	for i, t := range tiles {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{t.ID, t.Title, t.Collection, t.Row + 1, round2(t.X), round2(t.Y), round2(t.Width), round2(t.Height), t.ImageURL}
		if err := f.SetSheetRow(placementsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(placementsSheet, "A", "A", 48); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(placementsSheet, "B", "C", 24); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("add summary sheet: %w", err)
	}
	summary := [][]any{
		{"Container width", round2(l.Width)},
		{"Gap", round2(l.Gap)},
		{"Container height", round2(l.Height)},
		{"Rows", len(l.Rows())},
		{"Items", len(tiles)},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
