package sink

import (
	"encoding/json"
	"fmt"

	"github.com/woodfordbl/maffei-design/pkg/gallery"
)

// Document is the JSON export of a layout.
type Document struct {
	Width  float64 `json:"width"`
	Gap    float64 `json:"gap"`
	Height float64 `json:"height"`
	Rows   int     `json:"rows"`
	Tiles  []Tile  `json:"tiles"`
}

// Layout rebuilds the gallery layout the document was rendered from.
func (d Document) Layout() gallery.Layout {
	l := gallery.Layout{Width: d.Width, Gap: d.Gap, Height: d.Height}
	if len(d.Tiles) > 0 {
		l.Items = make([]gallery.PackedItem, len(d.Tiles))
	}
	for i, t := range d.Tiles {
		l.Items[i] = gallery.PackedItem{ID: t.ID, X: t.X, Y: t.Y, Width: t.Width, Height: t.Height}
	}
	return l
}

// NewDocument builds the export document for l.
func NewDocument(l gallery.Layout, items []gallery.Item) Document {
	return Document{
		Width:  l.Width,
		Gap:    l.Gap,
		Height: l.Height,
		Rows:   len(l.Rows()),
		Tiles:  Tiles(l, items),
	}
}

// RenderJSON renders the layout as indented JSON.
func RenderJSON(l gallery.Layout, items []gallery.Item) ([]byte, error) {
	data, err := json.MarshalIndent(NewDocument(l, items), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return append(data, '\n'), nil
}

// ReadJSON parses a document produced by [RenderJSON].
func ReadJSON(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("parse layout json: %w", err)
	}
	return d, nil
}
