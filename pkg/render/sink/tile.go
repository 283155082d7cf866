package sink

import (
	"math"
	"strconv"

	"github.com/woodfordbl/maffei-design/pkg/gallery"
)

// Tile is a packed rectangle joined with its item's metadata.
type Tile struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Collection     string  `json:"collection,omitempty"`
	CollectionSlug string  `json:"collection_slug,omitempty"`
	ImageURL       string  `json:"image_url,omitempty"`
	Row            int     `json:"row"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
}

// Tiles joins l's packed items with items by id, numbering rows from 0.
func Tiles(l gallery.Layout, items []gallery.Item) []Tile {
	byID := make(map[string]gallery.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	tiles := make([]Tile, 0, len(l.Items))
	for r, row := range l.Rows() {
		for _, p := range row {
			t := Tile{ID: p.ID, Title: p.ID, Row: r, X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
			if it, ok := byID[p.ID]; ok {
				if it.Title != "" {
					t.Title = it.Title
				}
				t.Collection = it.Collection
				t.CollectionSlug = it.CollectionSlug
				t.ImageURL = it.ImageURL
			}
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// num formats v rounded to two decimals without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
