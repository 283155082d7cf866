package gallery

// DefaultGap is the spacing between neighbouring items, horizontally and
// between rows.
const DefaultGap = 16.0

// Layout is the published result of one layout pass.
type Layout struct {
	Width  float64      `json:"width" bson:"width"`
	Gap    float64      `json:"gap" bson:"gap"`
	Items  []PackedItem `json:"items" bson:"items"`
	Height float64      `json:"height" bson:"height"`
}

// Compute resolves dimensions, packs and measures items for one width.
// A nil packer uses the default parameters.
func Compute(items []Item, width, gap float64, packer *Packer) Layout {
	if packer == nil {
		packer = defaultPacker
	}
	packed := packer.Pack(Resolve(items), width, gap)
	return Layout{
		Width:  width,
		Gap:    gap,
		Items:  packed,
		Height: TotalHeight(packed),
	}
}

// Rows groups the layout's items by row, top to bottom.
func (l Layout) Rows() [][]PackedItem {
	var rows [][]PackedItem
	for i, it := range l.Items {
		if i == 0 || it.Y != l.Items[i-1].Y {
			rows = append(rows, nil)
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], it)
	}
	return rows
}

// Find returns the packed rectangle for id.
func (l Layout) Find(id string) (PackedItem, bool) {
	for _, it := range l.Items {
		if it.ID == id {
			return it, true
		}
	}
	return PackedItem{}, false
}
