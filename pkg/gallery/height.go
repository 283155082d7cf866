package gallery

// TotalHeight returns the container height needed to show every packed item:
// the largest bottom edge, or 0 when items is empty.
func TotalHeight(items []PackedItem) float64 {
	var h float64
	for _, it := range items {
		if b := it.Bottom(); b > h {
			h = b
		}
	}
	return h
}
