package gallery

// BaseSize is the nominal length of an item's longer side at scale 1.
const BaseSize = 300.0

// Size is a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// Dimensions returns the nominal size for a ratio and scale.
//
// For landscape and square ratios the width is BaseSize*scale and the height
// follows from the ratio. For portrait ratios the height is BaseSize*scale.
// Unsupported ratios yield a zero Size; callers validate ratios when content
// is decoded.
func Dimensions(ratio AspectRatio, scale float64) Size {
	r, ok := ratio.Value()
	if !ok {
		return Size{}
	}
	if r >= 1 {
		w := BaseSize * scale
		return Size{Width: w, Height: w / r}
	}
	h := BaseSize * scale
	return Size{Width: h * r, Height: h}
}

// Resolve computes nominal dimensions for every item, preserving order.
func Resolve(items []Item) []ItemDimensions {
	dims := make([]ItemDimensions, len(items))
	for i, it := range items {
		s := Dimensions(it.AspectRatio, it.ScaleFactor)
		dims[i] = ItemDimensions{ID: it.ID, Width: s.Width, Height: s.Height}
	}
	return dims
}
