package content

import "strconv"

// DefaultCSSAspect is used when an image carries no size information.
const DefaultCSSAspect = "4 / 3"

// CSSAspectRatio returns a CSS aspect-ratio value for img. Intrinsic pixel
// size wins, then the portfolio ratio, then fallback. An empty fallback
// means [DefaultCSSAspect].
func CSSAspectRatio(img Image, fallback string) string {
	if fallback == "" {
		fallback = DefaultCSSAspect
	}
	if img.Width > 0 && img.Height > 0 {
		return strconv.Itoa(img.Width) + " / " + strconv.Itoa(img.Height)
	}
	if img.PortfolioAspectRatio.Valid() {
		w, h := img.PortfolioAspectRatio.Parts()
		return w + " / " + h
	}
	return fallback
}
