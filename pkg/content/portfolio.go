package content

import (
	"strings"
	"unicode/utf16"

	"github.com/charmbracelet/log"

	"github.com/woodfordbl/maffei-design/pkg/gallery"
)

// Portfolio collects every image marked showInPortfolio into gallery items,
// in collection order and then block order. Images without a portfolio
// title are skipped and logged.
func (l *Library) Portfolio(logger *log.Logger) []gallery.Item {
	var items []gallery.Item
	for _, c := range l.Collections {
		for _, img := range c.Images() {
			if !img.ShowInPortfolio {
				continue
			}
			if img.PortfolioTitle == "" {
				if logger != nil {
					logger.Error("portfolio image has no title", "collection", c.Slug, "src", img.Src)
				}
				continue
			}
			items = append(items, PortfolioItem(c, img))
		}
	}
	return items
}

// PortfolioItem converts one image into a gallery item. A missing ratio
// becomes 3:2 and a missing scale factor becomes 1.
func PortfolioItem(c Collection, img Image) gallery.Item {
	ratio := img.PortfolioAspectRatio
	if ratio == "" {
		ratio = gallery.DefaultAspect
	}
	scale := img.PortfolioScaleFactor
	if scale == 0 {
		scale = 1.0
	}
	return gallery.Item{
		ID:             PortfolioImageID(c.Slug, img.Src),
		Title:          img.PortfolioTitle,
		Collection:     c.Title,
		CollectionSlug: c.Slug,
		AspectRatio:    ratio,
		ScaleFactor:    scale,
		ImageURL:       img.Src,
	}
}

const maxImageIDLen = 40

// PortfolioImageID builds a stable item id from the collection slug and the
// last path segment of the image source. Non-alphanumerics become hyphens
// and the segment is cut to 40 characters before lowercasing.
//
// Lengths count UTF-16 code units, as JavaScript string slicing does, so a
// rune outside the Basic Multilingual Plane becomes two hyphens.
func PortfolioImageID(slug, src string) string {
	seg := src
	if i := strings.LastIndexByte(src, '/'); i >= 0 && i < len(src)-1 {
		seg = src[i+1:]
	}

	var b strings.Builder
	for _, r := range seg {
		if isASCIIAlnum(r) {
			b.WriteRune(r)
		} else {
			for range max(utf16.RuneLen(r), 1) {
				if b.Len() == maxImageIDLen {
					break
				}
				b.WriteByte('-')
			}
		}
		if b.Len() == maxImageIDLen {
			break
		}
	}
	return slug + "-" + strings.ToLower(b.String())
}

func isASCIIAlnum(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}
