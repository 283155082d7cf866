package gallery

import (
	"strings"

	"github.com/woodfordbl/maffei-design/pkg/errors"
)

// AspectRatio is the declared width:height shape of a gallery image.
type AspectRatio string

// Supported aspect ratios.
const (
	Square        AspectRatio = "1:1"
	Landscape3x2  AspectRatio = "3:2"
	Portrait2x3   AspectRatio = "2:3"
	Landscape4x3  AspectRatio = "4:3"
	Portrait3x4   AspectRatio = "3:4"
	Widescreen    AspectRatio = "16:9"
	TallPortrait  AspectRatio = "9:16"
	DefaultAspect             = Landscape3x2
)

// ratioValues holds width/height for each supported ratio. The values are
// rounded to three places and are part of the layout contract.
var ratioValues = map[AspectRatio]float64{
	Square:       1.0,
	Landscape3x2: 1.5,
	Portrait2x3:  0.667,
	Landscape4x3: 1.333,
	Portrait3x4:  0.75,
	Widescreen:   1.778,
	TallPortrait: 0.563,
}

// AspectRatios lists the supported ratios in display order.
func AspectRatios() []AspectRatio {
	return []AspectRatio{Square, Landscape3x2, Portrait2x3, Landscape4x3, Portrait3x4, Widescreen, TallPortrait}
}

// Value returns the width/height ratio and whether r is supported.
func (r AspectRatio) Value() (float64, bool) {
	v, ok := ratioValues[r]
	return v, ok
}

// Valid reports whether r is one of the supported ratios.
func (r AspectRatio) Valid() bool {
	_, ok := ratioValues[r]
	return ok
}

// Parts returns the two sides of the ratio, e.g. ("16", "9").
func (r AspectRatio) Parts() (w, h string) {
	w, h, _ = strings.Cut(string(r), ":")
	return w, h
}

// ParseAspectRatio parses a "w:h" string, tolerating surrounding spaces.
func ParseAspectRatio(s string) (AspectRatio, error) {
	r := AspectRatio(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if !r.Valid() {
		return "", errors.New(errors.ErrCodeInvalidAspectRatio, "unsupported aspect ratio %q", s)
	}
	return r, nil
}

// UnmarshalText rejects unsupported ratios when decoding content.
func (r *AspectRatio) UnmarshalText(text []byte) error {
	parsed, err := ParseAspectRatio(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (r AspectRatio) MarshalText() ([]byte, error) {
	return []byte(r), nil
}
