package content

import (
	"strings"
	"testing"

	"github.com/woodfordbl/maffei-design/pkg/errors"
	"github.com/woodfordbl/maffei-design/pkg/gallery"
)

func mustDefault(t *testing.T) *Library {
	t.Helper()
	lib, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return lib
}

func TestDefaultLibrary(t *testing.T) {
	lib := mustDefault(t)

	if got := len(lib.Collections); got != 6 {
		t.Fatalf("collections = %d, want 6", got)
	}
	if lib.Site.Name != "Maffei Design" {
		t.Errorf("site name = %q", lib.Site.Name)
	}
	if lib.Site.Contact.Inquiries != "info@maffei.design" {
		t.Errorf("inquiries = %q", lib.Site.Contact.Inquiries)
	}
	if len(lib.Site.Contact.Socials) != 2 {
		t.Errorf("socials = %d, want 2", len(lib.Site.Contact.Socials))
	}
	for _, c := range lib.Collections {
		if _, ok := c.Hero(); !ok {
			t.Errorf("collection %q has no hero", c.ID)
		}
	}
}

func TestByID(t *testing.T) {
	lib := mustDefault(t)

	c, err := lib.ByID("wilfrid-wood-interview")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	hero, ok := c.Hero()
	if !ok {
		t.Fatal("no hero")
	}
	if hero.Title != "Talking bottoms with Wilfrid Wood" {
		t.Errorf("hero title = %q", hero.Title)
	}
	if hero.Image.PortfolioAspectRatio != gallery.Portrait2x3 {
		t.Errorf("hero ratio = %q", hero.Image.PortfolioAspectRatio)
	}

	_, err = lib.ByID("missing")
	if !errors.Is(err, errors.ErrCodeCollectionNotFound) {
		t.Errorf("ByID(missing) err = %v, want COLLECTION_NOT_FOUND", err)
	}
}

func TestDecodeRejectsBadContent(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown block", `
collections:
  - id: a
    slug: a
    blocks:
      - type: carousel
        id: x
`},
		{"bad ratio", `
collections:
  - id: a
    slug: a
    blocks:
      - type: hero
        id: h
        image:
          src: x.jpg
          portfolioAspectRatio: "5:4"
`},
		{"duplicate id", `
collections:
  - id: a
    slug: a
  - id: a
    slug: b
`},
		{"bad slug", `
collections:
  - id: a
    slug: Not A Slug
`},
		{"unknown field", `
collections:
  - id: a
    slug: a
    colour: red
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.yaml))
			if !errors.Is(err, errors.ErrCodeInvalidContent) {
				t.Errorf("err = %v, want INVALID_CONTENT", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir() + "/nope.yaml")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestEncodeRoundTripKeepsBlocks(t *testing.T) {
	lib := mustDefault(t)
	var sb strings.Builder
	if err := lib.Encode(&sb); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	again, err := Decode(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got, want := len(again.Portfolio(nil)), len(lib.Portfolio(nil)); got != want {
		t.Errorf("portfolio after round trip = %d, want %d", got, want)
	}
}

func TestSectionGridColumns(t *testing.T) {
	tests := []struct {
		name string
		cols []Column
		want int
	}{
		{"single", []Column{{ID: "a"}}, 1},
		{"two", []Column{{ID: "a"}, {ID: "b"}}, 2},
		{"three", []Column{{ID: "a"}, {ID: "b"}, {ID: "c"}}, 12},
		{"two with width", []Column{{ID: "a", Width: 8}, {ID: "b", Width: 4}}, 12},
		{"four", []Column{{}, {}, {}, {}}, 4},
	}
	for _, tt := range tests {
		s := SectionBlock{Columns: tt.cols}
		if got := s.GridColumns(); got != tt.want {
			t.Errorf("%s: GridColumns = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestColumnShows(t *testing.T) {
	img := []Image{{Src: "a.jpg"}}
	text := &TextBlock{Heading: "h"}

	if (Column{Type: ColumnText, Images: img}).ShowsImages() {
		t.Error("text column should not show images")
	}
	if !(Column{Type: ColumnMixed, Images: img, Content: text}).ShowsText() {
		t.Error("mixed column should show text")
	}
	if (Column{Type: ColumnImage}).ShowsImages() {
		t.Error("image column without images should show nothing")
	}
}
