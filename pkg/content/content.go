// Package content models the studio's site content: collections made of hero
// and section blocks, plus site-wide contact details.
//
// Content is authored as YAML. The embedded fixtures/collections.yaml is
// used when no content file is configured. Image aspect ratios are validated
// while decoding, so a loaded [Library] only contains ratios the gallery
// engine supports.
package content

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/woodfordbl/maffei-design/pkg/gallery"
)

// Site holds site-wide metadata.
type Site struct {
	Title       string  `yaml:"title" json:"title"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Contact     Contact `yaml:"contact" json:"contact"`
}

// Contact lists the studio's public contact channels.
type Contact struct {
	Inquiries string   `yaml:"inquiries" json:"inquiries"`
	Jobs      string   `yaml:"jobs" json:"jobs"`
	Location  string   `yaml:"location" json:"location"`
	Socials   []Social `yaml:"socials" json:"socials"`
}

// Social is an external profile link.
type Social struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// Collection is one project page.
type Collection struct {
	ID          string  `yaml:"id" json:"id"`
	Slug        string  `yaml:"slug" json:"slug"`
	Title       string  `yaml:"title" json:"title"`
	Description string  `yaml:"description" json:"description"`
	Blocks      []Block `yaml:"blocks" json:"-"`
}

// Hero returns the collection's first hero block, if any.
func (c *Collection) Hero() (*HeroBlock, bool) {
	for _, b := range c.Blocks {
		if b.Hero != nil {
			return b.Hero, true
		}
	}
	return nil, false
}

// Images returns every image in block order: the hero image, then section
// images column by column.
func (c *Collection) Images() []Image {
	var out []Image
	for _, b := range c.Blocks {
		switch {
		case b.Hero != nil:
			out = append(out, b.Hero.Image)
		case b.Section != nil:
			for _, col := range b.Section.Columns {
				out = append(out, col.Images...)
			}
		}
	}
	return out
}

// BlockType discriminates block kinds.
type BlockType string

const (
	BlockHero    BlockType = "hero"
	BlockSection BlockType = "section"
)

// Block is either a hero or a section. Exactly one of Hero and Section is set.
type Block struct {
	Type    BlockType
	Hero    *HeroBlock
	Section *SectionBlock
}

// ID returns the block's id.
func (b Block) ID() string {
	switch {
	case b.Hero != nil:
		return b.Hero.ID
	case b.Section != nil:
		return b.Section.ID
	}
	return ""
}

// UnmarshalYAML decodes a block according to its type field.
func (b *Block) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Type BlockType `yaml:"type"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}
	b.Type = head.Type
	switch head.Type {
	case BlockHero:
		b.Hero = new(HeroBlock)
		return node.Decode(b.Hero)
	case BlockSection:
		b.Section = new(SectionBlock)
		return node.Decode(b.Section)
	default:
		return fmt.Errorf("line %d: unknown block type %q", node.Line, head.Type)
	}
}

// MarshalYAML encodes the populated variant.
func (b Block) MarshalYAML() (any, error) {
	switch {
	case b.Hero != nil:
		return struct {
			Type      BlockType `yaml:"type"`
			HeroBlock `yaml:",inline"`
		}{BlockHero, *b.Hero}, nil
	case b.Section != nil:
		return struct {
			Type         BlockType `yaml:"type"`
			SectionBlock `yaml:",inline"`
		}{BlockSection, *b.Section}, nil
	}
	return nil, fmt.Errorf("empty block")
}

// HeroVariant selects the hero layout.
type HeroVariant string

const (
	HeroDefault HeroVariant = "default"
	HeroAbout   HeroVariant = "about"
)

// HeroBlock opens a collection page.
type HeroBlock struct {
	ID       string      `yaml:"id"`
	Title    string      `yaml:"title"`
	Subtitle string      `yaml:"subtitle"`
	Author   string      `yaml:"author"`
	Date     string      `yaml:"date,omitempty"`
	Tags     []string    `yaml:"tags,omitempty"`
	Image    Image       `yaml:"image"`
	Intro    []string    `yaml:"intro,omitempty"`
	Variant  HeroVariant `yaml:"variant,omitempty"`
}

// Spacing is a coarse size step used for section gap and padding.
type Spacing string

const (
	SpacingSmall  Spacing = "sm"
	SpacingMedium Spacing = "md"
	SpacingLarge  Spacing = "lg"
)

// SectionBlock is a row of columns.
type SectionBlock struct {
	ID      string   `yaml:"id"`
	Columns []Column `yaml:"columns"`
	Gap     Spacing  `yaml:"gap,omitempty"`
	Padding Spacing  `yaml:"padding,omitempty"`
}

// GridColumns returns the number of grid tracks for the section on wide
// screens: 12 when any column sets a width or there are exactly three
// columns, otherwise the column count.
func (s *SectionBlock) GridColumns() int {
	n := len(s.Columns)
	if n <= 1 {
		return 1
	}
	if n == 3 {
		return 12
	}
	for _, c := range s.Columns {
		if c.Width > 0 {
			return 12
		}
	}
	return n
}

// ColumnType says what a column renders.
type ColumnType string

const (
	ColumnText  ColumnType = "text"
	ColumnImage ColumnType = "image"
	ColumnMixed ColumnType = "mixed"
)

// Column is one cell of a section.
type Column struct {
	ID      string     `yaml:"id"`
	Type    ColumnType `yaml:"type"`
	Content *TextBlock `yaml:"content,omitempty"`
	Images  []Image    `yaml:"images,omitempty"`
	Sticky  bool       `yaml:"sticky,omitempty"`
	Width   int        `yaml:"width,omitempty"`
}

// ShowsImages reports whether the column renders its images.
func (c Column) ShowsImages() bool {
	return (c.Type == ColumnImage || c.Type == ColumnMixed) && len(c.Images) > 0
}

// ShowsText reports whether the column renders its text content.
func (c Column) ShowsText() bool {
	return (c.Type == ColumnText || c.Type == ColumnMixed) && c.Content != nil
}

// TextBlock is a heading with paragraphs.
type TextBlock struct {
	Heading string   `yaml:"heading,omitempty"`
	Text    []string `yaml:"text,omitempty"`
}

// Image is a content image, optionally featured in the home gallery.
type Image struct {
	Src    string `yaml:"src" json:"src"`
	Alt    string `yaml:"alt" json:"alt"`
	Width  int    `yaml:"width,omitempty" json:"width,omitempty"`
	Height int    `yaml:"height,omitempty" json:"height,omitempty"`

	ShowInPortfolio      bool                `yaml:"showInPortfolio,omitempty" json:"showInPortfolio,omitempty"`
	PortfolioTitle       string              `yaml:"portfolioTitle,omitempty" json:"portfolioTitle,omitempty"`
	PortfolioAspectRatio gallery.AspectRatio `yaml:"portfolioAspectRatio,omitempty" json:"portfolioAspectRatio,omitempty"`
	PortfolioScaleFactor float64             `yaml:"portfolioScaleFactor,omitempty" json:"portfolioScaleFactor,omitempty"`
}
