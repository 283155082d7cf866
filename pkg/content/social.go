package content

import (
	"strconv"
	"strings"
)

// Defaults applied by [MetaTags].
const (
	DefaultSiteName    = "Maffei Design"
	DefaultPreviewType = "article"
)

// MetaTag is one entry of a page head. Exactly one of Title, Name and
// Property is set; Content accompanies Name and Property.
type MetaTag struct {
	Title    string `json:"title,omitempty"`
	Name     string `json:"name,omitempty"`
	Property string `json:"property,omitempty"`
	Content  string `json:"content,omitempty"`
}

// SocialPreview describes how a page appears when shared.
type SocialPreview struct {
	Title       string
	Description string
	Author      string
	ImageURL    string
	ImageWidth  int
	ImageHeight int
	ImageAlt    string
	SiteName    string
	Type        string // "website" or "article"
	URL         string
}

// MetaTags expands p into Open Graph and Twitter card tags. The base tags
// always come first; author, image size, alt text and URL tags follow only
// when set.
func MetaTags(p SocialPreview) []MetaTag {
	site := p.SiteName
	if site == "" {
		site = DefaultSiteName
	}
	typ := p.Type
	if typ == "" {
		typ = DefaultPreviewType
	}

	tags := []MetaTag{
		{Title: p.Title + " - " + site},
		{Name: "description", Content: p.Description},
		{Property: "og:title", Content: p.Title},
		{Property: "og:description", Content: p.Description},
		{Property: "og:image", Content: p.ImageURL},
		{Property: "og:type", Content: typ},
		{Property: "og:site_name", Content: site},
		{Name: "twitter:card", Content: "summary_large_image"},
		{Name: "twitter:title", Content: p.Title},
		{Name: "twitter:description", Content: p.Description},
		{Name: "twitter:image", Content: p.ImageURL},
	}
	if p.Author != "" {
		tags = append(tags,
			MetaTag{Name: "author", Content: p.Author},
			MetaTag{Property: "article:author", Content: p.Author},
			MetaTag{Name: "twitter:creator", Content: p.Author},
		)
	}
	if p.ImageWidth > 0 {
		tags = append(tags, MetaTag{Property: "og:image:width", Content: strconv.Itoa(p.ImageWidth)})
	}
	if p.ImageHeight > 0 {
		tags = append(tags, MetaTag{Property: "og:image:height", Content: strconv.Itoa(p.ImageHeight)})
	}
	if p.ImageAlt != "" {
		tags = append(tags,
			MetaTag{Property: "og:image:alt", Content: p.ImageAlt},
			MetaTag{Name: "twitter:image:alt", Content: p.ImageAlt},
		)
	}
	if p.URL != "" {
		tags = append(tags,
			MetaTag{Property: "og:url", Content: p.URL},
			MetaTag{Name: "twitter:url", Content: p.URL},
		)
	}
	return tags
}

// PageTitle returns the content of the title tag, or "".
func PageTitle(tags []MetaTag) string {
	for _, t := range tags {
		if t.Title != "" {
			return t.Title
		}
	}
	return ""
}

// CollectionPreview builds the share preview of a collection page from its
// hero block. A collection without a hero falls back to its own title and
// description.
func CollectionPreview(c *Collection, siteURL string) SocialPreview {
	p := SocialPreview{
		Title:       c.Title,
		Description: c.Description,
		URL:         FullURL(siteURL, "/collections/"+c.ID),
	}
	hero, ok := c.Hero()
	if !ok {
		return p
	}
	p.Title = hero.Title
	p.Description = strings.TrimSpace(hero.Subtitle + " by " + hero.Author)
	p.Author = hero.Author
	p.ImageURL = hero.Image.Src
	p.ImageWidth = hero.Image.Width
	p.ImageHeight = hero.Image.Height
	p.ImageAlt = hero.Image.Alt
	return p
}
