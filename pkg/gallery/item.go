package gallery

// Item is one image entry in the gallery.
type Item struct {
	ID             string      `json:"id" yaml:"id" bson:"id"`
	Title          string      `json:"title" yaml:"title" bson:"title"`
	Collection     string      `json:"collection" yaml:"collection" bson:"collection"`
	CollectionSlug string      `json:"collectionSlug,omitempty" yaml:"collectionSlug,omitempty" bson:"collection_slug,omitempty"`
	AspectRatio    AspectRatio `json:"aspectRatio" yaml:"aspectRatio" bson:"aspect_ratio"`
	ScaleFactor    float64     `json:"scaleFactor" yaml:"scaleFactor" bson:"scale_factor"`
	ImageURL       string      `json:"imageUrl" yaml:"imageUrl" bson:"image_url"`
}

// ItemDimensions is the nominal size of an item before packing.
type ItemDimensions struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PackedItem is an item's final rectangle in container coordinates.
// The origin is the container's top-left corner.
type PackedItem struct {
	ID     string  `json:"id" bson:"id"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Right returns the x coordinate of the right edge.
func (p PackedItem) Right() float64 { return p.X + p.Width }

// Bottom returns the y coordinate of the bottom edge.
func (p PackedItem) Bottom() float64 { return p.Y + p.Height }
