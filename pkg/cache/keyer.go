package cache

// Keyer builds cache keys for each cached stage.
type Keyer interface {
	// LayoutKey identifies a computed layout for a content snapshot.
	LayoutKey(contentHash string, opts LayoutKeyOpts) (string, error)

	// ArtifactKey identifies a rendered artifact for a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) (string, error)
}

// LayoutKeyOpts are the layout inputs besides content.
type LayoutKeyOpts struct {
	Width           float64 `json:"width"`
	Gap             float64 `json:"gap"`
	TargetRowHeight float64 `json:"target_row_height,omitempty"`
	Tolerance       float64 `json:"tolerance,omitempty"`
	MaxItemsPerRow  int     `json:"max_items_per_row,omitempty"`
}

// ArtifactKeyOpts are the render inputs besides the layout.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Title    string `json:"title,omitempty"`
	LinkBase string `json:"link_base,omitempty"`
}

// DefaultKeyer hashes stage inputs under a fixed prefix per stage.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(contentHash string, opts LayoutKeyOpts) (string, error) {
	return hashKey("layout", contentHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) (string, error) {
	return hashKey("artifact", layoutHash, opts)
}
