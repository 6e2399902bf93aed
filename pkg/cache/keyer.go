package cache

// Keyer derives cache keys.
type Keyer interface {
	// GraphKey identifies a graph description of one map of a document.
	GraphKey(docHash string, opts GraphKeyOpts) string

	// ArtifactKey identifies a rendered diagram.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts lists everything that changes a built graph.
type GraphKeyOpts struct {
	Map          string  `json:"map"`
	Kind         string  `json:"kind"` // "tile" or "room"
	Strict       bool    `json:"strict"`
	GridCellSize float64 `json:"grid_cell_size"`
	EntryOffset  float64 `json:"entry_offset"`
}

// ArtifactKeyOpts lists everything that changes a rendered diagram.
type ArtifactKeyOpts struct {
	Graph    GraphKeyOpts `json:"graph"`
	Format   string       `json:"format"`
	Detailed bool         `json:"detailed"`
	Strata   bool         `json:"strata"`
}

// DefaultKeyer hashes key options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey implements [Keyer].
func (DefaultKeyer) GraphKey(docHash string, opts GraphKeyOpts) string {
	return hashKey(KeyTypeGraph, docHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, docHash, opts)
}
