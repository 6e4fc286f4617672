package types

// DimensionBacking selects how a numeric dimension is stored in the catalog.
type DimensionBacking string

const (
	// BackingMetaNumeric filters on a free-form numeric meta field.
	BackingMetaNumeric DimensionBacking = "meta"
	// BackingEnumeratedTerms filters on a taxonomy of discrete
	// numeric-labeled terms ("40", "60", ...). A range filter is first
	// resolved into the set of terms falling inside it.
	BackingEnumeratedTerms DimensionBacking = "terms"
)

// DimensionConfig describes one filterable numeric dimension (width, depth,
// area, ...). The backing is chosen by configuration, never inferred from
// the submitted filter value.
type DimensionConfig struct {
	Name      string           `json:"name" yaml:"name"`
	Backing   DimensionBacking `json:"backing" yaml:"backing"`
	Taxonomy  string           `json:"taxonomy,omitempty" yaml:"taxonomy"`
	MetaField string           `json:"metaField,omitempty" yaml:"metaField"`
}
