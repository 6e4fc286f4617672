package types

import (
	"maps"
	"regexp"
	"slices"
)

type SortDirection string

const (
	Ascending  SortDirection = "ASC"
	Descending SortDirection = "DESC"
)

// OrderMenu is the catalog-native manual ordering and the default sort.
const (
	OrderMenu  = "menu_order"
	OrderPrice = "price"
	OrderTitle = "title"
	OrderDate  = "date"
)

type SortSpec struct {
	Field     string        `json:"orderby"`
	Direction SortDirection `json:"order"`
}

func DefaultSort() SortSpec {
	return SortSpec{Field: OrderMenu, Direction: Ascending}
}

var taxonomyKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidTaxonomyKey reports whether key is safe to pass into taxonomy lookups.
// The taxonomy namespace is externally controlled, so anything outside the
// allow-list is replaced by the configured default upstream.
func ValidTaxonomyKey(key string) bool {
	return taxonomyKeyPattern.MatchString(key)
}

// Criteria is the normalized set of active filters for one catalog query.
// It is a request-scoped value; nothing here is shared between requests.
type Criteria struct {
	Category   string                    `json:"category,omitempty"`
	Attributes map[string][]string       `json:"attributes,omitempty"`
	Price      Range                     `json:"price,omitempty"`
	Dimensions map[string]DimensionRange `json:"dimensions,omitempty"`
	Sort       SortSpec                  `json:"sort"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"pageSize"`
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Sanitize normalizes the criteria in place: inverted ranges are swapped,
// page numbers forced positive, page size clamped and disabled dimension
// ranges stripped of stray bounds. Disabling always wins over any numeric
// value the client may have left behind.
func (c *Criteria) Sanitize(maxPageSize int) {
	if maxPageSize < 1 {
		maxPageSize = MaxPageSize
	}
	if c.Page < 1 {
		c.Page = 1
	}
	// PageSize 0 means "not supplied"; the caller fills it from the
	// configured products-per-page before executing.
	if c.PageSize != 0 {
		c.PageSize = clamp(c.PageSize, 1, maxPageSize)
	}
	if c.Sort.Field == "" {
		c.Sort = DefaultSort()
	}
	if c.Sort.Direction != Descending {
		c.Sort.Direction = Ascending
	}
	c.Price.Normalize()
	for name, dim := range c.Dimensions {
		if !dim.Enabled {
			delete(c.Dimensions, name)
			continue
		}
		dim.Normalize()
		c.Dimensions[name] = dim
	}
	for key, terms := range c.Attributes {
		if len(terms) == 0 {
			delete(c.Attributes, key)
		}
	}
}

// MaxPageSize bounds pageSize when no tighter limit is configured.
const MaxPageSize = 100

// WithoutTerm returns a copy of the criteria with one facet value toggled
// off, leaving every other active filter intact. Toggling off the category
// taxonomy clears the category selection.
func (c *Criteria) WithoutTerm(taxonomy, term string, categoryTaxonomy string) *Criteria {
	clone := *c
	clone.Attributes = maps.Clone(c.Attributes)
	clone.Dimensions = maps.Clone(c.Dimensions)
	if taxonomy == categoryTaxonomy {
		if clone.Category == term {
			clone.Category = ""
		}
		return &clone
	}
	if terms, ok := clone.Attributes[taxonomy]; ok {
		kept := slices.DeleteFunc(slices.Clone(terms), func(t string) bool { return t == term })
		if len(kept) == 0 {
			delete(clone.Attributes, taxonomy)
		} else {
			clone.Attributes[taxonomy] = kept
		}
	}
	return &clone
}
