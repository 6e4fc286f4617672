package types

// MatchField selects how taxonomy terms are referenced in a clause.
type MatchField string

const (
	MatchSlug MatchField = "slug"
	MatchId   MatchField = "term_id"
)

type CompareOp string

const (
	CompareGte     CompareOp = ">="
	CompareLte     CompareOp = "<="
	CompareBetween CompareOp = "BETWEEN"
)

// TaxonomyClause restricts results to items tagged with one of the given
// terms in a categorical dimension. Terms combine with OR (IN); clauses
// combine with AND. An empty term set matches nothing.
type TaxonomyClause struct {
	Taxonomy string     `json:"taxonomy"`
	Field    MatchField `json:"field"`
	Terms    []string   `json:"terms"`
}

// NumericClause restricts results by comparing a numeric meta field.
// Lo/Hi are both set for BETWEEN, only Lo for >=, only Hi for <=.
type NumericClause struct {
	Field   string    `json:"field"`
	Compare CompareOp `json:"compare"`
	Lo      float64   `json:"lo,omitempty"`
	Hi      float64   `json:"hi,omitempty"`
}

// Predicate is the compiled catalog query: a conjunction of taxonomy and
// numeric clauses plus the fixed visibility restriction. It never leaves
// the query layer except across the catalog executor boundary.
type Predicate struct {
	PostType   string           `json:"postType"`
	Visibility []string         `json:"visibility"`
	Taxonomy   []TaxonomyClause `json:"taxonomy,omitempty"`
	Numeric    []NumericClause  `json:"numeric,omitempty"`
}

// VisibilityValues are the meta values marking an item as shown in the
// catalog listing.
var VisibilityValues = []string{"catalog", "visible"}

func NewPredicate() *Predicate {
	return &Predicate{
		PostType:   "product",
		Visibility: VisibilityValues,
	}
}

// NumericClauseFor builds the comparison clause for a range following the
// bound-presence rules: both bounds BETWEEN, only min >=, only max <=.
// Returns false when the range has no bounds at all.
func NumericClauseFor(field string, r Range) (NumericClause, bool) {
	r.Normalize()
	switch {
	case r.Min != nil && r.Max != nil:
		return NumericClause{Field: field, Compare: CompareBetween, Lo: *r.Min, Hi: *r.Max}, true
	case r.Min != nil:
		return NumericClause{Field: field, Compare: CompareGte, Lo: *r.Min}, true
	case r.Max != nil:
		return NumericClause{Field: field, Compare: CompareLte, Hi: *r.Max}, true
	}
	return NumericClause{}, false
}
