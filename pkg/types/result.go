package types

// Product is one catalog item reference in a result page.
type Product struct {
	Id    uint    `json:"id"`
	Slug  string  `json:"slug"`
	Title string  `json:"title"`
	Price float64 `json:"price,omitempty"`
}

// ResultPage is one bounded page of matches plus navigation metadata.
// Created fresh per query and never mutated afterwards.
type ResultPage struct {
	Items       []Product `json:"items"`
	TotalFound  int       `json:"totalFound"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	HasPrev     bool      `json:"hasPrev"`
	HasNext     bool      `json:"hasNext"`
}

// FacetCounts maps taxonomy -> term -> the product count that would result
// if that one term were toggled off from the current criteria. Advisory UI
// data only; staleness against a changing catalog is acceptable.
type FacetCounts map[string]map[string]int

func (f FacetCounts) Set(taxonomy, term string, count int) {
	terms, ok := f[taxonomy]
	if !ok {
		terms = map[string]int{}
		f[taxonomy] = terms
	}
	terms[term] = count
}
