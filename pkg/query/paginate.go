package query

import "storefilter/pkg/types"

// Paginate labels a fetched page of matches with navigation metadata.
// totalPages = ceil(totalFound/pageSize); the current page clamps into
// [1, max(1, totalPages)] so a request beyond the last page selects the
// last one. Pure and idempotent.
func Paginate(items []types.Product, totalFound, requestedPage, pageSize int) types.ResultPage {
	if pageSize < 1 {
		pageSize = 1
	}
	if totalFound < 0 {
		totalFound = 0
	}
	totalPages := (totalFound + pageSize - 1) / pageSize
	current := requestedPage
	if current < 1 {
		current = 1
	}
	if totalPages > 0 && current > totalPages {
		current = totalPages
	}
	if items == nil {
		items = []types.Product{}
	}
	return types.ResultPage{
		Items:       items,
		TotalFound:  totalFound,
		CurrentPage: current,
		TotalPages:  totalPages,
		HasPrev:     current > 1,
		HasNext:     current < totalPages,
	}
}
