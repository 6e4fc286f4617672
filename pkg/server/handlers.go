package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"storefilter/pkg/logging"
	"storefilter/pkg/settings"
	"storefilter/pkg/types"
)

// paginationMeta is the navigation block of the wire response.
type paginationMeta struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	HasPrev     bool `json:"hasPrev"`
	HasNext     bool `json:"hasNext"`
}

type filterResponse struct {
	Success    bool            `json:"success"`
	Products   []types.Product `json:"products"`
	Pagination paginationMeta  `json:"pagination"`
	FoundPosts int             `json:"found_posts"`
}

type failureResponse struct {
	Success bool `json:"success"`
}

func writeFailure(w http.ResponseWriter, enc *json.Encoder, status int) error {
	w.WriteHeader(status)
	return enc.Encode(failureResponse{})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, types.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, types.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (ws *WebServer) verifyToken(r *http.Request) error {
	if r.Method != http.MethodPost || ws.Tokens == nil {
		return nil
	}
	return ws.Tokens.Verify(r.Header.Get(TokenHeader))
}

// applyToggles strips filter concerns the storefront has switched off.
// Criteria arriving for a disabled concern are dropped, not rejected.
func applyToggles(criteria *types.Criteria, s settings.Settings) {
	if !s.EnableCategories {
		criteria.Category = ""
	}
	if !s.EnableAttributes {
		criteria.Attributes = nil
	}
	if !s.EnablePriceFilter {
		criteria.Price = types.Range{}
	}
	if criteria.PageSize == 0 {
		criteria.PageSize = s.ProductsPerPage
	}
}

// FilterProducts handles GET and POST /api/filter: parse, compile, execute,
// paginate. Zero matches is a valid response, not a failure.
func (ws *WebServer) FilterProducts(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
	start := time.Now()
	filterRequests.Inc()
	defer func() {
		filterDuration.Observe(time.Since(start).Seconds())
	}()
	ctx := r.Context()

	if err := ws.verifyToken(r); err != nil {
		rejectedRequests.Inc()
		if werr := writeFailure(w, enc, http.StatusForbidden); werr != nil {
			return werr
		}
		return err
	}

	fr := types.ParseFilterRequest(r, ws.DefaultTaxonomy, ws.MaxPageSize)
	criteria := &fr.Criteria
	current := ws.Settings.Current(ctx)
	applyToggles(criteria, current)

	if len(fr.UnscopedTerms) > 0 && current.EnableAttributes {
		lookup, err := ws.Lookup.Get(ctx)
		if err != nil {
			logging.FromCtx(ctx).Warn("attribute lookup unavailable", zap.Error(err))
		} else {
			criteria.Attributes = lookup.Assign(criteria.Attributes, fr.UnscopedTerms)
		}
	}

	page, err := ws.Engine.Search(ctx, criteria)
	if err != nil {
		if werr := writeFailure(w, enc, statusFor(err)); werr != nil {
			return werr
		}
		return err
	}

	return enc.Encode(filterResponse{
		Success:  true,
		Products: page.Items,
		Pagination: paginationMeta{
			CurrentPage: page.CurrentPage,
			TotalPages:  page.TotalPages,
			HasPrev:     page.HasPrev,
			HasNext:     page.HasNext,
		},
		FoundPosts: page.TotalFound,
	})
}

type countsResponse struct {
	Success bool              `json:"success"`
	Counts  types.FacetCounts `json:"counts"`
}

// FacetCounts handles POST /api/filter/counts: for every facet value in the
// universe, the count if that one value were removed from the current
// selection. Only served when the product-count toggle is on.
func (ws *WebServer) FacetCounts(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
	countRequests.Inc()
	ctx := r.Context()

	if err := ws.verifyToken(r); err != nil {
		rejectedRequests.Inc()
		if werr := writeFailure(w, enc, http.StatusForbidden); werr != nil {
			return werr
		}
		return err
	}

	current := ws.Settings.Current(ctx)
	if !current.ShowProductCount {
		return writeFailure(w, enc, http.StatusNotFound)
	}

	fr := types.ParseFilterRequest(r, ws.DefaultTaxonomy, ws.MaxPageSize)
	criteria := &fr.Criteria
	applyToggles(criteria, current)

	if len(fr.UnscopedTerms) > 0 && current.EnableAttributes {
		lookup, err := ws.Lookup.Get(ctx)
		if err != nil {
			logging.FromCtx(ctx).Warn("attribute lookup unavailable", zap.Error(err))
		} else {
			criteria.Attributes = lookup.Assign(criteria.Attributes, fr.UnscopedTerms)
		}
	}

	universe, err := ws.facetUniverse(ctx)
	if err != nil {
		if werr := writeFailure(w, enc, statusFor(err)); werr != nil {
			return werr
		}
		return err
	}

	counts, err := ws.Facets.CountsExcluding(ctx, criteria, universe)
	if err != nil {
		if werr := writeFailure(w, enc, statusFor(err)); werr != nil {
			return werr
		}
		return err
	}
	return enc.Encode(countsResponse{Success: true, Counts: counts})
}

// facetUniverse lists every candidate facet value: all category terms plus
// the terms of each attribute taxonomy.
func (ws *WebServer) facetUniverse(ctx context.Context) (map[string][]string, error) {
	universe := map[string][]string{}

	categories, err := ws.Terms.Terms(ctx, ws.CategoryTaxonomy)
	if err != nil {
		return nil, err
	}
	for _, term := range categories {
		universe[ws.CategoryTaxonomy] = append(universe[ws.CategoryTaxonomy], term.Slug)
	}

	taxonomies, err := ws.Terms.Taxonomies(ctx)
	if err != nil {
		return nil, err
	}
	for _, taxonomy := range taxonomies {
		terms, err := ws.Terms.Terms(ctx, taxonomy)
		if err != nil {
			return nil, err
		}
		for _, term := range terms {
			universe[taxonomy] = append(universe[taxonomy], term.Slug)
		}
	}
	return universe, nil
}

type rangesResponse struct {
	Success    bool                    `json:"success"`
	Price      types.Bounds            `json:"price"`
	Dimensions map[string]types.Bounds `json:"dimensions"`
}

// FilterRanges handles GET /api/filter/ranges: the numeric bounds actually
// present in the catalog, used to pre-fill the range controls. Bounds fall
// back to a usable default instead of failing, the UI must always render.
func (ws *WebServer) FilterRanges(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
	ctx := r.Context()
	log := logging.FromCtx(ctx)

	price, err := ws.Prices.PriceRange(ctx)
	if err != nil {
		log.Warn("price range unavailable", zap.Error(err))
		price = types.Bounds{Min: 0, Max: 1000}
	}

	dims := make(map[string]types.Bounds, len(ws.Dimensions))
	for _, dim := range ws.Dimensions {
		if dim.Taxonomy == "" {
			continue
		}
		bounds, err := ws.Bounds.Resolve(ctx, dim.Taxonomy)
		if err != nil {
			log.Warn("dimension bounds unavailable",
				zap.String("dimension", dim.Name), zap.Error(err))
		}
		dims[dim.Name] = bounds
	}
	return enc.Encode(rangesResponse{Success: true, Price: price, Dimensions: dims})
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// IssueToken handles GET /api/filter/token: a short-lived request token the
// client must echo on filter submissions.
func (ws *WebServer) IssueToken(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error {
	if ws.Tokens == nil || !ws.Tokens.Enabled() {
		return enc.Encode(tokenResponse{Success: true})
	}
	token, err := ws.Tokens.Issue()
	if err != nil {
		if werr := writeFailure(w, enc, http.StatusInternalServerError); werr != nil {
			return werr
		}
		return err
	}
	return enc.Encode(tokenResponse{Success: true, Token: token})
}
