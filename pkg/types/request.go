package types

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// FlexFloat accepts a JSON number, a numeric string ("12.5", "12,5") or an
// empty string. Empty or unparsable input means "bound absent", never zero.
type FlexFloat struct {
	value *float64
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	f.value = nil
	var num float64
	if err := json.Unmarshal(b, &num); err == nil {
		f.value = &num
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	f.value = parseFloat(s)
	return nil
}

func (f FlexFloat) Ptr() *float64 {
	return f.value
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

type wireDimension struct {
	Enabled bool      `json:"enabled"`
	Min     FlexFloat `json:"min"`
	Max     FlexFloat `json:"max"`
}

type wireRequest struct {
	Category   string                   `json:"category" schema:"category"`
	Attributes map[string][]string      `json:"attributes" schema:"-"`
	Terms      []string                 `json:"terms" schema:"-"`
	MinPrice   FlexFloat                `json:"min_price" schema:"-"`
	MaxPrice   FlexFloat                `json:"max_price" schema:"-"`
	Dimensions map[string]wireDimension `json:"dimensions" schema:"-"`
	Page       int                      `json:"page" schema:"page"`
	PageSize   int                      `json:"pageSize" schema:"size"`
	OrderBy    string                   `json:"orderby" schema:"orderby"`
	Order      string                   `json:"order" schema:"order"`
}

// FilterRequest is one decoded filter submission. UnscopedTerms holds
// attribute values sent without a taxonomy key; the caller assigns them to
// their owning taxonomy through the attribute lookup table.
type FilterRequest struct {
	Criteria      Criteria
	UnscopedTerms []string
}

// ParseFilterRequest decodes a filter request from either the query string
// (GET) or a JSON body (POST) into normalized criteria. Parsing is
// deliberately permissive: malformed fields degrade to their absent or
// default value, nothing is rejected. Taxonomy keys outside the allow-list
// are folded into defaultTaxonomy so unvalidated identifiers never reach a
// taxonomy lookup.
func ParseFilterRequest(r *http.Request, defaultTaxonomy string, maxPageSize int) *FilterRequest {
	raw := &wireRequest{}
	if r.Method == http.MethodGet {
		query := r.URL.Query()
		_ = decoder.Decode(raw, query)
		decodeQueryFilters(query, raw)
	} else {
		_ = json.NewDecoder(r.Body).Decode(raw)
	}
	return buildRequest(raw, defaultTaxonomy, maxPageSize)
}

// decodeQueryFilters handles the repeated filter params:
//
//	attr=pa_color:red||blue   scoped facet selection
//	attr=red                  unscoped value, resolved later
//	dim=width:40-120          enabled dimension range, either end may be empty
//	min_price / max_price     price bounds
func decodeQueryFilters(query url.Values, raw *wireRequest) {
	raw.MinPrice.value = parseFloat(query.Get("min_price"))
	raw.MaxPrice.value = parseFloat(query.Get("max_price"))

	for _, v := range query["attr"] {
		key, value, found := strings.Cut(v, ":")
		if !found {
			if term := strings.TrimSpace(v); term != "" {
				raw.Terms = append(raw.Terms, term)
			}
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		if raw.Attributes == nil {
			raw.Attributes = map[string][]string{}
		}
		raw.Attributes[key] = append(raw.Attributes[key], strings.Split(value, "||")...)
	}

	for _, v := range query["dim"] {
		name, bounds, found := strings.Cut(v, ":")
		if !found {
			continue
		}
		lo, hi, found := strings.Cut(bounds, "-")
		if !found {
			continue
		}
		if raw.Dimensions == nil {
			raw.Dimensions = map[string]wireDimension{}
		}
		raw.Dimensions[strings.TrimSpace(name)] = wireDimension{
			Enabled: true,
			Min:     FlexFloat{value: parseFloat(lo)},
			Max:     FlexFloat{value: parseFloat(hi)},
		}
	}
}

func buildRequest(raw *wireRequest, defaultTaxonomy string, maxPageSize int) *FilterRequest {
	c := Criteria{
		Category: strings.TrimSpace(raw.Category),
		Price:    Range{Min: raw.MinPrice.Ptr(), Max: raw.MaxPrice.Ptr()},
		Sort:     DefaultSort(),
		Page:     raw.Page,
		PageSize: raw.PageSize,
	}

	switch raw.OrderBy {
	case OrderMenu, OrderPrice, OrderTitle, OrderDate:
		c.Sort.Field = raw.OrderBy
	}
	if strings.EqualFold(raw.Order, string(Descending)) {
		c.Sort.Direction = Descending
	}

	unscoped := make([]string, 0, len(raw.Terms))
	for _, term := range raw.Terms {
		if t := strings.TrimSpace(term); t != "" {
			unscoped = append(unscoped, t)
		}
	}

	for key, terms := range raw.Attributes {
		kept := make([]string, 0, len(terms))
		for _, term := range terms {
			if t := strings.TrimSpace(term); t != "" {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			continue
		}
		if !ValidTaxonomyKey(key) {
			key = defaultTaxonomy
		}
		if key == "" {
			continue
		}
		if c.Attributes == nil {
			c.Attributes = map[string][]string{}
		}
		c.Attributes[key] = append(c.Attributes[key], kept...)
	}

	for name, dim := range raw.Dimensions {
		if !dim.Enabled {
			// stale bounds next to a disabled toggle must not leak through
			continue
		}
		name = strings.TrimSpace(name)
		if !ValidTaxonomyKey(name) {
			continue
		}
		if c.Dimensions == nil {
			c.Dimensions = map[string]DimensionRange{}
		}
		c.Dimensions[name] = DimensionRange{
			Enabled: true,
			Range:   Range{Min: dim.Min.Ptr(), Max: dim.Max.Ptr()},
		}
	}

	c.Sanitize(maxPageSize)
	return &FilterRequest{Criteria: c, UnscopedTerms: unscoped}
}
