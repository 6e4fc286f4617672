// Package settings exposes the storefront's named filter toggles. The
// admin surface that edits them lives elsewhere; this side only reads.
package settings

import "context"

// Settings are the storefront toggles consumed by the filter engine.
type Settings struct {
	EnableCategories  bool `json:"enable_categories"`
	EnableAttributes  bool `json:"enable_attributes"`
	EnablePriceFilter bool `json:"enable_price_filter"`
	AjaxFiltering     bool `json:"ajax_filtering"`
	ShowProductCount  bool `json:"show_product_count"`
	ProductsPerPage   int  `json:"products_per_page"`
}

// Defaults mirror a freshly installed storefront.
func Defaults() Settings {
	return Settings{
		EnableCategories:  true,
		EnableAttributes:  true,
		EnablePriceFilter: true,
		AjaxFiltering:     true,
		ShowProductCount:  true,
		ProductsPerPage:   12,
	}
}

// Sanitize clamps the page size into [1, 100].
func (s *Settings) Sanitize() {
	if s.ProductsPerPage < 1 {
		s.ProductsPerPage = Defaults().ProductsPerPage
	}
	if s.ProductsPerPage > 100 {
		s.ProductsPerPage = 100
	}
}

// Provider yields the current settings. Implementations must be safe for
// concurrent use.
type Provider interface {
	Current(ctx context.Context) Settings
}

// Static returns fixed settings, used in tests and as a no-redis fallback.
type Static struct {
	Settings Settings
}

func (s Static) Current(context.Context) Settings {
	out := s.Settings
	out.Sanitize()
	return out
}
