package types

import "testing"

func TestSanitizeDropsDisabledDimensions(t *testing.T) {
	c := Criteria{
		Dimensions: map[string]DimensionRange{
			"width": {Enabled: false, Range: Range{Min: Float(10), Max: Float(50)}},
			"depth": {Enabled: true, Range: Range{Min: Float(30)}},
		},
	}
	c.Sanitize(100)
	if _, ok := c.Dimensions["width"]; ok {
		t.Error("disabled dimension should be dropped regardless of stray bounds")
	}
	if _, ok := c.Dimensions["depth"]; !ok {
		t.Error("enabled dimension should survive")
	}
}

func TestSanitizeNormalizesAndClamps(t *testing.T) {
	c := Criteria{
		Price:    Range{Min: Float(90), Max: Float(20)},
		Page:     -3,
		PageSize: 5000,
	}
	c.Sanitize(100)
	if *c.Price.Min != 20 || *c.Price.Max != 90 {
		t.Errorf("price bounds not normalized: %+v", c.Price)
	}
	if c.Page != 1 {
		t.Errorf("page should clamp to 1, got %d", c.Page)
	}
	if c.PageSize != 100 {
		t.Errorf("pageSize should clamp to 100, got %d", c.PageSize)
	}
	if c.Sort.Field != OrderMenu || c.Sort.Direction != Ascending {
		t.Errorf("missing sort should default to menu order ascending, got %+v", c.Sort)
	}
}

func TestSanitizeKeepsUnsetPageSize(t *testing.T) {
	c := Criteria{}
	c.Sanitize(100)
	if c.PageSize != 0 {
		t.Errorf("unset pageSize must stay 0 for the configured default to apply, got %d", c.PageSize)
	}
}

func TestWithoutTermRemovesOneValue(t *testing.T) {
	c := Criteria{
		Category: "chairs",
		Attributes: map[string][]string{
			"pa_color": {"red", "blue"},
			"pa_size":  {"large"},
		},
	}
	reduced := c.WithoutTerm("pa_color", "red", "product_cat")
	if got := reduced.Attributes["pa_color"]; len(got) != 1 || got[0] != "blue" {
		t.Errorf("expected only blue left, got %v", got)
	}
	if len(c.Attributes["pa_color"]) != 2 {
		t.Error("original criteria must not be mutated")
	}

	reduced = c.WithoutTerm("pa_size", "large", "product_cat")
	if _, ok := reduced.Attributes["pa_size"]; ok {
		t.Error("facet with no remaining terms should disappear")
	}

	reduced = c.WithoutTerm("product_cat", "chairs", "product_cat")
	if reduced.Category != "" {
		t.Errorf("removing the category term should clear the category, got %q", reduced.Category)
	}
}

func TestValidTaxonomyKey(t *testing.T) {
	for key, want := range map[string]bool{
		"pa_color":   true,
		"pa-size":    true,
		"Width2":     true,
		"":           false,
		"pa color":   false,
		"a;drop":     false,
		"pa_color'":  false,
		"tax.onomy":  false,
	} {
		if got := ValidTaxonomyKey(key); got != want {
			t.Errorf("ValidTaxonomyKey(%q) = %v, want %v", key, got, want)
		}
	}
}
