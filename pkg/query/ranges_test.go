package query

import (
	"context"
	"testing"

	"storefilter/pkg/catalog"
	"storefilter/pkg/types"
)

func termsFromLabels(labels []string) []catalog.Term {
	terms := make([]catalog.Term, 0, len(labels))
	for _, l := range labels {
		terms = append(terms, catalog.Term{Slug: l, Label: l})
	}
	return terms
}

func TestResolveBoundsDiscardsInvalidLabels(t *testing.T) {
	src := &fakeTermSource{terms: map[string][]catalog.Term{
		"pa_width-cm": termsFromLabels([]string{"10", "10,5", "abc", "-5", "20"}),
	}}
	bounds, err := ResolveBounds(context.Background(), src, "pa_width-cm")
	if err != nil {
		t.Fatal(err)
	}
	if bounds.Min != 10 || bounds.Max != 20 {
		t.Errorf("expected {10,20}, got %+v", bounds)
	}
}

func TestResolveBoundsFallback(t *testing.T) {
	src := &fakeTermSource{terms: map[string][]catalog.Term{
		"pa_width-cm": termsFromLabels([]string{"abc", "-3", ""}),
	}}
	bounds, err := ResolveBounds(context.Background(), src, "pa_width-cm")
	if err != nil {
		t.Fatal(err)
	}
	if bounds != FallbackBounds {
		t.Errorf("no parsable labels should yield the fallback, got %+v", bounds)
	}

	empty := &fakeTermSource{}
	bounds, err = ResolveBounds(context.Background(), empty, "pa_width-cm")
	if err != nil || bounds != FallbackBounds {
		t.Errorf("empty taxonomy should yield the fallback, got %+v err %v", bounds, err)
	}
}

func TestResolveBoundsSingleValue(t *testing.T) {
	src := &fakeTermSource{terms: map[string][]catalog.Term{
		"pa_area-m2": termsFromLabels([]string{"2,5"}),
	}}
	bounds, err := ResolveBounds(context.Background(), src, "pa_area-m2")
	if err != nil {
		t.Fatal(err)
	}
	if bounds.Min != 2.5 || bounds.Max != 2.5 {
		t.Errorf("single label should pin both ends, got %+v", bounds)
	}
}

func TestResolveTermsInRangeOpenEnds(t *testing.T) {
	src := &fakeTermSource{terms: map[string][]catalog.Term{
		"pa_width-cm": {
			{Slug: "w40", Label: "40"},
			{Slug: "w60", Label: "60"},
			{Slug: "w80", Label: "80"},
		},
	}}
	got, err := ResolveTermsInRange(context.Background(), src, "pa_width-cm",
		types.Range{Min: types.Float(60)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "w60" || got[1] != "w80" {
		t.Errorf("min-only range should be unbounded above, got %v", got)
	}

	got, err = ResolveTermsInRange(context.Background(), src, "pa_width-cm",
		types.Range{Min: types.Float(80), Max: types.Float(40)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("inverted bounds normalize before matching, got %v", got)
	}
}
