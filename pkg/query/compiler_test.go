package query

import (
	"context"
	"errors"
	"slices"
	"testing"

	"storefilter/pkg/catalog"
	"storefilter/pkg/types"
)

type fakeTermSource struct {
	taxonomies []string
	terms      map[string][]catalog.Term
	err        error
}

func (f *fakeTermSource) Taxonomies(context.Context) ([]string, error) {
	return f.taxonomies, f.err
}

func (f *fakeTermSource) Terms(_ context.Context, taxonomy string) ([]catalog.Term, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.terms[taxonomy], nil
}

func (f *fakeTermSource) TermLabels(ctx context.Context, taxonomy string) ([]string, error) {
	terms, err := f.Terms(ctx, taxonomy)
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(terms))
	for _, t := range terms {
		labels = append(labels, t.Label)
	}
	return labels, nil
}

func testCompiler(terms catalog.TermSource) *Compiler {
	return NewCompiler("product_cat", []types.DimensionConfig{
		{Name: "width", Backing: types.BackingEnumeratedTerms, Taxonomy: "pa_width-cm"},
		{Name: "depth", Backing: types.BackingMetaNumeric, MetaField: "_depth"},
	}, terms)
}

func TestCompileAlwaysIncludesVisibility(t *testing.T) {
	p, err := testCompiler(&fakeTermSource{}).Compile(context.Background(), &types.Criteria{})
	if err != nil {
		t.Fatal(err)
	}
	if p.PostType != "product" {
		t.Errorf("post type = %q", p.PostType)
	}
	if !slices.Equal(p.Visibility, []string{"catalog", "visible"}) {
		t.Errorf("visibility = %v", p.Visibility)
	}
	if len(p.Taxonomy) != 0 || len(p.Numeric) != 0 {
		t.Errorf("empty criteria should yield no filter clauses: %+v", p)
	}
}

func TestCompileCategoryAndFacets(t *testing.T) {
	criteria := &types.Criteria{
		Category: "chairs",
		Attributes: map[string][]string{
			"pa_color":    {"red", "blue"},
			"pa_material": {"oak"},
		},
	}
	p, err := testCompiler(&fakeTermSource{}).Compile(context.Background(), criteria)
	if err != nil {
		t.Fatal(err)
	}
	// category plus one clause per facet, all AND'd
	if len(p.Taxonomy) != 3 {
		t.Fatalf("expected 3 taxonomy clauses, got %d", len(p.Taxonomy))
	}
	if p.Taxonomy[0].Taxonomy != "product_cat" || p.Taxonomy[0].Terms[0] != "chairs" {
		t.Errorf("category clause first, got %+v", p.Taxonomy[0])
	}
	if p.Taxonomy[1].Taxonomy != "pa_color" || !slices.Equal(p.Taxonomy[1].Terms, []string{"red", "blue"}) {
		t.Errorf("color terms OR'd via IN, got %+v", p.Taxonomy[1])
	}
	for _, clause := range p.Taxonomy {
		if clause.Field != types.MatchSlug {
			t.Errorf("clauses match on slug, got %q", clause.Field)
		}
	}
}

func TestCompilePriceBoundSelection(t *testing.T) {
	c := testCompiler(&fakeTermSource{})
	cases := []struct {
		name    string
		price   types.Range
		compare types.CompareOp
		lo, hi  float64
	}{
		{"both", types.Range{Min: types.Float(10), Max: types.Float(90)}, types.CompareBetween, 10, 90},
		{"inverted", types.Range{Min: types.Float(10), Max: types.Float(5)}, types.CompareBetween, 5, 10},
		{"min only", types.Range{Min: types.Float(10)}, types.CompareGte, 10, 0},
		{"max only", types.Range{Max: types.Float(90)}, types.CompareLte, 0, 90},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := c.Compile(context.Background(), &types.Criteria{Price: tc.price})
			if err != nil {
				t.Fatal(err)
			}
			if len(p.Numeric) != 1 {
				t.Fatalf("expected one numeric clause, got %d", len(p.Numeric))
			}
			got := p.Numeric[0]
			if got.Field != "_price" || got.Compare != tc.compare || got.Lo != tc.lo || got.Hi != tc.hi {
				t.Errorf("clause = %+v", got)
			}
		})
	}

	p, err := c.Compile(context.Background(), &types.Criteria{})
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Numeric) != 0 {
		t.Errorf("absent price must omit the clause entirely, got %+v", p.Numeric)
	}
}

func TestCompileDisabledDimensionContributesNothing(t *testing.T) {
	criteria := &types.Criteria{
		Dimensions: map[string]types.DimensionRange{
			"width": {Enabled: false, Range: types.Range{Min: types.Float(10), Max: types.Float(50)}},
		},
	}
	p, err := testCompiler(&fakeTermSource{}).Compile(context.Background(), criteria)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Taxonomy) != 0 || len(p.Numeric) != 0 {
		t.Errorf("disabled dimension leaked into predicate: %+v", p)
	}
}

func TestCompileMetaBackedDimension(t *testing.T) {
	criteria := &types.Criteria{
		Dimensions: map[string]types.DimensionRange{
			"depth": {Enabled: true, Range: types.Range{Min: types.Float(30), Max: types.Float(60)}},
		},
	}
	p, err := testCompiler(&fakeTermSource{}).Compile(context.Background(), criteria)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Numeric) != 1 {
		t.Fatalf("expected one numeric clause, got %+v", p)
	}
	got := p.Numeric[0]
	if got.Field != "_depth" || got.Compare != types.CompareBetween || got.Lo != 30 || got.Hi != 60 {
		t.Errorf("clause = %+v", got)
	}
}

func TestCompileEnumeratedDimensionResolvesTerms(t *testing.T) {
	src := &fakeTermSource{terms: map[string][]catalog.Term{
		"pa_width-cm": {
			{Slug: "40cm", Label: "40"},
			{Slug: "60cm", Label: "60"},
			{Slug: "120cm", Label: "120"},
			{Slug: "odd", Label: "n/a"},
		},
	}}
	criteria := &types.Criteria{
		Dimensions: map[string]types.DimensionRange{
			"width": {Enabled: true, Range: types.Range{Min: types.Float(50), Max: types.Float(130)}},
		},
	}
	p, err := testCompiler(src).Compile(context.Background(), criteria)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Taxonomy) != 1 || len(p.Numeric) != 0 {
		t.Fatalf("enumerated backing must emit a taxonomy clause, got %+v", p)
	}
	if !slices.Equal(p.Taxonomy[0].Terms, []string{"60cm", "120cm"}) {
		t.Errorf("resolved terms = %v", p.Taxonomy[0].Terms)
	}
}

func TestCompileEnumeratedDimensionNoMatchesMeansEmptyClause(t *testing.T) {
	src := &fakeTermSource{terms: map[string][]catalog.Term{
		"pa_width-cm": {{Slug: "40cm", Label: "40"}},
	}}
	criteria := &types.Criteria{
		Dimensions: map[string]types.DimensionRange{
			"width": {Enabled: true, Range: types.Range{Min: types.Float(500)}},
		},
	}
	p, err := testCompiler(src).Compile(context.Background(), criteria)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Taxonomy) != 1 || len(p.Taxonomy[0].Terms) != 0 {
		t.Fatalf("out-of-range filter should produce an empty (match nothing) clause, got %+v", p.Taxonomy)
	}
}

func TestCompilePropagatesTermSourceFailure(t *testing.T) {
	src := &fakeTermSource{err: errors.New("store down")}
	criteria := &types.Criteria{
		Dimensions: map[string]types.DimensionRange{
			"width": {Enabled: true, Range: types.Range{Min: types.Float(10)}},
		},
	}
	if _, err := testCompiler(src).Compile(context.Background(), criteria); err == nil {
		t.Fatal("expected error when term resolution fails")
	}
}
