package query

import (
	"context"
	"errors"
	"slices"
	"testing"

	"storefilter/pkg/types"
)

func selectedTermCount(p *types.Predicate) int {
	n := 0
	for _, clause := range p.Taxonomy {
		n += len(clause.Terms)
	}
	return n
}

func TestCountsExcludingRemovesOneTermPerQuery(t *testing.T) {
	criteria := &types.Criteria{
		Category:   "chairs",
		Attributes: map[string][]string{"pa_color": {"red", "blue"}},
	}
	// the fake count is the number of selected terms left in the
	// predicate, so a removed term is directly observable
	exec := &fakeExec{countFn: func(p *types.Predicate) (int, error) {
		return selectedTermCount(p), nil
	}}
	counter := &FacetCounter{Exec: exec, Compiler: testCompiler(&fakeTermSource{}), Concurrency: 2}

	universe := map[string][]string{
		"product_cat": {"chairs", "tables"},
		"pa_color":    {"red", "blue", "green"},
	}
	counts, err := counter.CountsExcluding(context.Background(), criteria, universe)
	if err != nil {
		t.Fatal(err)
	}

	// three terms selected in total; removing a selected one leaves two
	if got := counts["pa_color"]["red"]; got != 2 {
		t.Errorf("removing red should leave 2 selected terms, got %d", got)
	}
	if got := counts["product_cat"]["chairs"]; got != 2 {
		t.Errorf("removing the category should leave 2 selected terms, got %d", got)
	}
	// removing a term that is not selected changes nothing
	if got := counts["pa_color"]["green"]; got != 3 {
		t.Errorf("removing an unselected term should leave 3, got %d", got)
	}
	if got := counts["product_cat"]["tables"]; got != 3 {
		t.Errorf("removing an unselected category should leave 3, got %d", got)
	}
}

func TestCountsExcludingSurvivesPartialFailure(t *testing.T) {
	criteria := &types.Criteria{Attributes: map[string][]string{"pa_color": {"red"}}}
	exec := &fakeExec{countFn: func(p *types.Predicate) (int, error) {
		for _, clause := range p.Taxonomy {
			if slices.Contains(clause.Terms, "red") {
				return 0, errors.New("sub-query failed")
			}
		}
		return 7, nil
	}}
	counter := &FacetCounter{Exec: exec, Compiler: testCompiler(&fakeTermSource{})}

	universe := map[string][]string{"pa_color": {"red", "blue"}}
	counts, err := counter.CountsExcluding(context.Background(), criteria, universe)
	if err != nil {
		t.Fatal(err)
	}
	// removing "red" succeeds (red is gone from the predicate), removing
	// "blue" fails because red stays in; the failed count is omitted
	if got, ok := counts["pa_color"]["red"]; !ok || got != 7 {
		t.Errorf("count for red = %d ok=%v", got, ok)
	}
	if _, ok := counts["pa_color"]["blue"]; ok {
		t.Error("failed sub-query must be omitted, not reported")
	}
}

func TestCountsExcludingDoesNotMutateCriteria(t *testing.T) {
	criteria := &types.Criteria{Attributes: map[string][]string{"pa_color": {"red", "blue"}}}
	exec := &fakeExec{countFn: func(p *types.Predicate) (int, error) { return 1, nil }}
	counter := &FacetCounter{Exec: exec, Compiler: testCompiler(&fakeTermSource{})}

	_, err := counter.CountsExcluding(context.Background(), criteria,
		map[string][]string{"pa_color": {"red", "blue"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := criteria.Attributes["pa_color"]; len(got) != 2 {
		t.Errorf("criteria mutated during fan-out: %v", got)
	}
}
