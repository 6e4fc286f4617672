package query

import (
	"context"
	"testing"

	"storefilter/pkg/catalog"
	"storefilter/pkg/types"
)

type fakeExec struct {
	queryFn func(p *types.Predicate, page, pageSize int) (*catalog.QueryResult, error)
	countFn func(p *types.Predicate) (int, error)
}

func (f *fakeExec) Query(_ context.Context, p *types.Predicate, _ types.SortSpec, page, pageSize int) (*catalog.QueryResult, error) {
	return f.queryFn(p, page, pageSize)
}

func (f *fakeExec) Count(_ context.Context, p *types.Predicate) (int, error) {
	return f.countFn(p)
}

func TestEngineSearchPaginatesResult(t *testing.T) {
	exec := &fakeExec{
		queryFn: func(p *types.Predicate, page, pageSize int) (*catalog.QueryResult, error) {
			return &catalog.QueryResult{
				Items:      []types.Product{{Id: 1, Slug: "chair"}},
				TotalFound: 25,
				TotalPages: 3,
			}, nil
		},
	}
	engine := &Engine{Exec: exec, Compiler: testCompiler(&fakeTermSource{})}

	page, err := engine.Search(context.Background(), &types.Criteria{Page: 10, PageSize: 12})
	if err != nil {
		t.Fatal(err)
	}
	if page.CurrentPage != 3 || page.TotalPages != 3 || page.TotalFound != 25 {
		t.Errorf("page = %+v", page)
	}
	if len(page.Items) != 1 {
		t.Errorf("items = %v", page.Items)
	}
}

func TestEngineSearchEmptyIsNotAnError(t *testing.T) {
	exec := &fakeExec{
		queryFn: func(p *types.Predicate, page, pageSize int) (*catalog.QueryResult, error) {
			return &catalog.QueryResult{Items: nil, TotalFound: 0, TotalPages: 0}, nil
		},
	}
	engine := &Engine{Exec: exec, Compiler: testCompiler(&fakeTermSource{})}

	page, err := engine.Search(context.Background(), &types.Criteria{Page: 1, PageSize: 12})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalFound != 0 || page.CurrentPage != 1 || len(page.Items) != 0 {
		t.Errorf("zero matches should be a valid page, got %+v", page)
	}
}
