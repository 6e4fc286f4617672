package query

import (
	"context"

	"storefilter/pkg/catalog"
	"storefilter/pkg/types"
)

// Engine runs one filter request end to end: compile, execute, paginate.
// It holds no per-request state; concurrent requests are independent.
type Engine struct {
	Exec     catalog.Executor
	Compiler *Compiler
}

// Search executes the criteria and returns the labeled result page. Zero
// matches is a valid page with TotalFound 0, not an error.
func (e *Engine) Search(ctx context.Context, criteria *types.Criteria) (types.ResultPage, error) {
	predicate, err := e.Compiler.Compile(ctx, criteria)
	if err != nil {
		return types.ResultPage{}, err
	}
	res, err := e.Exec.Query(ctx, predicate, criteria.Sort, criteria.Page, criteria.PageSize)
	if err != nil {
		return types.ResultPage{}, err
	}
	return Paginate(res.Items, res.TotalFound, criteria.Page, criteria.PageSize), nil
}

// Count returns only the match total for the criteria.
func (e *Engine) Count(ctx context.Context, criteria *types.Criteria) (int, error) {
	predicate, err := e.Compiler.Compile(ctx, criteria)
	if err != nil {
		return 0, err
	}
	return e.Exec.Count(ctx, predicate)
}
