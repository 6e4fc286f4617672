package query

import (
	"reflect"
	"testing"

	"storefilter/pkg/types"
)

func TestPaginateClampsBeyondLastPage(t *testing.T) {
	page := Paginate(nil, 25, 10, 12)
	if page.TotalPages != 3 || page.CurrentPage != 3 {
		t.Errorf("25 matches at size 12 requesting page 10 should clamp to 3/3, got %d/%d",
			page.CurrentPage, page.TotalPages)
	}
	if page.HasNext {
		t.Error("clamped last page has no next")
	}
	if !page.HasPrev {
		t.Error("last page of three has a previous")
	}
}

func TestPaginateCeilDivision(t *testing.T) {
	cases := []struct {
		total, size, pages int
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{24, 12, 2},
		{25, 12, 3},
	}
	for _, c := range cases {
		if got := Paginate(nil, c.total, 1, c.size).TotalPages; got != c.pages {
			t.Errorf("ceil(%d/%d) = %d, want %d", c.total, c.size, got, c.pages)
		}
	}
}

func TestPaginateEmptyResultIsValid(t *testing.T) {
	page := Paginate(nil, 0, 1, 12)
	if page.TotalFound != 0 || page.CurrentPage != 1 || page.TotalPages != 0 {
		t.Errorf("zero matches is a valid page, got %+v", page)
	}
	if page.HasPrev || page.HasNext {
		t.Error("empty result has no navigation")
	}
	if page.Items == nil {
		t.Error("items must be an empty slice, not nil")
	}
}

func TestPaginateIdempotent(t *testing.T) {
	items := []types.Product{{Id: 1, Slug: "a"}, {Id: 2, Slug: "b"}}
	first := Paginate(items, 40, 2, 2)
	second := Paginate(items, 40, 2, 2)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same inputs must yield identical pages: %+v vs %+v", first, second)
	}
	if first.CurrentPage != 2 || !first.HasPrev || !first.HasNext {
		t.Errorf("middle page metadata wrong: %+v", first)
	}
}
