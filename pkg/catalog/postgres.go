package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"storefilter/pkg/logging"
	"storefilter/pkg/types"
)

// PostgresStore executes compiled predicates against a WordPress-shaped
// catalog schema (posts, postmeta, terms, term_taxonomy,
// term_relationships). It implements Executor, TermSource and PriceSource.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const priceMetaKey = "_price"
const visibilityMetaKey = "_visibility"

// sqlQuery accumulates WHERE fragments and their positional args.
type sqlQuery struct {
	where []string
	args  []any
}

func (q *sqlQuery) add(fragment string, args ...any) {
	base := len(q.args)
	for i := range args {
		fragment = strings.Replace(fragment, "?", fmt.Sprintf("$%d", base+i+1), 1)
	}
	q.where = append(q.where, fragment)
	q.args = append(q.args, args...)
}

func (q *sqlQuery) placeholders(n int) string {
	base := len(q.args)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", base+i+1)
	}
	return strings.Join(parts, ", ")
}

// buildWhere translates a predicate into conjunctive WHERE fragments.
// Clause order follows the compilation contract: visibility, then taxonomy
// clauses, then numeric clauses.
func buildWhere(p *types.Predicate) *sqlQuery {
	q := &sqlQuery{}
	q.add("p.post_type = ?", p.PostType)
	q.add("p.post_status = 'publish'")

	if len(p.Visibility) > 0 {
		ph := q.placeholders(len(p.Visibility))
		args := make([]any, len(p.Visibility))
		for i, v := range p.Visibility {
			args[i] = v
		}
		q.where = append(q.where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM postmeta vm WHERE vm.post_id = p.id AND vm.meta_key = '%s' AND vm.meta_value IN (%s))",
			visibilityMetaKey, ph))
		q.args = append(q.args, args...)
	}

	for _, tc := range p.Taxonomy {
		if len(tc.Terms) == 0 {
			// IN over an empty set matches nothing
			q.where = append(q.where, "1 = 0")
			continue
		}
		field := "t.slug"
		if tc.Field == types.MatchId {
			field = "t.term_id::text"
		}
		ph := q.placeholders(len(tc.Terms) + 1)
		first := strings.Index(ph, ",")
		taxPh, termPh := ph[:first], ph[first+2:]
		q.where = append(q.where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM term_relationships tr"+
				" JOIN term_taxonomy tt ON tt.term_taxonomy_id = tr.term_taxonomy_id"+
				" JOIN terms t ON t.term_id = tt.term_id"+
				" WHERE tr.object_id = p.id AND tt.taxonomy = %s AND %s IN (%s))",
			taxPh, field, termPh))
		q.args = append(q.args, tc.Taxonomy)
		for _, term := range tc.Terms {
			q.args = append(q.args, term)
		}
	}

	for _, nc := range p.Numeric {
		switch nc.Compare {
		case types.CompareBetween:
			q.add("EXISTS (SELECT 1 FROM postmeta m WHERE m.post_id = p.id AND m.meta_key = ?"+
				" AND m.meta_value <> '' AND m.meta_value::numeric BETWEEN ? AND ?)",
				nc.Field, nc.Lo, nc.Hi)
		case types.CompareGte:
			q.add("EXISTS (SELECT 1 FROM postmeta m WHERE m.post_id = p.id AND m.meta_key = ?"+
				" AND m.meta_value <> '' AND m.meta_value::numeric >= ?)",
				nc.Field, nc.Lo)
		case types.CompareLte:
			q.add("EXISTS (SELECT 1 FROM postmeta m WHERE m.post_id = p.id AND m.meta_key = ?"+
				" AND m.meta_value <> '' AND m.meta_value::numeric <= ?)",
				nc.Field, nc.Hi)
		}
	}
	return q
}

func orderClause(sort types.SortSpec) string {
	column := "p.menu_order"
	switch sort.Field {
	case types.OrderPrice:
		column = "price"
	case types.OrderTitle:
		column = "p.post_title"
	case types.OrderDate:
		column = "p.post_date"
	}
	dir := "ASC"
	if sort.Direction == types.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, p.id ASC", column, dir)
}

func (s *PostgresStore) Count(ctx context.Context, p *types.Predicate) (int, error) {
	q := buildWhere(p)
	query := "SELECT COUNT(*) FROM posts p WHERE " + strings.Join(q.where, " AND ")
	var total int
	if err := s.db.QueryRowContext(ctx, query, q.args...).Scan(&total); err != nil {
		return 0, wrapStoreErr(err)
	}
	return total, nil
}

// Query counts the matches, clamps the requested page onto the last
// available one and fetches that page. A request beyond the final page
// therefore still returns rows instead of an empty tail.
func (s *PostgresStore) Query(ctx context.Context, p *types.Predicate, sort types.SortSpec, page, pageSize int) (*QueryResult, error) {
	if pageSize < 1 {
		pageSize = 1
	}
	total, err := s.Count(ctx, p)
	if err != nil {
		return nil, err
	}
	totalPages := (total + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	q := buildWhere(p)
	offset := (page - 1) * pageSize
	query := fmt.Sprintf(
		"SELECT p.id, p.post_name, p.post_title,"+
			" COALESCE((SELECT pm.meta_value::numeric FROM postmeta pm WHERE pm.post_id = p.id AND pm.meta_key = '%s' AND pm.meta_value <> '' LIMIT 1), 0) AS price"+
			" FROM posts p WHERE %s %s LIMIT %d OFFSET %d",
		priceMetaKey, strings.Join(q.where, " AND "), orderClause(sort), pageSize, offset)

	logging.FromCtx(ctx).Debug("catalog query",
		zap.Int("page", page), zap.Int("pageSize", pageSize), zap.Int("total", total))

	rows, err := s.db.QueryContext(ctx, query, q.args...)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()

	items := make([]types.Product, 0, pageSize)
	for rows.Next() {
		var it types.Product
		if err := rows.Scan(&it.Id, &it.Slug, &it.Title, &it.Price); err != nil {
			return nil, wrapStoreErr(err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr(err)
	}
	return &QueryResult{Items: items, TotalFound: total, TotalPages: totalPages}, nil
}

func (s *PostgresStore) Taxonomies(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT taxonomy FROM term_taxonomy WHERE taxonomy LIKE 'pa\\_%' ORDER BY taxonomy")
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var tax string
		if err := rows.Scan(&tax); err != nil {
			return nil, wrapStoreErr(err)
		}
		out = append(out, tax)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Terms(ctx context.Context, taxonomy string) ([]Term, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT t.slug, t.name FROM terms t"+
			" JOIN term_taxonomy tt ON tt.term_id = t.term_id"+
			" WHERE tt.taxonomy = $1 AND tt.count > 0 ORDER BY t.name",
		taxonomy)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()
	var out []Term
	for rows.Next() {
		var term Term
		if err := rows.Scan(&term.Slug, &term.Label); err != nil {
			return nil, wrapStoreErr(err)
		}
		out = append(out, term)
	}
	return out, rows.Err()
}

func (s *PostgresStore) TermLabels(ctx context.Context, taxonomy string) ([]string, error) {
	terms, err := s.Terms(ctx, taxonomy)
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(terms))
	for _, term := range terms {
		if term.Label != "" {
			labels = append(labels, term.Label)
		}
	}
	return labels, nil
}

// PriceRange returns the catalog-wide price bounds for pre-filling the
// price controls. An empty catalog yields {0, 1000}.
func (s *PostgresStore) PriceRange(ctx context.Context) (types.Bounds, error) {
	var lo, hi sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		"SELECT MIN(meta_value::numeric), MAX(meta_value::numeric) FROM postmeta"+
			" WHERE meta_key = $1 AND meta_value <> ''",
		priceMetaKey).Scan(&lo, &hi)
	if err != nil {
		return types.Bounds{}, wrapStoreErr(err)
	}
	if !lo.Valid || !hi.Valid {
		return types.Bounds{Min: 0, Max: 1000}, nil
	}
	return types.Bounds{Min: lo.Float64, Max: hi.Float64}, nil
}

func wrapStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", types.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", types.ErrUpstream, err)
}
