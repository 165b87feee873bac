// Package fetch assembles bounded and unbounded result sets from the
// remote row store.
package fetch

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rpattn/recordbase/internal/domain"
	"github.com/rpattn/recordbase/internal/store"
)

// chunkSize is the fixed page size FetchAll traverses with. The store
// only offers numeric offsets, so chunks are fetched sequentially; each
// offset depends on the previous chunk's observed length.
const chunkSize = 1000

// Engine issues paginated queries against a store client.
type Engine struct {
	client store.Client
}

// NewEngine creates a fetch engine over the given store client.
func NewEngine(client store.Client) *Engine {
	return &Engine{client: client}
}

// FetchPage runs a single bounded query for interactive views: an OR of
// case-insensitive substring matches across the search fields, equality
// filters (skipping empty and "all" values), one sort key or the table
// default, and an inclusive offset window, with an exact total count.
func (e *Engine) FetchPage(ctx context.Context, table domain.Table, req domain.PaginationRequest) (domain.PaginationResult, error) {
	if req.Page < 1 {
		return domain.PaginationResult{}, fmt.Errorf("page must be positive, got %d", req.Page)
	}
	if req.PageSize < 1 {
		return domain.PaginationResult{}, fmt.Errorf("pageSize must be positive, got %d", req.PageSize)
	}

	query := store.NewQuery().WithExactCount()

	if term := strings.TrimSpace(req.SearchTerm); term != "" {
		fields := req.SearchFields
		if len(fields) == 0 {
			fields = table.SearchFields
		}
		predicates := make([]store.Predicate, 0, len(fields))
		for _, field := range fields {
			predicates = append(predicates, store.ILike(field, "%"+escapePattern(term)+"%"))
		}
		query = query.Or(predicates...)
	}

	for _, column := range sortedFilterColumns(req.Filters) {
		value := req.Filters[column]
		if value == "" || strings.EqualFold(value, "all") {
			continue
		}
		query = query.Eq(column, value)
	}

	sortField := req.SortField
	ascending := req.SortDirection != domain.SortDirectionDesc
	if sortField == "" {
		sortField = table.DefaultSortField
		ascending = table.DefaultSortAsc
	}

	from := (req.Page - 1) * req.PageSize
	to := req.Page*req.PageSize - 1
	query = query.Order(sortField, ascending).Range(from, to)

	data, total, err := e.client.Select(ctx, table.Name, query)
	if err != nil {
		return domain.PaginationResult{}, err
	}
	return domain.PaginationResult{Data: data, TotalCount: total}, nil
}

// FetchAll retrieves the table's complete result set by advancing a
// fixed-size window until a short chunk signals the end of data. No
// snapshot is taken; concurrent writers may cause the result to reflect
// a state that never existed at one instant.
func (e *Engine) FetchAll(ctx context.Context, table domain.Table, orderField string, ascending bool) ([]domain.Record, error) {
	if orderField == "" {
		orderField = table.DefaultSortField
		ascending = table.DefaultSortAsc
	}

	var all []domain.Record
	offset := 0
	for {
		query := store.NewQuery().
			Order(orderField, ascending).
			Range(offset, offset+chunkSize-1)
		chunk, _, err := e.client.Select(ctx, table.Name, query)
		if err != nil {
			return nil, err
		}
		all = append(all, chunk...)
		if len(chunk) < chunkSize {
			return all, nil
		}
		offset += chunkSize
	}
}

func sortedFilterColumns(filters map[string]string) []string {
	columns := make([]string, 0, len(filters))
	for column := range filters {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

// escapePattern neutralizes LIKE metacharacters in user search terms so
// they match literally.
func escapePattern(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, "%", `\%`)
	term = strings.ReplaceAll(term, "_", `\_`)
	return term
}
