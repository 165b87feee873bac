package fetch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rpattn/recordbase/internal/domain"
)

const (
	defaultPageSize = 25
	maxPageSize     = 200
)

// Handler exposes bounded page queries for interactive table views.
type Handler struct {
	engine *Engine
}

// NewHTTPHandler wraps the engine with a GET endpoint. The table name is
// the last path segment; paging, sorting, search, and filter.<column>
// parameters arrive in the query string.
func NewHTTPHandler(engine *Engine) http.Handler {
	return &Handler{engine: engine}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	table, ok := tableFromPath(r.URL.Path)
	if !ok {
		http.Error(w, "unknown table", http.StatusNotFound)
		return
	}

	req, err := parsePaginationRequest(table, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.engine.FetchPage(r.Context(), table, req)
	if err != nil {
		http.Error(w, fmt.Sprintf("fetch page: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
}

func tableFromPath(path string) (domain.Table, bool) {
	path = strings.TrimSuffix(path, "/")
	idx := strings.LastIndex(path, "/")
	if idx == -1 || idx == len(path)-1 {
		return domain.Table{}, false
	}
	return domain.TableByName(path[idx+1:])
}

func parsePaginationRequest(table domain.Table, r *http.Request) (domain.PaginationRequest, error) {
	query := r.URL.Query()

	req := domain.PaginationRequest{
		Page:       1,
		PageSize:   defaultPageSize,
		SearchTerm: strings.TrimSpace(query.Get("q")),
		Filters:    map[string]string{},
	}

	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return req, fmt.Errorf("page must be a positive integer")
		}
		req.Page = parsed
	}
	if raw := strings.TrimSpace(query.Get("pageSize")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return req, fmt.Errorf("pageSize must be a positive integer")
		}
		if parsed > maxPageSize {
			parsed = maxPageSize
		}
		req.PageSize = parsed
	}

	if raw := strings.TrimSpace(query.Get("sort")); raw != "" {
		if !table.HasColumn(raw) {
			return req, fmt.Errorf("unknown sort column %q", raw)
		}
		req.SortField = raw
	}
	if strings.EqualFold(strings.TrimSpace(query.Get("dir")), string(domain.SortDirectionDesc)) {
		req.SortDirection = domain.SortDirectionDesc
	} else {
		req.SortDirection = domain.SortDirectionAsc
	}

	for key, values := range query {
		if !strings.HasPrefix(key, "filter.") || len(values) == 0 {
			continue
		}
		column := strings.TrimPrefix(key, "filter.")
		if !table.HasColumn(column) {
			return req, fmt.Errorf("unknown filter column %q", column)
		}
		req.Filters[column] = strings.TrimSpace(values[0])
	}

	return req, nil
}
