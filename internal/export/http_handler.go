package export

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rpattn/recordbase/internal/domain"
)

// Handler serves export artifacts as file downloads. The table name is
// the last path segment; ?format=xlsx selects the spreadsheet variant.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a GET download endpoint.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
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

	var artifact Artifact
	var err error
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))) {
	case "", "csv":
		artifact, err = h.service.Export(r.Context(), table)
	case "xlsx":
		artifact, err = h.service.ExportExcel(r.Context(), table)
	default:
		http.Error(w, "format must be csv or xlsx", http.StatusBadRequest)
		return
	}

	if err != nil {
		if errors.Is(err, ErrNoData) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("export failed: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", artifact.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

func tableFromPath(path string) (domain.Table, bool) {
	path = strings.TrimSuffix(path, "/")
	idx := strings.LastIndex(path, "/")
	if idx == -1 || idx == len(path)-1 {
		return domain.Table{}, false
	}
	return domain.TableByName(path[idx+1:])
}
