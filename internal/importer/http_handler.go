package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/rpattn/recordbase/internal/auth"
	"github.com/rpattn/recordbase/internal/domain"
)

// errorSampleSize bounds how many row errors the response carries; the
// full list goes to the log for diagnostics.
const errorSampleSize = 5

// Handler exposes imports as a multipart POST endpoint. The destination
// table is the last path segment.
type Handler struct {
	services map[string]*Service
}

// NewHTTPHandler routes uploads to the import service registered for
// each table.
func NewHTTPHandler(services map[string]*Service) http.Handler {
	return &Handler{services: services}
}

type importResponse struct {
	SuccessCount int      `json:"successCount"`
	UpdateCount  int      `json:"updateCount"`
	ErrorCount   int      `json:"errorCount"`
	ErrorSample  []string `json:"errorSample"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tableName, ok := tableFromPath(r.URL.Path)
	if !ok {
		http.Error(w, "unknown table", http.StatusNotFound)
		return
	}
	service, ok := h.services[tableName]
	if !ok {
		http.Error(w, fmt.Sprintf("imports are not supported for %s", tableName), http.StatusNotFound)
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		http.Error(w, "only .csv files are supported", http.StatusBadRequest)
		return
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	outcome, err := service.Import(r.Context(), string(payload), Options{
		FileName: header.Filename,
		UserID:   userID,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotAuthenticated) {
			status = http.StatusUnauthorized
		}
		http.Error(w, err.Error(), status)
		return
	}

	for _, message := range outcome.Errors {
		log.Printf("[import] %s %s: %s", tableName, header.Filename, message)
	}

	writeJSON(w, http.StatusOK, buildResponse(outcome))
}

func buildResponse(outcome domain.ImportOutcome) importResponse {
	sample := outcome.Errors
	if len(sample) > errorSampleSize {
		sample = sample[:errorSampleSize]
	}
	return importResponse{
		SuccessCount: outcome.SuccessCount,
		UpdateCount:  outcome.UpdateCount,
		ErrorCount:   outcome.ErrorCount,
		ErrorSample:  append([]string{}, sample...),
	}
}

func tableFromPath(path string) (string, bool) {
	path = strings.TrimSuffix(path, "/")
	idx := strings.LastIndex(path, "/")
	if idx == -1 || idx == len(path)-1 {
		return "", false
	}
	name := strings.ToLower(path[idx+1:])
	if _, ok := domain.TableByName(name); !ok {
		return "", false
	}
	return name, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
