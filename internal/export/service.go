// Package export assembles complete table snapshots into downloadable
// artifacts.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/rpattn/recordbase/internal/domain"
	"github.com/rpattn/recordbase/internal/normalize"
	"github.com/rpattn/recordbase/pkg/csvcodec"
)

// ErrNoData is reported when an export finds zero rows. It is not fatal
// to the caller; there is simply nothing to download.
var ErrNoData = errors.New("no records available for export")

// CSVMimeType is the content type of produced CSV artifacts.
const CSVMimeType = "text/csv;charset=utf-8"

// Fetcher retrieves the complete result set for a table.
type Fetcher interface {
	FetchAll(ctx context.Context, table domain.Table, orderField string, ascending bool) ([]domain.Record, error)
}

// Artifact is a downloadable export payload.
type Artifact struct {
	FileName string
	MimeType string
	Data     []byte
}

// Service turns full table fetches into CSV artifacts.
type Service struct {
	fetcher Fetcher
	now     func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the clock used for artifact filenames.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates an export service over the given fetcher.
func NewService(fetcher Fetcher, opts ...Option) *Service {
	service := &Service{fetcher: fetcher, now: time.Now}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Export fetches the complete table in its default order, normalizes
// timestamp and identifier columns for display, and serializes the rows
// under the table's fixed header list.
func (s *Service) Export(ctx context.Context, table domain.Table) (Artifact, error) {
	rows, err := s.displayRows(ctx, table)
	if err != nil {
		return Artifact{}, err
	}

	text := csvcodec.Serialize(rows, table.ExportHeaders)
	artifact := Artifact{
		FileName: s.artifactName(table, "csv"),
		MimeType: CSVMimeType,
		Data:     []byte(text),
	}
	log.Printf("[export] %s completed (rows=%d bytes=%d)", table.Name, len(rows), len(artifact.Data))
	return artifact, nil
}

func (s *Service) displayRows(ctx context.Context, table domain.Table) ([]map[string]string, error) {
	records, err := s.fetcher.FetchAll(ctx, table, table.DefaultSortField, table.DefaultSortAsc)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table.Name, err)
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	rows := make([]map[string]string, len(records))
	for i, record := range records {
		rows[i] = displayRow(table, record)
	}
	return rows, nil
}

func (s *Service) artifactName(table domain.Table, extension string) string {
	return fmt.Sprintf("%s_export_%s.%s", table.Name, s.now().Format("2006-01-02"), extension)
}

// displayRow stringifies one record under the table's export headers,
// applying the display normalizations: timestamps render fixed-width in
// the local zone and identifiers are truncated.
func displayRow(table domain.Table, record domain.Record) map[string]string {
	row := make(map[string]string, len(table.ExportHeaders))
	for _, header := range table.ExportHeaders {
		row[header] = stringifyValue(record[header])
	}
	for _, field := range table.TimestampFields {
		if value, ok := row[field]; ok && value != "" {
			row[field] = normalize.FormatDateTime(value)
		}
	}
	for _, field := range table.IDFields {
		if value, ok := row[field]; ok {
			row[field] = normalize.FormatID(value)
		}
	}
	return row
}

func stringifyValue(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(time.RFC3339)
	case uuid.UUID:
		return v.String()
	case [16]byte:
		return uuid.UUID(v).String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case json.Number:
		return v.String()
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
