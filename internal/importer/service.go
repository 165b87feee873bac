// Package importer reconciles uploaded CSV rows against existing
// records: each row is normalized, classified as a create or an update
// by its natural key, and written individually. Row failures are
// isolated and aggregated; only structural problems abort the batch.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpattn/recordbase/internal/domain"
	"github.com/rpattn/recordbase/internal/events"
	"github.com/rpattn/recordbase/internal/normalize"
	"github.com/rpattn/recordbase/pkg/csvcodec"
)

var (
	// ErrEmptyInput is returned when the uploaded payload is empty or
	// all whitespace.
	ErrEmptyInput = errors.New("import file is empty")

	// ErrNoHeaders is returned when parsing yields no rows at all.
	ErrNoHeaders = errors.New("no header row found in import file")

	// ErrNotAuthenticated is returned when the import has no user scope.
	ErrNotAuthenticated = errors.New("import requires an authenticated user")

	// ErrUnsupportedFormat is returned when an uploaded file is not a CSV.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Destination abstracts the storage side of an import so the
// create-vs-update classification stays independent of how records are
// found and written.
type Destination interface {
	// Table describes the destination table.
	Table() domain.Table

	// NaturalKey derives the row's identity from its mapped values.
	NaturalKey(values map[string]string) string

	// FindExisting looks up a record by natural key within the user's
	// scope against the current store state.
	FindExisting(ctx context.Context, userID uuid.UUID, naturalKey string) (domain.Record, bool, error)

	// Create inserts a new record built from the row values.
	Create(ctx context.Context, userID uuid.UUID, values map[string]string) error

	// Update rewrites the existing record with the row values.
	Update(ctx context.Context, existing domain.Record, values map[string]string) error
}

// Options configures one import invocation.
type Options struct {
	// FileName, when set, must end in .csv (case-insensitive).
	FileName string

	// UserID scopes natural-key lookups and new records.
	UserID uuid.UUID

	// OnProgress, when set, is invoked synchronously after each
	// processed data row with (processed, total).
	OnProgress func(processed, total int)
}

// Service runs bulk imports against one destination.
type Service struct {
	dest Destination
	bus  *events.Bus
}

// NewService creates an import service. The bus may be nil when no
// completion events are wanted.
func NewService(dest Destination, bus *events.Bus) *Service {
	return &Service{dest: dest, bus: bus}
}

// Import parses the payload and processes every data row in order.
// Rows are handled sequentially so each natural-key lookup observes the
// writes of earlier rows in the same file: a duplicate key later in the
// file becomes an update of the row imported moments before.
func (s *Service) Import(ctx context.Context, payload string, opts Options) (domain.ImportOutcome, error) {
	outcome := domain.ImportOutcome{Errors: []string{}}

	if opts.UserID == uuid.Nil {
		return outcome, ErrNotAuthenticated
	}
	if name := strings.TrimSpace(opts.FileName); name != "" && !strings.HasSuffix(strings.ToLower(name), ".csv") {
		return outcome, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
	if strings.TrimSpace(payload) == "" {
		return outcome, ErrEmptyInput
	}

	table := csvcodec.Parse(payload)
	if len(table.Headers) == 0 {
		return outcome, ErrNoHeaders
	}

	meta := s.dest.Table()
	total := len(table.Rows)

	for idx, row := range table.Rows {
		// 1-based source position, counting the header line.
		rowNumber := idx + 2

		values := mapRow(table.Headers, row)
		normalizeValues(meta, values)

		if err := s.processRow(ctx, opts.UserID, values, &outcome); err != nil {
			outcome.ErrorCount++
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("row %d: %v", rowNumber, err))
		}

		if opts.OnProgress != nil {
			opts.OnProgress(idx+1, total)
		}
	}

	if s.bus != nil {
		s.bus.Publish(events.ImportCompleted{
			SuccessCount: outcome.SuccessCount,
			UpdateCount:  outcome.UpdateCount,
			Source:       meta.Name,
		})
	}
	log.Printf("[import] %s finished (created=%d updated=%d errors=%d)",
		meta.Name, outcome.SuccessCount, outcome.UpdateCount, outcome.ErrorCount)

	return outcome, nil
}

func (s *Service) processRow(ctx context.Context, userID uuid.UUID, values map[string]string, outcome *domain.ImportOutcome) error {
	meta := s.dest.Table()
	for _, field := range meta.RequiredFields {
		if values[field] == "" {
			return fmt.Errorf("missing required field %s", field)
		}
	}

	key := s.dest.NaturalKey(values)
	existing, found, err := s.dest.FindExisting(ctx, userID, key)
	if err != nil {
		return fmt.Errorf("lookup failed: %v", err)
	}

	if !found {
		if err := s.dest.Create(ctx, userID, values); err != nil {
			return err
		}
		outcome.SuccessCount++
		return nil
	}

	if err := s.dest.Update(ctx, existing, values); err != nil {
		return err
	}
	outcome.UpdateCount++
	return nil
}

func mapRow(headers []string, row []string) map[string]string {
	values := make(map[string]string, len(headers))
	for col, header := range headers {
		if col < len(row) {
			values[header] = strings.TrimSpace(row[col])
		} else {
			values[header] = ""
		}
	}
	return values
}

// normalizeValues canonicalizes country and timestamp fields in place.
// Normalization never fails a row: unknown countries pass through and
// unparseable timestamps keep their raw value.
func normalizeValues(meta domain.Table, values map[string]string) {
	for _, field := range meta.CountryFields {
		if value, ok := values[field]; ok && value != "" {
			values[field] = normalize.CountryName(value)
		}
	}
	for _, field := range meta.TimestampFields {
		value, ok := values[field]
		if !ok || value == "" {
			continue
		}
		if ts, err := normalize.ParseTimestamp(value); err == nil {
			values[field] = ts.Format(time.RFC3339)
		}
	}
}
