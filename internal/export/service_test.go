package export

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rpattn/recordbase/internal/domain"
	"github.com/rpattn/recordbase/pkg/csvcodec"
)

type stubFetcher struct {
	records []domain.Record
	err     error

	table      domain.Table
	orderField string
	ascending  bool
}

func (s *stubFetcher) FetchAll(ctx context.Context, table domain.Table, orderField string, ascending bool) ([]domain.Record, error) {
	s.table = table
	s.orderField = orderField
	s.ascending = ascending
	return s.records, s.err
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, 5, 17, 12, 0, 0, 0, time.Local)
	}
}

func TestExportProducesCSVArtifact(t *testing.T) {
	created := time.Date(2024, 1, 2, 15, 4, 5, 0, time.Local)
	fetcher := &stubFetcher{records: []domain.Record{
		{
			"id":         "a1b2c3d4e5f6",
			"name":       "Alice",
			"email":      "alice@example.com",
			"company":    "Initech, Inc.",
			"country":    "USA",
			"region":     "US",
			"created_at": created,
		},
	}}
	service := NewService(fetcher, WithClock(fixedClock()))

	artifact, err := service.Export(context.Background(), domain.TableContacts)
	if err != nil {
		t.Fatalf("export returned error: %v", err)
	}

	if artifact.FileName != "contacts_export_2024-05-17.csv" {
		t.Fatalf("unexpected artifact name: %s", artifact.FileName)
	}
	if artifact.MimeType != CSVMimeType {
		t.Fatalf("unexpected mime type: %s", artifact.MimeType)
	}
	if fetcher.orderField != domain.TableContacts.DefaultSortField {
		t.Fatalf("expected table default order, got %s", fetcher.orderField)
	}

	table := csvcodec.Parse(string(artifact.Data))
	if len(table.Headers) != len(domain.TableContacts.ExportHeaders) {
		t.Fatalf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 data row, got %d", len(table.Rows))
	}

	row := map[string]string{}
	for i, header := range table.Headers {
		row[header] = table.Rows[0][i]
	}
	if row["id"] != "a1b2c3d4" {
		t.Fatalf("id should be truncated for display, got %q", row["id"])
	}
	if row["created_at"] != "2024-01-02 15:04:05" {
		t.Fatalf("timestamp should render fixed-width local, got %q", row["created_at"])
	}
	if row["company"] != "Initech, Inc." {
		t.Fatalf("comma fields must survive the round trip, got %q", row["company"])
	}
}

func TestExportNoData(t *testing.T) {
	service := NewService(&stubFetcher{}, WithClock(fixedClock()))

	_, err := service.Export(context.Background(), domain.TableContacts)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestExportPropagatesFetchFailure(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("store unavailable")}
	service := NewService(fetcher, WithClock(fixedClock()))

	_, err := service.Export(context.Background(), domain.TableContacts)
	if err == nil || !strings.Contains(err.Error(), "store unavailable") {
		t.Fatalf("expected fetch failure to propagate, got %v", err)
	}
}

func TestExportMissingColumnsEmitEmptyFields(t *testing.T) {
	fetcher := &stubFetcher{records: []domain.Record{
		{"id": "only-an-id", "name": "Sparse"},
	}}
	service := NewService(fetcher, WithClock(fixedClock()))

	artifact, err := service.Export(context.Background(), domain.TableContacts)
	if err != nil {
		t.Fatalf("export returned error: %v", err)
	}
	table := csvcodec.Parse(string(artifact.Data))
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}
	if len(table.Rows[0]) != len(domain.TableContacts.ExportHeaders) {
		t.Fatalf("row cardinality must match headers, got %v", table.Rows[0])
	}
}

func TestExportExcelArtifact(t *testing.T) {
	fetcher := &stubFetcher{records: []domain.Record{
		{"id": "a1b2c3d4e5f6", "name": "Alice", "email": "alice@example.com"},
	}}
	service := NewService(fetcher, WithClock(fixedClock()))

	artifact, err := service.ExportExcel(context.Background(), domain.TableContacts)
	if err != nil {
		t.Fatalf("excel export returned error: %v", err)
	}
	if artifact.FileName != "contacts_export_2024-05-17.xlsx" {
		t.Fatalf("unexpected artifact name: %s", artifact.FileName)
	}
	if artifact.MimeType != ExcelMimeType {
		t.Fatalf("unexpected mime type: %s", artifact.MimeType)
	}
	if len(artifact.Data) == 0 {
		t.Fatalf("expected workbook bytes")
	}
}
