package fetch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rpattn/recordbase/internal/domain"
	"github.com/rpattn/recordbase/internal/store"
)

type stubClient struct {
	records []domain.Record
	queries []store.Query
	failOn  int // 1-based call number to fail at; 0 = never
	calls   int
}

func (s *stubClient) Select(ctx context.Context, table string, query store.Query) ([]domain.Record, int, error) {
	s.calls++
	s.queries = append(s.queries, query)
	if s.failOn > 0 && s.calls >= s.failOn {
		return nil, 0, &store.RemoteQueryError{Table: table, Op: "select", Err: errors.New("boom")}
	}

	from, to := 0, len(s.records)-1
	if query.HasRange() {
		from, to = query.RangeFrom, query.RangeTo
	}
	if from > len(s.records) {
		return []domain.Record{}, len(s.records), nil
	}
	if to >= len(s.records) {
		to = len(s.records) - 1
	}
	page := append([]domain.Record{}, s.records[from:to+1]...)
	total := 0
	if query.ExactCount {
		total = len(s.records)
	}
	return page, total, nil
}

func (s *stubClient) Insert(ctx context.Context, table string, record domain.Record) (domain.Record, error) {
	return nil, errors.New("not implemented")
}

func (s *stubClient) Update(ctx context.Context, table string, id string, record domain.Record) (domain.Record, error) {
	return nil, errors.New("not implemented")
}

func (s *stubClient) Upsert(ctx context.Context, table string, record domain.Record, conflictColumns ...string) (domain.Record, error) {
	return nil, errors.New("not implemented")
}

var _ store.Client = (*stubClient)(nil)

func syntheticRecords(n int) []domain.Record {
	records := make([]domain.Record, n)
	for i := range records {
		records[i] = domain.Record{"id": fmt.Sprintf("rec-%04d", i), "name": fmt.Sprintf("Record %d", i)}
	}
	return records
}

func TestFetchAllReturnsEveryRecordExactlyOnce(t *testing.T) {
	client := &stubClient{records: syntheticRecords(2500)}
	engine := NewEngine(client)

	all, err := engine.FetchAll(context.Background(), domain.TableContacts, "created_at", true)
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}

	if len(all) != 2500 {
		t.Fatalf("expected 2500 records, got %d", len(all))
	}
	if client.calls != 3 {
		t.Fatalf("expected 3 chunk requests for 2500 rows at page size 1000, got %d", client.calls)
	}

	seen := map[string]bool{}
	for _, record := range all {
		id := record.ID()
		if seen[id] {
			t.Fatalf("record %s fetched more than once", id)
		}
		seen[id] = true
	}
}

func TestFetchAllExactMultipleOfChunkSize(t *testing.T) {
	client := &stubClient{records: syntheticRecords(2000)}
	engine := NewEngine(client)

	all, err := engine.FetchAll(context.Background(), domain.TableContacts, "", false)
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if len(all) != 2000 {
		t.Fatalf("expected 2000 records, got %d", len(all))
	}
	// Two full chunks plus one empty chunk confirming the end.
	if client.calls != 3 {
		t.Fatalf("expected 3 chunk requests, got %d", client.calls)
	}
}

func TestFetchAllPropagatesRemoteFailure(t *testing.T) {
	client := &stubClient{records: syntheticRecords(1500), failOn: 2}
	engine := NewEngine(client)

	_, err := engine.FetchAll(context.Background(), domain.TableContacts, "name", true)
	var remoteErr *store.RemoteQueryError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteQueryError, got %v", err)
	}
}

func TestFetchPageBuildsBoundedQuery(t *testing.T) {
	client := &stubClient{records: syntheticRecords(45)}
	engine := NewEngine(client)

	req := domain.PaginationRequest{
		Page:          3,
		PageSize:      10,
		SortField:     "name",
		SortDirection: domain.SortDirectionDesc,
		SearchTerm:    "acme",
		SearchFields:  []string{"name", "email"},
		Filters:       map[string]string{"country": "USA", "region": "all", "company": ""},
	}

	result, err := engine.FetchPage(context.Background(), domain.TableContacts, req)
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if result.TotalCount != 45 {
		t.Fatalf("expected exact total 45, got %d", result.TotalCount)
	}
	if len(result.Data) != 10 {
		t.Fatalf("expected page of 10, got %d", len(result.Data))
	}

	query := client.queries[0]
	if !query.ExactCount {
		t.Fatalf("expected exact count to be requested")
	}
	if query.RangeFrom != 20 || query.RangeTo != 29 {
		t.Fatalf("expected inclusive window [20,29], got [%d,%d]", query.RangeFrom, query.RangeTo)
	}
	if query.OrderBy != "name" || query.OrderAsc {
		t.Fatalf("expected descending sort on name, got %s asc=%v", query.OrderBy, query.OrderAsc)
	}
	if len(query.OrGroups) != 1 || len(query.OrGroups[0]) != 2 {
		t.Fatalf("expected one OR group across 2 search fields, got %+v", query.OrGroups)
	}
	for _, predicate := range query.OrGroups[0] {
		if predicate.Op != store.PredicateILike {
			t.Fatalf("search predicates must be case-insensitive, got %s", predicate.Op)
		}
		if predicate.Value != "%acme%" {
			t.Fatalf("expected substring pattern, got %v", predicate.Value)
		}
	}
	// "all" and empty filter values must be skipped.
	if len(query.Predicates) != 1 || query.Predicates[0].Column != "country" {
		t.Fatalf("expected single equality filter on country, got %+v", query.Predicates)
	}
}

func TestFetchPageBeyondLastPageKeepsExactTotal(t *testing.T) {
	client := &stubClient{records: syntheticRecords(35)}
	engine := NewEngine(client)

	result, err := engine.FetchPage(context.Background(), domain.TableContacts, domain.PaginationRequest{Page: 5, PageSize: 10})
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if len(result.Data) != 0 {
		t.Fatalf("expected empty page beyond the end, got %d records", len(result.Data))
	}
	// The total stays exact even when the window returns nothing.
	if result.TotalCount != 35 {
		t.Fatalf("expected exact total 35 for an empty page, got %d", result.TotalCount)
	}
}

func TestFetchPageDefaultsToTableSort(t *testing.T) {
	client := &stubClient{records: syntheticRecords(5)}
	engine := NewEngine(client)

	_, err := engine.FetchPage(context.Background(), domain.TableContacts, domain.PaginationRequest{Page: 1, PageSize: 25})
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	query := client.queries[0]
	if query.OrderBy != domain.TableContacts.DefaultSortField {
		t.Fatalf("expected table default sort, got %s", query.OrderBy)
	}
	if query.OrderAsc != domain.TableContacts.DefaultSortAsc {
		t.Fatalf("expected table default direction, got asc=%v", query.OrderAsc)
	}
}

func TestFetchPageRejectsNonPositivePaging(t *testing.T) {
	engine := NewEngine(&stubClient{})
	if _, err := engine.FetchPage(context.Background(), domain.TableContacts, domain.PaginationRequest{Page: 0, PageSize: 10}); err == nil {
		t.Fatalf("expected error for page 0")
	}
	if _, err := engine.FetchPage(context.Background(), domain.TableContacts, domain.PaginationRequest{Page: 1, PageSize: 0}); err == nil {
		t.Fatalf("expected error for pageSize 0")
	}
}
