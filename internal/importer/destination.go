package importer

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rpattn/recordbase/internal/domain"
	"github.com/rpattn/recordbase/internal/normalize"
	"github.com/rpattn/recordbase/internal/store"
)

// StoreDestination implements Destination on top of the row-store
// client for any registered table. Natural keys are matched
// case-insensitively within the importing user's scope.
type StoreDestination struct {
	client store.Client
	table  domain.Table
}

// NewStoreDestination creates a destination writing to the given table.
func NewStoreDestination(client store.Client, table domain.Table) *StoreDestination {
	return &StoreDestination{client: client, table: table}
}

func (d *StoreDestination) Table() domain.Table {
	return d.table
}

func (d *StoreDestination) NaturalKey(values map[string]string) string {
	return strings.ToLower(strings.TrimSpace(values[d.table.NaturalKeyField]))
}

func (d *StoreDestination) FindExisting(ctx context.Context, userID uuid.UUID, naturalKey string) (domain.Record, bool, error) {
	if naturalKey == "" {
		return nil, false, nil
	}
	// ILIKE without wildcards is a case-insensitive exact match;
	// metacharacters in the key itself must match literally.
	query := store.NewQuery().
		Eq("user_id", userID.String()).
		ILike(d.table.NaturalKeyField, escapeLiteral(naturalKey)).
		Range(0, 0)
	records, _, err := d.client.Select(ctx, d.table.Name, query)
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return records[0], true, nil
}

func (d *StoreDestination) Create(ctx context.Context, userID uuid.UUID, values map[string]string) error {
	record := d.buildRecord(values)
	record["user_id"] = userID.String()
	_, err := d.client.Insert(ctx, d.table.Name, record)
	return err
}

func (d *StoreDestination) Update(ctx context.Context, existing domain.Record, values map[string]string) error {
	record := d.buildRecord(values)
	_, err := d.client.Update(ctx, d.table.Name, existing.ID(), record)
	return err
}

// buildRecord maps row values onto the table's writable columns and
// derives the region column from the normalized country when the table
// carries both.
func (d *StoreDestination) buildRecord(values map[string]string) domain.Record {
	record := make(domain.Record, len(d.table.Columns)+1)
	for _, column := range d.table.Columns {
		if value, ok := values[column]; ok && value != "" {
			record[column] = value
		}
	}
	for _, countryField := range d.table.CountryFields {
		country := values[countryField]
		if country == "" {
			continue
		}
		if contains(d.table.Columns, "region") && values["region"] == "" {
			record["region"] = normalize.RegionForCountry(country)
		}
	}
	return record
}

func escapeLiteral(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "%", `\%`)
	value = strings.ReplaceAll(value, "_", `\_`)
	return value
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
