package domain

import "strings"

// Table describes a managed table well enough for the bulk pipeline to
// operate on it: which columns imports may write, which column is the
// natural key, which fields the interactive search spans, and the fixed
// header list and default ordering used by exports.
type Table struct {
	// Name is the table name in the remote store and the entity name
	// used in export artifact filenames.
	Name string

	// Columns are the writable columns an import may populate.
	Columns []string

	// NaturalKeyField decides create-vs-update during import. Matching
	// is case-insensitive.
	NaturalKeyField string

	// RequiredFields must be non-empty on every imported row.
	RequiredFields []string

	// CountryFields are normalized to canonical country spellings.
	CountryFields []string

	// TimestampFields are canonicalized on import and rendered as
	// fixed-width local timestamps on export.
	TimestampFields []string

	// IDFields are truncated for display on export.
	IDFields []string

	// SearchFields are the columns an interactive search term spans.
	SearchFields []string

	// ExportHeaders is the fixed, ordered header list for exports.
	ExportHeaders []string

	DefaultSortField string
	DefaultSortAsc   bool
}

// HasColumn reports whether name is a writable or exported column.
func (t Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	for _, col := range t.ExportHeaders {
		if col == name {
			return true
		}
	}
	return false
}

var (
	// TableContacts is the primary business-records table.
	TableContacts = Table{
		Name:             "contacts",
		Columns:          []string{"name", "email", "phone", "company", "country", "region", "notes"},
		NaturalKeyField:  "email",
		RequiredFields:   []string{"name", "email"},
		CountryFields:    []string{"country"},
		TimestampFields:  []string{"created_at", "updated_at"},
		IDFields:         []string{"id"},
		SearchFields:     []string{"name", "email", "company"},
		ExportHeaders:    []string{"id", "name", "email", "phone", "company", "country", "region", "notes", "created_at"},
		DefaultSortField: "created_at",
		DefaultSortAsc:   false,
	}

	// TableCompanies tracks the organizations contacts belong to.
	TableCompanies = Table{
		Name:             "companies",
		Columns:          []string{"name", "website", "industry", "country", "region"},
		NaturalKeyField:  "name",
		RequiredFields:   []string{"name"},
		CountryFields:    []string{"country"},
		TimestampFields:  []string{"created_at", "updated_at"},
		IDFields:         []string{"id"},
		SearchFields:     []string{"name", "website", "industry"},
		ExportHeaders:    []string{"id", "name", "website", "industry", "country", "region", "created_at"},
		DefaultSortField: "name",
		DefaultSortAsc:   true,
	}
)

var tableRegistry = map[string]Table{
	TableContacts.Name:  TableContacts,
	TableCompanies.Name: TableCompanies,
}

// TableByName resolves a registered table by its store name.
func TableByName(name string) (Table, bool) {
	table, ok := tableRegistry[strings.ToLower(strings.TrimSpace(name))]
	return table, ok
}

// Tables lists every registered table.
func Tables() []Table {
	return []Table{TableContacts, TableCompanies}
}
