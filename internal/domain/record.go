package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Record is one row of a managed table: a mapping of column name to a
// scalar value (string, number, boolean, timestamp, or nil). Identity is
// the store-assigned id column once persisted; during import, identity is
// decided by the table's natural key until the row is written.
type Record map[string]any

// ID returns the record's store-assigned identifier as a string, or ""
// when the record has not been persisted yet.
func (r Record) ID() string {
	value, ok := r["id"]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case uuid.UUID:
		return v.String()
	case [16]byte:
		return uuid.UUID(v).String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
