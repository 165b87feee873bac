// Package store defines the row-oriented client this system uses to
// reach its relational store, plus the Postgres implementation. The
// client surface is deliberately narrow: bounded selects with optional
// exact counts, and single-record insert/update/upsert. Query planning
// and transactions belong to the store, not to callers.
package store

import (
	"context"
	"fmt"

	"github.com/rpattn/recordbase/internal/domain"
)

// RemoteQueryError reports a failed remote store call. Callers must not
// trust any partial data returned alongside one.
type RemoteQueryError struct {
	Table string
	Op    string
	Err   error
}

func (e *RemoteQueryError) Error() string {
	return fmt.Sprintf("remote %s on %s failed: %v", e.Op, e.Table, e.Err)
}

func (e *RemoteQueryError) Unwrap() error {
	return e.Err
}

// PredicateOp enumerates the comparison verbs the store supports.
type PredicateOp string

const (
	// PredicateEq is an exact equality match.
	PredicateEq PredicateOp = "eq"
	// PredicateILike is a case-insensitive pattern match.
	PredicateILike PredicateOp = "ilike"
)

// Predicate is one column comparison.
type Predicate struct {
	Column string
	Op     PredicateOp
	Value  any
}

// Eq builds an equality predicate.
func Eq(column string, value any) Predicate {
	return Predicate{Column: column, Op: PredicateEq, Value: value}
}

// ILike builds a case-insensitive pattern predicate. The value is used
// verbatim, so callers wanting substring matching wrap it in %.
func ILike(column string, pattern string) Predicate {
	return Predicate{Column: column, Op: PredicateILike, Value: pattern}
}

// Query describes one bounded select. Predicates are AND-combined; each
// entry in OrGroups is a parenthesized OR of its predicates, itself
// AND-combined with the rest. Zero-value ordering and range mean
// store-default order and an unbounded window.
type Query struct {
	Columns    []string
	Predicates []Predicate
	OrGroups   [][]Predicate
	OrderBy    string
	OrderAsc   bool
	RangeFrom  int
	RangeTo    int
	ExactCount bool

	hasOrder bool
	hasRange bool
}

// NewQuery returns an empty query.
func NewQuery() Query {
	return Query{}
}

// Select restricts the returned columns.
func (q Query) Select(columns ...string) Query {
	q.Columns = append(q.Columns, columns...)
	return q
}

// Eq adds an equality predicate.
func (q Query) Eq(column string, value any) Query {
	q.Predicates = append(q.Predicates, Eq(column, value))
	return q
}

// ILike adds a case-insensitive pattern predicate.
func (q Query) ILike(column string, pattern string) Query {
	q.Predicates = append(q.Predicates, ILike(column, pattern))
	return q
}

// Or adds a group of predicates combined with OR.
func (q Query) Or(predicates ...Predicate) Query {
	if len(predicates) > 0 {
		q.OrGroups = append(q.OrGroups, predicates)
	}
	return q
}

// Order sets the single sort key.
func (q Query) Order(column string, ascending bool) Query {
	q.OrderBy = column
	q.OrderAsc = ascending
	q.hasOrder = true
	return q
}

// Range bounds the result window by inclusive row offsets.
func (q Query) Range(from, to int) Query {
	q.RangeFrom = from
	q.RangeTo = to
	q.hasRange = true
	return q
}

// WithExactCount requests the exact total of matching rows alongside the
// bounded page.
func (q Query) WithExactCount() Query {
	q.ExactCount = true
	return q
}

// HasOrder reports whether an explicit sort key was set.
func (q Query) HasOrder() bool { return q.hasOrder }

// HasRange reports whether an explicit row window was set.
func (q Query) HasRange() bool { return q.hasRange }

// Client is the row-store client the pipeline consumes. Every method is
// one remote round trip; errors are *RemoteQueryError.
type Client interface {
	// Select runs one bounded query. The returned count is the exact
	// total of matching rows when the query requested it, else 0.
	Select(ctx context.Context, table string, query Query) ([]domain.Record, int, error)

	// Insert writes a new record and returns it with store-assigned
	// columns populated.
	Insert(ctx context.Context, table string, record domain.Record) (domain.Record, error)

	// Update rewrites the record identified by id and returns the
	// stored result.
	Update(ctx context.Context, table string, id string, record domain.Record) (domain.Record, error)

	// Upsert inserts the record, or updates the existing row when the
	// conflict columns collide.
	Upsert(ctx context.Context, table string, record domain.Record, conflictColumns ...string) (domain.Record, error)
}
