package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/recordbase/internal/domain"
)

const totalCountColumn = "__total_count"

// PostgresClient implements Client against a pgx connection pool.
type PostgresClient struct {
	pool *pgxpool.Pool
}

// NewPostgresClient creates a Postgres-backed store client.
func NewPostgresClient(pool *pgxpool.Pool) *PostgresClient {
	return &PostgresClient{pool: pool}
}

func (c *PostgresClient) Select(ctx context.Context, table string, query Query) ([]domain.Record, int, error) {
	var sql strings.Builder
	var args []any

	sql.WriteString("SELECT ")
	if len(query.Columns) > 0 {
		for i, column := range query.Columns {
			if i > 0 {
				sql.WriteString(", ")
			}
			sql.WriteString(quoteIdent(column))
		}
	} else {
		sql.WriteString("*")
	}
	if query.ExactCount {
		// Exact totals ride along with the page in one round trip.
		sql.WriteString(", count(*) OVER () AS " + totalCountColumn)
	}
	sql.WriteString(" FROM " + quoteIdent(table))

	where := buildWhere(query, &args)
	if where != "" {
		sql.WriteString(" WHERE " + where)
	}

	if query.HasOrder() && query.OrderBy != "" {
		direction := "DESC"
		if query.OrderAsc {
			direction = "ASC"
		}
		sql.WriteString(" ORDER BY " + quoteIdent(query.OrderBy) + " " + direction)
	}

	if query.HasRange() {
		limit := query.RangeTo - query.RangeFrom + 1
		if limit < 0 {
			limit = 0
		}
		args = append(args, limit)
		sql.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
		args = append(args, query.RangeFrom)
		sql.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	rows, err := c.pool.Query(ctx, sql.String(), args...)
	if err != nil {
		return nil, 0, &RemoteQueryError{Table: table, Op: "select", Err: err}
	}
	defer rows.Close()

	records, total, err := scanRecords(rows)
	if err != nil {
		return nil, 0, &RemoteQueryError{Table: table, Op: "select", Err: err}
	}

	// count(*) OVER () rides along per returned row, so an empty page
	// past the end of the result set carries no total at all. The total
	// must stay exact independent of the requested window, so fall back
	// to a dedicated count with the same predicates.
	if query.ExactCount && len(records) == 0 {
		total, err = c.countRows(ctx, table, query)
		if err != nil {
			return nil, 0, &RemoteQueryError{Table: table, Op: "select", Err: err}
		}
	}
	return records, total, nil
}

func (c *PostgresClient) countRows(ctx context.Context, table string, query Query) (int, error) {
	sql, args := countSQL(table, query)
	var total int64
	if err := c.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return int(total), nil
}

// countSQL builds the count query matching the select's WHERE clause,
// with no window or ordering applied.
func countSQL(table string, query Query) (string, []any) {
	var args []any
	sql := "SELECT count(*) FROM " + quoteIdent(table)
	if where := buildWhere(query, &args); where != "" {
		sql += " WHERE " + where
	}
	return sql, args
}

func (c *PostgresClient) Insert(ctx context.Context, table string, record domain.Record) (domain.Record, error) {
	columns := sortedColumns(record)
	if len(columns) == 0 {
		return nil, &RemoteQueryError{Table: table, Op: "insert", Err: fmt.Errorf("record has no columns")}
	}

	var sql strings.Builder
	args := make([]any, 0, len(columns))
	sql.WriteString("INSERT INTO " + quoteIdent(table) + " (")
	for i, column := range columns {
		if i > 0 {
			sql.WriteString(", ")
		}
		sql.WriteString(quoteIdent(column))
	}
	sql.WriteString(") VALUES (")
	for i, column := range columns {
		if i > 0 {
			sql.WriteString(", ")
		}
		args = append(args, record[column])
		sql.WriteString(fmt.Sprintf("$%d", i+1))
	}
	sql.WriteString(") RETURNING *")

	return c.queryOne(ctx, table, "insert", sql.String(), args)
}

func (c *PostgresClient) Update(ctx context.Context, table string, id string, record domain.Record) (domain.Record, error) {
	columns := sortedColumns(record)
	if len(columns) == 0 {
		return nil, &RemoteQueryError{Table: table, Op: "update", Err: fmt.Errorf("record has no columns")}
	}

	var sql strings.Builder
	args := make([]any, 0, len(columns)+1)
	sql.WriteString("UPDATE " + quoteIdent(table) + " SET ")
	for i, column := range columns {
		if i > 0 {
			sql.WriteString(", ")
		}
		args = append(args, record[column])
		sql.WriteString(fmt.Sprintf("%s = $%d", quoteIdent(column), len(args)))
	}
	args = append(args, id)
	sql.WriteString(fmt.Sprintf(", updated_at = now() WHERE id = $%d RETURNING *", len(args)))

	return c.queryOne(ctx, table, "update", sql.String(), args)
}

func (c *PostgresClient) Upsert(ctx context.Context, table string, record domain.Record, conflictColumns ...string) (domain.Record, error) {
	columns := sortedColumns(record)
	if len(columns) == 0 || len(conflictColumns) == 0 {
		return nil, &RemoteQueryError{Table: table, Op: "upsert", Err: fmt.Errorf("record or conflict key is empty")}
	}

	var sql strings.Builder
	args := make([]any, 0, len(columns))
	sql.WriteString("INSERT INTO " + quoteIdent(table) + " (")
	for i, column := range columns {
		if i > 0 {
			sql.WriteString(", ")
		}
		sql.WriteString(quoteIdent(column))
	}
	sql.WriteString(") VALUES (")
	for i, column := range columns {
		if i > 0 {
			sql.WriteString(", ")
		}
		args = append(args, record[column])
		sql.WriteString(fmt.Sprintf("$%d", i+1))
	}
	sql.WriteString(") ON CONFLICT (")
	for i, column := range conflictColumns {
		if i > 0 {
			sql.WriteString(", ")
		}
		sql.WriteString(quoteIdent(column))
	}
	sql.WriteString(") DO UPDATE SET ")
	assignments := 0
	for _, column := range columns {
		if contains(conflictColumns, column) {
			continue
		}
		if assignments > 0 {
			sql.WriteString(", ")
		}
		sql.WriteString(quoteIdent(column) + " = EXCLUDED." + quoteIdent(column))
		assignments++
	}
	if assignments == 0 {
		sql.WriteString(quoteIdent(conflictColumns[0]) + " = EXCLUDED." + quoteIdent(conflictColumns[0]))
	}
	sql.WriteString(" RETURNING *")

	return c.queryOne(ctx, table, "upsert", sql.String(), args)
}

func (c *PostgresClient) queryOne(ctx context.Context, table, op, sql string, args []any) (domain.Record, error) {
	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &RemoteQueryError{Table: table, Op: op, Err: err}
	}
	defer rows.Close()

	records, _, err := scanRecords(rows)
	if err != nil {
		return nil, &RemoteQueryError{Table: table, Op: op, Err: err}
	}
	if len(records) == 0 {
		return nil, &RemoteQueryError{Table: table, Op: op, Err: pgx.ErrNoRows}
	}
	return records[0], nil
}

func buildWhere(query Query, args *[]any) string {
	var clauses []string

	for _, predicate := range query.Predicates {
		clauses = append(clauses, predicateSQL(predicate, args))
	}
	for _, group := range query.OrGroups {
		parts := make([]string, 0, len(group))
		for _, predicate := range group {
			parts = append(parts, predicateSQL(predicate, args))
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}

	return strings.Join(clauses, " AND ")
}

func predicateSQL(predicate Predicate, args *[]any) string {
	*args = append(*args, predicate.Value)
	switch predicate.Op {
	case PredicateILike:
		return fmt.Sprintf("%s ILIKE $%d", quoteIdent(predicate.Column), len(*args))
	default:
		return fmt.Sprintf("%s = $%d", quoteIdent(predicate.Column), len(*args))
	}
}

func scanRecords(rows pgx.Rows) ([]domain.Record, int, error) {
	fields := rows.FieldDescriptions()
	records := []domain.Record{}
	total := 0

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, 0, fmt.Errorf("read row values: %w", err)
		}
		record := make(domain.Record, len(fields))
		for i, field := range fields {
			if field.Name == totalCountColumn {
				if count, ok := values[i].(int64); ok {
					total = int(count)
				}
				continue
			}
			record[field.Name] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rows: %w", err)
	}
	return records, total, nil
}

func sortedColumns(record domain.Record) []string {
	columns := make([]string, 0, len(record))
	for column := range record {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
