package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dbsmedya/axmeta/internal/sqlutil"
	"github.com/dbsmedya/axmeta/internal/types"
)

const columnsQuery = `SELECT COLUMN_NAME, DATA_TYPE, COALESCE(CHARACTER_MAXIMUM_LENGTH, 0)
FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
ORDER BY ORDINAL_POSITION`

const tablesQuery = `SELECT TABLE_NAME
FROM information_schema.TABLES
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME IN (?)`

// ColumnReader reads physical column definitions from the connected schema.
type ColumnReader struct {
	db *sql.DB
}

// NewColumnReader creates a ColumnReader over db.
func NewColumnReader(db *sql.DB) *ColumnReader {
	return &ColumnReader{db: db}
}

// TableColumns returns the columns of table in ordinal order. A table that
// does not exist yields no columns.
func (r *ColumnReader) TableColumns(ctx context.Context, table string) ([]types.Column, error) {
	if err := sqlutil.ValidateIdentifier(table); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, columnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []types.Column
	for rows.Next() {
		var c types.Column
		if err := rows.Scan(&c.Name, &c.DataType, &c.Length); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	return columns, nil
}

// RowCount returns the number of rows in table.
func (r *ColumnReader) RowCount(ctx context.Context, table string) (int64, error) {
	quoted, err := sqlutil.QuoteIdentifierSafe(table)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoted).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", table, err)
	}
	return count, nil
}

// MissingTables returns the entries of tables that have no physical table in
// the connected schema, compared case-insensitively, in input order.
func (r *ColumnReader) MissingTables(ctx context.Context, tables []string) ([]string, error) {
	if len(tables) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(tables))
	args := make([]interface{}, len(tables))
	for i, table := range tables {
		if err := sqlutil.ValidateIdentifier(table); err != nil {
			return nil, err
		}
		placeholders[i] = "?"
		args[i] = table
	}
	query := strings.Replace(tablesQuery, "(?)", "("+strings.Join(placeholders, ",")+")", 1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		existing[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []string
	for _, table := range tables {
		if !existing[strings.ToLower(table)] {
			missing = append(missing, table)
		}
	}
	return missing, nil
}
