package importer

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

const DefaultSQLiteTable = "products"

// SQLiteReader reads every row of one table from a SQLite database. The first
// row of the returned table holds the column names.
type SQLiteReader struct {
	Table string
}

func (r *SQLiteReader) Read(path string) (Table, error) {
	// sql.Open would create a missing database file.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open sqlite db %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	tableName := strings.TrimSpace(r.Table)
	if tableName == "" {
		tableName = DefaultSQLiteTable
	}

	rows, err := db.Query(`SELECT * FROM ` + quoteIdentifier(tableName) + `;`)
	if err != nil {
		return nil, fmt.Errorf("query table %s: %w", tableName, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", tableName, err)
	}

	table := Table{columns}
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan row of %s: %w", tableName, err)
		}

		row := make([]string, len(columns))
		for i, value := range values {
			if value.Valid {
				row[i] = value.String
			}
		}
		table = append(table, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows of %s: %w", tableName, err)
	}

	return table, nil
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
