// Copyright 2026 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package mysql implements schema.Inspector against MySQL's
// information_schema.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/anonydump/anonydump/internal/schema"
	"github.com/anonydump/anonydump/internal/util"
)

// Inspector reads table, column and foreign-key catalog data from a
// MySQL database via information_schema.
type Inspector struct {
	db *sql.DB
}

var _ schema.Inspector = (*Inspector)(nil)

// New opens a connection pool against the given DSN. The connection
// is not verified until the first query.
func New(dsn string) (*Inspector, error) {
	db, err := sql.Open("mysql", ToDriverDSN(dsn))
	if err != nil {
		return nil, util.NewConnectionError("opening mysql connection", err)
	}
	return &Inspector{db: db}, nil
}

// Close releases the underlying connection pool.
func (i *Inspector) Close() error {
	return i.db.Close()
}

const listTablesQuery = `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
	ORDER BY table_name
`

// GetTables lists every base table in the connected database.
func (i *Inspector) GetTables(ctx context.Context) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, listTablesQuery)
	if err != nil {
		return nil, util.NewConnectionError("listing tables", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, util.NewConnectionError("scanning table name", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

const tableSizeQuery = `
	SELECT table_rows
	FROM information_schema.tables
	WHERE table_schema = DATABASE() AND table_name = ?
`

// GetTableSize returns MySQL's estimated row count for table
// (information_schema.tables.table_rows), accurate only as of the
// last ANALYZE TABLE / statistics refresh for the storage engine.
func (i *Inspector) GetTableSize(ctx context.Context, table string) (int64, error) {
	var estimate sql.NullInt64
	err := i.db.QueryRowContext(ctx, tableSizeQuery, table).Scan(&estimate)
	if err != nil {
		return 0, util.NewConnectionError(fmt.Sprintf("estimating size of %q", table), err)
	}
	return estimate.Int64, nil
}

const dependenciesQuery = `
	SELECT DISTINCT referenced_table_name
	FROM information_schema.key_column_usage
	WHERE table_schema = DATABASE()
	  AND table_name = ?
	  AND referenced_table_name IS NOT NULL
`

// GetDependencies returns the tables table references via foreign
// key.
func (i *Inspector) GetDependencies(ctx context.Context, table string) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, dependenciesQuery, table)
	if err != nil {
		return nil, util.NewConnectionError(fmt.Sprintf("reading foreign keys of %q", table), err)
	}
	defer rows.Close()

	var deps []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, util.NewConnectionError("scanning referenced table", err)
		}
		if ref != table {
			deps = append(deps, ref)
		}
	}
	return deps, rows.Err()
}

const columnsQuery = `
	SELECT column_name, ordinal_position, data_type, is_nullable = 'YES',
	       extra LIKE '%auto_increment%'
	FROM information_schema.columns
	WHERE table_schema = DATABASE() AND table_name = ?
	ORDER BY ordinal_position
`

// GetColumns returns table's columns in ordinal position order,
// flagging AUTO_INCREMENT columns as identity columns.
func (i *Inspector) GetColumns(ctx context.Context, table string) ([]schema.Column, error) {
	rows, err := i.db.QueryContext(ctx, columnsQuery, table)
	if err != nil {
		return nil, util.NewConnectionError(fmt.Sprintf("reading columns of %q", table), err)
	}
	defer rows.Close()

	var cols []schema.Column
	for rows.Next() {
		var c schema.Column
		if err := rows.Scan(&c.Name, &c.Ordinal, &c.DataType, &c.Nullable, &c.IsIdentity); err != nil {
			return nil, util.NewConnectionError("scanning column", err)
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// OrderedTables assembles the full catalog and returns it ordered by
// schema.OrderedTables' dependency-weight rule. MySQL tables never
// own sequences (AUTO_INCREMENT state lives on the table itself), so
// Table.Sequences is always empty here.
func (i *Inspector) OrderedTables(ctx context.Context) ([]schema.Table, error) {
	names, err := i.GetTables(ctx)
	if err != nil {
		return nil, err
	}

	tables := make([]schema.Table, 0, len(names))
	dependencies := make(map[string][]string, len(names))
	for _, name := range names {
		cols, err := i.GetColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		size, err := i.GetTableSize(ctx, name)
		if err != nil {
			return nil, err
		}
		deps, err := i.GetDependencies(ctx, name)
		if err != nil {
			return nil, err
		}
		dependencies[name] = deps
		tables = append(tables, schema.Table{
			Name:          name,
			Columns:       cols,
			EstimatedRows: size,
		})
	}

	return schema.OrderedTables(tables, dependencies), nil
}
