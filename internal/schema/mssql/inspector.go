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

// Package mssql implements schema.Inspector against SQL Server's
// sys.* catalog views.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/anonydump/anonydump/internal/schema"
	"github.com/anonydump/anonydump/internal/util"
)

// Inspector reads table, column and foreign-key catalog data from a
// SQL Server database via sys.tables, sys.columns and
// sys.foreign_keys.
type Inspector struct {
	db *sql.DB
}

var _ schema.Inspector = (*Inspector)(nil)

// New opens a connection pool against the given DSN. The connection
// is not verified until the first query.
func New(dsn string) (*Inspector, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, util.NewConnectionError("opening sqlserver connection", err)
	}
	return &Inspector{db: db}, nil
}

// Close releases the underlying connection pool.
func (i *Inspector) Close() error {
	return i.db.Close()
}

const listTablesQuery = `
	SELECT t.name
	FROM sys.tables t
	JOIN sys.schemas s ON t.schema_id = s.schema_id
	WHERE t.type = 'U'
	  AND s.name NOT IN ('sys', 'INFORMATION_SCHEMA')
	ORDER BY t.name
`

// GetTables lists every user table in the database.
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
	SELECT SUM(p.rows)
	FROM sys.tables t
	JOIN sys.partitions p ON p.object_id = t.object_id AND p.index_id IN (0, 1)
	WHERE t.name = @p1
`

// GetTableSize returns SQL Server's row-count estimate for table,
// summed across the heap/clustered-index partitions.
func (i *Inspector) GetTableSize(ctx context.Context, table string) (int64, error) {
	var estimate sql.NullInt64
	err := i.db.QueryRowContext(ctx, tableSizeQuery, table).Scan(&estimate)
	if err != nil {
		return 0, util.NewConnectionError(fmt.Sprintf("estimating size of %q", table), err)
	}
	return estimate.Int64, nil
}

const dependenciesQuery = `
	SELECT DISTINCT rt.name
	FROM sys.foreign_keys fk
	JOIN sys.tables t ON fk.parent_object_id = t.object_id
	JOIN sys.tables rt ON fk.referenced_object_id = rt.object_id
	WHERE t.name = @p1
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
	SELECT c.name, c.column_id, TY.name, c.is_nullable, c.is_identity
	FROM sys.columns c
	JOIN sys.tables t ON c.object_id = t.object_id
	JOIN sys.types TY ON c.user_type_id = TY.user_type_id
	WHERE t.name = @p1
	ORDER BY c.column_id
`

// GetColumns returns table's columns in ordinal position order,
// flagging IDENTITY columns so the dump coordinator knows where to
// emit SET IDENTITY_INSERT.
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
// schema.OrderedTables' dependency-weight rule.
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
