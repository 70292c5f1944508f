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

// Package postgres implements schema.Inspector against PostgreSQL's
// pg_catalog and information_schema.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/anonydump/anonydump/internal/schema"
	"github.com/anonydump/anonydump/internal/util"
)

// Inspector reads table, column and foreign-key catalog data from a
// PostgreSQL database.
type Inspector struct {
	db *sql.DB
}

var _ schema.Inspector = (*Inspector)(nil)

// New opens a pgx-backed connection pool against databaseURL. The
// connection is not verified until the first query.
func New(databaseURL string) (*Inspector, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, util.NewConnectionError("opening postgres connection", err)
	}
	return &Inspector{db: db}, nil
}

// Close releases the underlying connection pool.
func (i *Inspector) Close() error {
	return i.db.Close()
}

const listTablesQuery = `
	SELECT c.relname
	FROM pg_catalog.pg_class c
	JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
	WHERE c.relkind = 'r'
	  AND n.nspname NOT IN ('pg_catalog', 'information_schema')
	ORDER BY c.relname
`

// GetTables lists every ordinary user table in the database, across
// all non-system schemas.
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
	SELECT reltuples::bigint
	FROM pg_catalog.pg_class
	WHERE relname = $1
`

// GetTableSize returns PostgreSQL's planner estimate of table's row
// count (pg_class.reltuples), which is cheap but only as accurate as
// the table's last ANALYZE.
func (i *Inspector) GetTableSize(ctx context.Context, table string) (int64, error) {
	var estimate int64
	err := i.db.QueryRowContext(ctx, tableSizeQuery, table).Scan(&estimate)
	if err != nil {
		return 0, util.NewConnectionError(fmt.Sprintf("estimating size of %q", table), err)
	}
	if estimate < 0 {
		estimate = 0
	}
	return estimate, nil
}

const dependenciesQuery = `
	SELECT DISTINCT ref.relname
	FROM pg_catalog.pg_constraint con
	JOIN pg_catalog.pg_class tbl ON tbl.oid = con.conrelid
	JOIN pg_catalog.pg_class ref ON ref.oid = con.confrelid
	WHERE con.contype = 'f'
	  AND tbl.relname = $1
`

// GetDependencies returns the tables table references via foreign
// key, i.e. the tables that must be loaded before table can be.
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
	       column_default LIKE 'nextval(%'
	FROM information_schema.columns
	WHERE table_name = $1
	ORDER BY ordinal_position
`

// GetColumns returns table's columns, in ordinal position order,
// flagging serial/identity columns (those defaulting from a
// sequence) so the dump coordinator knows which sequences to reset
// with setval.
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

const sequencesQuery = `
	SELECT pg_get_serial_sequence($1, column_name)
	FROM information_schema.columns
	WHERE table_name = $1
`

// GetSequences returns the sequence names owned by table's
// serial/identity columns, used to emit setval(...) calls after
// loading anonymized data.
func (i *Inspector) GetSequences(ctx context.Context, table string) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, sequencesQuery, table)
	if err != nil {
		return nil, util.NewConnectionError(fmt.Sprintf("reading sequences of %q", table), err)
	}
	defer rows.Close()

	var seqs []string
	for rows.Next() {
		var seq sql.NullString
		if err := rows.Scan(&seq); err != nil {
			return nil, util.NewConnectionError("scanning sequence", err)
		}
		if seq.Valid {
			seqs = append(seqs, seq.String)
		}
	}
	return seqs, rows.Err()
}

// OrderedTables assembles the full catalog (tables, columns,
// estimated sizes, owned sequences and foreign-key dependencies) and
// returns it ordered by schema.OrderedTables' dependency-weight rule.
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
		seqs, err := i.GetSequences(ctx, name)
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
			Sequences:     seqs,
		})
	}

	return schema.OrderedTables(tables, dependencies), nil
}
