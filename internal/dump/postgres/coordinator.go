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

// Package postgres drives a PostgreSQL dump: pg_dump for the
// pre-data/post-data schema sections, and a COPY-text-format streamer
// for the data section that runs every row through the transformer
// engine.
package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/anonydump/anonydump/internal/dump"
	"github.com/anonydump/anonydump/internal/log"
	"github.com/anonydump/anonydump/internal/schema"
	pgschema "github.com/anonydump/anonydump/internal/schema/postgres"
	"github.com/anonydump/anonydump/internal/settings"
	"github.com/anonydump/anonydump/internal/transform"
	"github.com/anonydump/anonydump/internal/util"
)

// IsolationLevel names the transaction the Data phase's reads run
// under. NoTransaction means every query runs autocommit, outside any
// wrapping transaction.
type IsolationLevel string

const (
	NoTransaction   IsolationLevel = "NoTransaction"
	ReadUncommitted IsolationLevel = "ReadUncommitted"
	ReadCommitted   IsolationLevel = "ReadCommitted"
	RepeatableRead  IsolationLevel = "RepeatableRead"
	Serializable    IsolationLevel = "Serializable"
)

// Options configures a Coordinator run.
type Options struct {
	PgDumpPath string // defaults to "pg_dump"
	Isolation  IsolationLevel
	Sink       dump.ProgressSink
	Logger     log.Logger
}

// Coordinator drives a PostgreSQL dump end to end: schema pre/post
// sections via pg_dump, and a transformed data section in between.
type Coordinator struct {
	databaseURL string
	inspector   *pgschema.Inspector
	engine      *transform.Engine
	settings    *settings.Settings
	opts        Options
}

// New builds a Coordinator. databaseURL is used both for the schema
// tool invocations and the data-phase connection.
func New(databaseURL string, s *settings.Settings, opts Options) (*Coordinator, error) {
	if opts.PgDumpPath == "" {
		opts.PgDumpPath = "pg_dump"
	}
	if opts.Sink == nil {
		opts.Sink = dump.NopSink{}
	}
	if opts.Isolation == "" {
		opts.Isolation = ReadCommitted
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard
	}

	inspector, err := pgschema.New(databaseURL)
	if err != nil {
		return nil, err
	}
	engine, err := transform.NewEngine(s)
	if err != nil {
		return nil, err
	}

	return &Coordinator{
		databaseURL: databaseURL,
		inspector:   inspector,
		engine:      engine,
		settings:    s,
		opts:        opts,
	}, nil
}

// Close releases the schema inspector's connection.
func (c *Coordinator) Close() error {
	return c.inspector.Close()
}

// Run drives the full Init -> PreData -> Data -> PostData -> Done
// state machine, writing the anonymized dump to w.
func (c *Coordinator) Run(ctx context.Context, w io.Writer) error {
	c.opts.Logger.InfoContext(ctx, "starting postgres dump")
	c.report(dump.PhasePreData, "", 0, 0, nil)

	tables, err := c.inspector.OrderedTables(ctx)
	if err != nil {
		c.opts.Logger.ErrorContext(ctx, "reading schema failed", "error", err)
		c.report(dump.PhaseError, "", 0, 0, err)
		return err
	}
	tables = schema.ApplyTableOrder(tables, c.settings.TableOrder)

	filter := c.settings.Filter
	var names []string
	for _, t := range tables {
		names = append(names, t.Name)
	}
	if filter != nil {
		filter.LoadTables(names)
	}

	preData, err := c.runPgDump(ctx, "pre-data")
	if err != nil {
		c.report(dump.PhaseError, "", 0, 0, err)
		return err
	}
	if _, err := w.Write(preData); err != nil {
		return util.NewWriterError("writing pre-data section", err)
	}

	c.report(dump.PhaseData, "", 0, 0, nil)
	db, err := sql.Open("pgx", c.databaseURL)
	if err != nil {
		return util.NewConnectionError("opening data connection", err)
	}
	defer db.Close()

	tx, err := c.beginDataTx(ctx, db)
	if err != nil {
		c.report(dump.PhaseError, "", 0, 0, err)
		return err
	}

	for _, t := range tables {
		if filter != nil && !filter.FilterTable(t.Name) {
			continue
		}
		c.opts.Logger.DebugContext(ctx, "dumping table", "table", t.Name)
		if err := c.dumpTable(ctx, tx, w, t); err != nil {
			c.opts.Logger.ErrorContext(ctx, "dumping table failed", "table", t.Name, "error", err)
			c.report(dump.PhaseError, t.Name, 0, 0, err)
			_ = tx.Rollback()
			return err
		}
	}

	if c.opts.Isolation != NoTransaction {
		if err := tx.Commit(); err != nil {
			return util.NewConnectionError("committing read-only dump transaction", err)
		}
	}

	c.report(dump.PhasePostData, "", 0, 0, nil)
	postData, err := c.runPgDump(ctx, "post-data")
	if err != nil {
		c.report(dump.PhaseError, "", 0, 0, err)
		return err
	}
	if _, err := w.Write(postData); err != nil {
		return util.NewWriterError("writing post-data section", err)
	}

	c.opts.Logger.InfoContext(ctx, "postgres dump complete")
	c.report(dump.PhaseDone, "", 0, 0, nil)
	return nil
}

func (c *Coordinator) beginDataTx(ctx context.Context, db *sql.DB) (*sql.Tx, error) {
	level := sql.LevelDefault
	switch c.opts.Isolation {
	case ReadUncommitted:
		level = sql.LevelReadUncommitted
	case ReadCommitted:
		level = sql.LevelReadCommitted
	case RepeatableRead:
		level = sql.LevelRepeatableRead
	case Serializable:
		level = sql.LevelSerializable
	case NoTransaction:
		level = sql.LevelDefault
	}
	return db.BeginTx(ctx, &sql.TxOptions{Isolation: level, ReadOnly: true})
}

func (c *Coordinator) runPgDump(ctx context.Context, section string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.opts.PgDumpPath, "--section="+section, c.databaseURL)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, util.NewSchemaToolError(fmt.Sprintf("pg_dump --section=%s: %s", section, stderr.String()), err)
	}
	return stdout.Bytes(), nil
}

func (c *Coordinator) dumpTable(ctx context.Context, tx *sql.Tx, w io.Writer, t schema.Table) error {
	colNames := make([]string, len(t.Columns))
	columnIndexes := make(map[string]int, len(t.Columns))
	for i, col := range t.Columns {
		colNames[i] = col.Name
		columnIndexes[col.Name] = i
	}

	fmt.Fprintf(w, "COPY %s (%s) FROM stdin;\n", quoteIdent(t.Name), strings.Join(quoteIdents(colNames), ", "))

	table, _ := c.settings.LookupTable(t.Name)
	plan := dump.PlanQueries(table.Query)

	var rowsSoFar int64
	for _, sub := range plan {
		if sub.Limit > 0 && rowsSoFar >= sub.Limit {
			continue
		}
		remaining := int64(-1)
		if sub.Limit > 0 {
			remaining = sub.Limit - rowsSoFar
		}
		n, err := c.streamRows(ctx, tx, w, t.Name, colNames, columnIndexes, sub, remaining)
		if err != nil {
			return err
		}
		rowsSoFar += n
		c.report(dump.PhaseData, t.Name, rowsSoFar, t.EstimatedRows, nil)
	}

	fmt.Fprint(w, "\\.\n")
	for _, seq := range t.Sequences {
		fmt.Fprintf(w, "SELECT pg_catalog.setval(%s, (SELECT MAX(%s) FROM %s));\n",
			quoteLiteral(seq), quoteIdent(primaryNumericColumn(t)), quoteIdent(t.Name))
	}
	return nil
}

func (c *Coordinator) streamRows(ctx context.Context, tx *sql.Tx, w io.Writer, table string, colNames []string, columnIndexes map[string]int, sub dump.Transformed, remaining int64) (int64, error) {
	q := "SELECT " + strings.Join(quoteIdents(colNames), ", ") + " FROM " + quoteIdent(table)
	if sub.Where != "" {
		q += " WHERE " + sub.Where
	}
	if remaining >= 0 {
		q += fmt.Sprintf(" LIMIT %d", remaining)
	}

	rows, err := tx.QueryContext(ctx, q)
	if err != nil {
		return 0, util.NewConnectionError(fmt.Sprintf("querying %q", table), err)
	}
	defer rows.Close()

	raw := make([]sql.NullString, len(colNames))
	scanArgs := make([]any, len(colNames))
	for i := range raw {
		scanArgs[i] = &raw[i]
	}

	var count int64
	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return count, util.NewConnectionError("scanning row", err)
		}
		values := make([]string, len(colNames))
		for i, v := range raw {
			if !v.Valid {
				values[i] = `\N`
			} else {
				values[i] = v.String
			}
		}

		if sub.Transform {
			cells, err := c.engine.ProcessRow(table, columnIndexes, values, c.settings.Globals)
			if err != nil {
				return count, util.NewTransformationError(fmt.Sprintf("table %q", table), err)
			}
			for i, cell := range cells {
				values[i] = cell.Value
			}
		}

		for i, v := range values {
			if i > 0 {
				if _, err := io.WriteString(w, "\t"); err != nil {
					return count, util.NewWriterError("writing COPY row", err)
				}
			}
			if _, err := io.WriteString(w, EscapeCopyValue(v)); err != nil {
				return count, util.NewWriterError("writing COPY row", err)
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return count, util.NewWriterError("writing COPY row", err)
		}
		count++
	}
	return count, rows.Err()
}

func (c *Coordinator) report(phase dump.Phase, table string, done, total int64, err error) {
	c.opts.Sink.Report(dump.Progress{Phase: phase, Table: table, RowsDone: done, RowsTotal: total, Err: err})
}

func primaryNumericColumn(t schema.Table) string {
	for _, c := range t.Columns {
		if c.IsIdentity {
			return c.Name
		}
	}
	if len(t.Columns) > 0 {
		return t.Columns[0].Name
	}
	return ""
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteIdents(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quoteIdent(n)
	}
	return out
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
