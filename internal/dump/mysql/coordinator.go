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

// Package mysql drives a MySQL dump: mysqldump --no-data for the
// schema, spliced with batched INSERT statements produced by
// streaming every table's rows through the transformer engine.
package mysql

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
	myschema "github.com/anonydump/anonydump/internal/schema/mysql"
	"github.com/anonydump/anonydump/internal/settings"
	"github.com/anonydump/anonydump/internal/transform"
	"github.com/anonydump/anonydump/internal/util"
)

const batchSize = 1000

// Options configures a Coordinator run.
type Options struct {
	MysqldumpPath string // defaults to "mysqldump"
	Sink          dump.ProgressSink
	Logger        log.Logger
}

// Coordinator drives a MySQL dump end to end.
type Coordinator struct {
	dsn       string
	inspector *myschema.Inspector
	engine    *transform.Engine
	settings  *settings.Settings
	opts      Options
}

// New builds a Coordinator. dsn is used both for mysqldump and the
// data-phase connection.
func New(dsn string, s *settings.Settings, opts Options) (*Coordinator, error) {
	if opts.MysqldumpPath == "" {
		opts.MysqldumpPath = "mysqldump"
	}
	if opts.Sink == nil {
		opts.Sink = dump.NopSink{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard
	}

	inspector, err := myschema.New(dsn)
	if err != nil {
		return nil, err
	}
	engine, err := transform.NewEngine(s)
	if err != nil {
		return nil, err
	}

	return &Coordinator{dsn: dsn, inspector: inspector, engine: engine, settings: s, opts: opts}, nil
}

// Close releases the schema inspector's connection.
func (c *Coordinator) Close() error {
	return c.inspector.Close()
}

// Run drives the full dump, writing the spliced, anonymized SQL
// script to w.
func (c *Coordinator) Run(ctx context.Context, w io.Writer) error {
	c.opts.Logger.InfoContext(ctx, "starting mysql dump")
	c.report(dump.PhasePreData, "", 0, 0, nil)

	tables, err := c.inspector.OrderedTables(ctx)
	if err != nil {
		c.opts.Logger.ErrorContext(ctx, "reading schema failed", "error", err)
		c.report(dump.PhaseError, "", 0, 0, err)
		return err
	}
	tables = schema.ApplyTableOrder(tables, c.settings.TableOrder)

	schemaDoc, err := c.runMysqldump(ctx)
	if err != nil {
		c.report(dump.PhaseError, "", 0, 0, err)
		return err
	}
	bounds, err := SplitSchema(schemaDoc)
	if err != nil {
		c.report(dump.PhaseError, "", 0, 0, err)
		return util.NewSchemaToolError("parsing mysqldump output", err)
	}

	filter := c.settings.Filter
	var names []string
	for _, t := range tables {
		names = append(names, t.Name)
	}
	if filter != nil {
		filter.LoadTables(names)
	}

	db, err := sql.Open("mysql", myschema.ToDriverDSN(c.dsn))
	if err != nil {
		return util.NewConnectionError("opening data connection", err)
	}
	defer db.Close()

	c.report(dump.PhaseData, "", 0, 0, nil)

	prevEnd := 0
	for _, t := range tables {
		b, ok := bounds[t.Name]
		if !ok {
			continue
		}
		if _, err := w.Write(schemaDoc[prevEnd:b.EndOfSchema]); err != nil {
			return util.NewWriterError("writing schema section", err)
		}

		if filter == nil || filter.FilterTable(t.Name) {
			c.opts.Logger.DebugContext(ctx, "dumping table", "table", t.Name)
			if err := c.dumpTableData(ctx, db, w, t); err != nil {
				c.opts.Logger.ErrorContext(ctx, "dumping table failed", "table", t.Name, "error", err)
				c.report(dump.PhaseError, t.Name, 0, 0, err)
				return err
			}
		}

		prevEnd = b.EndOfSchema
	}
	if _, err := w.Write(schemaDoc[prevEnd:]); err != nil {
		return util.NewWriterError("writing trailing schema section", err)
	}

	c.opts.Logger.InfoContext(ctx, "mysql dump complete")
	c.report(dump.PhaseDone, "", 0, 0, nil)
	return nil
}

func (c *Coordinator) runMysqldump(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.opts.MysqldumpPath, "--no-data", c.dsn)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, util.NewSchemaToolError("mysqldump --no-data: "+stderr.String(), err)
	}
	return stdout.Bytes(), nil
}

func (c *Coordinator) dumpTableData(ctx context.Context, db *sql.DB, w io.Writer, t schema.Table) error {
	colNames := make([]string, len(t.Columns))
	columnIndexes := make(map[string]int, len(t.Columns))
	for i, col := range t.Columns {
		colNames[i] = col.Name
		columnIndexes[col.Name] = i
	}

	table, _ := c.settings.LookupTable(t.Name)
	plan := dump.PlanQueries(table.Query)

	fmt.Fprintf(w, "LOCK TABLES `%s` WRITE;\n", t.Name)
	fmt.Fprintf(w, "ALTER TABLE `%s` DISABLE KEYS;\n", t.Name)

	var batch [][]string
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := writeInsert(w, t.Name, colNames, batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	var rowsSoFar int64
	for _, sub := range plan {
		if sub.Limit > 0 && rowsSoFar >= sub.Limit {
			continue
		}
		remaining := int64(-1)
		if sub.Limit > 0 {
			remaining = sub.Limit - rowsSoFar
		}

		q := "SELECT " + strings.Join(quoteIdents(colNames), ", ") + " FROM " + quoteIdent(t.Name)
		if sub.Where != "" {
			q += " WHERE " + sub.Where
		}
		if remaining >= 0 {
			q += fmt.Sprintf(" LIMIT %d", remaining)
		}

		rows, err := db.QueryContext(ctx, q)
		if err != nil {
			return util.NewConnectionError(fmt.Sprintf("querying %q", t.Name), err)
		}

		raw := make([]sql.NullString, len(colNames))
		scanArgs := make([]any, len(colNames))
		for i := range raw {
			scanArgs[i] = &raw[i]
		}

		for rows.Next() {
			if err := rows.Scan(scanArgs...); err != nil {
				rows.Close()
				return util.NewConnectionError("scanning row", err)
			}
			values := make([]string, len(colNames))
			nulls := make([]bool, len(colNames))
			for i, v := range raw {
				nulls[i] = !v.Valid
				values[i] = v.String
			}

			if sub.Transform {
				cells, err := c.engine.ProcessRow(t.Name, columnIndexes, values, c.settings.Globals)
				if err != nil {
					rows.Close()
					return util.NewTransformationError(fmt.Sprintf("table %q", t.Name), err)
				}
				for i, cell := range cells {
					values[i] = cell.Value
					if cell.Value == `\N` {
						nulls[i] = true
					}
				}
			}

			rendered := make([]string, len(values))
			for i, v := range values {
				if nulls[i] {
					rendered[i] = "NULL"
				} else {
					rendered[i] = quoteLiteral(v)
				}
			}
			batch = append(batch, rendered)
			rowsSoFar++
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					rows.Close()
					return err
				}
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return util.NewConnectionError("iterating rows", err)
		}
		c.report(dump.PhaseData, t.Name, rowsSoFar, t.EstimatedRows, nil)
	}
	if err := flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "ALTER TABLE `%s` ENABLE KEYS;\n", t.Name)
	fmt.Fprint(w, "UNLOCK TABLES;\n")
	return nil
}

func writeInsert(w io.Writer, table string, colNames []string, batch [][]string) error {
	_, err := fmt.Fprintf(w, "INSERT INTO `%s` (%s) VALUES\n", table, strings.Join(quoteIdents(colNames), ", "))
	if err != nil {
		return util.NewWriterError("writing INSERT", err)
	}
	for i, row := range batch {
		sep := ",\n"
		if i == len(batch)-1 {
			sep = ";\n"
		}
		if _, err := fmt.Fprintf(w, "(%s)%s", strings.Join(row, ","), sep); err != nil {
			return util.NewWriterError("writing INSERT row", err)
		}
	}
	return nil
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func quoteIdents(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quoteIdent(n)
	}
	return out
}

func quoteLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
