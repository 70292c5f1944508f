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

// Package mssql drives a SQL Server dump: mssql-scripter for the
// schema, split into pre-data/post-data around batched INSERT
// statements produced by streaming every table's rows through the
// transformer engine.
package mssql

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/anonydump/anonydump/internal/dump"
	"github.com/anonydump/anonydump/internal/log"
	"github.com/anonydump/anonydump/internal/schema"
	msschema "github.com/anonydump/anonydump/internal/schema/mssql"
	"github.com/anonydump/anonydump/internal/settings"
	"github.com/anonydump/anonydump/internal/transform"
	"github.com/anonydump/anonydump/internal/util"
)

const batchSize = 1000

// Options configures a Coordinator run.
type Options struct {
	ScripterPath string // defaults to "mssql-scripter"
	Sink         dump.ProgressSink
	Logger       log.Logger
}

// Coordinator drives a SQL Server dump end to end.
type Coordinator struct {
	dsn       string
	inspector *msschema.Inspector
	engine    *transform.Engine
	settings  *settings.Settings
	opts      Options
}

// New builds a Coordinator. dsn is used both for mssql-scripter and
// the data-phase connection.
func New(dsn string, s *settings.Settings, opts Options) (*Coordinator, error) {
	if opts.ScripterPath == "" {
		opts.ScripterPath = "mssql-scripter"
	}
	if opts.Sink == nil {
		opts.Sink = dump.NopSink{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard
	}

	inspector, err := msschema.New(dsn)
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
	c.opts.Logger.InfoContext(ctx, "starting sql server dump")
	c.report(dump.PhasePreData, "", 0, 0, nil)

	tables, err := c.inspector.OrderedTables(ctx)
	if err != nil {
		c.opts.Logger.ErrorContext(ctx, "reading schema failed", "error", err)
		c.report(dump.PhaseError, "", 0, 0, err)
		return err
	}
	tables = schema.ApplyTableOrder(tables, c.settings.TableOrder)

	schemaDoc, err := c.runScripter(ctx)
	if err != nil {
		c.report(dump.PhaseError, "", 0, 0, err)
		return err
	}
	boundary := SplitPrePost(schemaDoc)
	preData, postData := schemaDoc[:boundary], schemaDoc[boundary:]

	if _, err := io.WriteString(w, preData); err != nil {
		return util.NewWriterError("writing pre-data section", err)
	}

	filter := c.settings.Filter
	var names []string
	for _, t := range tables {
		names = append(names, t.Name)
	}
	if filter != nil {
		filter.LoadTables(names)
	}

	db, err := sql.Open("sqlserver", c.dsn)
	if err != nil {
		return util.NewConnectionError("opening data connection", err)
	}
	defer db.Close()

	c.report(dump.PhaseData, "", 0, 0, nil)
	for _, t := range tables {
		if filter != nil && !filter.FilterTable(t.Name) {
			continue
		}
		c.opts.Logger.DebugContext(ctx, "dumping table", "table", t.Name)
		if err := c.dumpTableData(ctx, db, w, t); err != nil {
			c.opts.Logger.ErrorContext(ctx, "dumping table failed", "table", t.Name, "error", err)
			c.report(dump.PhaseError, t.Name, 0, 0, err)
			return err
		}
	}

	c.report(dump.PhasePostData, "", 0, 0, nil)
	if _, err := io.WriteString(w, postData); err != nil {
		return util.NewWriterError("writing post-data section", err)
	}

	c.opts.Logger.InfoContext(ctx, "sql server dump complete")
	c.report(dump.PhaseDone, "", 0, 0, nil)
	return nil
}

func (c *Coordinator) runScripter(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, c.opts.ScripterPath, "--connection-string", c.dsn, "--data-only=false")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", util.NewSchemaToolError("mssql-scripter: "+stderr.String(), err)
	}
	return stdout.String(), nil
}

func (c *Coordinator) dumpTableData(ctx context.Context, db *sql.DB, w io.Writer, t schema.Table) error {
	colNames := make([]string, len(t.Columns))
	columnIndexes := make(map[string]int, len(t.Columns))
	hasIdentity := false
	for i, col := range t.Columns {
		colNames[i] = col.Name
		columnIndexes[col.Name] = i
		if col.IsIdentity {
			hasIdentity = true
		}
	}

	if hasIdentity {
		fmt.Fprintf(w, "SET IDENTITY_INSERT %s ON;\nGO\n", quoteIdent(t.Name))
	}

	table, _ := c.settings.LookupTable(t.Name)
	plan := dump.PlanQueries(table.Query)

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
			q = fmt.Sprintf("SELECT TOP %d %s", remaining, strings.TrimPrefix(q, "SELECT "))
		}

		rows, err := db.QueryContext(ctx, q)
		if err != nil {
			return util.NewConnectionError(fmt.Sprintf("querying %q", t.Name), err)
		}

		raw := make([]any, len(colNames))
		for i := range raw {
			raw[i] = new(any)
		}

		for rows.Next() {
			if err := rows.Scan(raw...); err != nil {
				rows.Close()
				return util.NewConnectionError("scanning row", err)
			}
			values := make([]string, len(colNames))
			nulls := make([]bool, len(colNames))
			raws := make([]bool, len(colNames))
			for i, v := range raw {
				values[i], nulls[i], raws[i] = renderValue(*(v.(*any)))
			}

			if sub.Transform {
				cells, err := c.engine.ProcessRow(t.Name, columnIndexes, values, c.settings.Globals)
				if err != nil {
					rows.Close()
					return util.NewTransformationError(fmt.Sprintf("table %q", t.Name), err)
				}
				for i, cell := range cells {
					if !cell.Owned {
						continue
					}
					values[i] = cell.Value
					nulls[i] = cell.Value == `\N`
					raws[i] = false // transformer output is always plain text, quote it
				}
			}

			rendered := make([]string, len(values))
			for i, v := range values {
				switch {
				case nulls[i]:
					rendered[i] = "NULL"
				case raws[i]:
					rendered[i] = v
				default:
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

	if hasIdentity {
		fmt.Fprintf(w, "SET IDENTITY_INSERT %s OFF;\nGO\n", quoteIdent(t.Name))
	}
	return nil
}

// renderValue formats a driver-scanned value as SQL text. The third
// return value reports whether the text is already valid, unquoted
// SQL (binary 0x-hex literals, numeric literals): everything else
// still needs quoteLiteral's N'...' quoting.
func renderValue(v any) (text string, isNull bool, raw bool) {
	switch x := v.(type) {
	case nil:
		return "", true, false
	case []byte:
		return fmt.Sprintf("0x%x", x), false, true
	case time.Time:
		return x.Format("2006-01-02T15:04:05.000"), false, false
	case bool:
		if x {
			return "1", false, true
		}
		return "0", false, true
	case int64, int32, int16, int8, uint8, float64, float32:
		return fmt.Sprintf("%v", x), false, true
	default:
		return fmt.Sprintf("%v", x), false, false
	}
}

func writeInsert(w io.Writer, table string, colNames []string, batch [][]string) error {
	_, err := fmt.Fprintf(w, "INSERT INTO %s (%s) VALUES\n", quoteIdent(table), strings.Join(quoteIdents(colNames), ", "))
	if err != nil {
		return util.NewWriterError("writing INSERT", err)
	}
	for i, row := range batch {
		sep := ",\n"
		if i == len(batch)-1 {
			sep = ";\nGO\n"
		}
		if _, err := fmt.Fprintf(w, "(%s)%s", strings.Join(row, ","), sep); err != nil {
			return util.NewWriterError("writing INSERT row", err)
		}
	}
	return nil
}

func (c *Coordinator) report(phase dump.Phase, table string, done, total int64, err error) {
	c.opts.Sink.Report(dump.Progress{Phase: phase, Table: table, RowsDone: done, RowsTotal: total, Err: err})
}

func quoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func quoteIdents(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quoteIdent(n)
	}
	return out
}

func quoteLiteral(s string) string {
	return "N'" + strings.ReplaceAll(s, "'", "''") + "'"
}
