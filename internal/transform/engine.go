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

package transform

import (
	"fmt"

	"github.com/anonydump/anonydump/internal/settings"
	"github.com/anonydump/anonydump/internal/store"
	"github.com/anonydump/anonydump/internal/uniqueness"
)

// columnRule is one compiled (column, transformer) pair for a table,
// in application order.
type columnRule struct {
	column      string
	transformer Transformer
}

// Engine owns the parsed Settings, the shared Value Store, the shared
// Uniqueness Collector, the shared template store, and every table's
// compiled transformer list. It is constructed once per process.
type Engine struct {
	Settings  *settings.Settings
	Store     *store.Store
	Uniq      *uniqueness.Collector
	Templates *TemplateStore

	tables map[string][]columnRule
}

// NewEngine decodes every table's rule set into compiled transformers
// and returns a ready-to-use Engine.
func NewEngine(s *settings.Settings) (*Engine, error) {
	templates, err := NewTemplateStore(s.Templates)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	e := &Engine{
		Settings:  s,
		Store:     store.New(),
		Uniq:      uniqueness.NewCollector(),
		Templates: templates,
		tables:    make(map[string][]columnRule),
	}

	initCtx := InitContext{DefaultLocale: s.Default.Locale, Templates: templates}

	for _, table := range s.Tables {
		order := table.TransformList()
		rules := make([]columnRule, 0, len(order))
		for _, column := range order {
			node, ok := table.RuleFor(column)
			if !ok {
				continue
			}
			tr, err := DecodeRule(node, initCtx)
			if err != nil {
				return nil, fmt.Errorf("transform: table %q column %q: %w", table.Name, column, err)
			}
			rules = append(rules, columnRule{column: column, transformer: tr})
		}
		e.tables[table.Name] = rules
	}

	return e, nil
}

// ProcessRow runs table's compiled rules, in rule order, over row and
// returns the full column set in the table's original column order.
// columnIndexes maps every column name in row to its position.
func (e *Engine) ProcessRow(table string, columnIndexes map[string]int, row []string, globals map[string]any) ([]Cell, error) {
	final := make([]Cell, len(row))
	for i, v := range row {
		final[i] = Borrowed(v)
	}

	ctx := &TransformContext{
		Globals:       globals,
		ColumnIndexes: columnIndexes,
		PrevRow:       row,
		FinalRow:      final,
		Store:         e.Store,
		Uniq:          e.Uniq,
	}

	for _, rule := range e.tables[table] {
		i, ok := columnIndexes[rule.column]
		if !ok {
			return nil, fmt.Errorf("transform: table %q has no column %q", table, rule.column)
		}
		out, err := rule.transformer.Transform(rule.column, row[i], ctx)
		if err != nil {
			return nil, fmt.Errorf("transform: table %q column %q: %w", table, rule.column, err)
		}
		final[i] = OwnedCell(out)
	}

	return final, nil
}
