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

// Package settings decodes and serves the YAML configuration document
// that drives a dump run: source connection, destination, per-table
// rule sets, rule ordering, filters, locale defaults, the shared
// template library, and global template variables.
package settings

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/go-playground/validator/v10"
)

// Connection holds the source database connection string.
type Connection struct {
	DatabaseURL string `yaml:"database_url" validate:"required"`
}

// Query narrows and conditions the rows a table contributes to the
// dump, independent of the schema-level Filter.
type Query struct {
	Limit              *int64 `yaml:"limit"`
	DumpCondition      string `yaml:"dump_condition"`
	TransformCondition string `yaml:"transform_condition"`
}

// RawRules preserves the YAML document's column ordering for a
// table's rule set — yaml.MapSlice decodes a mapping node into an
// ordered list of key/value pairs instead of collapsing it into a Go
// map, which loses order. The stable "remaining order" half of
// process_row's rule ordering depends on this.
type RawRules = yaml.MapSlice

// Table is one entry in the settings document's `tables` list: a
// table name, its column rule set, an optional explicit application
// order for those rules, and an optional row-selection query.
type Table struct {
	Name      string   `yaml:"name" validate:"required"`
	Rules     RawRules `yaml:"rules"`
	RuleOrder []string `yaml:"rule_order"`
	Query     *Query   `yaml:"query"`
}

// TransformList returns the table's rule columns in application
// order: the explicit RuleOrder entries first (in the order given,
// skipping any name not present in Rules), then every remaining
// column in the order it appeared in the YAML document.
func (t Table) TransformList() []string {
	present := make(map[string]bool, len(t.Rules))
	for _, item := range t.Rules {
		present[fmt.Sprint(item.Key)] = true
	}

	seen := make(map[string]bool, len(t.Rules))
	var order []string
	for _, name := range t.RuleOrder {
		if present[name] && !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}
	for _, item := range t.Rules {
		name := fmt.Sprint(item.Key)
		if !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}
	return order
}

// RuleFor returns the raw (still-undecoded) transformer configuration
// for column, and whether the table declares a rule for it.
func (t Table) RuleFor(column string) (any, bool) {
	for _, item := range t.Rules {
		if fmt.Sprint(item.Key) == column {
			return item.Value, true
		}
	}
	return nil, false
}

// Templates is the shared template library referenced by `{% import
// %}`/`{% include %}` from any `template` transformer's format string.
type Templates struct {
	Raw   map[string]string `yaml:"raw"`
	Files []string          `yaml:"files"`
}

// Locale is a faker locale accepted in `default.locale` and per-rule
// `locale` options.
type Locale string

const (
	LocaleEN   Locale = "EN"
	LocaleRU   Locale = "RU"
	LocaleZHTW Locale = "ZH_TW"
)

// Defaults holds process-wide fallbacks applied to transformer rules
// that don't set their own value.
type Defaults struct {
	Locale Locale `yaml:"locale"`
}

// Settings is the fully decoded configuration document for a dump
// run.
type Settings struct {
	Source      Connection        `yaml:"source" validate:"required"`
	Destination string            `yaml:"destination"`
	Tables      []Table           `yaml:"tables" validate:"required,dive"`
	Filter      *Filter           `yaml:"filter"`
	Globals     map[string]any    `yaml:"globals"`
	Default     Defaults          `yaml:"default"`
	Templates   Templates         `yaml:"templates"`
	TableOrder  []string          `yaml:"table_order"`
}

var validate = validator.New()

// Load decodes and validates a settings document, overriding the
// source connection string with databaseURL when it is non-empty —
// the override the command line's DBNAME argument supplies.
func Load(data []byte, databaseURL string) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("settings: parse: %w", err)
	}
	if databaseURL != "" {
		s.Source.DatabaseURL = databaseURL
	}

	switch s.Default.Locale {
	case "", LocaleEN, LocaleRU, LocaleZHTW:
	default:
		return nil, fmt.Errorf("settings: unknown locale %q", s.Default.Locale)
	}

	if err := validate.Struct(&s); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	return &s, nil
}

// LookupTable returns the table declaration named name, if any.
func (s *Settings) LookupTable(name string) (Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// LookupRule returns the raw transformer configuration for (table,
// column), if the settings document declares one.
func (s *Settings) LookupRule(table, column string) (any, bool) {
	t, ok := s.LookupTable(table)
	if !ok {
		return nil, false
	}
	return t.RuleFor(column)
}
