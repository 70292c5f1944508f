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

package settings

import "path"

// TableList is an Only or Except list of table-name patterns. An
// unset Filter field behaves like Except([]), admitting every table.
type TableList struct {
	Only   []string `yaml:"only"`
	Except []string `yaml:"except"`
	isOnly bool
}

// UnmarshalYAML accepts a bare pattern list (shorthand for "only"), or
// a mapping with an "only"/"include" or "except"/"exclude" key.
func (t *TableList) UnmarshalYAML(unmarshal func(any) error) error {
	var short []string
	if err := unmarshal(&short); err == nil {
		t.Only = short
		t.isOnly = true
		return nil
	}

	var full struct {
		Only    []string `yaml:"only"`
		Include []string `yaml:"include"`
		Except  []string `yaml:"except"`
		Exclude []string `yaml:"exclude"`
	}
	if err := unmarshal(&full); err != nil {
		return err
	}
	switch {
	case full.Only != nil || full.Include != nil:
		t.Only = append(full.Only, full.Include...)
		t.isOnly = true
	default:
		t.Except = append(full.Except, full.Exclude...)
		t.isOnly = false
	}
	return nil
}

func (t TableList) patterns() []string {
	if t.isOnly {
		return t.Only
	}
	return t.Except
}

// matchAny reports whether table matches any of the patterns, using
// path.Match's single-segment glob semantics (table names never
// contain a path separator, so '*' effectively matches the whole
// remainder of the name).
func matchAny(patterns []string, table string) bool {
	for _, p := range patterns {
		if ok, _ := path.Match(p, table); ok {
			return true
		}
	}
	return false
}

// matchWithWildcards narrows the list's patterns against the known
// table set, producing a TableList whose patterns() are resolved to
// concrete table names.
func (t TableList) matchWithWildcards(tables []string) TableList {
	var matched []string
	for _, name := range tables {
		if matchAny(t.patterns(), name) {
			matched = append(matched, name)
		}
	}
	if t.isOnly {
		return TableList{Only: matched, isOnly: true}
	}
	return TableList{Except: matched, isOnly: false}
}

// admits reports whether table is allowed by a list already narrowed
// by matchWithWildcards, i.e. one whose patterns are literal names.
func (t TableList) admits(table string) bool {
	if t.isOnly {
		for _, name := range t.Only {
			if name == table {
				return true
			}
		}
		return false
	}
	for _, name := range t.Except {
		if name == table {
			return false
		}
	}
	return true
}

// Filter narrows the schema-only and data sections of a dump
// independently. An unset section admits every table.
type Filter struct {
	Schema TableList `yaml:"schema"`
	Data   TableList `yaml:"data"`

	matchedSchema TableList
	matchedData   TableList
}

// UnmarshalYAML accepts a bare TableList (shorthand for "data"), or a
// mapping with "schema" and/or "data" keys.
func (f *Filter) UnmarshalYAML(unmarshal func(any) error) error {
	var probe map[string]any
	_ = unmarshal(&probe)
	_, hasSchema := probe["schema"]
	_, hasData := probe["data"]

	if !hasSchema && !hasData {
		var short TableList
		if err := unmarshal(&short); err == nil {
			f.Schema = TableList{}
			f.Data = short
			return nil
		}
	}

	var full struct {
		Schema TableList `yaml:"schema"`
		Data   TableList `yaml:"data"`
	}
	if err := unmarshal(&full); err != nil {
		return err
	}
	f.Schema = full.Schema
	f.Data = full.Data
	return nil
}

// LoadTables resolves the filter's wildcard patterns against the
// known table list fetched from the schema inspector. Must be called
// before FilterTable or SchemaMatchList.
func (f *Filter) LoadTables(tables []string) {
	f.matchedSchema = f.Schema.matchWithWildcards(tables)
	f.matchedData = f.Data.matchWithWildcards(tables)
}

// SchemaMatchList returns the resolved schema-section table list. No
// coordinator passes it to its schema tool; the schema section takes
// effect only through FilterTable.
func (f *Filter) SchemaMatchList() TableList {
	return f.matchedSchema
}

// FilterTable reports whether table passes both the schema and data
// sections of the filter.
func (f *Filter) FilterTable(table string) bool {
	return f.matchedSchema.admits(table) && f.matchedData.admits(table)
}
