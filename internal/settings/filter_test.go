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

import "testing"

func TestFilterTableOnlySchema(t *testing.T) {
	f := &Filter{Schema: TableList{Except: []string{"table1"}}}
	f.LoadTables([]string{"table1", "table2"})

	if f.FilterTable("table1") {
		t.Error("table1 should be excluded by schema filter")
	}
	if !f.FilterTable("table2") {
		t.Error("table2 should pass")
	}
}

func TestFilterTableOnlyData(t *testing.T) {
	f := &Filter{Data: TableList{Only: []string{"table1"}, isOnly: true}}
	f.LoadTables([]string{"table1", "table2"})

	if !f.FilterTable("table1") {
		t.Error("table1 should pass")
	}
	if f.FilterTable("table2") {
		t.Error("table2 should be excluded by data filter")
	}
}

func TestFilterTableSchemaAndData(t *testing.T) {
	f := &Filter{
		Schema: TableList{Except: []string{"table1"}},
		Data:   TableList{Only: []string{"table1", "table2"}, isOnly: true},
	}
	f.LoadTables([]string{"table1", "table2"})

	if f.FilterTable("table1") {
		t.Error("table1 excluded by schema should fail overall")
	}
	if !f.FilterTable("table2") {
		t.Error("table2 should pass both filters")
	}
}

func TestFilterTableMissingFromKnownTables(t *testing.T) {
	f := &Filter{Data: TableList{Only: []string{"table1", "table2"}, isOnly: true}}
	f.LoadTables([]string{"table1"})

	if !f.FilterTable("table1") {
		t.Error("table1 should pass")
	}
	if f.FilterTable("table2") {
		t.Error("table2 was never in the known table set and should not pass")
	}
}

func TestFilterTableWildcards(t *testing.T) {
	f := &Filter{
		Schema: TableList{Except: []string{"table1*"}},
		Data: TableList{
			Only:   []string{"table1", "table2?1", "table3"},
			isOnly: true,
		},
	}
	f.LoadTables([]string{
		"table1", "table10", "table2", "table201", "table3", "table301",
	})

	cases := map[string]bool{
		"table1":   false,
		"table10":  false,
		"table2":   false,
		"table201": true,
		"table3":   true,
		"table301": false,
	}
	for table, want := range cases {
		if got := f.FilterTable(table); got != want {
			t.Errorf("FilterTable(%q) = %v, want %v", table, got, want)
		}
	}
}

func TestTableListMatchAllWildcard(t *testing.T) {
	// Only("*") resolves to every known table, so the schema section
	// admits all of them; Except("*") likewise resolves to every known
	// table, so the data section excludes all of them. Combined, no
	// table passes both sections.
	schema := TableList{Only: []string{"*"}, isOnly: true}
	data := TableList{Except: []string{"*"}}
	tables := []string{"public.table1", "public.table2", "other.table1", "other.table2"}

	f := &Filter{Schema: schema, Data: data}
	f.LoadTables(tables)

	for _, name := range tables {
		if f.FilterTable(name) {
			t.Errorf("FilterTable(%q) = true, want false", name)
		}
	}

	if !f.matchedSchema.admits("public.table1") {
		t.Error("schema section alone should admit every table when it resolves to Only(all)")
	}
}
