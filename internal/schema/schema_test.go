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

package schema

import "testing"

func names(tables []Table) []string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = t.Name
	}
	return out
}

func TestOrderedTablesLinearChain(t *testing.T) {
	// orders (FK) -> customers (FK) -> addresses: customers is
	// depended on by orders, addresses is depended on by customers
	// (transitively by orders too).
	tables := []Table{{Name: "orders"}, {Name: "customers"}, {Name: "addresses"}}
	deps := map[string][]string{
		"orders":    {"customers"},
		"customers": {"addresses"},
	}

	got := OrderedTables(tables, deps)
	want := []string{"addresses", "customers", "orders"}
	if got := names(got); !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestOrderedTablesNoDependencies(t *testing.T) {
	tables := []Table{{Name: "b"}, {Name: "a"}, {Name: "c"}}
	got := OrderedTables(tables, nil)
	// all weight 0, tie-broken alphabetically
	want := []string{"a", "b", "c"}
	if got := names(got); !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestOrderedTablesBreaksCycles(t *testing.T) {
	tables := []Table{{Name: "a"}, {Name: "b"}}
	deps := map[string][]string{
		"a": {"b"},
		"b": {"a"}, // would close a cycle; must be ignored
	}

	got := OrderedTables(tables, deps)
	if len(got) != 2 {
		t.Fatalf("got %d tables, want 2", len(got))
	}
	// a depends on b (accepted first), so b has weight 1, a has weight 0.
	want := []string{"b", "a"}
	if got := names(got); !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestApplyTableOrderPrefixThenRemainder(t *testing.T) {
	tables := []Table{{Name: "addresses", Weight: 2}, {Name: "customers", Weight: 1}, {Name: "orders", Weight: 0}}
	got := ApplyTableOrder(tables, []string{"orders"})
	want := []string{"orders", "addresses", "customers"}
	if got := names(got); !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestApplyTableOrderIgnoresUnknownNames(t *testing.T) {
	tables := []Table{{Name: "a"}, {Name: "b"}}
	got := ApplyTableOrder(tables, []string{"does_not_exist", "b"})
	want := []string{"b", "a"}
	if got := names(got); !equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
