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
	"strings"
	"testing"

	"github.com/anonydump/anonydump/internal/settings"
)

func TestEngineProcessRowPreservesColumnOrder(t *testing.T) {
	s := &settings.Settings{
		Source: settings.Connection{DatabaseURL: "postgres://localhost/db"},
		Tables: []settings.Table{
			{
				Name: "actor",
				Rules: settings.RawRules{
					{Key: "first_name", Value: map[string]any{"first_name": map[string]any{}}},
					{Key: "last_name", Value: map[string]any{"last_name": map[string]any{}}},
				},
			},
		},
	}

	e, err := NewEngine(s)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	columnIndexes := map[string]int{"id": 0, "first_name": 1, "last_name": 2}
	row := []string{"1", "Alice", "Smith"}

	out, err := e.ProcessRow("actor", columnIndexes, row, nil)
	if err != nil {
		t.Fatalf("ProcessRow: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d columns, want 3", len(out))
	}
	if out[0].Value != "1" || out[0].Owned {
		t.Fatalf("id column should pass through untouched: %+v", out[0])
	}
	if out[1].Value == "Alice" || out[2].Value == "Smith" {
		t.Fatal("first_name/last_name should have been replaced")
	}
	if !out[1].Owned || !out[2].Owned {
		t.Fatal("transformed columns must be marked Owned")
	}
}

func TestEngineTemplateSeesTransformedColumn(t *testing.T) {
	s := &settings.Settings{
		Source: settings.Connection{DatabaseURL: "postgres://localhost/db"},
		Tables: []settings.Table{
			{
				Name: "actor",
				Rules: settings.RawRules{
					{Key: "first_name", Value: map[string]any{"first_name": map[string]any{}}},
					{Key: "greeting", Value: map[string]any{"template": map[string]any{"format": "Hello, {{ final.first_name }}!"}}},
				},
				RuleOrder: []string{"first_name", "greeting"},
			},
		},
	}

	e, err := NewEngine(s)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	columnIndexes := map[string]int{"first_name": 0, "greeting": 1}
	row := []string{"Alice", ""}

	out, err := e.ProcessRow("actor", columnIndexes, row, nil)
	if err != nil {
		t.Fatalf("ProcessRow: %v", err)
	}
	greeting := out[1].Value
	if !strings.HasPrefix(greeting, "Hello, ") || !strings.HasSuffix(greeting, "!") {
		t.Fatalf("got %q, want a Hello, <name>! greeting", greeting)
	}
	transformedName := out[0].Value
	if !strings.Contains(greeting, transformedName) {
		t.Fatalf("greeting %q does not contain the transformed name %q", greeting, transformedName)
	}
}

func TestEngineUnknownTableProducesNoRules(t *testing.T) {
	s := &settings.Settings{
		Source: settings.Connection{DatabaseURL: "postgres://localhost/db"},
		Tables: []settings.Table{{Name: "actor"}},
	}
	e, err := NewEngine(s)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	out, err := e.ProcessRow("other_table", map[string]int{"a": 0}, []string{"x"}, nil)
	if err != nil {
		t.Fatalf("ProcessRow: %v", err)
	}
	if out[0].Value != "x" || out[0].Owned {
		t.Fatalf("got %+v, want untouched passthrough for a table with no rules", out[0])
	}
}
