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
	"testing"

	"github.com/anonydump/anonydump/internal/settings"
	"github.com/anonydump/anonydump/internal/store"
	"github.com/anonydump/anonydump/internal/uniqueness"
)

func compileTemplate(t *testing.T, format string) *TemplateTransformer {
	t.Helper()
	ts, err := NewTemplateStore(settings.Templates{})
	if err != nil {
		t.Fatalf("NewTemplateStore: %v", err)
	}
	compiled, err := ts.Compile(format)
	if err != nil {
		t.Fatalf("Compile(%q): %v", format, err)
	}
	return &TemplateTransformer{Format: format, compiled: compiled}
}

func TestTemplateTransformerOriginalValueAndRules(t *testing.T) {
	tmpl := compileTemplate(t, "{{ _0 }}:{{ _1 }}")
	tmpl.Rules = []Transformer{PlainTransformer{Value: "Any text"}}

	got, err := tmpl.Transform("field", "Mr", &TransformContext{})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got != "Mr:Any text" {
		t.Fatalf("got %q, want Mr:Any text", got)
	}
}

func TestTemplateTransformerVariablesAndGlobals(t *testing.T) {
	tmpl := compileTemplate(t, "Hello, {{ name }}! global: {{ global_value }}")
	tmpl.Variables = map[string]any{"name": "Alex"}

	ctx := &TransformContext{Globals: map[string]any{"global_value": "test"}}
	got, err := tmpl.Transform("field", "", ctx)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got != "Hello, Alex! global: test" {
		t.Fatalf("got %q", got)
	}
}

func TestTemplateTransformerPrevAndFinalViews(t *testing.T) {
	tmpl := compileTemplate(t, "Hello, {{ prev.first_name }} {{ final.last_name }}!")

	ctx := &TransformContext{
		ColumnIndexes: map[string]int{"first_name": 0, "last_name": 1},
		PrevRow:       []string{"FIRST", "LAST"},
		FinalRow:      []Cell{Borrowed("FIRST"), OwnedCell("tLAST")},
	}

	got, err := tmpl.Transform("field", "", ctx)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got != "Hello, FIRST tLAST!" {
		t.Fatalf("got %q", got)
	}
}

func TestTemplateTransformerErrorsOnUntransformedFinalReference(t *testing.T) {
	tmpl := compileTemplate(t, "{{ final.last_name }}")

	ctx := &TransformContext{
		ColumnIndexes: map[string]int{"first_name": 0, "last_name": 1},
		FinalRow:      []Cell{OwnedCell("FIRST"), Borrowed("untransformed")},
	}

	if _, err := tmpl.Transform("field", "", ctx); err == nil {
		t.Fatal("want an error referencing an untransformed column")
	}
}

func TestTemplateTransformerUniquenessRetries(t *testing.T) {
	tmpl := compileTemplate(t, "{{ _1 }}")
	calls := 0
	tmpl.Rules = []Transformer{counterTransformer{counter: &calls}}
	limit := int64(5)
	tmpl.Unique = uniqueness.Config{Required: true, TryCount: &limit}

	ctx := &TransformContext{Uniq: uniqueness.NewCollector(), Store: store.New()}

	first, err := tmpl.Transform("field", "", ctx)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	second, err := tmpl.Transform("field", "", ctx)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if first == second {
		t.Fatalf("got two identical values %q under a uniqueness requirement", first)
	}
}

type counterTransformer struct{ counter *int }

func (c counterTransformer) Transform(_, _ string, _ *TransformContext) (string, error) {
	*c.counter++
	return string(rune('a' + *c.counter)), nil
}
