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

import (
	"reflect"
	"testing"
)

func TestTransformListExplicitOrderFirst(t *testing.T) {
	table := Table{
		Rules: RawRules{
			{Key: "first_name", Value: map[string]any{"first_name": map[string]any{}}},
			{Key: "greeting", Value: map[string]any{"template": map[string]any{"format": "Hello, {{ final.first_name }}!"}}},
		},
		RuleOrder: []string{"first_name", "greeting"},
	}

	got := table.TransformList()
	want := []string{"first_name", "greeting"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTransformListStableRemainder(t *testing.T) {
	table := Table{
		Rules: RawRules{
			{Key: "a", Value: 1},
			{Key: "b", Value: 2},
			{Key: "c", Value: 3},
		},
		RuleOrder: []string{"c"},
	}

	got := table.TransformList()
	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTransformListIgnoresUnknownRuleOrderEntries(t *testing.T) {
	table := Table{
		Rules: RawRules{
			{Key: "a", Value: 1},
		},
		RuleOrder: []string{"does_not_exist", "a"},
	}

	got := table.TransformList()
	want := []string{"a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRuleForLookup(t *testing.T) {
	table := Table{
		Rules: RawRules{
			{Key: "email", Value: map[string]any{"email": map[string]any{}}},
		},
	}

	if _, ok := table.RuleFor("missing"); ok {
		t.Fatal("expected no rule for an undeclared column")
	}
	v, ok := table.RuleFor("email")
	if !ok {
		t.Fatal("expected a rule for email")
	}
	if _, ok := v.(map[string]any); !ok {
		t.Fatalf("got %T, want map[string]any", v)
	}
}

func TestLoadRejectsUnknownLocale(t *testing.T) {
	doc := []byte(`
source:
  database_url: postgres://localhost/db
destination: out.sql
tables: []
default:
  locale: FR
`)
	if _, err := Load(doc, ""); err == nil {
		t.Fatal("expected an error for an unknown locale")
	}
}

func TestLoadOverridesDatabaseURL(t *testing.T) {
	doc := []byte(`
source:
  database_url: postgres://localhost/db
destination: out.sql
tables: []
`)
	s, err := Load(doc, "postgres://override/db")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Source.DatabaseURL != "postgres://override/db" {
		t.Fatalf("got %q, want override applied", s.Source.DatabaseURL)
	}
}

func TestLoadRequiresSourceURL(t *testing.T) {
	doc := []byte(`
destination: out.sql
tables: []
`)
	if _, err := Load(doc, ""); err == nil {
		t.Fatal("expected a validation error for a missing source.database_url")
	}
}

func TestLookupRuleThroughSettings(t *testing.T) {
	s := &Settings{
		Tables: []Table{
			{
				Name: "actor",
				Rules: RawRules{
					{Key: "first_name", Value: map[string]any{"first_name": map[string]any{}}},
				},
			},
		},
	}

	if _, ok := s.LookupRule("actor", "first_name"); !ok {
		t.Fatal("expected a rule for actor.first_name")
	}
	if _, ok := s.LookupRule("actor", "last_name"); ok {
		t.Fatal("expected no rule for actor.last_name")
	}
	if _, ok := s.LookupRule("missing_table", "first_name"); ok {
		t.Fatal("expected no rule for an undeclared table")
	}
}
