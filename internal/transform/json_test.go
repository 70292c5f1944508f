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
)

func TestJSONTransformerReplacesSelectedPathQuoted(t *testing.T) {
	tr := JSONTransformer{
		Fields: []jsonField{
			{Selector: "user.name", Rule: PlainTransformer{Value: "Redacted"}, Quote: true},
		},
	}

	got, err := tr.Transform("field", `{"user":{"name":"Andrew","age":20}}`, nil)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !strings.Contains(got, `"name":"Redacted"`) {
		t.Fatalf("got %q, want name replaced with quoted Redacted", got)
	}
	if !strings.Contains(got, `"age":20`) {
		t.Fatalf("got %q, want age untouched", got)
	}
}

func TestJSONTransformerReplacesSelectedPathRaw(t *testing.T) {
	tr := JSONTransformer{
		Fields: []jsonField{
			{Selector: "user.age", Rule: PlainTransformer{Value: "42"}, Quote: false},
		},
	}

	got, err := tr.Transform("field", `{"user":{"age":20}}`, nil)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !strings.Contains(got, `"age":42`) {
		t.Fatalf("got %q, want age spliced as raw JSON number, not a quoted string", got)
	}
}

func TestJSONTransformerMissingPathIsSkipped(t *testing.T) {
	tr := JSONTransformer{
		Fields: []jsonField{
			{Selector: "missing.path", Rule: PlainTransformer{Value: "x"}, Quote: true},
		},
	}

	got, err := tr.Transform("field", `{"a":1}`, nil)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got != `{"a":1}` {
		t.Fatalf("got %q, want input unchanged", got)
	}
}

func TestJSONTransformerOnInvalidDefaultsToReplaceWithEmptyObject(t *testing.T) {
	tr := JSONTransformer{OnInvalid: invalidReplaceWith, InvalidReplacement: "{}"}

	got, err := tr.Transform("field", "not json", nil)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got != "{}" {
		t.Fatalf("got %q, want {}", got)
	}
}

func TestJSONTransformerOnInvalidAsIs(t *testing.T) {
	tr := JSONTransformer{OnInvalid: invalidAsIs}

	got, err := tr.Transform("field", "not json", nil)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got != "not json" {
		t.Fatalf("got %q, want input preserved verbatim", got)
	}
}

func TestJSONTransformerOnInvalidError(t *testing.T) {
	tr := JSONTransformer{OnInvalid: invalidError}

	if _, err := tr.Transform("field", "not json", nil); err == nil {
		t.Fatal("want an error for invalid JSON under the Error policy")
	}
}
