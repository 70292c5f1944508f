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

import "testing"

func TestRowMaps(t *testing.T) {
	columnIndexes := map[string]int{
		"first_name":  0,
		"middle_name": 1,
		"last_name":   2,
		"options":     3,
	}
	prevRow := []string{"First", "Middle", "Last", "{}"}
	finalRow := []Cell{
		OwnedCell("t_First"),
		Borrowed("Middle"),
		OwnedCell("t_Last"),
		Borrowed("{}"),
	}

	ctx := &TransformContext{
		ColumnIndexes: columnIndexes,
		PrevRow:       prevRow,
		FinalRow:      finalRow,
	}

	prev := ctx.PrevRowMap()
	if len(prev) != 4 {
		t.Fatalf("got %d prev entries, want 4", len(prev))
	}
	if prev["first_name"] != "First" || prev["options"] != "{}" {
		t.Fatalf("unexpected prev row map: %+v", prev)
	}

	final := ctx.FinalRowMap()
	if len(final) != 2 {
		t.Fatalf("got %d final entries, want 2 (only transformed columns)", len(final))
	}
	if final["first_name"] != "t_First" || final["last_name"] != "t_Last" {
		t.Fatalf("unexpected final row map: %+v", final)
	}
	if _, ok := final["middle_name"]; ok {
		t.Fatal("middle_name has not been transformed and must not appear in final")
	}
}

func TestFinalValueErrorsOnUntransformedColumn(t *testing.T) {
	ctx := &TransformContext{
		ColumnIndexes: map[string]int{"a": 0, "b": 1},
		FinalRow:      []Cell{OwnedCell("x"), Borrowed("y")},
	}

	if v, err := ctx.FinalValue("a"); err != nil || v != "x" {
		t.Fatalf("got %q, %v, want x, nil", v, err)
	}
	if _, err := ctx.FinalValue("b"); err == nil {
		t.Fatal("expected an error referencing a not-yet-transformed column")
	}
	if _, err := ctx.FinalValue("missing"); err == nil {
		t.Fatal("expected an error for an unknown column")
	}
}
