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

// Package transform implements the rule-based transformation engine:
// the tagged-union transformer registry, the per-row TransformContext,
// and the leaf and composite transformer families that produce
// anonymized column values.
package transform

// Cell is one column of an in-progress output row. Owned marks a
// column that has already run through a transformer this row; Value
// holds either the transformed value (Owned) or the original,
// untouched database value (not Owned). This mirrors the original
// engine's Cow<str>: a column is only copied once it's actually
// rewritten.
type Cell struct {
	Owned bool
	Value string
}

// Borrowed wraps an original, untransformed column value.
func Borrowed(value string) Cell {
	return Cell{Owned: false, Value: value}
}

// OwnedCell wraps a freshly transformed column value.
func OwnedCell(value string) Cell {
	return Cell{Owned: true, Value: value}
}
