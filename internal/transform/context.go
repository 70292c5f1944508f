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
	"fmt"

	"github.com/anonydump/anonydump/internal/store"
	"github.com/anonydump/anonydump/internal/uniqueness"
)

// TransformContext carries everything a transformer needs beyond its
// own field value: the global template variables, the current
// table's column layout, the row before any transformation ran, the
// row as it stands so far this call, and the shared Value Store and
// Uniqueness Collector every rule in the run shares. Rather than a
// process-wide handle held by each transformer, these are threaded
// through the context so a single Engine's runs stay isolated from
// another Engine's in the same process — useful in tests that build
// more than one Engine.
type TransformContext struct {
	Globals       map[string]any
	ColumnIndexes map[string]int
	PrevRow       []string
	FinalRow      []Cell
	Store         *store.Store
	Uniq          *uniqueness.Collector
}

// PrevRowMap exposes every column's pre-transformation value, keyed by
// column name. Used by templates as `prev`.
func (c *TransformContext) PrevRowMap() map[string]string {
	if c == nil || c.PrevRow == nil || c.ColumnIndexes == nil {
		return nil
	}
	row := make(map[string]string, len(c.ColumnIndexes))
	for name, i := range c.ColumnIndexes {
		row[name] = c.PrevRow[i]
	}
	return row
}

// FinalRowMap exposes only the columns that have already been
// transformed this row, keyed by column name. Used by templates as
// `final`; referencing a column absent from this map is the "not yet
// transformed" error case.
func (c *TransformContext) FinalRowMap() map[string]string {
	if c == nil || c.FinalRow == nil || c.ColumnIndexes == nil {
		return nil
	}
	row := make(map[string]string, len(c.ColumnIndexes))
	for name, i := range c.ColumnIndexes {
		cell := c.FinalRow[i]
		if cell.Owned {
			row[name] = cell.Value
		}
	}
	return row
}

// FinalValue returns the already-transformed value of column, or an
// error if it has not been transformed yet in this row.
func (c *TransformContext) FinalValue(column string) (string, error) {
	i, ok := c.ColumnIndexes[column]
	if !ok {
		return "", fmt.Errorf("transform: unknown column %q", column)
	}
	cell := c.FinalRow[i]
	if !cell.Owned {
		return "", fmt.Errorf("transform: column %q has not been transformed yet", column)
	}
	return cell.Value, nil
}
