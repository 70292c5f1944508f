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

package mssql

import "strings"

const objectHeaderPrefix = "/****** Object:  "

// SplitPrePost finds the byte offset separating a mssql-scripter
// document's pre-data section (table/schema objects) from its
// post-data section (the first non-Table object header that follows
// at least one Table header: indexes, constraints, triggers and
// views, which must be created after data load).
//
// Returns len(doc) if no such boundary exists, meaning the whole
// document is pre-data.
func SplitPrePost(doc string) int {
	sawTable := false
	pos := 0
	for {
		idx := strings.Index(doc[pos:], objectHeaderPrefix)
		if idx < 0 {
			return len(doc)
		}
		lineStart := pos + idx
		rest := doc[lineStart+len(objectHeaderPrefix):]

		kind := rest
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			kind = rest[:nl]
		}

		if strings.HasPrefix(kind, "Table ") {
			sawTable = true
		} else if sawTable {
			return lineStart
		}

		pos = lineStart + len(objectHeaderPrefix)
	}
}
