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

package mysql

import (
	"bytes"
	"fmt"
)

const (
	leftTableNameMarker  = "\n--\n-- Table structure for table `"
	rightTableNameMarker = '\n'
	endOfTableMarker     = "/*!40101 SET character_set_client = @saved_cs_client */;\n"
)

// TableBounds locates one table's schema block within a full
// mysqldump --no-data output: Start is the offset of its leading
// marker, EndOfSchema is just past its closing
// "SET character_set_client" line (where data INSERTs for this table
// are spliced in), and EndOfBlock is the start of the next table's
// block, or the length of the document for the last table.
type TableBounds struct {
	Start       int
	EndOfSchema int
	EndOfBlock  int
}

// SplitSchema scans a mysqldump --no-data document for every table's
// schema block, keyed by table name.
func SplitSchema(schemaData []byte) (map[string]TableBounds, error) {
	bounds := make(map[string]TableBounds)
	var order []string

	marker := []byte(leftTableNameMarker)
	for i := 0; ; {
		idx := bytes.Index(schemaData[i:], marker)
		if idx < 0 {
			break
		}
		start := i + idx
		nameStart := start + len(marker)

		rest := schemaData[nameStart:]
		nlPos := bytes.IndexByte(rest, rightTableNameMarker)
		if nlPos < 1 {
			return nil, fmt.Errorf("mysql: malformed schema dump: unterminated table name at offset %d", nameStart)
		}
		// the byte right before the newline is the closing backtick.
		name := string(rest[:nlPos-1])

		endMarkerPos := bytes.Index(rest, []byte(endOfTableMarker))
		if endMarkerPos < 0 {
			return nil, fmt.Errorf("mysql: malformed schema dump: no end-of-table marker for table %q", name)
		}
		endOfSchema := nameStart + endMarkerPos + len(endOfTableMarker)

		bounds[name] = TableBounds{Start: start, EndOfSchema: endOfSchema}
		order = append(order, name)

		i = nameStart + nlPos
	}

	for idx, name := range order {
		b := bounds[name]
		if idx+1 < len(order) {
			b.EndOfBlock = bounds[order[idx+1]].Start
		} else {
			b.EndOfBlock = len(schemaData)
		}
		bounds[name] = b
	}

	return bounds, nil
}
