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
	"strings"
	"testing"
)

func tableBlock(name string) string {
	return "\n--\n-- Table structure for table `" + name + "`\n" +
		"DROP TABLE IF EXISTS `" + name + "`;\n" +
		"CREATE TABLE `" + name + "` (`id` int);\n" +
		"/*!40101 SET character_set_client = @saved_cs_client */;\n"
}

func TestSplitSchemaSingleTable(t *testing.T) {
	doc := "-- mysqldump header\n" + tableBlock("users")
	bounds, err := SplitSchema([]byte(doc))
	if err != nil {
		t.Fatalf("SplitSchema: %v", err)
	}
	b, ok := bounds["users"]
	if !ok {
		t.Fatal("expected a users entry")
	}
	if b.EndOfBlock != len(doc) {
		t.Fatalf("got EndOfBlock %d, want %d (EOF)", b.EndOfBlock, len(doc))
	}
	if !strings.HasSuffix(doc[b.Start:b.EndOfSchema], "@saved_cs_client */;\n") {
		t.Fatalf("schema slice does not end at the expected marker: %q", doc[b.Start:b.EndOfSchema])
	}
}

func TestSplitSchemaTwoTablesDataSeam(t *testing.T) {
	doc := "-- header\n" + tableBlock("customers") + tableBlock("orders")
	bounds, err := SplitSchema([]byte(doc))
	if err != nil {
		t.Fatalf("SplitSchema: %v", err)
	}
	customers := bounds["customers"]
	orders := bounds["orders"]

	if customers.EndOfBlock != orders.Start {
		t.Fatalf("customers.EndOfBlock (%d) should equal orders.Start (%d)", customers.EndOfBlock, orders.Start)
	}
	if orders.EndOfBlock != len(doc) {
		t.Fatalf("got orders.EndOfBlock %d, want %d", orders.EndOfBlock, len(doc))
	}
	// in a schema-only dump, nothing sits between one table's schema end
	// and the next table's header; that gap is exactly where data
	// INSERTs get spliced in when producing the anonymized dump.
	if seam := doc[customers.EndOfSchema:customers.EndOfBlock]; seam != "" {
		t.Fatalf("expected an empty customers->orders seam in a schema-only dump, got %q", seam)
	}
}

func TestSplitSchemaMissingEndMarkerErrors(t *testing.T) {
	doc := "-- header\n\n--\n-- Table structure for table `broken`\nCREATE TABLE broken (id int);\n"
	if _, err := SplitSchema([]byte(doc)); err == nil {
		t.Fatal("expected an error for a table block missing its end-of-schema marker")
	}
}
