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

package dump

import (
	"testing"

	"github.com/anonydump/anonydump/internal/settings"
)

func TestPlanQueriesNoQuery(t *testing.T) {
	plan := PlanQueries(nil)
	if len(plan) != 1 || !plan[0].Transform {
		t.Fatalf("got %+v, want a single transforming sub-query", plan)
	}
}

func TestPlanQueriesLimitOnly(t *testing.T) {
	limit := int64(10)
	plan := PlanQueries(&settings.Query{Limit: &limit})
	if len(plan) != 1 || plan[0].Limit != 10 || !plan[0].Transform {
		t.Fatalf("got %+v", plan)
	}
}

func TestPlanQueriesTransformConditionSplitsIntoTwo(t *testing.T) {
	plan := PlanQueries(&settings.Query{TransformCondition: "age > 18"})
	if len(plan) != 2 {
		t.Fatalf("got %d sub-queries, want 2", len(plan))
	}
	if !plan[0].Transform || plan[0].Where != "age > 18" {
		t.Fatalf("first sub-query should transform matching rows: %+v", plan[0])
	}
	if plan[1].Transform || plan[1].Where != "NOT (age > 18)" {
		t.Fatalf("second sub-query should pass non-matching rows through unchanged: %+v", plan[1])
	}
}

func TestPlanQueriesDumpConditionAppliesToBothHalves(t *testing.T) {
	plan := PlanQueries(&settings.Query{DumpCondition: "active = true", TransformCondition: "age > 18"})
	if plan[0].Where != "(active = true) AND (age > 18)" {
		t.Fatalf("got %q", plan[0].Where)
	}
	if plan[1].Where != "(active = true) AND (NOT (age > 18))" {
		t.Fatalf("got %q", plan[1].Where)
	}
}
