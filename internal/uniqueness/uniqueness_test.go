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

package uniqueness

import "testing"

func constGenerator() func() string {
	return func() string { return "abc" }
}

func TestRetryNotRequired(t *testing.T) {
	c := NewCollector()
	cfg := Config{Required: false}
	gen := constGenerator()

	for i := 0; i < 2; i++ {
		v, err := Retry(c, cfg, "field", gen)
		if err != nil || v != "abc" {
			t.Fatalf("got %q, %v, want abc, nil", v, err)
		}
	}
}

func TestRetryNoRetriesLeft(t *testing.T) {
	c := NewCollector()
	one := int64(1)
	cfg := Config{Required: true, TryCount: &one}
	gen := constGenerator()

	v, err := Retry(c, cfg, "field", gen)
	if err != nil || v != "abc" {
		t.Fatalf("first call: got %q, %v", v, err)
	}

	_, err = Retry(c, cfg, "field", gen)
	if err == nil {
		t.Fatal("expected retry limit error on second call")
	}
	want := LimitMessage("field", 1)
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestRetryDifferentFieldsDoNotCollide(t *testing.T) {
	c := NewCollector()
	one := int64(1)
	cfg := Config{Required: true, TryCount: &one}
	gen := constGenerator()

	if _, err := Retry(c, cfg, "field1", gen); err != nil {
		t.Fatalf("field1: %v", err)
	}
	if _, err := Retry(c, cfg, "field2", gen); err != nil {
		t.Fatalf("field2: %v", err)
	}
}

func TestRetryZeroLimit(t *testing.T) {
	c := NewCollector()
	zero := int64(0)
	cfg := Config{Required: true, TryCount: &zero}

	_, err := Retry(c, cfg, "field", constGenerator())
	if err == nil {
		t.Fatal("expected immediate failure with a zero retry limit")
	}
}

func TestConfigLimitDefault(t *testing.T) {
	cfg := Config{Required: true}
	if got := cfg.Limit(); got != defaultTryCount {
		t.Fatalf("got %d, want %d", got, defaultTryCount)
	}
}

func TestRetrySucceedsWithinBudget(t *testing.T) {
	c := NewCollector()
	seq := []string{"a", "a", "b"}
	i := 0
	gen := func() string {
		v := seq[i]
		i++
		return v
	}
	three := int64(3)
	cfg := Config{Required: true, TryCount: &three}

	v, err := Retry(c, cfg, "field", gen)
	if err != nil || v != "a" {
		t.Fatalf("got %q, %v, want a, nil", v, err)
	}
	v, err = Retry(c, cfg, "field", gen)
	if err != nil || v != "b" {
		t.Fatalf("got %q, %v, want b, nil", v, err)
	}
}
