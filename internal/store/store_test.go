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

package store

import "testing"

func TestReadAndForceWrite(t *testing.T) {
	s := New()

	if _, ok := s.Read("key"); ok {
		t.Fatal("expected no value for unwritten key")
	}

	s.ForceWrite("key", "123")
	v, ok := s.Read("key")
	if !ok || v != "123" {
		t.Fatalf("got %v, %v, want 123, true", v, ok)
	}

	s.ForceWrite("key", "321")
	v, ok = s.Read("key")
	if !ok || v != "321" {
		t.Fatalf("got %v, %v, want 321, true", v, ok)
	}
}

func TestWriteNoOverwrite(t *testing.T) {
	s := New()

	if err := s.Write("some_key", "abc"); err != nil {
		t.Fatalf("first write: %v", err)
	}
	v, ok := s.Read("some_key")
	if !ok || v != "abc" {
		t.Fatalf("got %v, %v, want abc, true", v, ok)
	}

	if err := s.Write("some_key", "abc"); err == nil {
		t.Fatal("expected error on second write to the same key")
	}
}

func TestAddInt(t *testing.T) {
	s := New()

	if err := s.AddInt("some_key", 2); err != nil {
		t.Fatalf("AddInt: %v", err)
	}
	v, _ := s.Read("some_key")
	if v != int64(2) {
		t.Fatalf("got %v, want 2", v)
	}

	if err := s.AddInt("some_key", 3); err != nil {
		t.Fatalf("AddInt: %v", err)
	}
	v, _ = s.Read("some_key")
	if v != int64(5) {
		t.Fatalf("got %v, want 5", v)
	}
}

func TestAddFloat(t *testing.T) {
	s := New()

	if err := s.AddFloat("some_key", 1.0); err != nil {
		t.Fatalf("AddFloat: %v", err)
	}
	v, _ := s.Read("some_key")
	if v != 1.0 {
		t.Fatalf("got %v, want 1.0", v)
	}

	if err := s.AddFloat("some_key", 2.0); err != nil {
		t.Fatalf("AddFloat: %v", err)
	}
	v, _ = s.Read("some_key")
	if v != 3.0 {
		t.Fatalf("got %v, want 3.0", v)
	}
}

func TestAddIntTypeMismatch(t *testing.T) {
	s := New()
	s.ForceWrite("some_key", "not an int")

	if err := s.AddInt("some_key", 1); err == nil {
		t.Fatal("expected error adding int to a non-int value")
	}
}
