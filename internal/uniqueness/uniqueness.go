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

// Package uniqueness tracks which (field, value) pairs a dump run has
// already produced, and configures how hard a transformer should
// retry before giving up on a fresh value.
package uniqueness

import (
	"fmt"
	"sync"
)

// Collector records (field, value) pairs seen so far in the run and
// reports whether a candidate value is new.
type Collector struct {
	mu   sync.Mutex
	seen map[string]map[string]struct{}
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[string]map[string]struct{})}
}

// Add records value under field and reports true if it had not been
// seen for that field before.
func (c *Collector) Add(field, value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	values, ok := c.seen[field]
	if !ok {
		values = make(map[string]struct{})
		c.seen[field] = values
	}
	if _, exists := values[value]; exists {
		return false
	}
	values[value] = struct{}{}
	return true
}

// Config is the uniqueness setting attached to a transformer rule. It
// deserializes from either a bare bool (`uniq: true`) or a mapping
// with an optional try_count (`uniq: {required: true, try_count: 5}`).
type Config struct {
	Required bool
	TryCount *int64
}

// UnmarshalYAML accepts either a bool or a mapping, a short form and
// a full form for the same setting.
func (c *Config) UnmarshalYAML(unmarshal func(any) error) error {
	var short bool
	if err := unmarshal(&short); err == nil {
		c.Required = short
		c.TryCount = nil
		return nil
	}

	var full struct {
		Required bool   `yaml:"required"`
		TryCount *int64 `yaml:"try_count"`
	}
	if err := unmarshal(&full); err != nil {
		return fmt.Errorf("uniqueness: invalid config: %w", err)
	}
	c.Required = full.Required
	c.TryCount = full.TryCount
	return nil
}

const defaultTryCount = 3

// Limit returns the configured retry budget, falling back to
// defaultTryCount when try_count is absent.
func (c Config) Limit() int64 {
	if c.TryCount != nil {
		return *c.TryCount
	}
	return defaultTryCount
}

// LimitMessage formats the error raised when a field exhausts its
// retry budget without producing a fresh value.
func LimitMessage(field string, limit int64) string {
	return fmt.Sprintf("field: `%s` with retry limit: `%d` exceeded", field, limit)
}

// Retry calls generate repeatedly, feeding each candidate to the
// collector under field, until a fresh value is produced or the
// configured retry budget is exhausted. If cfg.Required is false, the
// first candidate is returned unconditionally without touching the
// collector.
func Retry(collector *Collector, cfg Config, field string, generate func() string) (string, error) {
	if !cfg.Required {
		return generate(), nil
	}

	limit := cfg.Limit()
	for count := limit; count > 0; count-- {
		candidate := generate()
		if collector.Add(field, candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s", LimitMessage(field, limit))
}
