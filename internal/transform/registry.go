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

	"github.com/goccy/go-yaml"

	"github.com/anonydump/anonydump/internal/settings"
)

// Transformer is the interface every transformer kind implements,
// leaf or composite.
type Transformer interface {
	Transform(fieldName, fieldValue string, ctx *TransformContext) (string, error)
}

// InitContext is handed to every transformer factory once, at decode
// time: the process-wide locale default and the shared template
// library a `template` transformer compiles against.
type InitContext struct {
	DefaultLocale settings.Locale
	Templates     *TemplateStore
}

// Factory decodes one transformer kind's configuration node into a
// Transformer. node is the raw, still-undecoded YAML value taken from
// a table's rule set (settings.RawRules).
type Factory func(node any, init InitContext) (Transformer, error)

var registry = make(map[string]Factory)

// Register associates kind with factory. Called from each
// transformer family's init(). Returns false if kind is already
// registered.
func Register(kind string, factory Factory) bool {
	if _, exists := registry[kind]; exists {
		return false
	}
	registry[kind] = factory
	return true
}

// Decode looks up kind's factory and uses it to build a Transformer
// from node.
func Decode(kind string, node any, init InitContext) (Transformer, error) {
	factory, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("transform: unknown transformer kind %q", kind)
	}
	t, err := factory(node, init)
	if err != nil {
		return nil, fmt.Errorf("transform: decoding %q: %w", kind, err)
	}
	return t, nil
}

// DecodeRule decodes a column's rule configuration, a one-entry
// mapping from transformer kind to its config node (e.g. `{email:
// {}}` or `{template: {format: "..."}}`), into a Transformer.
func DecodeRule(rule any, init InitContext) (Transformer, error) {
	m, ok := rule.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("transform: rule must be a mapping, got %T", rule)
	}
	if len(m) != 1 {
		return nil, fmt.Errorf("transform: rule must declare exactly one transformer kind, got %d", len(m))
	}
	for kind, node := range m {
		return Decode(kind, node, init)
	}
	panic("unreachable")
}

// decodeNode re-marshals a raw YAML-decoded node (typically a
// map[string]any) into out, reusing goccy/go-yaml the way the rest of
// the decode pipeline does rather than hand-rolling a second
// reflection-based decoder.
func decodeNode(node any, out any) error {
	b, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}
