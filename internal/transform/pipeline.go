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

import "fmt"

// PipelineTransformer runs a fixed list of child transformers in
// order, feeding each child's output into the next as its field
// value. It composes the individual rule_order propagation a table
// applies across columns, but scoped within a single column.
type PipelineTransformer struct {
	Pipeline []Transformer
}

func (p PipelineTransformer) Transform(fieldName, fieldValue string, ctx *TransformContext) (string, error) {
	value := fieldValue
	for i, child := range p.Pipeline {
		out, err := child.Transform(fieldName, value, ctx)
		if err != nil {
			return "", fmt.Errorf("pipeline: step %d: %w", i, err)
		}
		value = out
	}
	return value, nil
}

func init() {
	Register("pipeline", func(node any, init InitContext) (Transformer, error) {
		var raw struct {
			Pipeline []map[string]any `yaml:"pipeline"`
		}
		if err := decodeNode(node, &raw); err != nil {
			return nil, err
		}
		children := make([]Transformer, 0, len(raw.Pipeline))
		for _, step := range raw.Pipeline {
			tr, err := DecodeRule(step, init)
			if err != nil {
				return nil, err
			}
			children = append(children, tr)
		}
		return PipelineTransformer{Pipeline: children}, nil
	})
}
