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

// PlainTransformer emits a fixed string, ignoring whatever the column
// held before. Unlike NoneTransformer, which leaves the value alone,
// plain always substitutes Value.
type PlainTransformer struct {
	Value string
}

func (t PlainTransformer) Transform(_, _ string, _ *TransformContext) (string, error) {
	return t.Value, nil
}

// UnmarshalYAML accepts the bare scalar form (`plain: "redacted"`),
// the only shape this transformer's config takes.
func (t *PlainTransformer) UnmarshalYAML(unmarshal func(any) error) error {
	return unmarshal(&t.Value)
}

func init() {
	Register("plain", func(node any, _ InitContext) (Transformer, error) {
		var t PlainTransformer
		if node != nil {
			if err := decodeNode(node, &t); err != nil {
				return nil, err
			}
		}
		return t, nil
	})
}
