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

// NoneTransformer passes the field value through unchanged. Useful to
// make a column's presence in `rules` explicit (e.g. to anchor a
// `rule_order` entry) without actually anonymizing it.
type NoneTransformer struct{}

func (NoneTransformer) Transform(_, fieldValue string, _ *TransformContext) (string, error) {
	return fieldValue, nil
}

func init() {
	Register("none", func(_ any, _ InitContext) (Transformer, error) {
		return NoneTransformer{}, nil
	})
}
