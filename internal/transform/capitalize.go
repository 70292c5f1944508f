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

import "strings"

// CapitalizeTransformer upper-cases the first rune of the field value,
// leaving the rest untouched. It does not anonymize on its own; it is
// meant to compose after a faker-backed generator in a pipeline.
type CapitalizeTransformer struct{}

func (CapitalizeTransformer) Transform(_, fieldValue string, _ *TransformContext) (string, error) {
	if fieldValue == "" {
		return fieldValue, nil
	}
	r := []rune(fieldValue)
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r), nil
}

func init() {
	Register("capitalize", func(_ any, _ InitContext) (Transformer, error) {
		return CapitalizeTransformer{}, nil
	})
}
