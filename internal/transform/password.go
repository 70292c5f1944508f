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

	"github.com/brianvoe/gofakeit/v7"
)

const (
	defaultPasswordMin = 8
	defaultPasswordMax = 20
)

// PasswordTransformer produces a random password of a length chosen
// uniformly between Min and Max, inclusive.
type PasswordTransformer struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

func (t PasswordTransformer) Transform(_, _ string, _ *TransformContext) (string, error) {
	length := t.Min
	if t.Max > t.Min {
		length = gofakeit.IntRange(t.Min, t.Max)
	}
	return gofakeit.Password(true, true, true, true, false, length), nil
}

func init() {
	Register("password", func(node any, _ InitContext) (Transformer, error) {
		t := PasswordTransformer{Min: defaultPasswordMin, Max: defaultPasswordMax}
		if node != nil {
			if err := decodeNode(node, &t); err != nil {
				return nil, err
			}
		}
		if t.Max < t.Min {
			return nil, fmt.Errorf("password: max %d is less than min %d", t.Max, t.Min)
		}
		return t, nil
	})
}
