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
	"math"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/anonydump/anonydump/internal/uniqueness"
)

// RandomNumberTransformer produces an integer in [Min, Max], rendered
// in its natural decimal form.
type RandomNumberTransformer struct {
	Min    int64             `yaml:"min"`
	Max    int64             `yaml:"max"`
	Unique uniqueness.Config `yaml:"uniq"`
}

func (t RandomNumberTransformer) Transform(fieldName, _ string, ctx *TransformContext) (string, error) {
	max := t.Max
	if max == 0 {
		max = math.MaxInt64
	}
	gen := func() string {
		return fmt.Sprintf("%d", gofakeit.IntRange(int(t.Min), int(max)))
	}
	if !t.Unique.Required {
		return gen(), nil
	}
	return uniqueness.Retry(ctx.Uniq, t.Unique, fieldName, gen)
}

func init() {
	Register("random_num", func(node any, _ InitContext) (Transformer, error) {
		var t RandomNumberTransformer
		if node != nil {
			if err := decodeNode(node, &t); err != nil {
				return nil, err
			}
		}
		return t, nil
	})
}
