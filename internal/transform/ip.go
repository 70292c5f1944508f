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

// IPTransformer produces a random IPv4 or IPv6 address.
type IPTransformer struct {
	// V6 selects IPv6 generation; IPv4 is the default.
	V6 bool `yaml:"v6"`
}

func (t IPTransformer) Transform(_, _ string, _ *TransformContext) (string, error) {
	if t.V6 {
		return gofakeit.IPv6Address(), nil
	}
	return gofakeit.IPv4Address(), nil
}

func init() {
	Register("ip", func(node any, _ InitContext) (Transformer, error) {
		var raw struct {
			Version string `yaml:"version"`
		}
		if node != nil {
			if err := decodeNode(node, &raw); err != nil {
				return nil, err
			}
		}
		switch raw.Version {
		case "", "v4":
			return IPTransformer{V6: false}, nil
		case "v6":
			return IPTransformer{V6: true}, nil
		default:
			return nil, fmt.Errorf("ip: unknown version %q, want \"v4\" or \"v6\"", raw.Version)
		}
	})
}
