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
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// RandomDateTimeTransformer produces a timestamp uniformly distributed
// between From and To (both inclusive, second granularity), rendered
// with Format.
type RandomDateTimeTransformer struct {
	From   time.Time
	To     time.Time
	Format string

	goFormat string
}

func (t RandomDateTimeTransformer) Transform(_, _ string, _ *TransformContext) (string, error) {
	v := gofakeit.DateRange(t.From, t.To)
	return v.Format(t.goFormat), nil
}

// strftimeToGo converts the subset of strftime directives the engine
// needs into Go's reference-time layout. Any directive not in this
// table is a config error raised at init time, not silently dropped.
var strftimeToGo = map[byte]string{
	'Y': "2006",
	'm': "01",
	'd': "02",
	'H': "15",
	'M': "04",
	'S': "05",
	'y': "06",
	'B': "January",
	'b': "Jan",
	'Z': "MST",
}

func convertStrftime(format string) (string, error) {
	var out strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			out.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", fmt.Errorf("datetime: dangling %% at end of format")
		}
		directive := format[i]
		layout, ok := strftimeToGo[directive]
		if !ok {
			return "", fmt.Errorf("datetime: unknown format directive %%%c at index %d", directive, i-1)
		}
		out.WriteString(layout)
	}
	return out.String(), nil
}

func init() {
	Register("datetime", func(node any, _ InitContext) (Transformer, error) {
		var raw struct {
			From   string `yaml:"from"`
			To     string `yaml:"to"`
			Format string `yaml:"format"`
		}
		if node != nil {
			if err := decodeNode(node, &raw); err != nil {
				return nil, err
			}
		}

		from := time.Unix(0, 0).UTC()
		if raw.From != "" {
			t, err := time.Parse(time.RFC3339, raw.From)
			if err != nil {
				return nil, fmt.Errorf("datetime: invalid from bound %q: %w", raw.From, err)
			}
			from = t
		}
		to := time.Now().UTC()
		if raw.To != "" {
			t, err := time.Parse(time.RFC3339, raw.To)
			if err != nil {
				return nil, fmt.Errorf("datetime: invalid to bound %q: %w", raw.To, err)
			}
			to = t
		}
		if to.Before(from) {
			return nil, fmt.Errorf("datetime: to bound %s is before from bound %s", raw.To, raw.From)
		}

		goFormat := time.RFC3339
		if raw.Format != "" {
			converted, err := convertStrftime(raw.Format)
			if err != nil {
				return nil, err
			}
			goFormat = converted
		}

		return RandomDateTimeTransformer{From: from, To: to, Format: raw.Format, goFormat: goFormat}, nil
	})

	registerRawDateTransformers()
}
