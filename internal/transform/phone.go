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
	"math"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/anonydump/anonydump/internal/settings"
	"github.com/anonydump/anonydump/internal/uniqueness"
)

const defaultPhoneFormat = "+#-###-###-####"

// PhoneTransformer renders a format string where '#' becomes a digit
// 0-9, '^' becomes a digit 1-9, and every other rune is copied
// verbatim. Its retry budget, when uniqueness is required, is 10
// raised to min(format-digit-count, 10) rather than the usual default
// of 3 — a format with few digit slots has few possible values, so a
// small fixed retry budget would fail unreasonably often.
type PhoneTransformer struct {
	Format string            `yaml:"format"`
	Unique uniqueness.Config `yaml:"uniq"`
}

func (t PhoneTransformer) render() string {
	var out strings.Builder
	format := t.Format
	if format == "" {
		format = defaultPhoneFormat
	}
	for _, r := range format {
		switch r {
		case '#':
			out.WriteString(gofakeit.Digit())
		case '^':
			out.WriteByte(byte('1' + gofakeit.IntRange(0, 8)))
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

func (t PhoneTransformer) digitCount() int {
	format := t.Format
	if format == "" {
		format = defaultPhoneFormat
	}
	n := 0
	for _, r := range format {
		if r == '#' || r == '^' {
			n++
		}
	}
	return n
}

func (t PhoneTransformer) retryLimit() int64 {
	exp := t.digitCount()
	if exp > 10 {
		exp = 10
	}
	return int64(math.Pow10(exp))
}

func (t PhoneTransformer) Transform(fieldName, _ string, ctx *TransformContext) (string, error) {
	if !t.Unique.Required {
		return t.render(), nil
	}
	limit := t.retryLimit()
	cfg := uniqueness.Config{Required: true, TryCount: &limit}
	return uniqueness.Retry(ctx.Uniq, cfg, fieldName, t.render)
}

func init() {
	Register("phone", func(node any, _ InitContext) (Transformer, error) {
		var t PhoneTransformer
		if node != nil {
			if err := decodeNode(node, &t); err != nil {
				return nil, err
			}
		}
		return t, nil
	})

	registerFaker("local_phone", func(settings.Locale) string { return (PhoneTransformer{}).render() })
	registerFaker("local_cell_phone", func(settings.Locale) string { return (PhoneTransformer{}).render() })
}
