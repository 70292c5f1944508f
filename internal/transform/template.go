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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/flosch/pongo2/v6"
	"golang.org/x/crypto/bcrypt"

	"github.com/anonydump/anonydump/internal/uniqueness"
)

// untransformedSentinel stands in for a `final.<column>` reference to
// a column this row hasn't transformed yet. pongo2's map attribute
// lookup silently renders a missing key as empty rather than failing
// the template, so the render is instead always given every column
// (never omitting untransformed ones) and the rendered output is
// scanned for this marker afterward; its presence becomes the
// render-time error that a reference to an untransformed column
// requires. The marker can never appear in real column data: it is
// not valid UTF-8 text a SQL client could have written.
const untransformedSentinel = "\xff\xfeanonydump:untransformed\xff\xfe"

// TemplateTransformer renders a pongo2 template whose model is the
// original value (`_0`), the ordered outputs of Rules (`_1`.._k`),
// named Variables, the engine's global variables, and the current
// row's prev/final views. Its format string is compiled once at
// decode time against the shared TemplateStore so
// `{% import %}`/`{% include %}` resolve against the shared template
// library.
type TemplateTransformer struct {
	Format    string
	Rules     []Transformer
	Variables map[string]any
	Unique    uniqueness.Config

	compiled *pongo2.Template
}

func (t TemplateTransformer) render(fieldName, fieldValue string, ctx *TransformContext) (string, error) {
	pctx := pongo2.Context{}

	for k, v := range t.Variables {
		pctx[k] = v
	}
	if ctx != nil {
		for k, v := range ctx.Globals {
			pctx[k] = v
		}
	}

	for i, rule := range t.Rules {
		out, err := rule.Transform(fieldName, fieldValue, ctx)
		if err != nil {
			return "", fmt.Errorf("template: rule _%d: %w", i+1, err)
		}
		pctx[fmt.Sprintf("_%d", i+1)] = out
	}
	pctx["_0"] = fieldValue

	if ctx != nil {
		pctx["prev"] = ctx.PrevRowMap()
		pctx["final"] = finalRowMapWithSentinel(ctx)
		for k, v := range templateHelpers(ctx) {
			pctx[k] = v
		}
	}

	out, err := t.compiled.Execute(pctx)
	if err != nil {
		return "", fmt.Errorf("template: %w", err)
	}
	if strings.Contains(out, untransformedSentinel) {
		return "", fmt.Errorf("template: references a column not yet transformed this row")
	}
	return out, nil
}

// finalRowMapWithSentinel is like TransformContext.FinalRowMap but
// includes every column, with not-yet-transformed ones mapped to
// untransformedSentinel instead of omitted, so a template referencing
// one renders the sentinel instead of silently rendering empty.
func finalRowMapWithSentinel(ctx *TransformContext) map[string]string {
	if ctx == nil || ctx.FinalRow == nil || ctx.ColumnIndexes == nil {
		return nil
	}
	row := make(map[string]string, len(ctx.ColumnIndexes))
	for name, i := range ctx.ColumnIndexes {
		cell := ctx.FinalRow[i]
		if cell.Owned {
			row[name] = cell.Value
		} else {
			row[name] = untransformedSentinel
		}
	}
	return row
}

func (t TemplateTransformer) Transform(fieldName, fieldValue string, ctx *TransformContext) (string, error) {
	gen := func() string {
		out, err := t.render(fieldName, fieldValue, ctx)
		if err != nil {
			return ""
		}
		return out
	}
	if !t.Unique.Required {
		return t.render(fieldName, fieldValue, ctx)
	}
	return uniqueness.Retry(ctx.Uniq, t.Unique, fieldName, gen)
}

func init() {
	Register("template", func(node any, init InitContext) (Transformer, error) {
		var raw struct {
			Format    string           `yaml:"format"`
			Rules     []map[string]any `yaml:"rules"`
			Variables map[string]any   `yaml:"variables"`
			Unique    uniqueness.Config `yaml:"uniq"`
		}
		if err := decodeNode(node, &raw); err != nil {
			return nil, err
		}

		rules := make([]Transformer, 0, len(raw.Rules))
		for i, ruleNode := range raw.Rules {
			tr, err := DecodeRule(ruleNode, init)
			if err != nil {
				return nil, fmt.Errorf("template: rule %d: %w", i, err)
			}
			rules = append(rules, tr)
		}

		compiled, err := init.Templates.Compile(raw.Format)
		if err != nil {
			return nil, fmt.Errorf("template: compiling %q: %w", raw.Format, err)
		}

		return TemplateTransformer{
			Format:    raw.Format,
			Rules:     rules,
			Variables: raw.Variables,
			Unique:    raw.Unique,
			compiled:  compiled,
		}, nil
	})

	pongo2.RegisterFilter("sha256_hash", sha256HashFilter)
	pongo2.RegisterFilter("bcrypt_hash", bcryptHashFilter)
}

// sha256HashFilter implements the `sha256_hash(rounds)` filter: round
// 1 hashes the input, every further round hashes the previous round's
// hex digest. pongo2 filters take a single positional argument, so
// a salt argument has no home here; see DESIGN.md for the tradeoff.
func sha256HashFilter(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	rounds := 1
	if param != nil && !param.IsNil() {
		if r := param.Integer(); r > 0 {
			rounds = r
		}
	}

	current := in.String()
	for i := 0; i < rounds; i++ {
		sum := sha256.Sum256([]byte(current))
		current = hex.EncodeToString(sum[:])
	}
	return pongo2.AsValue(current), nil
}

// bcryptHashFilter implements the `bcrypt_hash(cost=)` filter;
// default cost is 12, above golang.org/x/crypto/bcrypt.DefaultCost (10).
func bcryptHashFilter(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	cost := 12
	if param != nil && !param.IsNil() {
		if c := param.Integer(); c > 0 {
			cost = c
		}
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.String()), cost)
	if err != nil {
		return nil, &pongo2.Error{Sender: "bcrypt_hash", OrigError: err}
	}
	return pongo2.AsValue(string(hashed)), nil
}

// templateHelpers returns the context function values registered
// alongside every rendered template: store_read/write/force_write/inc
// against the shared Value Store, get_random for ad hoc integers, and
// now for the current time.
func templateHelpers(ctx *TransformContext) pongo2.Context {
	return pongo2.Context{
		"store_read": func(key string, def ...string) string {
			v, ok := ctx.Store.Read(key)
			if !ok {
				if len(def) > 0 {
					return def[0]
				}
				return ""
			}
			return fmt.Sprint(v)
		},
		"store_write": func(key, value string) (string, error) {
			if err := ctx.Store.Write(key, value); err != nil {
				return "", err
			}
			return "", nil
		},
		"store_force_write": func(key, value string) string {
			ctx.Store.ForceWrite(key, value)
			return ""
		},
		"store_inc": func(key string, delta string) (string, error) {
			if n, err := strconv.ParseInt(delta, 10, 64); err == nil {
				return "", ctx.Store.AddInt(key, n)
			}
			if f, err := strconv.ParseFloat(delta, 64); err == nil {
				return "", ctx.Store.AddFloat(key, f)
			}
			return "", fmt.Errorf("store_inc: %q is not a number", delta)
		},
		"get_random": func(args ...int) int {
			start, end := 0, 0
			switch len(args) {
			case 1:
				start, end = 0, args[0]
			case 2:
				start, end = args[0], args[1]
			default:
				return 0
			}
			if end-1 < start {
				return start
			}
			return gofakeit.IntRange(start, end-1)
		},
		"now": func(args ...bool) string {
			utc := len(args) > 0 && args[0]
			timestamp := len(args) > 1 && args[1]
			now := time.Now()
			if utc {
				now = now.UTC()
			}
			if timestamp {
				return strconv.FormatInt(now.Unix(), 10)
			}
			return now.Format(time.RFC3339)
		},
	}
}
