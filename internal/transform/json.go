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

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// jsonField is one configured rewrite inside a JSON-typed column:
// every value gjson finds at Selector is replaced by Rule's output,
// quoted as a JSON string literal if Quote, otherwise parsed back as
// JSON (so a rule producing e.g. `42` or `{"a":1}` splices structured
// data rather than a quoted string).
type jsonField struct {
	Selector string
	Rule     Transformer
	Quote    bool
}

// invalidJSONPolicy names what JSONTransformer does when the input
// column value isn't valid JSON at all.
type invalidJSONPolicy int

const (
	// invalidReplaceWith substitutes a fixed fallback (invalidReplacement
	// or invalidReplacementRule's output), the default policy.
	invalidReplaceWith invalidJSONPolicy = iota
	invalidAsIs
	invalidError
)

// JSONTransformer rewrites individual paths inside a JSON-typed
// column, leaving the rest of the document untouched.
type JSONTransformer struct {
	Fields []jsonField

	OnInvalid              invalidJSONPolicy
	InvalidReplacement     string
	InvalidReplacementRule Transformer // set instead of InvalidReplacement when on_invalid is a nested rule
}

func (t JSONTransformer) Transform(fieldName, fieldValue string, ctx *TransformContext) (string, error) {
	if !gjson.Valid(fieldValue) {
		switch t.OnInvalid {
		case invalidAsIs:
			return fieldValue, nil
		case invalidError:
			return "", fmt.Errorf("json: field %q: invalid JSON: %q", fieldName, fieldValue)
		default:
			if t.InvalidReplacementRule != nil {
				return t.InvalidReplacementRule.Transform(fieldName, fieldValue, ctx)
			}
			return t.InvalidReplacement, nil
		}
	}

	doc := fieldValue
	for _, field := range t.Fields {
		res := gjson.Get(doc, field.Selector)
		if !res.Exists() {
			continue
		}
		out, err := field.Rule.Transform(fmt.Sprintf("%s.%s", fieldName, field.Selector), res.Raw, ctx)
		if err != nil {
			return "", fmt.Errorf("json: path %q: %w", field.Selector, err)
		}

		var updated string
		if field.Quote {
			updated, err = sjson.Set(doc, field.Selector, out)
		} else {
			updated, err = sjson.SetRaw(doc, field.Selector, out)
		}
		if err != nil {
			return "", fmt.Errorf("json: setting path %q: %w", field.Selector, err)
		}
		doc = updated
	}
	return doc, nil
}

func init() {
	Register("json", func(node any, init InitContext) (Transformer, error) {
		var raw struct {
			Fields []struct {
				Selector string         `yaml:"selector"`
				Rule     map[string]any `yaml:"rule"`
				Quote    bool           `yaml:"quote"`
			} `yaml:"fields"`
			OnInvalid any `yaml:"on_invalid"`
		}
		if err := decodeNode(node, &raw); err != nil {
			return nil, err
		}

		t := JSONTransformer{
			OnInvalid:          invalidReplaceWith,
			InvalidReplacement: "{}",
		}

		for _, f := range raw.Fields {
			tr, err := DecodeRule(f.Rule, init)
			if err != nil {
				return nil, fmt.Errorf("json: field %q: %w", f.Selector, err)
			}
			t.Fields = append(t.Fields, jsonField{Selector: f.Selector, Rule: tr, Quote: f.Quote})
		}

		switch policy := raw.OnInvalid.(type) {
		case nil:
			// default: ReplaceWith("{}")
		case string:
			switch policy {
			case "AsIs":
				t.OnInvalid = invalidAsIs
			case "Error":
				t.OnInvalid = invalidError
			default:
				t.OnInvalid = invalidReplaceWith
				t.InvalidReplacement = policy
			}
		case map[string]any:
			if hasKey(policy, "AsIs") {
				t.OnInvalid = invalidAsIs
			} else if hasKey(policy, "Error") {
				t.OnInvalid = invalidError
			} else if replaceNode, ok := policy["ReplaceWith"]; ok {
				t.OnInvalid = invalidReplaceWith
				switch r := replaceNode.(type) {
				case string:
					t.InvalidReplacement = r
				case map[string]any:
					tr, err := DecodeRule(r, init)
					if err != nil {
						return nil, fmt.Errorf("json: on_invalid.ReplaceWith: %w", err)
					}
					t.InvalidReplacementRule = tr
				default:
					return nil, fmt.Errorf("json: on_invalid.ReplaceWith: unsupported shape %T", replaceNode)
				}
			} else {
				return nil, fmt.Errorf("json: unrecognized on_invalid policy %v", policy)
			}
		default:
			return nil, fmt.Errorf("json: unsupported on_invalid shape %T", raw.OnInvalid)
		}

		return t, nil
	})
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}
