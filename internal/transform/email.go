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

	"github.com/brianvoe/gofakeit/v7"

	"github.com/anonydump/anonydump/internal/uniqueness"
)

const defaultAffixSeparator = "-"

var affixChars = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

// EmailKind selects the domain an EmailTransformer draws from.
type EmailKind string

const (
	// EmailSafe produces addresses at example.com-style domains that
	// are guaranteed never to be real mailboxes.
	EmailSafe EmailKind = "Safe"
	// EmailFree produces addresses at real free-mail providers
	// (gmail.com, yahoo.com, ...).
	EmailFree EmailKind = "Free"
)

var safeDomains = []string{"example.com", "example.org", "example.net"}

var freeDomains = []string{"gmail.com", "yahoo.com", "hotmail.com", "outlook.com"}

// affix is a prefix or suffix attached to an email's local part: a
// fixed number of random alphanumerics, a literal string, or the
// output of a nested transformer.
type affix struct {
	randomLen int
	fixed     string
	nested    Transformer
	kind      affixKind
}

type affixKind int

const (
	affixNone affixKind = iota
	affixRandom
	affixFixed
	affixNested
)

func (a affix) generate(fieldName, fieldValue string, ctx *TransformContext) (string, error) {
	switch a.kind {
	case affixRandom:
		return rndChars(a.randomLen, affixChars), nil
	case affixFixed:
		return a.fixed, nil
	case affixNested:
		return a.nested.Transform(fieldName, fieldValue, ctx)
	default:
		return "", nil
	}
}

// unmarshalAffix decodes the untagged prefix/suffix shape: a bare
// integer (random length), a bare string (fixed content), or a
// one-key mapping naming a nested transformer.
func unmarshalAffix(node any, init InitContext) (*affix, error) {
	if node == nil {
		return nil, nil
	}
	switch v := node.(type) {
	case int:
		return &affix{kind: affixRandom, randomLen: v}, nil
	case int64:
		return &affix{kind: affixRandom, randomLen: int(v)}, nil
	case uint64:
		return &affix{kind: affixRandom, randomLen: int(v)}, nil
	case string:
		return &affix{kind: affixFixed, fixed: v}, nil
	case map[string]any:
		tr, err := DecodeRule(v, init)
		if err != nil {
			return nil, fmt.Errorf("email: affix: %w", err)
		}
		return &affix{kind: affixNested, nested: tr}, nil
	default:
		return nil, fmt.Errorf("email: affix: unsupported shape %T", node)
	}
}

// EmailTransformer generates a random email address, optionally
// joining a prefix and/or suffix to the local part with
// AffixSeparator, and optionally enforcing per-field uniqueness.
type EmailTransformer struct {
	Kind           EmailKind
	Prefix         *affix
	Suffix         *affix
	AffixSeparator string
	Unique         uniqueness.Config
}

func (t EmailTransformer) generate(fieldName, fieldValue string, ctx *TransformContext) string {
	var domain string
	switch t.Kind {
	case EmailFree:
		domain = freeDomains[gofakeit.IntRange(0, len(freeDomains)-1)]
	default:
		domain = safeDomains[gofakeit.IntRange(0, len(safeDomains)-1)]
	}
	local := gofakeit.Username()
	email := local + "@" + domain

	if t.Suffix != nil {
		parts := strings.SplitN(email, "@", 2)
		suffix, err := t.Suffix.generate(fieldName, fieldValue, ctx)
		if err != nil {
			suffix = ""
		}
		email = parts[0] + t.AffixSeparator + suffix + "@" + parts[1]
	}
	if t.Prefix != nil {
		prefix, err := t.Prefix.generate(fieldName, fieldValue, ctx)
		if err != nil {
			prefix = ""
		}
		email = prefix + t.AffixSeparator + email
	}
	return email
}

func (t EmailTransformer) Transform(fieldName, fieldValue string, ctx *TransformContext) (string, error) {
	gen := func() string { return t.generate(fieldName, fieldValue, ctx) }
	if !t.Unique.Required {
		return gen(), nil
	}
	return uniqueness.Retry(ctx.Uniq, t.Unique, fieldName, gen)
}

func init() {
	Register("email", func(node any, init InitContext) (Transformer, error) {
		var raw struct {
			Kind           string            `yaml:"kind"`
			Prefix         any               `yaml:"prefix"`
			Suffix         any               `yaml:"suffix"`
			AffixSeparator *string           `yaml:"affix_separator"`
			Unique         uniqueness.Config `yaml:"uniq"`
		}
		if node != nil {
			if err := decodeNode(node, &raw); err != nil {
				return nil, err
			}
		}

		kind := EmailSafe
		switch raw.Kind {
		case "", string(EmailSafe):
			kind = EmailSafe
		case string(EmailFree):
			kind = EmailFree
		default:
			return nil, fmt.Errorf("email: unknown kind %q", raw.Kind)
		}

		prefix, err := unmarshalAffix(raw.Prefix, init)
		if err != nil {
			return nil, err
		}
		suffix, err := unmarshalAffix(raw.Suffix, init)
		if err != nil {
			return nil, err
		}

		sep := defaultAffixSeparator
		if raw.AffixSeparator != nil {
			sep = *raw.AffixSeparator
		}

		return EmailTransformer{
			Kind:           kind,
			Prefix:         prefix,
			Suffix:         suffix,
			AffixSeparator: sep,
			Unique:         raw.Unique,
		}, nil
	})
}

