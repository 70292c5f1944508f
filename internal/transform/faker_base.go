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
	"github.com/anonydump/anonydump/internal/settings"
	"github.com/anonydump/anonydump/internal/uniqueness"
)

// fakerConfig is the YAML shape every faker-backed leaf transformer
// shares: an optional locale override and an optional uniqueness
// requirement.
type fakerConfig struct {
	Locale *settings.Locale  `yaml:"locale"`
	Unique uniqueness.Config `yaml:"uniq"`
}

// fakerTransformer wraps a zero-argument generator function with the
// shared locale-default and uniqueness-retry behavior every
// faker-backed leaf transformer needs. Every registered generate
// function ignores its locale argument: output is gofakeit's English
// data whatever the resolved locale.
type fakerTransformer struct {
	locale   settings.Locale
	unique   uniqueness.Config
	generate func(locale settings.Locale) string
}

func (t fakerTransformer) Transform(fieldName, _ string, ctx *TransformContext) (string, error) {
	gen := func() string { return t.generate(t.locale) }
	if !t.unique.Required {
		return gen(), nil
	}
	return uniqueness.Retry(ctx.Uniq, t.unique, fieldName, gen)
}

// registerFaker registers kind with a factory that decodes the shared
// fakerConfig shape and wraps generate into a fakerTransformer. locale
// resolution follows init-time defaulting: a rule's own `locale`
// option wins, otherwise the engine's `default.locale` setting is
// used.
func registerFaker(kind string, generate func(locale settings.Locale) string) {
	Register(kind, func(node any, init InitContext) (Transformer, error) {
		var cfg fakerConfig
		if node != nil {
			if err := decodeNode(node, &cfg); err != nil {
				return nil, err
			}
		}
		locale := init.DefaultLocale
		if cfg.Locale != nil {
			locale = *cfg.Locale
		}
		return fakerTransformer{locale: locale, unique: cfg.Unique, generate: generate}, nil
	})
}

// gofakeitLocale maps the engine's three-locale set to a language
// code, with ZH_TW mapped to "ja". No generator calls it; every
// generator draws gofakeit's English data.
func gofakeitLocale(locale settings.Locale) string {
	switch locale {
	case settings.LocaleRU:
		return "ru"
	case settings.LocaleZHTW:
		return "ja"
	default:
		return "en"
	}
}
