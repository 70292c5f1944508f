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
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/anonydump/anonydump/internal/settings"
)

func init() {
	registerFaker("word", func(settings.Locale) string { return gofakeit.Word() })
	registerFaker("words", func(settings.Locale) string {
		words := make([]string, 5)
		for i := range words {
			words[i] = gofakeit.Word()
		}
		return strings.Join(words, " ")
	})
	registerFaker("sentence", func(settings.Locale) string { return gofakeit.Sentence(10) })
	registerFaker("sentences", func(settings.Locale) string { return gofakeit.Paragraph(1, 3, 10, " ") })
	registerFaker("paragraph", func(settings.Locale) string { return gofakeit.Paragraph(1, 5, 12, "\n") })
	registerFaker("paragraphs", func(settings.Locale) string { return gofakeit.Paragraph(3, 5, 12, "\n\n") })
}
