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
	"github.com/brianvoe/gofakeit/v7"

	"github.com/anonydump/anonydump/internal/settings"
)

func init() {
	registerFaker("company_suffix", func(settings.Locale) string { return gofakeit.CompanySuffix() })
	registerFaker("company_name", func(settings.Locale) string { return gofakeit.Company() })
	registerFaker("company_motto", func(settings.Locale) string { return gofakeit.BuzzWord() + " " + gofakeit.BS() })
	registerFaker("company_motto_head", func(settings.Locale) string { return gofakeit.BuzzWord() })
	registerFaker("company_motto_middle", func(settings.Locale) string { return gofakeit.BuzzWord() })
	registerFaker("company_motto_tail", func(settings.Locale) string { return gofakeit.BS() })
	registerFaker("company_activity", func(settings.Locale) string { return gofakeit.BS() })
	registerFaker("company_activity_verb", func(settings.Locale) string { return gofakeit.BSAdj() })
	registerFaker("company_activity_adj", func(settings.Locale) string { return gofakeit.BSAdj() })
	registerFaker("company_activity_noun", func(settings.Locale) string { return gofakeit.BSNoun() })
	registerFaker("profession", func(settings.Locale) string { return gofakeit.JobTitle() })
	registerFaker("industry", func(settings.Locale) string { return gofakeit.BS() })
}
