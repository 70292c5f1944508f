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

// raw_date and raw_datetime renderings: fixed formats, not
// configurable per rule. raw_date/raw_datetime generate an arbitrary
// date in gofakeit's default range and render it this way directly,
// unlike the `datetime` transformer, which takes explicit from/to
// bounds and a format string.
const (
	sqlDateFormat     = "2006-01-02"
	sqlDateTimeFormat = "2006-01-02 15:04:05"
)

func registerRawDateTransformers() {
	registerFaker("raw_date", func(settings.Locale) string { return gofakeit.Date().Format(sqlDateFormat) })
	registerFaker("raw_datetime", func(settings.Locale) string { return gofakeit.Date().Format(sqlDateTimeFormat) })
}
