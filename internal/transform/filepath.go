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
	registerFaker("file_path", func(settings.Locale) string { return gofakeit.Dir() + gofakeit.Filename() })
	registerFaker("file_name", func(settings.Locale) string { return gofakeit.Filename() })
	registerFaker("file_extension", func(settings.Locale) string { return gofakeit.FileExtension() })
	registerFaker("dir_path", func(settings.Locale) string { return gofakeit.Dir() })
}
