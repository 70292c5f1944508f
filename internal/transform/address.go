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

	"github.com/brianvoe/gofakeit/v7"

	"github.com/anonydump/anonydump/internal/settings"
)

func init() {
	registerFaker("city", func(settings.Locale) string { return gofakeit.City() })
	registerFaker("city_prefix", func(settings.Locale) string { return gofakeit.City() })
	registerFaker("city_suffix", func(settings.Locale) string { return gofakeit.City() })
	registerFaker("country_name", func(settings.Locale) string { return gofakeit.Country() })
	registerFaker("country_code", func(settings.Locale) string { return gofakeit.CountryAbr() })
	registerFaker("street_suffix", func(settings.Locale) string { return gofakeit.StreetSuffix() })
	registerFaker("street_name", func(settings.Locale) string { return gofakeit.StreetName() })
	registerFaker("time_zone", func(settings.Locale) string { return gofakeit.TimeZone() })
	registerFaker("state_name", func(settings.Locale) string { return gofakeit.State() })
	registerFaker("state_abbr", func(settings.Locale) string { return gofakeit.StateAbr() })
	registerFaker("dwelling_type", func(settings.Locale) string {
		return gofakeit.RandomString([]string{"Apartment", "House", "Studio", "Condo", "Townhouse"})
	})
	registerFaker("dwelling", func(settings.Locale) string { return gofakeit.Street() })
	registerFaker("zip_code", func(settings.Locale) string { return gofakeit.Zip() })
	registerFaker("post_code", func(settings.Locale) string { return gofakeit.Zip() })
	registerFaker("building_number", func(settings.Locale) string { return gofakeit.StreetNumber() })
	registerFaker("latitude", func(settings.Locale) string { return fmt.Sprintf("%f", gofakeit.Latitude()) })
	registerFaker("longitude", func(settings.Locale) string { return fmt.Sprintf("%f", gofakeit.Longitude()) })
}
