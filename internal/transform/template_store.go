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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/anonydump/anonydump/internal/settings"
)

// TemplateStore holds the shared, named, raw and file-referenced
// templates declared in settings.Templates, merged into a pongo2 set
// so that `{% import %}`/`{% include %}` in a rule's inline format
// string can resolve them.
type TemplateStore struct {
	set *pongo2.TemplateSet
}

// NewTemplateStore builds the shared template set from the settings
// document's `templates.raw` and `templates.files` sections.
func NewTemplateStore(t settings.Templates) (*TemplateStore, error) {
	loader := &memoryLoader{files: make(map[string]string)}

	for name, body := range t.Raw {
		loader.files[name] = body
	}
	for _, path := range t.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("template store: reading %q: %w", path, err)
		}
		loader.files[filepath.Base(path)] = string(data)
	}

	set := pongo2.NewSet("anonydump", loader)
	return &TemplateStore{set: set}, nil
}

// Compile parses format as a pongo2 template against the shared set,
// so any `{% import %}`/`{% include %}` it contains resolves against
// the store's raw and file templates.
func (s *TemplateStore) Compile(format string) (*pongo2.Template, error) {
	return s.set.FromString(format)
}

// memoryLoader is a pongo2.TemplateLoader backed by an in-memory name
// to body map, used for the `templates.raw` entries and for files
// that have already been read once at store construction time.
type memoryLoader struct {
	files map[string]string
}

func (m *memoryLoader) Abs(base, name string) string {
	return name
}

func (m *memoryLoader) Get(path string) (io.Reader, error) {
	body, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("template store: no template named %q", path)
	}
	return strings.NewReader(body), nil
}
