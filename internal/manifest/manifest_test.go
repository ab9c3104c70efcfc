// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"io/fs"
	"reflect"
	"testing"
	"testing/fstest"
)

func TestLoad_PreservesOrder(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		FileName: &fstest.MapFile{Data: []byte(`{
  "name": "demo",
  "dependencies": {"zod": "^3.0.0", "axios": "1.6.0", "lodash": "^4.17.0"},
  "devDependencies": {"vitest": "1.x", "eslint": "*"}
}`)},
	}

	m, err := Load(fsys)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if m.Name != "demo" {
		t.Errorf("Name = %q, want %q", m.Name, "demo")
	}

	wantDeps := Entries{{"zod", "^3.0.0"}, {"axios", "1.6.0"}, {"lodash", "^4.17.0"}}
	if !reflect.DeepEqual(m.Dependencies, wantDeps) {
		t.Errorf("Dependencies = %v, want %v", m.Dependencies, wantDeps)
	}

	wantDev := Entries{{"vitest", "1.x"}, {"eslint", "*"}}
	if !reflect.DeepEqual(m.DevDependencies, wantDev) {
		t.Errorf("DevDependencies = %v, want %v", m.DevDependencies, wantDev)
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := Load(fstest.MapFS{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected error to wrap fs.ErrNotExist, got %v", err)
	}
}

func TestParse_OptionalSections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "absent", data: `{"name": "x"}`},
		{name: "null", data: `{"dependencies": null, "devDependencies": null}`},
		{name: "empty", data: `{"dependencies": {}, "devDependencies": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := Parse([]byte(tt.data))
			if err != nil {
				t.Fatalf("Parse() returned error: %v", err)
			}
			if len(m.Dependencies) != 0 || len(m.DevDependencies) != 0 {
				t.Errorf("expected no dependencies, got %v / %v", m.Dependencies, m.DevDependencies)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `dependencies: {}`},
		{name: "array dependencies", data: `{"dependencies": ["lodash"]}`},
		{name: "numeric version", data: `{"dependencies": {"lodash": 4}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParse_TooLarge(t *testing.T) {
	t.Parallel()

	data := make([]byte, maxManifestBytes+1)
	if _, err := Parse(data); err == nil {
		t.Error("expected size error, got nil")
	}
}
