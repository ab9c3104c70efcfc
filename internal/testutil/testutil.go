// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MustWriteFile writes content to dir/name, creating parent directories.
// The test fails immediately if the write fails.
func MustWriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WritePackageJSON writes a package.json into dir. deps and devDeps are
// alternating name/version pairs, written in the order given.
func WritePackageJSON(t testing.TB, dir string, deps, devDeps []string) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString(`{"name": "fixture"`)
	writeSection(t, &sb, "dependencies", deps)
	writeSection(t, &sb, "devDependencies", devDeps)
	sb.WriteString("}\n")

	return MustWriteFile(t, dir, "package.json", sb.String())
}

func writeSection(t testing.TB, sb *strings.Builder, key string, pairs []string) {
	t.Helper()
	if pairs == nil {
		return
	}
	if len(pairs)%2 != 0 {
		t.Fatalf("%s: expected name/version pairs, got %d values", key, len(pairs))
	}

	sb.WriteString(`, "` + key + `": {`)
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			sb.WriteString(", ")
		}
		name, _ := json.Marshal(pairs[i])
		version, _ := json.Marshal(pairs[i+1])
		sb.Write(name)
		sb.WriteString(": ")
		sb.Write(version)
	}
	sb.WriteString("}")
}
