// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the dependency lists of a package.json file.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

const (
	// FileName is the manifest file looked up in the working directory.
	FileName = "package.json"

	// maxManifestBytes bounds how much of a manifest is read into memory.
	maxManifestBytes = 5 << 20
)

// ErrNotFound is returned by Load when the manifest file does not exist.
// It wraps fs.ErrNotExist.
var ErrNotFound = fmt.Errorf("%s not found: %w", FileName, fs.ErrNotExist)

type (
	// Entry is a single dependency declaration.
	Entry struct {
		Name    string
		Version string
	}

	// Entries is a dependency map that keeps the order of the document.
	Entries []Entry

	// Manifest holds the parts of package.json this tool reads.
	Manifest struct {
		Name            string  `json:"name"`
		Dependencies    Entries `json:"dependencies"`
		DevDependencies Entries `json:"devDependencies"`
	}
)

// Load reads FileName from fsys. A missing file yields ErrNotFound.
func Load(fsys fs.FS) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, FileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	return Parse(data)
}

// Parse decodes manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	if len(data) > maxManifestBytes {
		return nil, fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", FileName, len(data), maxManifestBytes)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &m, nil
}

// UnmarshalJSON decodes a JSON object of name -> version pairs, keeping the
// key order. A JSON null decodes to an empty list.
func (e *Entries) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*e = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected an object of package versions, got %v", tok)
	}

	var out Entries
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected a package name, got %v", keyTok)
		}

		var version string
		if err := dec.Decode(&version); err != nil {
			return fmt.Errorf("dependency %q: %w", name, err)
		}
		out = append(out, Entry{Name: name, Version: version})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*e = out
	return nil
}
