// SPDX-License-Identifier: MPL-2.0

// Package pkgspec parses "name[@constraint]" package tokens and maps runtime
// package names to their type-declaration counterparts.
package pkgspec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultTypesScope is the registry scope holding type-declaration packages.
const DefaultTypesScope = "@types"

// ErrInvalidSpec is the sentinel error wrapped by ParseError.
var ErrInvalidSpec = errors.New("invalid package spec")

type (
	// Spec is a parsed package token.
	Spec struct {
		// Name is the full package name, including the scope when present.
		Name string
		// Scope is the "@scope" part of a scoped name, or empty.
		Scope string
		// Version is the version constraint; empty means latest.
		Version string
	}

	// ParseError describes why a token is not a valid package spec.
	ParseError struct {
		Token  string
		Pos    int
		Reason string
	}

	parser struct {
		src string
		pos int
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid package %q at offset %d: %s", e.Token, e.Pos, e.Reason)
}

// Unwrap returns ErrInvalidSpec for errors.Is compatibility.
func (e *ParseError) Unwrap() error { return ErrInvalidSpec }

// String renders the spec back into "name[@version]" form.
func (s Spec) String() string {
	if s.Version == "" {
		return s.Name
	}
	return s.Name + "@" + s.Version
}

// Parse parses a token of the form name[@constraint] where name may be
// scoped (@scope/name) and constraint is a semver-like range such as
// "^4.17.0", "~1.2", "1.x" or "2.0.0-beta.1".
func Parse(token string) (Spec, error) {
	p := &parser{src: token}

	spec, err := p.parseName()
	if err != nil {
		return Spec{}, err
	}

	if p.eof() {
		return spec, nil
	}
	if p.peek() != '@' {
		return Spec{}, p.fail("unexpected character %q", p.peek())
	}
	p.pos++

	start := p.pos
	if err := p.parseConstraint(); err != nil {
		return Spec{}, err
	}
	spec.Version = token[start:]

	if _, err := semver.NewConstraint(spec.Version); err != nil {
		return Spec{}, &ParseError{Token: token, Pos: start, Reason: err.Error()}
	}

	return spec, nil
}

func (p *parser) parseName() (Spec, error) {
	var spec Spec

	if p.peek() == '@' {
		p.pos++
		scope, err := p.parseSegment("scope")
		if err != nil {
			return Spec{}, err
		}
		if p.peek() != '/' {
			return Spec{}, p.fail("scoped name needs a '/' after %q", "@"+scope)
		}
		p.pos++
		spec.Scope = "@" + scope
	}

	if _, err := p.parseSegment("name"); err != nil {
		return Spec{}, err
	}
	spec.Name = p.src[:p.pos]

	return spec, nil
}

func (p *parser) parseSegment(what string) (string, error) {
	start := p.pos
	for !p.eof() && isNameChar(p.peek()) {
		p.pos++
	}
	if p.pos == start {
		return "", p.fail("empty %s", what)
	}
	if c := p.src[start]; c == '.' || c == '_' {
		p.pos = start
		return "", p.fail("%s must not start with %q", what, c)
	}
	return p.src[start:p.pos], nil
}

func (p *parser) parseConstraint() error {
	if c := p.peek(); c == '^' || c == '~' {
		p.pos++
	}

	for part := 0; ; part++ {
		if err := p.parsePart(); err != nil {
			return err
		}
		if part == 2 || p.peek() != '.' {
			break
		}
		p.pos++
	}

	if p.peek() == '-' {
		p.pos++
		if err := p.parseIdentifiers("pre-release"); err != nil {
			return err
		}
	}
	if p.peek() == '+' {
		p.pos++
		if err := p.parseIdentifiers("build metadata"); err != nil {
			return err
		}
	}

	if !p.eof() {
		return p.fail("unexpected character %q in version", p.peek())
	}
	return nil
}

func (p *parser) parsePart() error {
	switch c := p.peek(); {
	case c == 'x' || c == 'X' || c == '*':
		p.pos++
		return nil
	case isDigit(c):
		for !p.eof() && isDigit(p.peek()) {
			p.pos++
		}
		return nil
	default:
		return p.fail("expected a number, 'x' or '*' in version")
	}
}

func (p *parser) parseIdentifiers(what string) error {
	start := p.pos
	for !p.eof() && (isAlnum(p.peek()) || p.peek() == '.' || p.peek() == '-') {
		p.pos++
	}
	if p.pos == start {
		return p.fail("empty %s", what)
	}
	return nil
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) fail(format string, a ...any) error {
	return &ParseError{Token: p.src, Pos: p.pos, Reason: fmt.Sprintf(format, a...)}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isAlnum(c) || c == '-' || c == '.' || c == '_' || c == '~'
}

// IsConstraint reports whether v is a semver constraint the registry can
// resolve. Dist-tags, file paths and git URLs are not.
func IsConstraint(v string) bool {
	if v == "" {
		return false
	}
	_, err := semver.NewConstraint(v)
	return err == nil
}

// IsScope reports whether s is a valid "@scope" prefix.
func IsScope(s string) bool {
	if !strings.HasPrefix(s, "@") {
		return false
	}
	p := &parser{src: s, pos: 1}
	if _, err := p.parseSegment("scope"); err != nil {
		return false
	}
	return p.eof()
}

// IsTypesPackage reports whether name already lives in the types scope.
func IsTypesPackage(name, typesScope string) bool {
	return strings.HasPrefix(name, typesScope+"/")
}

// TypesName returns the type-declaration package for name. Scoped names are
// flattened the way the DefinitelyTyped registry expects: "@foo/bar" maps to
// "@types/foo__bar".
func TypesName(name, typesScope string) string {
	if scope, rest, ok := strings.Cut(strings.TrimPrefix(name, "@"), "/"); ok && strings.HasPrefix(name, "@") {
		return typesScope + "/" + scope + "__" + rest
	}
	return typesScope + "/" + name
}
