// SPDX-License-Identifier: MPL-2.0

package args

import (
	"strings"
	"unicode"
)

type (
	// Flags maps normalized flag names to their values.
	Flags map[string]Value

	// Parsed is the result of normalizing a token list.
	Parsed struct {
		// Flags holds every flag seen, keyed by its normalized name.
		Flags Flags
		// Commands holds the bare positional tokens in input order.
		Commands []string
		// Occurrences lists every flag token as written, in input order.
		Occurrences []Occurrence
	}

	// Occurrence is one flag as it appeared on the command line.
	Occurrence struct {
		// Names are the normalized names the tokens set. A bundle of short
		// flags sets one name per character.
		Names []string
		// Tokens are the raw tokens: the flag itself and the value it
		// consumed, if any.
		Tokens []string
	}

	// Option configures Normalize.
	Option func(*normalizer)

	normalizer struct {
		switches map[string]bool
	}
)

// WithSwitches declares normalized flag names that are always boolean
// switches. A declared switch never consumes the following token, so
// "-D lodash" yields D=true and keeps "lodash" as a command.
func WithSwitches(names ...string) Option {
	return func(n *normalizer) {
		for _, name := range names {
			n.switches[name] = true
		}
	}
}

// Normalize scans tokens left to right and splits them into flags and
// commands. A bare "--" ends flag processing; every token after it is a
// command.
func Normalize(tokens []string, opts ...Option) Parsed {
	n := &normalizer{switches: make(map[string]bool)}
	for _, opt := range opts {
		opt(n)
	}

	parsed := Parsed{Flags: make(Flags), Commands: []string{}}

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		switch {
		case token == "--":
			parsed.Commands = append(parsed.Commands, tokens[i+1:]...)
			return parsed

		case strings.HasPrefix(token, "--"):
			key, value, _ := strings.Cut(token[2:], "=")
			name := CamelCase(key)
			switch {
			case key != "" && value != "":
				parsed.Flags[name] = ParseScalar(value)
				parsed.record([]string{name}, token)
			case n.takesValue(name, tokens, i):
				parsed.Flags[name] = ParseScalar(tokens[i+1])
				parsed.record([]string{name}, token, tokens[i+1])
				i++
			default:
				parsed.Flags[name] = Bool(true)
				parsed.record([]string{name}, token)
			}

		case strings.HasPrefix(token, "-"):
			cluster := []rune(token[1:])
			switch len(cluster) {
			case 0:
				continue
			case 1:
				name := string(cluster)
				if n.takesValue(name, tokens, i) {
					parsed.Flags[name] = ParseScalar(tokens[i+1])
					parsed.record([]string{name}, token, tokens[i+1])
					i++
					continue
				}
				parsed.Flags[name] = Bool(true)
				parsed.record([]string{name}, token)
			default:
				names := make([]string, len(cluster))
				for j, r := range cluster {
					names[j] = string(r)
					parsed.Flags[names[j]] = Bool(true)
				}
				parsed.record(names, token)
			}

		default:
			parsed.Commands = append(parsed.Commands, token)
		}
	}

	return parsed
}

func (p *Parsed) record(names []string, tokens ...string) {
	p.Occurrences = append(p.Occurrences, Occurrence{Names: names, Tokens: tokens})
}

// takesValue reports whether the flag at tokens[i] consumes tokens[i+1].
func (n *normalizer) takesValue(name string, tokens []string, i int) bool {
	if n.switches[name] || i+1 >= len(tokens) {
		return false
	}
	next := tokens[i+1]
	return next != "" && !strings.HasPrefix(next, "-")
}

// CamelCase replaces each "-" or "_" separator and the character after it
// with that character upper-cased: "save-dev" becomes "saveDev". A
// separator following a separator is kept as the upper-cased character, so
// "a--b" becomes "a-b". A trailing separator is kept.
func CamelCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if (r == '-' || r == '_') && i+1 < len(runes) {
			i++
			b.WriteRune(unicode.ToUpper(runes[i]))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// Lookup returns the value of the first name present in f.
func (f Flags) Lookup(names ...string) (Value, bool) {
	for _, name := range names {
		if v, ok := f[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Truthy reports whether any of names is set to a truthy value.
func (f Flags) Truthy(names ...string) bool {
	for _, name := range names {
		if v, ok := f[name]; ok && v.Truthy() {
			return true
		}
	}
	return false
}

// Text returns the textual value of the first name present in f. Boolean
// values do not count: "--registry" with nothing after it has no text.
func (f Flags) Text(names ...string) (string, bool) {
	v, ok := f.Lookup(names...)
	if !ok || v.Kind() == KindBool {
		return "", false
	}
	return v.String(), true
}
