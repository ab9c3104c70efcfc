// SPDX-License-Identifier: MPL-2.0

package args

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tokens   []string
		opts     []Option
		flags    Flags
		commands []string
	}{
		{
			name:     "empty input",
			tokens:   nil,
			flags:    Flags{},
			commands: []string{},
		},
		{
			name:     "inline long flag",
			tokens:   []string{"--save-dev=true", "lodash"},
			flags:    Flags{"saveDev": Bool(true)},
			commands: []string{"lodash"},
		},
		{
			name:     "long flag consumes next token",
			tokens:   []string{"--registry", "https://example.test", "lodash"},
			flags:    Flags{"registry": String("https://example.test")},
			commands: []string{"lodash"},
		},
		{
			name:     "long flag followed by flag is a switch",
			tokens:   []string{"--prod", "--verbose"},
			flags:    Flags{"prod": Bool(true), "verbose": Bool(true)},
			commands: []string{},
		},
		{
			name:     "trailing long flag is a switch",
			tokens:   []string{"lodash", "--save-dev"},
			flags:    Flags{"saveDev": Bool(true)},
			commands: []string{"lodash"},
		},
		{
			name:     "split on first equals only",
			tokens:   []string{"--define=a=b"},
			flags:    Flags{"define": String("a=b")},
			commands: []string{},
		},
		{
			name:     "empty inline value falls back to lookahead",
			tokens:   []string{"--pm=", "yarn"},
			flags:    Flags{"pm": String("yarn")},
			commands: []string{},
		},
		{
			name:     "single short flag consumes value",
			tokens:   []string{"-n", "42", "react"},
			flags:    Flags{"n": Number(42)},
			commands: []string{"react"},
		},
		{
			name:     "single short flag before flag",
			tokens:   []string{"-D", "-v"},
			flags:    Flags{"D": Bool(true), "v": Bool(true)},
			commands: []string{},
		},
		{
			name:     "bundled short flags never consume",
			tokens:   []string{"-xyz", "lodash"},
			flags:    Flags{"x": Bool(true), "y": Bool(true), "z": Bool(true)},
			commands: []string{"lodash"},
		},
		{
			name:     "bare dash is ignored",
			tokens:   []string{"-", "lodash"},
			flags:    Flags{},
			commands: []string{"lodash"},
		},
		{
			name:     "double dash ends flags",
			tokens:   []string{"--verbose", "--", "--not-a-flag", "react"},
			flags:    Flags{"verbose": Bool(true)},
			commands: []string{"--not-a-flag", "react"},
		},
		{
			name:     "commands keep order and duplicates",
			tokens:   []string{"b", "a", "b"},
			flags:    Flags{},
			commands: []string{"b", "a", "b"},
		},
		{
			name:     "switch does not steal the package",
			tokens:   []string{"-D", "lodash", "--save-dev", "react"},
			opts:     []Option{WithSwitches("D", "saveDev")},
			flags:    Flags{"D": Bool(true), "saveDev": Bool(true)},
			commands: []string{"lodash", "react"},
		},
		{
			name:     "undeclared flag still consumes with switches set",
			tokens:   []string{"-D", "lodash", "--pm", "npm"},
			opts:     []Option{WithSwitches("D")},
			flags:    Flags{"D": Bool(true), "pm": String("npm")},
			commands: []string{"lodash"},
		},
		{
			name:     "switch with explicit inline value",
			tokens:   []string{"--prod=false"},
			opts:     []Option{WithSwitches("prod")},
			flags:    Flags{"prod": Bool(false)},
			commands: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(tt.tokens, tt.opts...)
			require.Equal(t, tt.flags, got.Flags)
			require.Equal(t, tt.commands, got.Commands)
		})
	}
}

func TestNormalize_InlineAndSeparateValuesAgree(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"42", "true", "false", "yarn", "https://registry.test/x", "4abc"} {
		inline := Normalize([]string{"--some-flag=" + value})
		separate := Normalize([]string{"--some-flag", value})
		require.Equal(t, inline.Flags, separate.Flags, "value %q", value)
		require.Empty(t, separate.Commands)
	}
}

func TestNormalize_NegativeNumberIsAFlag(t *testing.T) {
	t.Parallel()

	got := Normalize([]string{"--depth", "-1"})
	require.Equal(t, Flags{"depth": Bool(true), "1": Bool(true)}, got.Flags)
}

func TestNormalize_Occurrences(t *testing.T) {
	t.Parallel()

	got := Normalize(
		[]string{"lodash", "--exact", "--tag", "beta", "--pm=npm", "-DE", "-n", "3", "--", "--after"},
		WithSwitches("exact"),
	)

	require.Equal(t, []Occurrence{
		{Names: []string{"exact"}, Tokens: []string{"--exact"}},
		{Names: []string{"tag"}, Tokens: []string{"--tag", "beta"}},
		{Names: []string{"pm"}, Tokens: []string{"--pm=npm"}},
		{Names: []string{"D", "E"}, Tokens: []string{"-DE"}},
		{Names: []string{"n"}, Tokens: []string{"-n", "3"}},
	}, got.Occurrences)
	require.Equal(t, []string{"lodash", "--after"}, got.Commands)
}

func TestCamelCase(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"save-dev":        "saveDev",
		"a":               "a",
		"no-types":        "noTypes",
		"save_exact":      "saveExact",
		"dry-run-verbose": "dryRunVerbose",
		"trailing-":       "trailing-",
		"a--b":            "a-b",
		"a-_b":            "a_b",
		"ignore-scripts-": "ignoreScripts-",
		"x-1":             "x1",
		"":                "",
	}

	for in, want := range tests {
		require.Equal(t, want, CamelCase(in), "CamelCase(%q)", in)
	}
}

func TestParseScalar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  Value
	}{
		{"42", Number(42)},
		{"-3.5", Number(-3.5)},
		{"1e3", Number(1000)},
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"foo", String("foo")},
		{"4abc", String("4abc")},
		{"Inf", String("Inf")},
		{"NaN", String("NaN")},
		{"", String("")},
		{"TRUE", String("TRUE")},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ParseScalar(tt.token), "ParseScalar(%q)", tt.token)
	}
}

func TestFlagsAccessors(t *testing.T) {
	t.Parallel()

	flags := Normalize([]string{"--production", "--pm", "pnpm", "--registry", "-v", "--retries=0"}).Flags

	require.True(t, flags.Truthy("prod", "production"))
	require.False(t, flags.Truthy("saveDev", "D"))
	require.False(t, flags.Truthy("retries"))

	pm, ok := flags.Text("pm")
	require.True(t, ok)
	require.Equal(t, "pnpm", pm)

	_, ok = flags.Text("registry")
	require.False(t, ok, "a bare switch has no text")

	_, ok = flags.Lookup("missing")
	require.False(t, ok)
}

func TestValueTruthy(t *testing.T) {
	t.Parallel()

	require.True(t, Bool(true).Truthy())
	require.False(t, Bool(false).Truthy())
	require.True(t, Number(1).Truthy())
	require.False(t, Number(0).Truthy())
	require.True(t, String("yes").Truthy())
	require.False(t, String("").Truthy())
	require.False(t, String("false").Truthy())
}

func TestValueString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "42", Number(42).String())
	require.Equal(t, "0.5", Number(0.5).String())
	require.Equal(t, "true", Bool(true).String())
	require.Equal(t, "yarn", String("yarn").String())
}
