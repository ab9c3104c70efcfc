// SPDX-License-Identifier: MPL-2.0

// Package cli contains CLI integration tests using testscript.
//
// The withtypes entry point runs in-process next to fake yarn, npm, pnpm
// and bun commands. The fakes append every install invocation to
// $FAKE_PM_LOG so scripts can compare the exact command sequence, and
// type packages are served by a local registry reachable at $REGISTRY.
package cli

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	cmd "github.com/withtypes/withtypes/cmd/withtypes"
)

// typesPackages are the packages the test registry knows about.
var typesPackages = []string{"@types/lodash", "@types/babel__core", "@types/express"}

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"withtypes": func() int {
			cmd.Execute()
			return 0
		},
		"yarn": fakeManager,
		"npm":  fakeManager,
		"pnpm": fakeManager,
		"bun":  fakeManager,
	}))
}

// TestCLI runs all testscript tests in the testdata directory.
func TestCLI(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			srv := httptest.NewServer(registryHandler())
			env.Defer(srv.Close)

			env.Setenv("REGISTRY", srv.URL)
			env.Setenv("FAKE_PM_LOG", filepath.Join(env.WorkDir, "calls.log"))
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))
			return nil
		},
		// Continue running all tests even if one fails
		ContinueOnError: true,
	})
}

// fakeManager stands in for a package manager. "--version" succeeds unless
// FAKE_PM_MISSING is set; installs are logged and fail when an argument
// equals FAKE_PM_FAIL.
func fakeManager() int {
	name := filepath.Base(os.Args[0])
	args := os.Args[1:]

	if slices.Equal(args, []string{"--version"}) {
		if os.Getenv("FAKE_PM_MISSING") != "" {
			fmt.Fprintf(os.Stderr, "%s: command not found\n", name)
			return 127
		}
		fmt.Println("1.22.19")
		return 0
	}

	if logPath := os.Getenv("FAKE_PM_LOG"); logPath != "" {
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		fmt.Fprintln(f, strings.Join(append([]string{name}, args...), " "))
		_ = f.Close()
	}

	if fail := os.Getenv("FAKE_PM_FAIL"); fail != "" && slices.Contains(args, fail) {
		fmt.Fprintf(os.Stderr, "error Couldn't find package %q on the registry.\n", fail)
		return 1
	}

	fmt.Println("success Saved 1 new dependency.")
	return 0
}

// registryHandler answers HEAD requests for typesPackages, with or
// without a version segment.
func registryHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, _, _ := strings.Cut(strings.TrimPrefix(r.URL.EscapedPath(), "/"), "/")
		name = strings.ReplaceAll(name, "%2F", "/")
		if r.Method == http.MethodHead && slices.Contains(typesPackages, name) {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
}
