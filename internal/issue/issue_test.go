// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestCatalog_Complete(t *testing.T) {
	t.Parallel()

	ids := []Id{
		PackageManagerNotFoundId,
		ManifestNotFoundId,
		InvalidPackageSpecId,
		InstallFailedId,
		ConfigLoadFailedId,
		PackageManagerStartFailedId,
	}

	for _, id := range ids {
		entry := Get(id)
		if entry == nil {
			t.Errorf("Get(%d) returned nil", id)
			continue
		}
		if entry.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, entry.Id())
		}
		if strings.TrimSpace(string(entry.MarkdownMsg())) == "" {
			t.Errorf("issue %d has an empty message", id)
		}
	}

	if PackageManagerNotFoundId != 1 {
		t.Errorf("PackageManagerNotFoundId = %d, want 1", PackageManagerNotFoundId)
	}
	if Get(0) != nil {
		t.Error("Get(0) should return nil")
	}
}

func TestValues_Ordered(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != 6 {
		t.Fatalf("Values() returned %d issues, want 6", len(values))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not ordered at %d: %d >= %d", i, values[i-1].Id(), values[i].Id())
		}
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	t.Parallel()

	entry := Get(PackageManagerNotFoundId)
	links := entry.ExtLinks()
	if len(links) == 0 {
		t.Fatal("expected external links")
	}
	links[0] = "mutated"
	if entry.ExtLinks()[0] == "mutated" {
		t.Error("ExtLinks() should return a copy")
	}
}

func TestIssue_Markdown(t *testing.T) {
	t.Parallel()

	md := Get(ManifestNotFoundId).Markdown()
	if !strings.Contains(md, "# No package.json found!") {
		t.Errorf("Markdown() missing title:\n%s", md)
	}
	if !strings.Contains(md, "## See also") || !strings.Contains(md, "https://docs.npmjs.com/cli/configuring-npm/package-json") {
		t.Errorf("Markdown() missing links section:\n%s", md)
	}

	if strings.Contains(Get(InstallFailedId).Markdown(), "See also") {
		t.Error("issue without links should have no See also section")
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(InvalidPackageSpecId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "Invalid package name!") {
		t.Errorf("Render() output missing title:\n%s", out)
	}
	if !strings.Contains(out, "lodash@^4.17.0") {
		t.Errorf("Render() output missing examples:\n%s", out)
	}
}
