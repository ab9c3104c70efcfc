// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	PackageManagerNotFoundId Id = iota + 1
	ManifestNotFoundId
	InvalidPackageSpecId
	InstallFailedId
	ConfigLoadFailedId
	PackageManagerStartFailedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	// Issue is a catalog entry: Markdown guidance for one kind of failure.
	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // documentation for the failing collaborator
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the message with a "See also" section listing the links.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))

	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

// Render renders the issue for a terminal. style is a glamour standard
// style ("dark", "light", "notty") or "auto" to detect the background.
func (i *Issue) Render(style string) (string, error) {
	opt := glamour.WithStandardStyle(style)
	if style == "" || style == "auto" {
		opt = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(80))
	if err != nil {
		return "", err
	}
	return r.Render(i.Markdown())
}

var (
	packageManagerNotFoundIssue = &Issue{
		id: PackageManagerNotFoundId,
		mdMsg: `
# No package manager found!

There is no lockfile in this directory and none of the supported package
managers answered ` + "`--version`" + `.

## Things you can try:
- Install one of **npm**, **yarn**, **pnpm** or **bun** and make sure it is on your ` + "`PATH`" + `
- Pick a manager explicitly:
~~~
$ withtypes --pm pnpm lodash
~~~
- Or set it once in your config file:
~~~cue
package_manager: preferred: "pnpm"
~~~`,
		docLinks: []HttpLink{"https://docs.npmjs.com/downloading-and-installing-node-js-and-npm"},
		extLinks: []HttpLink{"https://pnpm.io/installation", "https://yarnpkg.com/getting-started/install", "https://bun.sh/docs/installation"},
	}

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No package.json found!

Without package names on the command line the dependencies are read from
` + "`package.json`" + ` in the current directory, and there is none.

## Things you can try:
- Name the packages to install:
~~~
$ withtypes lodash express
~~~
- Run from your project root, or create a manifest first:
~~~
$ npm init -y
~~~`,
		docLinks: []HttpLink{"https://docs.npmjs.com/cli/configuring-npm/package-json"},
	}

	invalidPackageSpecIssue = &Issue{
		id: InvalidPackageSpecId,
		mdMsg: `
# Invalid package name!

Packages are given as ` + "`name[@version]`" + `. Names may be scoped, versions are
semver ranges.

## Valid examples:
~~~
lodash
lodash@4.17.21
lodash@^4.17.0
@babel/core@~7.24
react@18.x
typescript@5.4.0-beta
~~~`,
		docLinks: []HttpLink{"https://docs.npmjs.com/cli/using-npm/semver"},
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Install failed!

The package manager exited with an error; the output above is what it
reported. Packages after the failing one were not installed.

## Things you can try:
- Check the package name and version exist:
~~~
$ npm view <package> versions
~~~
- Run with ` + "`--verbose`" + ` to see every command and registry request
- Retry the failing command directly to see its full output`,
	}

	packageManagerStartFailedIssue = &Issue{
		id: PackageManagerStartFailedId,
		mdMsg: `
# Package manager did not start!

The package manager was selected but its executable could not be run, so
nothing was installed by this command.

## Things you can try:
- Check that it is installed and on your ` + "`PATH`" + `:
~~~
$ command -v yarn npm pnpm bun
~~~
- Pick another manager for this run:
~~~
$ withtypes --pm npm lodash
~~~
- Remove the stale lockfile if the project switched managers`,
		docLinks: []HttpLink{"https://docs.npmjs.com/downloading-and-installing-node-js-and-npm"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your config file or a ` + "`WITHTYPES_*`" + ` environment variable holds an invalid value.

## Things you can try:
- Check the error above for the offending key
- Compare with a valid configuration:
~~~cue
package_manager: {
	preferred:  "auto" // or "npm", "yarn", "pnpm", "bun"
	priority:   ["yarn", "npm", "pnpm", "bun"]
	extra_args: "--no-audit"
}
types: {
	enabled: true
	exclude: ["@internal/**"]
}
~~~
- Run without the file by pointing ` + "`--config`" + ` elsewhere`,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	issues = map[Id]*Issue{
		packageManagerNotFoundIssue.Id():    packageManagerNotFoundIssue,
		manifestNotFoundIssue.Id():          manifestNotFoundIssue,
		invalidPackageSpecIssue.Id():        invalidPackageSpecIssue,
		installFailedIssue.Id():             installFailedIssue,
		configLoadFailedIssue.Id():          configLoadFailedIssue,
		packageManagerStartFailedIssue.Id(): packageManagerStartFailedIssue,
	}
)

// Values returns every catalog entry, ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
