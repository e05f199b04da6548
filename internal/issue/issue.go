// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	ScriptExecutionFailedId
	ConfigLoadFailedId
	ShellNotFoundId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

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

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No package manifest found!

The directory you asked to run a lifecycle stage in has neither a
package.json nor a package.yaml.

## Things you can try:
- Check the package directory you passed:
~~~
$ runlifecycle run build ./packages/my-pkg
~~~
- Create a minimal manifest:
~~~json
{ "name": "my-pkg", "version": "1.0.0", "scripts": { "build": "make" } }
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse the package manifest!

The manifest could not be decoded, or it has no "name" field.

## Common causes:
- Trailing commas or comments in package.json
- Tabs used for indentation in package.yaml
- A missing "name" field

## Things you can try:
- Validate the JSON with your editor or ` + "`jq . package.json`" + `
- Make sure "scripts" maps stage names to strings`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Lifecycle script failed!

The script exited with a non-zero status. Its own output is shown above.

## Things you can try:
- Run the script by hand in the package directory
- Re-run with ` + "`--loglevel silly`" + ` to see the resolved configuration
- Use ` + "`--script-shell`" + ` to run it with your system shell instead of the built-in one`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Check the file for CUE syntax errors
- Quote dashed keys: ` + "`\"ignore-scripts\": true`" + `
- Show the effective configuration:
~~~
$ runlifecycle config show
~~~`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Script shell not found!

The shell configured with script-shell is not on your PATH.

## Things you can try:
- Pass an absolute path: ` + "`--script-shell /bin/bash`" + `
- Drop script-shell to use the built-in POSIX shell`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

The script or one of the files it touches is not accessible.

## Things you can try:
- Check the permissions of the package directory
- Run from a directory you own`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():      manifestNotFoundIssue,
		manifestParseErrorIssue.Id():    manifestParseErrorIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		shellNotFoundIssue.Id():         shellNotFoundIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id - b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
