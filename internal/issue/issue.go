// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	EngineNotFoundId Id = iota + 1
	EngineCommandFailedId
	PermissionDeniedId
	OutputParseFailedId
	OperationNotSupportedId
	APIVersionMismatchId
	ConfigLoadFailedId
	OperationCancelledId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // engine documentation relevant to the issue
	extLinks []HttpLink  // external links that might be useful for the user
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

// Render renders the issue as terminal markdown using the glamour style at
// stylePath ("auto", "dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	engineNotFoundIssue = &Issue{
		id: EngineNotFoundId,
		mdMsg: `
# No container engine found!

Neither ` + "`docker`" + ` nor ` + "`podman`" + ` could be found on your PATH.

## Things you can try:
- Install Docker or Podman and make sure the binary is on your PATH
- Point ctrkit at a binary explicitly:
~~~
$ ctrkit --engine podman --command /opt/podman/bin/podman info
~~~
- Or set it once in your config file:
~~~cue
engine:  "podman"
command: "/opt/podman/bin/podman"
~~~`,
		docLinks: []HttpLink{
			"https://docs.docker.com/engine/install/",
			"https://podman.io/docs/installation",
		},
	}

	engineCommandFailedIssue = &Issue{
		id: EngineCommandFailedId,
		mdMsg: `
# The container engine reported an error!

The engine process exited with a non-zero status. Its last stderr line is
shown above.

## Things you can try:
- Re-run with ` + "`--verbose`" + ` to see the exact command line
- Re-run with ` + "`--dry-run`" + ` and execute the printed command yourself
- Check that the engine daemon (or the Podman machine) is running:
~~~
$ docker info
$ podman machine list
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied talking to the engine!

The engine socket exists but your user is not allowed to use it.

## Things you can try:
- Add your user to the ` + "`docker`" + ` group and log in again
- Use rootless Podman instead of a system daemon
- Check the ` + "`DOCKER_HOST`" + ` or ` + "`CONTAINER_HOST`" + ` environment variables`,
		docLinks: []HttpLink{"https://docs.docker.com/engine/install/linux-postinstall/"},
	}

	outputParseFailedIssue = &Issue{
		id: OutputParseFailedId,
		mdMsg: `
# Could not understand the engine output!

A record printed by the engine did not match the expected format. In strict
mode a single bad record fails the whole command.

## Things you can try:
- Drop ` + "`--strict`" + ` so that malformed records are skipped
- Relax parsing for the affected call class in your config file:
~~~cue
strict: {
	list:   false
	stream: false
}
~~~
- Check whether your engine version is supported with ` + "`ctrkit check`" + `.`,
	}

	operationNotSupportedIssue = &Issue{
		id: OperationNotSupportedId,
		mdMsg: `
# Operation not supported by this engine!

The selected engine has no equivalent of the requested operation, so no
process was started.

## Things you can try:
- Switch engines with ` + "`--engine docker`" + ` or ` + "`--engine podman`" + `
- For Podman contexts, use ` + "`ctrkit contexts ls`" + ` instead of inspect`,
	}

	apiVersionMismatchIssue = &Issue{
		id: APIVersionMismatchId,
		mdMsg: `
# Engine API version too old!

The engine API version does not satisfy the ` + "`min_api_version`" + ` constraint
from your configuration.

## Things you can try:
- Upgrade the container engine
- Loosen or remove ` + "`min_api_version`" + ` in your config file`,
		docLinks: []HttpLink{"https://docs.docker.com/reference/api/engine/"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your configuration file could not be read or does not match the schema.

## Things you can try:
- Show where ctrkit looks for its config:
~~~
$ ctrkit config path
~~~
- Regenerate a default configuration:
~~~
$ ctrkit config init --force
~~~
- Compare your file with the effective configuration:
~~~
$ ctrkit config show
~~~`,
	}

	operationCancelledIssue = &Issue{
		id: OperationCancelledId,
		mdMsg: `
# Operation cancelled!

The command was interrupted before the engine finished. Output already
consumed was kept; nothing after the interruption was read.

## Things you can try:
- Re-run the command
- For long-running streams such as ` + "`events`" + ` or ` + "`logs --follow`" + `, stop with Ctrl+C once you have what you need`,
	}

	issues = map[Id]*Issue{
		engineNotFoundIssue.Id():        engineNotFoundIssue,
		engineCommandFailedIssue.Id():   engineCommandFailedIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
		outputParseFailedIssue.Id():     outputParseFailedIssue,
		operationNotSupportedIssue.Id(): operationNotSupportedIssue,
		apiVersionMismatchIssue.Id():    apiVersionMismatchIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		operationCancelledIssue.Id():    operationCancelledIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
