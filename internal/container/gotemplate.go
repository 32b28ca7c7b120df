// SPDX-License-Identifier: MPL-2.0

package container

import (
	"strconv"
	"strings"

	"github.com/invowk/ctrkit/internal/cmdline"
)

// jsonEverything is the Go template that prints a whole object as JSON.
const jsonEverything = "{{json .}}"

// templateField maps an output JSON key to a Go template expression
// evaluated by the engine, for example {"Id", ".ID"}.
type templateField struct {
	Key  string
	Expr string
}

// templateFields is an ordered list of output keys. Order is kept so the
// rendered template is reproducible.
type templateFields []templateField

// goTemplateJSON renders fields as a Go template that prints one JSON object,
// e.g. {"Id":{{json .ID}},"Name":{{json .Name}}}. Pinning the keys this way
// lets one parser read the output of engines with different native field
// names.
func goTemplateJSON(fields templateFields) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(f.Key))
		b.WriteString(":{{json ")
		b.WriteString(f.Expr)
		b.WriteString("}}")
	}
	b.WriteByte('}')
	return b.String()
}

// with returns a copy of fs with the expression of key replaced, or the key
// removed when expr is empty.
func (fs templateFields) with(key, expr string) templateFields {
	out := make(templateFields, 0, len(fs))
	for _, f := range fs {
		if f.Key == key {
			if expr == "" {
				continue
			}
			f.Expr = expr
		}
		out = append(out, f)
	}
	return out
}

// withFormatArg appends --format with a template quoted for the client's shell.
func withFormatArg(shell cmdline.Shell, tmpl string) cmdline.Fragment {
	return cmdline.WithArgs(cmdline.Escaped("--format"), shell.GoTemplateQuoted(tmpl, cmdline.QuotingStrong))
}

// withJSONFormatArg appends --format {{json .}}.
func withJSONFormatArg(shell cmdline.Shell) cmdline.Fragment {
	return withFormatArg(shell, jsonEverything)
}

// withTemplateFormatArg appends --format with a JSON template built from fields.
func withTemplateFormatArg(shell cmdline.Shell, fields templateFields) cmdline.Fragment {
	return withFormatArg(shell, goTemplateJSON(fields))
}

var withNoTruncArg = cmdline.WithArg("--no-trunc")
