// SPDX-License-Identifier: MPL-2.0

package cmdline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/alessio/shellescape"
)

// ErrUnknownShell is returned by ShellByName for unrecognized names.
var ErrUnknownShell = errors.New("unknown shell")

var (
	bashEscapeChars       = regexp.MustCompile(`[ "']`)
	powerShellEscapeChars = regexp.MustCompile("[ \"'()`]")
	cmdEscapeChars        = regexp.MustCompile(`[ "^&\\<>|]`)
)

// Shell renders argument lists for a specific shell.
type Shell interface {
	// Name returns the shell identifier used in configuration.
	Name() string
	// Quote renders every token according to its quoting discipline.
	Quote(args Args) []string
	// GoTemplateQuoted wraps a Go template so it survives this shell and
	// reaches the engine's template parser intact.
	GoTemplateQuoted(value string, quoting Quoting) Arg
}

// ShellByName resolves a configured shell name. "none" and "" select NoShell.
func ShellByName(name string) (Shell, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return NoShell{}, nil
	case "bash", "sh":
		return Bash{}, nil
	case "powershell", "pwsh":
		return PowerShell{}, nil
	case "cmd":
		return Cmd{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShell, name)
	}
}

// Display joins raw values into a copy-pasteable POSIX command line.
func Display(command string, args Args) string {
	return shellescape.QuoteCommand(append([]string{command}, args.Values()...))
}

func render(args Args, fn func(Arg) string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		out = append(out, fn(a))
	}
	return out
}

// Bash renders for POSIX shells.
type Bash struct{}

func (Bash) Name() string { return "bash" }

func (Bash) Quote(args Args) []string {
	return render(args, func(a Arg) string {
		switch a.Quoting {
		case QuotingEscape:
			return bashEscapeChars.ReplaceAllString(a.Value, `\$0`)
		case QuotingWeak:
			return `"` + strings.ReplaceAll(a.Value, `"`, `\"`) + `"`
		case QuotingStrong:
			return bashStrongQuote(a.Value)
		default:
			return a.Value
		}
	})
}

func (Bash) GoTemplateQuoted(value string, quoting Quoting) Arg {
	return Arg{Value: value, Quoting: quoting}
}

// bashStrongQuote single-quotes a value, closing and reopening the quotes
// around embedded single quotes.
func bashStrongQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

// PowerShell renders for Windows PowerShell and pwsh.
type PowerShell struct{}

func (PowerShell) Name() string { return "powershell" }

func (PowerShell) Quote(args Args) []string {
	return render(args, func(a Arg) string {
		switch a.Quoting {
		case QuotingEscape:
			return powerShellEscapeChars.ReplaceAllString(a.Value, "`$0")
		case QuotingWeak:
			return `"` + strings.ReplaceAll(a.Value, `"`, "`\"") + `"`
		case QuotingStrong:
			return "'" + strings.ReplaceAll(a.Value, "'", "''") + "'"
		default:
			return a.Value
		}
	})
}

// GoTemplateQuoted escapes embedded double quotes because PowerShell strips
// them when handing arguments to native executables.
func (PowerShell) GoTemplateQuoted(value string, quoting Quoting) Arg {
	if quoting == QuotingWeak || quoting == QuotingStrong {
		value = strings.ReplaceAll(value, `"`, `\"`)
	}
	return Arg{Value: value, Quoting: quoting}
}

// Cmd renders for cmd.exe.
type Cmd struct{}

func (Cmd) Name() string { return "cmd" }

func (Cmd) Quote(args Args) []string {
	return render(args, func(a Arg) string {
		switch a.Quoting {
		case QuotingEscape, QuotingWeak:
			return cmdEscapeChars.ReplaceAllString(a.Value, `^$0`)
		case QuotingStrong:
			return `"` + strings.ReplaceAll(a.Value, `"`, `\"`) + `"`
		default:
			return a.Value
		}
	})
}

func (Cmd) GoTemplateQuoted(value string, quoting Quoting) Arg {
	return Arg{Value: value, Quoting: quoting}
}

// NoShell renders for direct process execution. Each token is already a
// separate argv entry, so values pass through unquoted.
type NoShell struct{}

func (NoShell) Name() string { return "none" }

func (NoShell) Quote(args Args) []string {
	return args.Values()
}

func (NoShell) GoTemplateQuoted(value string, quoting Quoting) Arg {
	return Arg{Value: value, Quoting: quoting}
}
