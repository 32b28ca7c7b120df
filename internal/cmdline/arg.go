// SPDX-License-Identifier: MPL-2.0

// Package cmdline builds ordered, quoting-aware argument lists for container
// engine CLIs and renders them for a target shell.
package cmdline

import "strings"

// Quoting selects how a shell renderer treats a single token.
type Quoting int

const (
	// QuotingNone passes the token through untouched. Used for verbatim
	// passthrough such as user-supplied custom options.
	QuotingNone Quoting = iota
	// QuotingEscape escapes shell-special characters in place.
	QuotingEscape
	// QuotingWeak wraps the token in the shell's interpolating quotes.
	QuotingWeak
	// QuotingStrong wraps the token in the shell's literal quotes.
	QuotingStrong
)

// String returns the quoting name.
func (q Quoting) String() string {
	switch q {
	case QuotingNone:
		return "none"
	case QuotingEscape:
		return "escape"
	case QuotingWeak:
		return "weak"
	case QuotingStrong:
		return "strong"
	default:
		return "unknown"
	}
}

type (
	// Arg is a single command-line token with its quoting discipline.
	Arg struct {
		Value   string
		Quoting Quoting
	}

	// Args is an ordered argument list.
	Args []Arg

	// Fragment appends zero or more tokens to an argument list.
	Fragment func(Args) Args

	// NamedArgOption tunes how WithNamedArg and WithNamedArgs emit values.
	NamedArgOption func(*namedArgConfig)

	namedArgConfig struct {
		assign  bool
		quoting Quoting
	}
)

// Verbatim returns a token that every shell passes through untouched.
func Verbatim(value string) Arg { return Arg{Value: value, Quoting: QuotingNone} }

// Escaped returns a token whose special characters are escaped in place.
func Escaped(value string) Arg { return Arg{Value: value, Quoting: QuotingEscape} }

// Quoted returns a strongly quoted token.
func Quoted(value string) Arg { return Arg{Value: value, Quoting: QuotingStrong} }

// InnerQuoted returns a weakly quoted token.
func InnerQuoted(value string) Arg { return Arg{Value: value, Quoting: QuotingWeak} }

// Strings converts plain values into escaped tokens.
func Strings(values ...string) Args {
	args := make(Args, 0, len(values))
	for _, v := range values {
		args = append(args, Escaped(v))
	}
	return args
}

// Values returns the raw token values without any quoting applied.
func (a Args) Values() []string {
	out := make([]string, len(a))
	for i, arg := range a {
		out[i] = arg.Value
	}
	return out
}

// String joins the raw values with spaces. It is meant for logs and error
// messages; use a Shell to produce an executable rendering.
func (a Args) String() string {
	return strings.Join(a.Values(), " ")
}

// AssignValue emits "name=value" as a single escaped token instead of a
// "name value" pair.
func AssignValue() NamedArgOption {
	return func(c *namedArgConfig) { c.assign = true }
}

// NoQuote emits values escaped rather than strongly quoted.
func NoQuote() NamedArgOption {
	return func(c *namedArgConfig) { c.quoting = QuotingEscape }
}

// ComposeArgs folds fragments left to right into a single fragment.
func ComposeArgs(fragments ...Fragment) Fragment {
	return func(existing Args) Args {
		out := existing
		for _, f := range fragments {
			if f == nil {
				continue
			}
			out = f(out)
		}
		return out
	}
}

// Build runs the fragment against an empty list.
func (f Fragment) Build() Args {
	if f == nil {
		return Args{}
	}
	out := f(Args{})
	if out == nil {
		return Args{}
	}
	return out
}

// WithArg appends each non-empty value as an escaped token.
func WithArg(values ...string) Fragment {
	return func(existing Args) Args {
		for _, v := range values {
			if v == "" {
				continue
			}
			existing = append(existing, Escaped(v))
		}
		return existing
	}
}

// WithArgs appends pre-built tokens, keeping their quoting and skipping
// empty ones.
func WithArgs(args ...Arg) Fragment {
	return func(existing Args) Args {
		for _, a := range args {
			if a.Value == "" {
				continue
			}
			existing = append(existing, a)
		}
		return existing
	}
}

// WithQuotedArg appends value strongly quoted.
func WithQuotedArg(value string) Fragment {
	return WithArgs(Quoted(value))
}

// WithVerbatimArg appends value untouched. The runner may split it into
// several argv entries.
func WithVerbatimArg(value string) Fragment {
	return WithArgs(Verbatim(value))
}

// WithFlagArg appends flag only when cond is true.
func WithFlagArg(flag string, cond bool) Fragment {
	return func(existing Args) Args {
		if !cond || flag == "" {
			return existing
		}
		return append(existing, Escaped(flag))
	}
}

// WithNamedArg appends "name value", skipping it when value is empty.
func WithNamedArg(name, value string, opts ...NamedArgOption) Fragment {
	return WithNamedArgs(name, []string{value}, opts...)
}

// WithNamedArgs appends "name value" once per non-empty value, in order.
func WithNamedArgs(name string, values []string, opts ...NamedArgOption) Fragment {
	cfg := namedArgConfig{quoting: QuotingStrong}
	for _, opt := range opts {
		opt(&cfg)
	}
	return func(existing Args) Args {
		for _, v := range values {
			if v == "" {
				continue
			}
			if cfg.assign {
				existing = append(existing, Escaped(name+"="+v))
				continue
			}
			existing = append(existing, Escaped(name), Arg{Value: v, Quoting: cfg.quoting})
		}
		return existing
	}
}
