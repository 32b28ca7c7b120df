// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"io"

	"github.com/invowk/ctrkit/internal/cmdline"
)

// CallClass groups operations that share a parsing policy.
type CallClass int

const (
	// ClassMutate covers operations that change engine state.
	ClassMutate CallClass = iota
	// ClassQuery covers single-document queries such as version and info.
	ClassQuery
	// ClassList covers NDJSON listings.
	ClassList
	// ClassInspect covers inspect and stat operations on named references.
	ClassInspect
	// ClassStream covers long-running streams such as events, logs and exec.
	ClassStream
)

// String returns the class name used in configuration.
func (c CallClass) String() string {
	switch c {
	case ClassMutate:
		return "mutate"
	case ClassQuery:
		return "query"
	case ClassList:
		return "list"
	case ClassInspect:
		return "inspect"
	case ClassStream:
		return "stream"
	default:
		return "unknown"
	}
}

// Idempotent reports whether running an operation of this class twice has
// the same effect as running it once.
func (c CallClass) Idempotent() bool {
	return c == ClassQuery || c == ClassList || c == ClassInspect
}

type (
	// VoidResponse describes a command whose output is ignored.
	VoidResponse struct {
		Command string
		Args    cmdline.Args
		// Stdin is written to the process's standard input when non-empty.
		Stdin string
	}

	// PromiseResponse describes a command whose complete stdout is parsed once.
	PromiseResponse[T any] struct {
		Command string
		Args    cmdline.Args
		Class   CallClass
		Parse   func(output string, strict bool) (T, error)
	}

	// GeneratorResponse describes a long-running command whose stdout is
	// parsed incrementally.
	GeneratorResponse[T any] struct {
		Command     string
		Args        cmdline.Args
		ParseStream func(ctx context.Context, output io.Reader, strict bool) *Stream[T]
	}
)
