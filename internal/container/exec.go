// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/invowk/ctrkit/internal/cmdline"
)

type (
	// Invocation is a single process execution request.
	Invocation struct {
		Command string
		Args    cmdline.Args
		Stdin   io.Reader
		// Retryable marks invocations that may be re-run on transient
		// engine failures without changing the outcome.
		Retryable bool
	}

	// ProcessRunner executes invocations. It owns process lifecycle: a reader
	// returned by Stream must release the process when closed.
	ProcessRunner interface {
		Run(ctx context.Context, inv Invocation) error
		Output(ctx context.Context, inv Invocation) (string, error)
		Stream(ctx context.Context, inv Invocation) (io.ReadCloser, error)
	}
)

// String renders the invocation for logs.
func (inv Invocation) String() string {
	return cmdline.Display(inv.Command, inv.Args)
}

// RunVoid runs a void response and discards its output.
func RunVoid(ctx context.Context, r ProcessRunner, resp VoidResponse) error {
	inv := Invocation{Command: resp.Command, Args: resp.Args}
	if resp.Stdin != "" {
		inv.Stdin = strings.NewReader(resp.Stdin)
	}
	if err := r.Run(ctx, inv); err != nil {
		return fmt.Errorf("run %s: %w", resp.Command, err)
	}
	return nil
}

// RunVoidWithInput runs a void response feeding stdin from input, as needed
// by writeFile when it reads from "-".
func RunVoidWithInput(ctx context.Context, r ProcessRunner, resp VoidResponse, input io.Reader) error {
	if err := r.Run(ctx, Invocation{Command: resp.Command, Args: resp.Args, Stdin: input}); err != nil {
		return fmt.Errorf("run %s: %w", resp.Command, err)
	}
	return nil
}

// RunPromise runs a promise response to completion and parses its output
// with the strictness policy selects for the response's class.
func RunPromise[T any](ctx context.Context, r ProcessRunner, resp PromiseResponse[T], policy Policy) (T, error) {
	var zero T
	out, err := r.Output(ctx, Invocation{
		Command:   resp.Command,
		Args:      resp.Args,
		Retryable: resp.Class.Idempotent(),
	})
	if err != nil {
		return zero, fmt.Errorf("run %s: %w", resp.Command, err)
	}
	return resp.Parse(out, policy.StrictFor(resp.Class))
}

// RunGenerator starts a generator response and returns its parsed stream.
// Closing the stream closes the process output.
func RunGenerator[T any](ctx context.Context, r ProcessRunner, resp GeneratorResponse[T], policy Policy) (*Stream[T], error) {
	rc, err := r.Stream(ctx, Invocation{Command: resp.Command, Args: resp.Args})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", resp.Command, err)
	}
	s := resp.ParseStream(ctx, rc, policy.StrictFor(ClassStream))
	s.closer = rc.Close
	return s, nil
}
