// SPDX-License-Identifier: MPL-2.0

// Package runner executes container engine invocations as local processes.
// It implements container.ProcessRunner on top of os/exec.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"

	"github.com/invowk/ctrkit/internal/cmdline"
	"github.com/invowk/ctrkit/internal/container"
)

const (
	// DefaultAttempts is the number of tries for a retryable invocation.
	DefaultAttempts = 3
	// DefaultInitialBackoff is the delay before the first retry.
	DefaultInitialBackoff = 500 * time.Millisecond

	// stderrLimit bounds the stderr kept for error messages.
	stderrLimit = 64 * 1024
)

type (
	// ExecCommandFunc creates the exec.Cmd for an invocation. Tests replace it
	// to run a helper process instead of a real engine.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Option configures a Runner.
	Option func(*Runner)

	// Runner runs invocations with os/exec. The zero value is not usable;
	// create one with New. A Runner is safe for concurrent use.
	Runner struct {
		execCommand    ExecCommandFunc
		attempts       int
		initialBackoff time.Duration
		env            []string
		progress       io.Writer
		logger         *slog.Logger
	}
)

var _ container.ProcessRunner = (*Runner)(nil)

// WithExecCommand replaces process creation.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(r *Runner) {
		if fn != nil {
			r.execCommand = fn
		}
	}
}

// WithRetry sets the attempts and initial backoff for retryable
// invocations. attempts below 1 disables retries.
func WithRetry(attempts int, initialBackoff time.Duration) Option {
	return func(r *Runner) {
		r.attempts = max(attempts, 1)
		if initialBackoff > 0 {
			r.initialBackoff = initialBackoff
		}
	}
}

// WithEnv appends KEY=value pairs to the inherited environment.
func WithEnv(env ...string) Option {
	return func(r *Runner) { r.env = append(r.env, env...) }
}

// WithProgress forwards stdout of void invocations, such as pull and build
// progress, to w. By default it is discarded.
func WithProgress(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.progress = w
		}
	}
}

// WithLogger sets the logger for invocation tracing.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		execCommand:    exec.CommandContext,
		attempts:       DefaultAttempts,
		initialBackoff: DefaultInitialBackoff,
		progress:       io.Discard,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes inv and waits for it. Stdout goes to the progress writer.
func (r *Runner) Run(ctx context.Context, inv container.Invocation) error {
	return r.withRetry(ctx, inv, func() error {
		cmd, stderr, err := r.command(ctx, inv)
		if err != nil {
			return err
		}
		cmd.Stdout = r.progress
		if err := cmd.Run(); err != nil {
			return newProcessError(inv, err, stderr)
		}
		return nil
	})
}

// Output executes inv and returns its complete stdout.
func (r *Runner) Output(ctx context.Context, inv container.Invocation) (string, error) {
	var out bytes.Buffer
	err := r.withRetry(ctx, inv, func() error {
		out.Reset()
		cmd, stderr, err := r.command(ctx, inv)
		if err != nil {
			return err
		}
		cmd.Stdout = &out
		if err := cmd.Run(); err != nil {
			return newProcessError(inv, err, stderr)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// Stream starts inv and returns its stdout as it is produced. The process
// exit status is reported as the read error after the last byte: a clean
// exit reads as io.EOF and a failure as a *ProcessError. Closing the reader
// stops the process and waits for it.
func (r *Runner) Stream(ctx context.Context, inv container.Invocation) (io.ReadCloser, error) {
	ctx, cancel := context.WithCancel(ctx)
	cmd, stderr, err := r.command(ctx, inv)
	if err != nil {
		cancel()
		return nil, err
	}

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, newProcessError(inv, err, stderr)
	}

	var g errgroup.Group
	g.Go(func() error {
		err := cmd.Wait()
		if err != nil {
			err = newProcessError(inv, err, stderr)
		}
		pw.CloseWithError(err)
		return err
	})

	return &streamReader{PipeReader: pr, cancel: cancel, wait: g.Wait}, nil
}

// command builds the exec.Cmd for inv with stdin, environment and a
// stderr capture attached.
func (r *Runner) command(ctx context.Context, inv container.Invocation) (*exec.Cmd, *tailBuffer, error) {
	argv, err := Argv(inv.Args)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", inv.Command, err)
	}
	r.logger.DebugContext(ctx, "running engine command",
		"command", inv.Command,
		"args", cmdline.Display(inv.Command, inv.Args),
		"retryable", inv.Retryable)

	cmd := r.execCommand(ctx, inv.Command, argv...)
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}
	if inv.Stdin != nil {
		cmd.Stdin = inv.Stdin
	}
	stderr := &tailBuffer{limit: stderrLimit}
	cmd.Stderr = stderr
	return cmd, stderr, nil
}

// Argv converts built arguments into process arguments. Verbatim tokens,
// such as user-supplied custom options, are split into fields with shell
// rules and environment expansion; every other token is one argument.
func Argv(args cmdline.Args) ([]string, error) {
	argv := make([]string, 0, len(args))
	for _, a := range args {
		if a.Quoting != cmdline.QuotingNone {
			argv = append(argv, a.Value)
			continue
		}
		fields, err := splitFields(a.Value)
		if err != nil {
			return nil, fmt.Errorf("splitting %q: %w", a.Value, err)
		}
		argv = append(argv, fields...)
	}
	return argv, nil
}

func splitFields(s string) ([]string, error) {
	var words []*syntax.Word
	err := syntax.NewParser().Words(strings.NewReader(s), func(w *syntax.Word) bool {
		words = append(words, w)
		return true
	})
	if err != nil {
		return nil, err
	}
	cfg := &expand.Config{Env: expand.ListEnviron(os.Environ()...)}
	return expand.Fields(cfg, words...)
}

// streamReader ties a pipe to the process that writes into it.
type streamReader struct {
	*io.PipeReader
	cancel context.CancelFunc
	wait   func() error
	once   sync.Once
}

// Close stops the process if it is still running and waits for it. An exit
// caused by the close itself is not an error.
func (s *streamReader) Close() error {
	s.once.Do(func() {
		_ = s.PipeReader.Close()
		s.cancel()
		_ = s.wait()
	})
	return nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	if b == nil {
		return ""
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
