// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/invowk/ctrkit/internal/cmdline"
	"github.com/invowk/ctrkit/internal/config"
	"github.com/invowk/ctrkit/internal/container"
	"github.com/invowk/ctrkit/internal/issue"
)

type (
	// session is the per-invocation state derived from configuration and
	// global flags.
	session struct {
		cfg *config.Config
		// exec builds the argv that is run. Executed commands bypass any
		// shell, so exec never quotes for one.
		exec *container.Client
		// render builds the command lines printed by --dry-run, quoted for
		// the configured shell.
		render *container.Client
		shell  cmdline.Shell
		runner container.ProcessRunner
		policy container.Policy
		dryRun bool
		out    *printer
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
	}

	// configLoadError marks failures to load or validate configuration.
	configLoadError struct {
		err error
	}

	actionFunc func(ctx context.Context, s *session, args []string) error
)

func (e *configLoadError) Error() string { return e.err.Error() }

func (e *configLoadError) Unwrap() error { return e.err }

// action adapts a handler to cobra, building the session first and mapping
// failures to rendered issues and exit codes.
func (c *cli) action(fn actionFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := c.newSession(cmd)
		if err != nil {
			return c.app.fail(err)
		}
		if err := fn(cmd.Context(), s, args); err != nil {
			return c.app.fail(err)
		}
		return nil
	}
}

// loadConfig loads the configuration and applies global flag overrides.
func (c *cli) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := c.app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: c.flags.configPath})
	if err != nil {
		return nil, &configLoadError{err: err}
	}
	if err := applyFlags(cfg, &c.flags, cmd.Flags()); err != nil {
		return nil, &configLoadError{err: err}
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, g *globalFlags, flags *pflag.FlagSet) error {
	if flags.Changed("engine") {
		cfg.Engine = config.EngineName(g.engine)
	}
	if flags.Changed("command") {
		cfg.Command = config.BinaryFilePath(g.command)
	}
	if flags.Changed("shell") {
		cfg.Shell = config.ShellName(g.shell)
	}
	if flags.Changed("output") {
		cfg.UI.Output = config.OutputFormat(g.output)
	}
	if g.verbose {
		cfg.UI.Verbose = true
	}
	if g.strict {
		cfg.Strict = config.StrictConfig{Query: true, List: true, Inspect: true, Stream: true}
	}
	if valid, errs := cfg.IsValid(); !valid {
		return issue.NewErrorContext().
			WithIssue(issue.ConfigLoadFailedId).
			WithOperation("apply command-line flags").
			WithSuggestion("Run 'ctrkit --help' to list accepted flag values").
			Wrap(errors.Join(errs...)).
			BuildError()
	}
	return nil
}

func (c *cli) newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	c.app.setVerbose(cfg.UI.Verbose)

	shell, err := cmdline.ShellByName(string(cfg.Shell))
	if err != nil {
		return nil, err
	}

	command := container.WithCommandName(string(cfg.Command))
	exec, err := c.app.NewClient(container.EngineKind(cfg.Engine), command)
	if err != nil {
		// A dry run only renders text, so it does not need an installed engine.
		if !c.flags.dryRun || !errors.Is(err, container.ErrEngineNotFound) {
			return nil, err
		}
		exec = container.NewDockerClient(command)
	}
	render := exec
	if _, none := shell.(cmdline.NoShell); !none {
		if render, err = c.app.NewClient(exec.Kind(), command, container.WithShell(shell)); err != nil {
			return nil, err
		}
	}

	policy := container.Policy{
		Query:   cfg.Strict.Query,
		List:    cfg.Strict.List,
		Inspect: cfg.Strict.Inspect,
		Stream:  cfg.Strict.Stream,
	}

	return &session{
		cfg:    cfg,
		exec:   exec,
		render: render,
		shell:  shell,
		runner: c.app.NewRunner(cfg, c.app.stdout, c.app.slogger()),
		policy: policy,
		dryRun: c.flags.dryRun,
		out:    &printer{w: c.app.stdout, format: cfg.UI.Output},
		stdin:  c.app.stdin,
		stdout: c.app.stdout,
		stderr: c.app.stderr,
	}, nil
}

// client returns the client whose responses are run or printed.
func (s *session) client() *container.Client {
	if s.dryRun {
		return s.render
	}
	return s.exec
}

// commandLine renders command and args for the configured shell.
func (s *session) commandLine(command string, args cmdline.Args) string {
	if _, none := s.shell.(cmdline.NoShell); none {
		return cmdline.Display(command, args)
	}
	return strings.Join(append([]string{command}, s.shell.Quote(args)...), " ")
}

func (s *session) printCommand(command string, args cmdline.Args) {
	fmt.Fprintln(s.stdout, s.commandLine(command, args))
}

// wrap attaches the operation and engine to err.
func (s *session) wrap(err error, op string) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}
	return issue.ForEngine(err, op, s.exec.DisplayName).BuildError()
}

// promise builds a promise response with the session's client and runs it.
// ran is false after a dry run.
func promise[T any](ctx context.Context, s *session, op string, build func(*container.Client) (container.PromiseResponse[T], error)) (result T, ran bool, err error) {
	resp, err := build(s.client())
	if err != nil {
		return result, false, s.wrap(err, op)
	}
	return runPromise(ctx, s, op, resp)
}

func runPromise[T any](ctx context.Context, s *session, op string, resp container.PromiseResponse[T]) (result T, ran bool, err error) {
	if s.dryRun {
		s.printCommand(resp.Command, resp.Args)
		return result, false, nil
	}
	result, err = container.RunPromise(ctx, s.runner, resp, s.policy)
	if err != nil {
		return result, false, s.wrap(err, op)
	}
	return result, true, nil
}

// void builds a void response and runs it. input, when set, replaces the
// response's own stdin payload.
func void(ctx context.Context, s *session, op string, input io.Reader, build func(*container.Client) (container.VoidResponse, error)) (ran bool, err error) {
	resp, err := build(s.client())
	if err != nil {
		return false, s.wrap(err, op)
	}
	return runVoid(ctx, s, op, input, resp)
}

func runVoid(ctx context.Context, s *session, op string, input io.Reader, resp container.VoidResponse) (bool, error) {
	if s.dryRun {
		s.printCommand(resp.Command, resp.Args)
		return false, nil
	}
	var err error
	if input != nil {
		err = container.RunVoidWithInput(ctx, s.runner, resp, input)
	} else {
		err = container.RunVoid(ctx, s.runner, resp)
	}
	if err != nil {
		return false, s.wrap(err, op)
	}
	return true, nil
}

// generator builds a generator response and feeds every item to each until
// the stream ends, each fails or ctx is done.
func generator[T any](ctx context.Context, s *session, op string, build func(*container.Client) (container.GeneratorResponse[T], error), each func(T) error) error {
	resp, err := build(s.client())
	if err != nil {
		return s.wrap(err, op)
	}
	return runGenerator(ctx, s, op, resp, each)
}

func runGenerator[T any](ctx context.Context, s *session, op string, resp container.GeneratorResponse[T], each func(T) error) error {
	if s.dryRun {
		s.printCommand(resp.Command, resp.Args)
		return nil
	}
	stream, err := container.RunGenerator(ctx, s.runner, resp, s.policy)
	if err != nil {
		return s.wrap(err, op)
	}
	defer func() { _ = stream.Close() }()

	for item, err := range stream.All() {
		if err != nil {
			return s.wrap(err, op)
		}
		if err := each(item); err != nil {
			return err
		}
	}
	return nil
}
