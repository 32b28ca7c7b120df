// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"

	"github.com/invowk/ctrkit/internal/config"
	"github.com/invowk/ctrkit/internal/container"
	"github.com/invowk/ctrkit/internal/runner"
)

type (
	// App wires CLI services and shared dependencies. All Cobra handlers
	// receive it through the cli value and never reach for globals.
	App struct {
		Config    ConfigProvider
		NewRunner RunnerFactory
		NewClient ClientFactory
		stdin     io.Reader
		stdout    io.Writer
		stderr    io.Writer
		logger    *charmlog.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		NewRunner RunnerFactory
		NewClient ClientFactory
		Stdin     io.Reader
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// RunnerFactory builds the process runner for one CLI invocation.
	// progress receives the stdout of void commands such as pull and build.
	RunnerFactory func(cfg *config.Config, progress io.Writer, logger *slog.Logger) container.ProcessRunner

	// ClientFactory resolves an engine kind to a client.
	ClientFactory func(kind container.EngineKind, opts ...container.ClientOption) (*container.Client, error)
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:    deps.Config,
		NewRunner: deps.NewRunner,
		NewClient: deps.NewClient,
		stdin:     deps.Stdin,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.NewRunner == nil {
		app.NewRunner = newProcessRunner
	}
	if app.NewClient == nil {
		app.NewClient = container.NewClient
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	app.logger = charmlog.NewWithOptions(app.stderr, charmlog.Options{
		Prefix: "ctrkit",
		Level:  charmlog.WarnLevel,
	})
	return app
}

func newProcessRunner(cfg *config.Config, progress io.Writer, logger *slog.Logger) container.ProcessRunner {
	return runner.New(
		runner.WithRetry(cfg.Retry.Attempts, cfg.Retry.InitialBackoff),
		runner.WithProgress(progress),
		runner.WithLogger(logger),
	)
}

// setVerbose switches engine invocation logging on.
func (a *App) setVerbose(verbose bool) {
	if verbose {
		a.logger.SetLevel(charmlog.DebugLevel)
	}
}

func (a *App) verbose() bool {
	return a.logger.GetLevel() <= charmlog.DebugLevel
}

// slogger exposes the charm logger as a log/slog handler.
func (a *App) slogger() *slog.Logger {
	return slog.New(a.logger)
}
