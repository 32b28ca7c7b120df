// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/invowk/ctrkit/internal/issue"
	"github.com/invowk/ctrkit/internal/runner"
)

// Exit codes returned by the CLI in addition to engine exit codes, which
// are passed through for failed engine commands.
const (
	exitFailure        = 1
	exitUsage          = 2
	exitEngineNotFound = 127
	exitCancelled      = 130
)

// classify maps an error to its issue catalog entry and exit code. A zero Id
// means the error has no catalog entry.
func classify(err error) (issue.Id, int) {
	id := issue.Classify(err)
	switch id {
	case issue.EngineNotFoundId:
		return id, exitEngineNotFound
	case issue.OperationCancelledId:
		return id, exitCancelled
	case issue.ConfigLoadFailedId:
		return id, exitUsage
	}

	var (
		cfgErr  *configLoadError
		procErr *runner.ProcessError
	)
	switch {
	case errors.As(err, &cfgErr):
		return issue.ConfigLoadFailedId, exitUsage
	case errors.As(err, &procErr) && procErr.ExitCode > 0:
		return id, procErr.ExitCode
	default:
		return id, exitFailure
	}
}

// fail renders the catalog entry for err on stderr and returns an ExitError
// carrying the matching exit code.
func (a *App) fail(err error) error {
	id, code := classify(err)
	if id != 0 {
		if entry := issue.Get(id); entry != nil {
			rendered, renderErr := entry.Render("dark")
			if renderErr != nil {
				a.slogger().Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
			} else {
				fmt.Fprint(a.stderr, rendered)
			}
		}
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.HasSuggestions() {
		fmt.Fprintln(a.stderr, WarningStyle.Render(ae.Format(a.verbose())))
	}
	return &ExitError{Code: code, Err: err}
}
