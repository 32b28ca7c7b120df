// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/invowk/ctrkit/internal/container"
)

// exitCodeEngineError is the generic container engine failure code used by
// both docker and podman.
const exitCodeEngineError = 125

// ProcessError describes an engine process that could not start or exited
// unsuccessfully.
type ProcessError struct {
	// Command is the rendered command line.
	Command string
	// ExitCode is the process exit code, or -1 when it never ran.
	ExitCode int
	// Stderr holds the tail of the process stderr.
	Stderr string
	Err    error
}

func newProcessError(inv container.Invocation, err error, stderr *tailBuffer) *ProcessError {
	pe := &ProcessError{
		Command:  inv.String(),
		ExitCode: -1,
		Stderr:   strings.TrimSpace(stderr.String()),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		pe.ExitCode = exitErr.ExitCode()
	}
	return pe
}

func (e *ProcessError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("command %s failed: %v: %s", e.Command, e.Err, lastLine(e.Stderr))
}

func (e *ProcessError) Unwrap() error { return e.Err }

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// IsTransientError reports whether err is a container engine failure that may
// succeed on retry: generic engine errors (exit code 125), rootless Podman
// races, network failures while talking to a registry and storage driver
// glitches. Context cancellation is never transient.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pe *ProcessError
	if errors.As(err, &pe) && pe.ExitCode == exitCodeEngineError {
		return true
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == exitCodeEngineError {
		return true
	}

	errStr := err.Error()
	for _, marker := range transientMarkers {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}

var transientMarkers = []string{
	// Rootless Podman races and OCI runtime errors.
	"ping_group_range",
	"OCI runtime error",
	// Registry and DNS failures.
	"Temporary failure resolving",
	"Could not resolve host",
	"connection timed out",
	"connection refused",
	"TLS handshake timeout",
	"i/o timeout",
	// Overlay mount races.
	"error creating overlay mount",
	"error mounting layer",
}
