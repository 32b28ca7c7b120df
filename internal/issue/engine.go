// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/ctrkit/internal/container"
	"github.com/invowk/ctrkit/internal/runner"
)

// maxRecordHint bounds how much of a rejected record is quoted in a hint.
const maxRecordHint = 80

// Classify returns the catalog entry for err, or zero when it has none. An
// Id already set on an ActionableError in the chain wins.
func Classify(err error) Id {
	var (
		ae      *ActionableError
		procErr *runner.ProcessError
	)
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ae) && ae.Id != 0:
		return ae.Id
	case errors.Is(err, container.ErrEngineNotFound):
		return EngineNotFoundId
	case errors.Is(err, container.ErrCancelled), errors.Is(err, context.Canceled):
		return OperationCancelledId
	case errors.Is(err, container.ErrNotSupported):
		return OperationNotSupportedId
	case errors.Is(err, container.ErrAPIVersion):
		return APIVersionMismatchId
	case errors.Is(err, container.ErrParse):
		return OutputParseFailedId
	case errors.As(err, &procErr):
		if strings.Contains(strings.ToLower(procErr.Stderr), "permission denied") {
			return PermissionDeniedId
		}
		return EngineCommandFailedId
	default:
		return 0
	}
}

// ForEngine starts an error for an operation run against engine. The
// catalog entry and the hints are derived from err. Callers may add more
// hints before building.
func ForEngine(err error, operation, engine string) *ErrorContext {
	id := Classify(err)
	c := NewErrorContext().
		WithIssue(id).
		WithOperation(operation).
		WithResource(engine).
		Wrap(err)

	switch id {
	case EngineNotFoundId:
		c.WithSuggestion("Install Docker or Podman, or point --command at the engine binary")
	case EngineCommandFailedId:
		c.WithSuggestion("Run with --verbose to log the exact engine command")
		c.WithSuggestion("Check that the engine daemon or machine is running")
	case PermissionDeniedId:
		c.WithSuggestion("Add your user to the docker group or use rootless podman")
	case OutputParseFailedId:
		var pe *container.ParseError
		if errors.As(err, &pe) && pe.Line > 0 {
			c.WithSuggestion(fmt.Sprintf("Line %d of the %s output was rejected: %s", pe.Line, pe.Operation, truncate(pe.Record)))
		}
		c.WithSuggestion("Retry without --strict to skip malformed records")
	case OperationNotSupportedId:
		var ns *container.NotSupportedError
		if errors.As(err, &ns) && ns.Engine != "" {
			c.WithSuggestion(fmt.Sprintf("%s cannot %s; select another engine with --engine", ns.Engine, ns.Operation))
		} else {
			c.WithSuggestion("Select another engine with --engine")
		}
	case APIVersionMismatchId:
		c.WithSuggestion("Upgrade the engine")
	}
	return c
}

func truncate(record string) string {
	if len(record) <= maxRecordHint {
		return record
	}
	return record[:maxRecordHint] + "…"
}
