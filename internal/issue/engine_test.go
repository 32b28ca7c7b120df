// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/invowk/ctrkit/internal/container"
	"github.com/invowk/ctrkit/internal/runner"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Id
	}{
		{"nil", nil, 0},
		{"engine not found", fmt.Errorf("detect: %w", container.ErrEngineNotFound), EngineNotFoundId},
		{"stream cancelled", &container.CancellationError{Cause: context.Canceled}, OperationCancelledId},
		{"context cancelled", fmt.Errorf("wait: %w", context.Canceled), OperationCancelledId},
		{"not supported", &container.NotSupportedError{Operation: "inspectContexts", Engine: "Podman"}, OperationNotSupportedId},
		{"api version", fmt.Errorf("server 1.40: %w", container.ErrAPIVersion), APIVersionMismatchId},
		{"parse", &container.ParseError{Operation: "listImages", Line: 2, Err: errors.New("bad")}, OutputParseFailedId},
		{"permission denied", &runner.ProcessError{ExitCode: 1, Stderr: "Got PERMISSION DENIED while trying to connect"}, PermissionDeniedId},
		{"engine failure", &runner.ProcessError{ExitCode: 125, Stderr: "No such image"}, EngineCommandFailedId},
		{
			"tagged error wins",
			NewErrorContext().WithIssue(ConfigLoadFailedId).WithOperation("load configuration").Wrap(context.Canceled).BuildError(),
			ConfigLoadFailedId,
		},
		{"untagged wrapper", NewErrorContext().WithOperation("list volumes").Wrap(container.ErrParse).BuildError(), OutputParseFailedId},
		{"plain", errors.New("something"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestForEngine(t *testing.T) {
	t.Parallel()

	longRecord := `{"ID":"` + strings.Repeat("a", 100) + `"}`

	tests := []struct {
		name    string
		err     error
		op      string
		wantID  Id
		wantSug []string
	}{
		{
			name:    "engine command failed",
			err:     &runner.ProcessError{Command: "docker volume rm data", ExitCode: 1, Stderr: "volume is in use"},
			op:      "remove volumes",
			wantID:  EngineCommandFailedId,
			wantSug: []string{"Run with --verbose to log the exact engine command", "Check that the engine daemon or machine is running"},
		},
		{
			name:    "not supported names the engine and operation",
			err:     &container.NotSupportedError{Operation: "inspectContexts", Engine: "Podman"},
			op:      "inspect contexts",
			wantID:  OperationNotSupportedId,
			wantSug: []string{"Podman cannot inspectContexts; select another engine with --engine"},
		},
		{
			name:   "parse failure quotes the rejected line",
			err:    fmt.Errorf("strict: %w", &container.ParseError{Operation: "listContainers", Line: 3, Record: longRecord, Err: errors.New("unrecognized port")}),
			op:     "list containers",
			wantID: OutputParseFailedId,
			wantSug: []string{
				"Line 3 of the listContainers output was rejected: " + longRecord[:maxRecordHint] + "…",
				"Retry without --strict to skip malformed records",
			},
		},
		{
			name:    "document parse failure",
			err:     &container.ParseError{Operation: "version", Err: errors.New("empty output")},
			op:      "query engine version",
			wantID:  OutputParseFailedId,
			wantSug: []string{"Retry without --strict to skip malformed records"},
		},
		{
			name:    "cancelled has no hints",
			err:     &container.CancellationError{Cause: context.Canceled},
			op:      "stream events",
			wantID:  OperationCancelledId,
			wantSug: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ForEngine(tt.err, tt.op, "Docker").BuildError()
			var ae *ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("ForEngine().BuildError() = %T, want *ActionableError", err)
			}
			if ae.Id != tt.wantID || ae.Operation != tt.op || ae.Resource != "Docker" {
				t.Errorf("ForEngine() = %+v, want id %v for %q on Docker", ae, tt.wantID, tt.op)
			}
			if !errors.Is(err, tt.err) {
				t.Error("ForEngine() should wrap the engine error")
			}
			if strings.Join(ae.Suggestions, "|") != strings.Join(tt.wantSug, "|") {
				t.Errorf("Suggestions = %q, want %q", ae.Suggestions, tt.wantSug)
			}
		})
	}
}

func TestForEngine_ExtraSuggestions(t *testing.T) {
	t.Parallel()

	err := ForEngine(fmt.Errorf("1.40 does not satisfy >= 1.41: %w", container.ErrAPIVersion), "verify engine API version", "Docker").
		WithSuggestion("Relax min_api_version in 'config.cue'").
		BuildError()

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("BuildError() = %T, want *ActionableError", err)
	}
	want := []string{"Upgrade the engine", "Relax min_api_version in 'config.cue'"}
	if ae.Id != APIVersionMismatchId || strings.Join(ae.Suggestions, "|") != strings.Join(want, "|") {
		t.Errorf("ForEngine() = %+v, want id %v and suggestions %q", ae, APIVersionMismatchId, want)
	}
}
