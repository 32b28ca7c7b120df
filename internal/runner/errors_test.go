// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsTransientError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "wrapped context deadline", err: fmt.Errorf("pull: %w", context.DeadlineExceeded), want: false},
		{name: "generic error", err: errors.New("no such image"), want: false},
		{name: "exit code 1", err: &ProcessError{ExitCode: 1, Err: errors.New("exit status 1")}, want: false},
		{
			name: "cancelled process with engine exit code",
			err:  &ProcessError{ExitCode: 125, Err: context.Canceled},
			want: false,
		},

		{name: "exit code 125", err: &ProcessError{ExitCode: 125, Err: errors.New("exit status 125")}, want: true},
		{
			name: "wrapped exit code 125",
			err:  fmt.Errorf("run docker: %w", &ProcessError{ExitCode: 125, Err: errors.New("exit status 125")}),
			want: true,
		},
		{name: "ping_group_range", err: errors.New("error reading /proc/sys/net/ipv4/ping_group_range"), want: true},
		{name: "OCI runtime error", err: errors.New("OCI runtime error: container_linux.go"), want: true},
		{name: "could not resolve host", err: errors.New("Could not resolve host: registry-1.docker.io"), want: true},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: true},
		{name: "tls handshake", err: errors.New("net/http: TLS handshake timeout"), want: true},
		{name: "overlay mount", err: errors.New("error creating overlay mount to /var/lib/containers"), want: true},
		{
			name: "stderr marker",
			err:  &ProcessError{ExitCode: 1, Stderr: "Error: i/o timeout", Err: errors.New("exit status 1")},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsTransientError(tt.err); got != tt.want {
				t.Errorf("IsTransientError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestProcessError_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("exit status 1")
	tests := []struct {
		name string
		err  *ProcessError
		want string
	}{
		{
			name: "without stderr",
			err:  &ProcessError{Command: "docker ps", ExitCode: 1, Err: boom},
			want: "command docker ps failed: exit status 1",
		},
		{
			name: "last stderr line",
			err:  &ProcessError{Command: "docker ps", ExitCode: 1, Stderr: "a\nCannot connect", Err: boom},
			want: "command docker ps failed: exit status 1: Cannot connect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, boom) {
				t.Error("errors.Is(err, cause) = false")
			}
		})
	}
}
