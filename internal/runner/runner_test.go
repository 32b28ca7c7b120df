// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/invowk/ctrkit/internal/cmdline"
	"github.com/invowk/ctrkit/internal/container"
)

func TestArgv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args cmdline.Args
		want []string
	}{
		{
			name: "quoted tokens pass through",
			args: cmdline.Args{cmdline.Escaped("run"), cmdline.Quoted("a b"), cmdline.InnerQuoted(`{{json .}}`)},
			want: []string{"run", "a b", `{{json .}}`},
		},
		{
			name: "verbatim splits on shell rules",
			args: cmdline.Args{cmdline.Escaped("run"), cmdline.Verbatim(`--cpus 2 --label "team=core ops"`), cmdline.Escaped("alpine")},
			want: []string{"run", "--cpus", "2", "--label", "team=core ops", "alpine"},
		},
		{
			name: "empty verbatim adds nothing",
			args: cmdline.Args{cmdline.Verbatim(""), cmdline.Escaped("ps")},
			want: []string{"ps"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Argv(tt.args)
			if err != nil {
				t.Fatalf("Argv() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Argv() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := Argv(cmdline.Args{cmdline.Verbatim(`--label "unterminated`)}); err == nil {
		t.Error("Argv(unterminated quote) error = nil")
	}
}

func TestArgv_ExpandsEnvironment(t *testing.T) {
	t.Setenv("CTRKIT_TEST_MEMORY", "512m")

	got, err := Argv(cmdline.Args{cmdline.Verbatim("--memory $CTRKIT_TEST_MEMORY")})
	if err != nil {
		t.Fatalf("Argv() error = %v", err)
	}
	if want := []string{"--memory", "512m"}; !slices.Equal(got, want) {
		t.Errorf("Argv() = %q, want %q", got, want)
	}
}

func TestRunner_Output(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder(helperScript{Stdout: `{"ID":"abc"}` + "\n"})
	r := New(WithExecCommand(rec.CommandFunc(t)))

	resp, err := container.NewDockerClient().ListImages(container.ListImagesOptions{})
	if err != nil {
		t.Fatalf("ListImages() error = %v", err)
	}
	out, err := r.Output(t.Context(), container.Invocation{Command: resp.Command, Args: resp.Args})
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if out != `{"ID":"abc"}`+"\n" {
		t.Errorf("Output() = %q", out)
	}

	calls := rec.Calls()
	if len(calls) != 1 {
		t.Fatalf("recorded %d calls, want 1", len(calls))
	}
	want := append([]string{"docker"}, resp.Args.Values()...)
	if !slices.Equal(calls[0], want) {
		t.Errorf("argv = %q, want %q", calls[0], want)
	}
}

func TestRunner_ProcessError(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder(helperScript{ExitCode: 2, Stderr: "warming up\nError: No such container: web\n"})
	r := New(WithExecCommand(rec.CommandFunc(t)))

	err := r.Run(t.Context(), container.Invocation{Command: "docker", Args: cmdline.Strings("container", "rm", "web")})
	var pe *ProcessError
	if !errors.As(err, &pe) {
		t.Fatalf("Run() error = %v, want *ProcessError", err)
	}
	if pe.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", pe.ExitCode)
	}
	if !strings.HasSuffix(err.Error(), "Error: No such container: web") {
		t.Errorf("Error() = %q, want the last stderr line", err.Error())
	}
	if pe.Command != "docker container rm web" {
		t.Errorf("Command = %q", pe.Command)
	}
}

func TestRunner_Progress(t *testing.T) {
	t.Parallel()

	var progress bytes.Buffer
	rec := newCommandRecorder(helperScript{Stdout: "Pulling fs layer\n"})
	r := New(WithExecCommand(rec.CommandFunc(t)), WithProgress(&progress))

	if err := r.Run(t.Context(), container.Invocation{Command: "docker", Args: cmdline.Strings("pull", "alpine")}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if progress.String() != "Pulling fs layer\n" {
		t.Errorf("progress = %q", progress.String())
	}
}

func TestRunner_Stdin(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder(helperScript{EchoStdin: true})
	r := New(WithExecCommand(rec.CommandFunc(t)))

	out, err := r.Output(t.Context(), container.Invocation{
		Command: "docker",
		Args:    cmdline.Strings("login", "--password-stdin"),
		Stdin:   strings.NewReader("s3cret"),
	})
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if out != "s3cret" {
		t.Errorf("Output() = %q, want stdin echoed", out)
	}
}

func TestRunner_Retry(t *testing.T) {
	t.Parallel()

	transient := helperScript{ExitCode: 125, Stderr: "OCI runtime error"}
	ok := helperScript{Stdout: "done"}
	permanent := helperScript{ExitCode: 1, Stderr: "Error: no such image"}

	tests := []struct {
		name      string
		scripts   []helperScript
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"retryable recovers", []helperScript{transient, transient, ok}, true, 3, false},
		{"retryable exhausts", []helperScript{transient}, true, 3, true},
		{"permanent stops", []helperScript{permanent, ok}, true, 1, true},
		{"not retryable", []helperScript{transient, ok}, false, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := newCommandRecorder(tt.scripts...)
			r := New(WithExecCommand(rec.CommandFunc(t)), WithRetry(3, time.Millisecond))

			out, err := r.Output(t.Context(), container.Invocation{
				Command:   "podman",
				Args:      cmdline.Strings("image", "ls"),
				Retryable: tt.retryable,
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Output() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && out != "done" {
				t.Errorf("Output() = %q, want done", out)
			}
			if got := len(rec.Calls()); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestRunner_RetryStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	rec := newCommandRecorder(helperScript{ExitCode: 125})
	r := New(WithExecCommand(func(c context.Context, name string, args ...string) *exec.Cmd {
		cancel()
		return rec.CommandFunc(t)(c, name, args...)
	}), WithRetry(5, time.Second))

	err := r.Run(ctx, container.Invocation{Command: "docker", Args: cmdline.Strings("info"), Retryable: true})
	if err == nil {
		t.Fatal("Run() error = nil")
	}
	if got := len(rec.Calls()); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestRunner_Stream(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder(helperScript{Stdout: "line 1\nline 2\n"})
	r := New(WithExecCommand(rec.CommandFunc(t)))

	rc, err := r.Stream(t.Context(), container.Invocation{Command: "docker", Args: cmdline.Strings("logs", "web")})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(b) != "line 1\nline 2\n" {
		t.Errorf("ReadAll() = %q", b)
	}
	if err := rc.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestRunner_StreamExitFailure(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder(helperScript{Stdout: "partial\n", ExitCode: 3, Stderr: "boom"})
	r := New(WithExecCommand(rec.CommandFunc(t)))

	rc, err := r.Stream(t.Context(), container.Invocation{Command: "docker", Args: cmdline.Strings("events")})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	var pe *ProcessError
	if !errors.As(err, &pe) || pe.ExitCode != 3 {
		t.Fatalf("ReadAll() error = %v, want *ProcessError with exit code 3", err)
	}
	if string(b) != "partial\n" {
		t.Errorf("ReadAll() = %q, want output before the failure", b)
	}
}

func TestRunner_StreamCloseStopsProcess(t *testing.T) {
	t.Parallel()

	rec := newCommandRecorder(helperScript{Stdout: "first\n", Sleep: time.Minute})
	r := New(WithExecCommand(rec.CommandFunc(t)))

	rc, err := r.Stream(t.Context(), container.Invocation{Command: "docker", Args: cmdline.Strings("events")})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	buf := make([]byte, len("first\n"))
	if _, err := io.ReadFull(rc, buf); err != nil {
		t.Fatalf("ReadFull() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		_ = rc.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Close() did not stop the process")
	}
}

func TestRunner_StartError(t *testing.T) {
	t.Parallel()

	r := New()
	_, err := r.Output(t.Context(), container.Invocation{Command: "ctrkit-no-such-engine-binary", Args: cmdline.Strings("ps")})
	var pe *ProcessError
	if !errors.As(err, &pe) || pe.ExitCode != -1 {
		t.Errorf("Output() error = %v, want *ProcessError with exit code -1", err)
	}
}
