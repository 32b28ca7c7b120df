// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/invowk/ctrkit/internal/cmdline"
)

// POSIX containers are listed with stat(1) and Windows containers with dir.
// Both run through exec because no engine has a portable listing verb.

// listScript stats the visible entries of dir and then the hidden ones. The
// first glob fails on a directory without visible entries, which must not
// prevent the second.
func listScript(dir string) string {
	prefix := strings.TrimRight(dir, "/")
	return fmt.Sprintf(`stat -c '%[1]s' "%[2]s/"* || true && stat -c '%[1]s' "%[2]s/".*`, statFormat, prefix)
}

func statScript(p string) string {
	return fmt.Sprintf(`stat -c '%s' "%s" || true`, statFormat, p)
}

func posixExec(container, script string) cmdline.Args {
	return execContainerArgs(
		ExecContainerOptions{Container: container, Interactive: true},
		cmdline.Escaped("/bin/sh"), cmdline.Escaped("-c"), cmdline.Quoted(script),
	)
}

// windowsExec runs script with cmd. Paths inside the script are left
// unquoted because cd accepts them as is and no quoting form survives both
// the engine and cmd.
func windowsExec(container, script string) cmdline.Args {
	return execContainerArgs(
		ExecContainerOptions{Container: container, Interactive: true},
		cmdline.Escaped("cmd"), cmdline.Escaped("/C"), cmdline.Quoted(script),
	)
}

func dirScript(dir string) string {
	return "cd " + dir + " & dir /A-S /-C"
}

func listFilesOp(c *Client, opts ListFilesOptions) (PromiseResponse[[]ListFilesItem], error) {
	dir := opts.Path
	if opts.OS == OSWindows {
		args := windowsExec(opts.Container, dirScript(dir))
		return promise(c, ClassInspect, args, func(out string, _ bool) ([]ListFilesItem, error) {
			return ParseListFilesWindows(dir, out), nil
		}), nil
	}
	args := posixExec(opts.Container, listScript(dir))
	return promise(c, ClassInspect, args, func(out string, _ bool) ([]ListFilesItem, error) {
		return ParseListFilesLinux(dir, out), nil
	}), nil
}

// statPathOp describes a single path. A missing path yields a nil item.
func statPathOp(c *Client, opts StatPathOptions) (PromiseResponse[*ListFilesItem], error) {
	p := opts.Path
	if opts.OS == OSWindows {
		dir, base := windowsSplit(p)
		args := windowsExec(opts.Container, dirScript(dir))
		return promise(c, ClassInspect, args, func(out string, _ bool) (*ListFilesItem, error) {
			for line := range strings.SplitSeq(out, "\n") {
				item, ok := ParseDirLine(line)
				if !ok || !strings.EqualFold(item.Name, base) {
					continue
				}
				item.Path = windowsJoin(dir, item.Name)
				return &item, nil
			}
			return nil, nil
		}), nil
	}
	args := posixExec(opts.Container, statScript(p))
	return promise(c, ClassInspect, args, func(out string, _ bool) (*ListFilesItem, error) {
		for line := range strings.SplitSeq(out, "\n") {
			item, ok := ParseStatLine(line)
			if !ok {
				continue
			}
			item.Path = p
			return &item, nil
		}
		return nil, nil
	}), nil
}

func readFileOp(c *Client, opts ReadFileOptions) (GeneratorResponse[[]byte], error) {
	var args cmdline.Args
	if opts.OS == OSWindows {
		dir, base := windowsSplit(opts.Path)
		args = windowsExec(opts.Container, "cd "+dir+" & type "+base)
	} else {
		dest := opts.OutputFile
		if dest == "" {
			dest = "-"
		}
		args = cmdline.ComposeArgs(
			cmdline.WithArg("cp"),
			cmdline.WithArg(containerPath(opts.Container, opts.Path)),
			cmdline.WithArg(dest),
		).Build()
	}
	return GeneratorResponse[[]byte]{
		Command: c.CommandName,
		Args:    args,
		ParseStream: func(ctx context.Context, r io.Reader, _ bool) *Stream[[]byte] {
			return streamBytes(ctx, r)
		},
	}, nil
}

func writeFileOp(c *Client, opts WriteFileOptions) (VoidResponse, error) {
	if opts.OS == OSWindows {
		return VoidResponse{}, &NotSupportedError{
			Operation: "writeFile",
			Engine:    c.DisplayName,
			Reason:    "writing files is not supported on Windows containers",
		}
	}
	src := opts.InputFile
	if src == "" {
		src = "-"
	}
	args := cmdline.ComposeArgs(
		cmdline.WithArg("cp"),
		cmdline.WithArg(src),
		cmdline.WithArg(containerPath(opts.Container, opts.Path)),
	).Build()
	return void(c, args), nil
}
