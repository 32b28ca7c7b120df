// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/invowk/ctrkit/internal/container"
)

// fileMode is the mode of files archived from stdin by "files cp --as".
const fileMode = 0o644

func newFilesCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Inspect and copy files inside containers",
	}
	cmd.AddCommand(
		newFilesListCommand(c),
		newFilesStatCommand(c),
		newFilesCatCommand(c),
		newFilesCopyCommand(c),
	)
	return cmd
}

func osFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "os", string(container.OSLinux), "container operating system: linux or windows")
}

func parseOS(value string) (container.OS, error) {
	switch kind := container.OS(value); kind {
	case container.OSLinux, container.OSWindows:
		return kind, nil
	default:
		return "", errInvalidFlag("os", value, "linux or windows")
	}
}

func filesTable(list []container.ListFilesItem) *tableView {
	view := &tableView{headers: []string{"TYPE", "MODE", "SIZE", "MODIFIED", "NAME"}}
	for _, f := range list {
		mode := emptyCell
		if f.Mode != 0 {
			mode = fmt.Sprintf("%04o", f.Mode&0o7777)
		}
		modified := emptyCell
		if !f.MTime.IsZero() {
			modified = f.MTime.Local().Format(time.DateTime)
		}
		size := f.Size
		view.rows = append(view.rows, []string{string(f.Type), mode, humanSize(&size), modified, f.Name})
	}
	return view
}

func newFilesListCommand(c *cli) *cobra.Command {
	var osName string
	cmd := &cobra.Command{
		Use:     "ls <container> <dir>",
		Aliases: []string{"list"},
		Short:   "List a directory inside a container",
		Args:    cobra.ExactArgs(2),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			osKind, err := parseOS(osName)
			if err != nil {
				return err
			}
			opts := container.ListFilesOptions{Container: args[0], Path: args[1], OS: osKind}
			list, ran, err := promise(ctx, s, "list files", func(cl *container.Client) (container.PromiseResponse[[]container.ListFilesItem], error) {
				return cl.ListFiles(opts)
			})
			if err != nil || !ran {
				return err
			}
			return s.out.print(list, filesTable(list))
		}),
	}
	osFlag(cmd, &osName)
	return cmd
}

func newFilesStatCommand(c *cli) *cobra.Command {
	var osName string
	cmd := &cobra.Command{
		Use:   "stat <container> <path>",
		Short: "Describe a path inside a container",
		Args:  cobra.ExactArgs(2),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			osKind, err := parseOS(osName)
			if err != nil {
				return err
			}
			opts := container.StatPathOptions{Container: args[0], Path: args[1], OS: osKind}
			item, ran, err := promise(ctx, s, "stat path", func(cl *container.Client) (container.PromiseResponse[*container.ListFilesItem], error) {
				return cl.StatPath(opts)
			})
			if err != nil || !ran {
				return err
			}
			if item == nil {
				return fmt.Errorf("%s: no such file or directory in %s", args[1], args[0])
			}
			return s.out.print(item, filesTable([]container.ListFilesItem{*item}))
		}),
	}
	osFlag(cmd, &osName)
	return cmd
}

func newFilesCatCommand(c *cli) *cobra.Command {
	var osName string
	cmd := &cobra.Command{
		Use:   "cat <container> <file>",
		Short: "Print a file from a container",
		Args:  cobra.ExactArgs(2),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			osKind, err := parseOS(osName)
			if err != nil {
				return err
			}
			opts := container.ReadFileOptions{Container: args[0], Path: args[1], OS: osKind}
			var buf bytes.Buffer
			err = generator(ctx, s, "read file", func(cl *container.Client) (container.GeneratorResponse[[]byte], error) {
				return cl.ReadFile(opts)
			}, func(chunk []byte) error {
				_, err := buf.Write(chunk)
				return err
			})
			if err != nil || s.dryRun {
				return err
			}
			return writeFileContent(s.stdout, osKind, &buf)
		}),
	}
	osFlag(cmd, &osName)
	return cmd
}

// writeFileContent copies what ReadFile streamed to w. Linux engines stream a
// tar archive holding the file; Windows containers stream the content itself.
func writeFileContent(w io.Writer, osKind container.OS, r io.Reader) error {
	if osKind == container.OSWindows {
		_, err := io.Copy(w, r)
		return err
	}
	_, content, err := container.ReadTarFile(r)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, content)
	return err
}

// splitContainerPath splits "container:path". Single-letter prefixes are
// taken as Windows drive letters.
func splitContainerPath(arg string) (ctr, p string, ok bool) {
	ctr, p, ok = strings.Cut(arg, ":")
	if !ok || len(ctr) < 2 || p == "" {
		return "", "", false
	}
	return ctr, p, true
}

func newFilesCopyCommand(c *cli) *cobra.Command {
	var (
		osName string
		as     string
	)
	cmd := &cobra.Command{
		Use:   "cp <src> <dst>",
		Short: "Copy files between a container and the host",
		Long: `Copy files between a container and the host.

One of src and dst must be container:path. A src of "-" reads a tar archive
from stdin, or with --as the raw content of a single file to create under
the destination directory.`,
		Example: `  ctrkit files cp web:/etc/nginx/nginx.conf ./nginx.conf
  ctrkit files cp ./index.html web:/usr/share/nginx/html/
  echo hello | ctrkit files cp --as hello.txt - web:/tmp`,
		Args: cobra.ExactArgs(2),
		RunE: c.action(func(ctx context.Context, s *session, args []string) error {
			osKind, err := parseOS(osName)
			if err != nil {
				return err
			}
			src, dst := args[0], args[1]
			if ctr, p, ok := splitContainerPath(src); ok {
				opts := container.ReadFileOptions{Container: ctr, Path: p, OS: osKind, OutputFile: dst}
				return generator(ctx, s, "copy file from container", func(cl *container.Client) (container.GeneratorResponse[[]byte], error) {
					return cl.ReadFile(opts)
				}, func([]byte) error { return nil })
			}
			ctr, p, ok := splitContainerPath(dst)
			if !ok {
				return fmt.Errorf("one of %q and %q must be container:path", src, dst)
			}
			opts := container.WriteFileOptions{Container: ctr, Path: p, OS: osKind}
			var input io.Reader
			if src == "-" {
				input, err = stdinArchive(s, as)
				if err != nil {
					return err
				}
			} else {
				opts.InputFile = src
			}
			_, err = void(ctx, s, "copy file into container", input, func(cl *container.Client) (container.VoidResponse, error) {
				return cl.WriteFile(opts)
			})
			return err
		}),
	}
	osFlag(cmd, &osName)
	cmd.Flags().StringVar(&as, "as", "", "archive stdin as a single file with this name")
	return cmd
}

// stdinArchive returns the tar stream sent to the engine for a src of "-".
func stdinArchive(s *session, name string) (io.Reader, error) {
	if name == "" {
		return s.stdin, nil
	}
	if s.dryRun {
		return nil, nil
	}
	content, err := io.ReadAll(s.stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	var buf bytes.Buffer
	if err := container.WriteTarFile(&buf, path.Base(name), fileMode, content); err != nil {
		return nil, err
	}
	return &buf, nil
}
