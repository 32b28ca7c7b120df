// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/invowk/ctrkit/internal/cmdline"
)

var infoFields = templateFields{
	{"OperatingSystem", ".OperatingSystem"},
	{"OSType", ".OSType"},
	{"Raw", "."},
}

func versionOp(c *Client) (PromiseResponse[VersionItem], error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("version"),
		withJSONFormatArg(c.shell),
	).Build()
	return promise(c, ClassQuery, args, func(out string, _ bool) (VersionItem, error) {
		return parseJSONDocument("version", out, func(r *dockerVersionRecord) (VersionItem, error) {
			item := VersionItem{Client: r.Client.APIVersion}
			if r.Server != nil {
				item.Server = r.Server.APIVersion
			}
			return item, nil
		})
	}), nil
}

func checkInstallOp(c *Client) (PromiseResponse[string], error) {
	args := cmdline.ComposeArgs(cmdline.WithArg("-v")).Build()
	return promise(c, ClassQuery, args, func(out string, _ bool) (string, error) {
		return strings.TrimSpace(out), nil
	}), nil
}

func infoArgs(c *Client, fields templateFields) cmdline.Args {
	return cmdline.ComposeArgs(
		cmdline.WithArg("info"),
		withTemplateFormatArg(c.shell, fields),
	).Build()
}

func parseInfo(out string, _ bool) (InfoItem, error) {
	return parseJSONDocument("info", out, func(r *infoRecord) (InfoItem, error) {
		return InfoItem{
			OperatingSystem: r.OperatingSystem,
			OSType:          r.OSType,
			Raw:             rawString(r.Raw),
		}, nil
	})
}

func infoOp(c *Client) (PromiseResponse[InfoItem], error) {
	return promise(c, ClassQuery, infoArgs(c, infoFields), parseInfo), nil
}

func eventStreamArgs(c *Client, opts EventStreamOptions) cmdline.Args {
	types := make([]string, 0, len(opts.Types))
	for _, t := range opts.Types {
		types = append(types, string(t))
	}
	actions := make([]string, 0, len(opts.Events))
	for _, e := range opts.Events {
		actions = append(actions, string(e))
	}
	return cmdline.ComposeArgs(
		cmdline.WithArg("events"),
		cmdline.WithNamedArg("--since", opts.Since),
		cmdline.WithNamedArg("--until", opts.Until),
		withLabelFilterArgs(opts.Labels),
		withFilterArgs("type", types),
		withFilterArgs("event", actions),
		withJSONFormatArg(c.shell),
	).Build()
}

func eventStreamOp(c *Client, opts EventStreamOptions) (GeneratorResponse[EventItem], error) {
	return GeneratorResponse[EventItem]{
		Command: c.CommandName,
		Args:    eventStreamArgs(c, opts),
		ParseStream: func(ctx context.Context, r io.Reader, strict bool) *Stream[EventItem] {
			return streamLines(ctx, "getEventStream", r, strict, eventLineParser(normalizeDockerEvent))
		},
	}, nil
}

// eventLineParser keeps the raw line on the normalized event.
func eventLineParser[R any](convert func(*R) (EventItem, error)) lineParser[EventItem] {
	parse := jsonLine(convert)
	return func(line string) (EventItem, error) {
		item, err := parse(line)
		if err != nil {
			return item, err
		}
		item.Raw = line
		return item, nil
	}
}

func normalizeDockerEvent(r *dockerEventRecord) (EventItem, error) {
	ts := time.Unix(r.Time, 0).UTC()
	if r.TimeNano != 0 {
		ts = time.Unix(0, r.TimeNano).UTC()
	}
	return EventItem{
		Type:      EventType(r.Type),
		Action:    EventAction(r.Action),
		Timestamp: ts,
		Actor: EventActor{
			ID:         r.Actor.ID,
			Attributes: r.Actor.Attributes,
		},
	}, nil
}

func loginOp(c *Client, opts LoginOptions) (VoidResponse, error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("login"),
		cmdline.WithNamedArg("--username", opts.Username),
		cmdline.WithArg("--password-stdin"),
		cmdline.WithArg(opts.Registry),
	).Build()
	resp := void(c, args)
	resp.Stdin = opts.Password
	return resp, nil
}

func logoutOp(c *Client, opts LogoutOptions) (VoidResponse, error) {
	args := cmdline.ComposeArgs(
		cmdline.WithArg("logout"),
		cmdline.WithArg(opts.Registry),
	).Build()
	return void(c, args), nil
}
