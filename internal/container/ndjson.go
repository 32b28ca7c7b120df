// SPDX-License-Identifier: MPL-2.0

package container

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
)

// validator is implemented by every raw engine record. validate checks the
// structural shape beyond what json.Unmarshal guarantees.
type validator interface {
	validate() error
}

var errEmptyOutput = errors.New("empty output")

// decodeJSON decodes one JSON document into R, validates it and converts it.
func decodeJSON[R, T any](doc string, convert func(*R) (T, error)) (T, error) {
	var (
		rec  R
		zero T
	)
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return zero, err
	}
	if v, ok := any(&rec).(validator); ok {
		if err := v.validate(); err != nil {
			return zero, err
		}
	}
	return convert(&rec)
}

// jsonLine adapts decodeJSON to a line parser for streams.
func jsonLine[R, T any](convert func(*R) (T, error)) lineParser[T] {
	return func(line string) (T, error) {
		return decodeJSON(line, convert)
	}
}

// parseJSONLines parses newline-delimited JSON documents, as produced by
// listings and by inspecting several references. Empty lines are ignored.
// A bad record aborts the parse in strict mode and is skipped otherwise.
func parseJSONLines[R, T any](op, output string, strict bool, convert func(*R) (T, error)) ([]T, error) {
	items := make([]T, 0)
	for i, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		item, err := decodeJSON(line, convert)
		if err != nil {
			perr := &ParseError{Operation: op, Line: i + 1, Record: line, Err: err}
			if strict || alwaysFatal(err) {
				return nil, perr
			}
			slog.Debug("skipping malformed record", "operation", op, "line", i+1, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// alwaysFatal reports errors that abort a parse in lenient mode too. A
// malformed image name means the output does not follow the command-line
// contract at all.
func alwaysFatal(err error) bool {
	var nameErr *ImageNameError
	return errors.As(err, &nameErr)
}

// parseJSONDocument parses output as a single JSON document. There is no
// partial result to salvage, so failures are returned in either mode.
func parseJSONDocument[R, T any](op, output string, convert func(*R) (T, error)) (T, error) {
	doc := strings.TrimSpace(output)
	if doc == "" {
		var zero T
		return zero, &ParseError{Operation: op, Err: errEmptyOutput}
	}
	item, err := decodeJSON(doc, convert)
	if err != nil {
		return item, &ParseError{Operation: op, Record: doc, Err: err}
	}
	return item, nil
}

// rawString renders a raw JSON value for the Raw field of normalized items.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	return string(raw)
}
