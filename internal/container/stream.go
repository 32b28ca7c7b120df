// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bufio"
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"strings"
)

// readChunkSize bounds the byte chunks yielded by byte streams.
const readChunkSize = 32 * 1024

// Stream is a pull-based sequence of parsed items read from process output.
//
// Items are yielded in the order their terminating newline was observed. The
// context is checked before every yield; once it is done, Next returns false
// and Err returns a *CancellationError even if more data is buffered.
//
// A Stream is not safe for concurrent use.
type Stream[T any] struct {
	ctx    context.Context
	pull   func() (T, bool, error)
	item   T
	err    error
	done   bool
	closer func() error
}

func newStream[T any](ctx context.Context, pull func() (T, bool, error)) *Stream[T] {
	return &Stream[T]{ctx: ctx, pull: pull}
}

// Next advances to the next item. It returns false at the end of the stream,
// on error and on cancellation.
func (s *Stream[T]) Next() bool {
	if s.done {
		return false
	}
	if s.cancelled() {
		return false
	}
	item, ok, err := s.pull()
	if err != nil {
		// A read error caused by cancellation is reported as cancellation.
		if s.cancelled() {
			return false
		}
		s.finish(err)
		return false
	}
	if !ok {
		s.finish(nil)
		return false
	}
	if s.cancelled() {
		return false
	}
	s.item = item
	return true
}

// Item returns the item produced by the last successful call to Next.
func (s *Stream[T]) Item() T { return s.item }

// Err returns the error that ended the stream, or nil at a clean end.
func (s *Stream[T]) Err() error { return s.err }

// Close stops the stream and releases the underlying output source when one
// was attached by RunGenerator. It is safe to call more than once.
func (s *Stream[T]) Close() error {
	s.done = true
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c()
}

// All adapts the stream to a range-over-func sequence. Iteration stops at
// the first error, which is yielded with a zero item.
func (s *Stream[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for s.Next() {
			if !yield(s.Item(), nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// Collect drains the stream into a slice.
func (s *Stream[T]) Collect() ([]T, error) {
	var out []T
	for s.Next() {
		out = append(out, s.Item())
	}
	return out, s.Err()
}

func (s *Stream[T]) cancelled() bool {
	if s.ctx.Err() == nil {
		return false
	}
	s.finish(&CancellationError{Cause: context.Cause(s.ctx)})
	return true
}

func (s *Stream[T]) finish(err error) {
	s.done = true
	s.err = err
	var zero T
	s.item = zero
}

// lineParser converts one non-empty line into an item.
type lineParser[T any] func(line string) (T, error)

// streamLines reads r line by line and parses each non-empty line. Lines
// that fail to parse abort the stream in strict mode and are skipped
// otherwise. A final line without a trailing newline is parsed at EOF.
func streamLines[T any](ctx context.Context, op string, r io.Reader, strict bool, parse lineParser[T]) *Stream[T] {
	br := bufio.NewReader(r)
	lineNo := 0
	eof := false
	return newStream(ctx, func() (T, bool, error) {
		var zero T
		for !eof {
			line, err := br.ReadString('\n')
			if err != nil {
				if !errors.Is(err, io.EOF) {
					return zero, false, err
				}
				eof = true
			}
			lineNo++
			line = strings.TrimRight(line, "\r\n")
			if strings.TrimSpace(line) == "" {
				continue
			}
			item, perr := parse(line)
			if perr != nil {
				perr = &ParseError{Operation: op, Line: lineNo, Record: line, Err: perr}
				if strict || alwaysFatal(perr) {
					return zero, false, perr
				}
				slog.Debug("skipping malformed record", "operation", op, "line", lineNo, "error", perr)
				continue
			}
			return item, true, nil
		}
		return zero, false, nil
	})
}

// streamText yields every line verbatim, including empty ones, without the
// line terminator. It never fails on content.
func streamText(ctx context.Context, r io.Reader) *Stream[string] {
	br := bufio.NewReader(r)
	eof := false
	return newStream(ctx, func() (string, bool, error) {
		if eof {
			return "", false, nil
		}
		line, err := br.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", false, err
			}
			eof = true
			if line == "" {
				return "", false, nil
			}
		}
		return strings.TrimRight(line, "\r\n"), true, nil
	})
}

// streamBytes yields raw chunks of r as they arrive.
func streamBytes(ctx context.Context, r io.Reader) *Stream[[]byte] {
	buf := make([]byte, readChunkSize)
	return newStream(ctx, func() ([]byte, bool, error) {
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				return chunk, true, nil
			}
			if errors.Is(err, io.EOF) {
				return nil, false, nil
			}
			if err != nil {
				return nil, false, err
			}
		}
	})
}
