// SPDX-License-Identifier: MPL-2.0

// Package container turns typed container operations into command lines for a
// Docker-compatible engine CLI, and parses that CLI's output back into
// normalized records.
//
// Every operation on a Client returns one of three response descriptors:
//
//   - VoidResponse: run the command and ignore its output.
//   - PromiseResponse: run to completion, then parse the whole stdout once.
//   - GeneratorResponse: start a long-running process and pull parsed items
//     from its stdout through a Stream.
//
// The package never spawns processes itself. Callers run descriptors through
// a ProcessRunner (see RunVoid, RunPromise and RunGenerator).
//
// Engine differences are expressed as an Operations table: the base table
// carries the Docker-compatible defaults and each engine variant overrides
// only the entries it needs.
package container
