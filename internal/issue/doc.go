// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The issue catalog holds Markdown guidance for the
// failure classes a container engine client runs into, rendered with glamour.
// Classify and ForEngine map container and runner errors onto the catalog.
package issue
