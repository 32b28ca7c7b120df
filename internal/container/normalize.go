// SPDX-License-Identifier: MPL-2.0

package container

import (
	"strings"
	"time"
)

// Container states reported by NormalizeState.
const (
	StateRunning = "running"
	StatePaused  = "paused"
	StateExited  = "exited"
	StateCreated = "created"
	StateUnknown = "unknown"
)

// ParseLabels parses a comma separated "key=value" list. Each pair is split
// on its first "=" only, so values may contain "=". A pair without "=" maps
// to an empty value.
func ParseLabels(raw string) Labels {
	labels := Labels{}
	for pair := range strings.SplitSeq(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		labels[key] = value
	}
	return labels
}

// ParseEnvironment converts "NAME=value" entries into a map. Entries without
// "=" are dropped.
func ParseEnvironment(env []string) map[string]string {
	out := make(map[string]string, len(env))
	for _, e := range env {
		name, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		out[name] = value
	}
	return out
}

// NormalizeState returns the container lifecycle state. An explicit state
// wins; otherwise the free-text status is matched case-insensitively in
// priority order: paused, exited (also "terminate" and "dead"), created, up.
func NormalizeState(state, status string) string {
	if state != "" {
		return state
	}
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "paused"):
		return StatePaused
	case strings.Contains(s, "exited"), strings.Contains(s, "terminate"), strings.Contains(s, "dead"):
		return StateExited
	case strings.Contains(s, "created"):
		return StateCreated
	case strings.Contains(s, "up"):
		return StateRunning
	default:
		return StateUnknown
	}
}

// ParseDate parses value with the first matching layout. It reports false
// when no layout matches. Results are in UTC.
func ParseDate(value string, layouts ...string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Date layouts used by engine output.
const (
	// layoutList is the CreatedAt layout of container listings.
	layoutList = "2006-01-02 15:04:05 -0700 MST"
)

var (
	// isoLayouts cover inspect timestamps and most listing fields.
	isoLayouts = []string{time.RFC3339Nano, time.RFC3339, layoutList, "2006-01-02 15:04:05 -0700 -0700"}
	// listLayouts cover the CreatedAt field of docker listings.
	listLayouts = []string{layoutList, "2006-01-02 15:04:05 -0700 -0700", time.RFC3339Nano}
)

// asIDs splits command output into trimmed, non-empty lines.
func asIDs(output string) []string {
	var ids []string
	for line := range strings.SplitSeq(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			ids = append(ids, line)
		}
	}
	return ids
}

// parsePrune collects the identifiers listed under "Deleted ...:" and
// "Untagged:" style headers along with the reclaimed space.
func parsePrune(output string) PruneItem {
	var item PruneItem
	collecting := false
	for line := range strings.SplitSeq(output, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			collecting = false
		case strings.HasPrefix(line, "Total reclaimed space:"):
			item.SpaceReclaimed = TryParseSize(strings.TrimSpace(strings.TrimPrefix(line, "Total reclaimed space:")))
			collecting = false
		case strings.HasPrefix(line, "Deleted ") && strings.HasSuffix(line, ":"):
			collecting = true
		case strings.HasPrefix(line, "deleted: "), strings.HasPrefix(line, "untagged: "):
			_, id, _ := strings.Cut(line, ": ")
			item.Deleted = append(item.Deleted, id)
		case collecting:
			item.Deleted = append(item.Deleted, line)
		}
	}
	return item
}

func normalizeArchitecture(arch string) string {
	switch strings.ToLower(arch) {
	case "amd64":
		return "amd64"
	case "arm64":
		return "arm64"
	default:
		return ""
	}
}

func normalizeOS(os string) string {
	switch strings.ToLower(os) {
	case "linux":
		return "linux"
	case "windows":
		return "windows"
	default:
		return ""
	}
}

// isLocalImage reports whether an image has no digest from a remote
// registry. Digests under localhost/ do not count.
func isLocalImage(repoDigests []string) bool {
	for _, d := range repoDigests {
		if !strings.HasPrefix(strings.ToLower(d), "localhost/") {
			return false
		}
	}
	return true
}

// laterOrEqual returns t when it is on or after ref, and the zero time
// otherwise. Engines report unset start and finish times as year 1.
func laterOrEqual(t, ref time.Time) time.Time {
	if t.IsZero() || t.Before(ref) {
		return time.Time{}
	}
	return t
}
