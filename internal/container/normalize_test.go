// SPDX-License-Identifier: MPL-2.0

package container

import (
	"maps"
	"slices"
	"testing"
	"time"
)

func TestParseLabels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Labels
	}{
		{"", Labels{}},
		{"a=1", Labels{"a": "1"}},
		{"a=1,b=2", Labels{"a": "1", "b": "2"}},
		{"url=http://x?y=z", Labels{"url": "http://x?y=z"}},
		{"flag", Labels{"flag": ""}},
		{" a=1 , ,b=", Labels{"a": "1", "b": ""}},
	}

	for _, tt := range tests {
		if got := ParseLabels(tt.raw); !maps.Equal(got, tt.want) {
			t.Errorf("ParseLabels(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseEnvironment(t *testing.T) {
	t.Parallel()

	got := ParseEnvironment([]string{"PATH=/usr/bin", "EMPTY=", "EQ=a=b", "NOVALUE"})
	want := map[string]string{"PATH": "/usr/bin", "EMPTY": "", "EQ": "a=b"}
	if !maps.Equal(got, want) {
		t.Errorf("ParseEnvironment() = %v, want %v", got, want)
	}
}

func TestNormalizeState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state, status string
		want          string
	}{
		{"running", "Exited (0) 2 hours ago", "running"},
		{"", "Up 3 minutes", StateRunning},
		{"", "Up 3 minutes (Paused)", StatePaused},
		{"", "Exited (137) 5 seconds ago", StateExited},
		{"", "Terminated", StateExited},
		{"", "Dead", StateExited},
		{"", "Created", StateCreated},
		{"", "Restarting (1) 2 seconds ago", StateUnknown},
		{"", "", StateUnknown},
	}

	for _, tt := range tests {
		if got := NormalizeState(tt.state, tt.status); got != tt.want {
			t.Errorf("NormalizeState(%q, %q) = %q, want %q", tt.state, tt.status, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)
	tests := []struct {
		value   string
		layouts []string
		want    time.Time
		wantOK  bool
	}{
		{"2024-03-01T10:20:30Z", isoLayouts, want, true},
		{"2024-03-01T11:20:30+01:00", isoLayouts, want, true},
		{"2024-03-01 11:20:30 +0100 CET", listLayouts, want, true},
		{"yesterday", isoLayouts, time.Time{}, false},
		{"", isoLayouts, time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.value, tt.layouts...)
		if ok != tt.wantOK || !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, %v, want %v, %v", tt.value, got, ok, tt.want, tt.wantOK)
		}
		if ok && got.Location() != time.UTC {
			t.Errorf("ParseDate(%q) location = %v, want UTC", tt.value, got.Location())
		}
	}
}

func TestAsIDs(t *testing.T) {
	t.Parallel()

	got := asIDs("abc\n\n  def  \r\nghi")
	want := []string{"abc", "def", "ghi"}
	if !slices.Equal(got, want) {
		t.Errorf("asIDs() = %v, want %v", got, want)
	}
	if got := asIDs("\n \n"); len(got) != 0 {
		t.Errorf("asIDs(blank) = %v, want empty", got)
	}
}

func TestParsePrune(t *testing.T) {
	t.Parallel()

	out := `Deleted Containers:
4a7f7eebae0f
0b1d3bd5b2e8

Total reclaimed space: 1.5kB
`
	got := parsePrune(out)
	if want := []string{"4a7f7eebae0f", "0b1d3bd5b2e8"}; !slices.Equal(got.Deleted, want) {
		t.Errorf("parsePrune().Deleted = %v, want %v", got.Deleted, want)
	}
	if got.SpaceReclaimed == nil || *got.SpaceReclaimed != 1536 {
		t.Errorf("parsePrune().SpaceReclaimed = %v, want 1536", got.SpaceReclaimed)
	}

	images := parsePrune("Deleted Images:\nuntagged: alpine:3\ndeleted: sha256:abc\n\nTotal reclaimed space: 0B\n")
	if want := []string{"alpine:3", "sha256:abc"}; !slices.Equal(images.Deleted, want) {
		t.Errorf("parsePrune(images).Deleted = %v, want %v", images.Deleted, want)
	}
	if images.SpaceReclaimed == nil || *images.SpaceReclaimed != 0 {
		t.Errorf("parsePrune(images).SpaceReclaimed = %v, want 0", images.SpaceReclaimed)
	}
}

func TestIsLocalImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		digests []string
		want    bool
	}{
		{nil, true},
		{[]string{"localhost/app@sha256:1"}, true},
		{[]string{"docker.io/library/alpine@sha256:1"}, false},
		{[]string{"localhost/app@sha256:1", "ghcr.io/app@sha256:1"}, false},
	}
	for _, tt := range tests {
		if got := isLocalImage(tt.digests); got != tt.want {
			t.Errorf("isLocalImage(%v) = %v, want %v", tt.digests, got, tt.want)
		}
	}
}

func TestLaterOrEqual(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := laterOrEqual(created.Add(time.Hour), created); !got.Equal(created.Add(time.Hour)) {
		t.Errorf("laterOrEqual(after) = %v", got)
	}
	if got := laterOrEqual(created, created); !got.Equal(created) {
		t.Errorf("laterOrEqual(equal) = %v", got)
	}
	if got := laterOrEqual(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), created); !got.IsZero() {
		t.Errorf("laterOrEqual(year 1) = %v, want zero", got)
	}
}
