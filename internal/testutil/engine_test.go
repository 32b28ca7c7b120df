// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"

	"github.com/invowk/ctrkit/internal/container"
)

func TestSlotCount(t *testing.T) {
	tests := []struct {
		name string
		env  string
		kind container.EngineKind
		want int
	}{
		{"podman default", "", container.EnginePodman, 1},
		{"docker default", "", container.EngineDocker, min(runtime.GOMAXPROCS(0), 2)},
		{"override", "4", container.EnginePodman, 4},
		{"invalid override", "many", container.EnginePodman, 1},
		{"zero override", "0", container.EngineDocker, min(runtime.GOMAXPROCS(0), 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(engineSlotsEnv, tt.env)
			if got := slotCount(tt.kind); got != tt.want {
				t.Errorf("slotCount(%s) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestSlotsFor_SharedPerEngine(t *testing.T) {
	t.Parallel()

	if slotsFor(container.EnginePodman) != slotsFor(container.EnginePodman) {
		t.Error("slotsFor(podman) returned different channels")
	}
	if slotsFor(container.EnginePodman) == slotsFor(container.EngineDocker) {
		t.Error("slotsFor(podman) and slotsFor(docker) share a channel")
	}
}
