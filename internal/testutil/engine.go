// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"os"
	"runtime"
	"strconv"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go"

	"github.com/invowk/ctrkit/internal/container"
)

// engineSlotsEnv overrides how many tests may drive the same engine at once.
const engineSlotsEnv = "CTRKIT_TEST_ENGINE_SLOTS"

var (
	slotsMu     sync.Mutex
	engineSlots = map[container.EngineKind]chan struct{}{}
)

// RequireEngine returns a client for the container engine found on PATH,
// skipping the test in short mode or when no usable engine is present. The
// testcontainers provider must also be reachable so that fixtures can be
// started next to the engine under test.
//
// The test holds one of the engine's slots until it finishes. Rootless
// Podman hangs instead of failing when too many containers start at once.
func RequireEngine(t *testing.T) *container.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client, err := container.Detect()
	if err != nil {
		t.Skipf("skipping container integration test: %v", err)
	}
	if !providerAvailable(client.Kind()) {
		t.Skipf("skipping container integration test: testcontainers provider for %s not available", client.Kind())
	}

	slots := slotsFor(client.Kind())
	slots <- struct{}{}
	t.Cleanup(func() { <-slots })
	return client
}

func slotsFor(kind container.EngineKind) chan struct{} {
	slotsMu.Lock()
	defer slotsMu.Unlock()
	ch, ok := engineSlots[kind]
	if !ok {
		ch = make(chan struct{}, slotCount(kind))
		engineSlots[kind] = ch
	}
	return ch
}

// slotCount returns CTRKIT_TEST_ENGINE_SLOTS when it is a positive number.
// Otherwise Podman gets a single slot and Docker min(GOMAXPROCS, 2).
func slotCount(kind container.EngineKind) int {
	if n, err := strconv.Atoi(os.Getenv(engineSlotsEnv)); err == nil && n > 0 {
		return n
	}
	if kind == container.EnginePodman {
		return 1
	}
	return min(runtime.GOMAXPROCS(0), 2)
}

// providerAvailable reports whether testcontainers can reach the engine.
// Provider detection panics on some hosts without a daemon socket.
func providerAvailable(kind container.EngineKind) (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	providerType := testcontainers.ProviderDocker
	if kind == container.EnginePodman {
		providerType = testcontainers.ProviderPodman
	}
	provider, err := providerType.GetProvider()
	if err != nil {
		return false
	}
	defer provider.Close()
	return provider.Health(context.Background()) == nil
}
