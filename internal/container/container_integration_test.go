// SPDX-License-Identifier: MPL-2.0

package container_test

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/invowk/ctrkit/internal/container"
	"github.com/invowk/ctrkit/internal/runner"
	"github.com/invowk/ctrkit/internal/testutil"
)

const integrationImage = "docker.io/library/alpine:3.20"

// TestClient_Integration drives a real engine through the client and the
// exec runner. A fixture container is started with testcontainers and the
// client is expected to see it the same way the engine does.
func TestClient_Integration(t *testing.T) {
	client := testutil.RequireEngine(t)

	ctx, cancel := context.WithTimeout(t.Context(), 3*time.Minute)
	defer cancel()

	fixture, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:      integrationImage,
			Cmd:        []string{"sh", "-c", "echo ready; sleep 300"},
			Labels:     map[string]string{"ctrkit.test": "fixture"},
			WaitingFor: wait.ForLog("ready"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("skipping container integration test: cannot start fixture: %v", err)
	}
	t.Cleanup(func() {
		if err := fixture.Terminate(context.Background()); err != nil {
			t.Logf("warning: failed to terminate fixture: %v", err)
		}
	})

	r := runner.New()
	policy := container.StrictPolicy()

	t.Run("ListFixture", func(t *testing.T) {
		resp, err := client.ListContainers(container.ListContainersOptions{
			Labels: container.LabelFilters{"ctrkit.test": container.LabelEquals("fixture")},
		})
		if err != nil {
			t.Fatalf("ListContainers() error = %v", err)
		}
		items, err := container.RunPromise(ctx, r, resp, policy)
		if err != nil {
			t.Fatalf("RunPromise(ListContainers) error = %v", err)
		}
		if !slices.ContainsFunc(items, func(it container.ListContainersItem) bool {
			return strings.HasPrefix(fixture.GetContainerID(), it.ID) || strings.HasPrefix(it.ID, fixture.GetContainerID())
		}) {
			t.Errorf("ListContainers() = %+v, want the fixture %s", items, fixture.GetContainerID())
		}
	})

	t.Run("InspectFixture", func(t *testing.T) {
		resp, err := client.InspectContainers(container.InspectContainersOptions{
			Containers: []string{fixture.GetContainerID()},
		})
		if err != nil {
			t.Fatalf("InspectContainers() error = %v", err)
		}
		items, err := container.RunPromise(ctx, r, resp, policy)
		if err != nil {
			t.Fatalf("RunPromise(InspectContainers) error = %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("InspectContainers() returned %d items, want 1", len(items))
		}
		got := items[0]
		if got.Labels["ctrkit.test"] != "fixture" {
			t.Errorf("Labels = %v", got.Labels)
		}
		if got.Image.Image != "library/alpine" || got.Image.Tag != "3.20" {
			t.Errorf("Image = %+v", got.Image)
		}
		if got.StartedAt.IsZero() {
			t.Error("StartedAt is zero for a running container")
		}
	})

	t.Run("RunInspectRemove", func(t *testing.T) {
		name := "ctrkit-it-" + strings.ReplaceAll(t.Name(), "/", "-")
		name = strings.ToLower(name)

		run, err := client.RunContainer(container.RunContainerOptions{
			ImageRef: integrationImage,
			Name:     name,
			Detached: true,
			Labels:   container.Labels{"ctrkit.test": "run"},
			Env:      map[string]string{"GREETING": "hello world"},
			Command:  []string{"sleep", "300"},
		})
		if err != nil {
			t.Fatalf("RunContainer() error = %v", err)
		}
		id, err := container.RunPromise(ctx, r, run, policy)
		if err != nil {
			t.Fatalf("RunPromise(RunContainer) error = %v", err)
		}
		if id == "" {
			t.Fatal("RunContainer() returned an empty ID")
		}

		inspect, _ := client.InspectContainers(container.InspectContainersOptions{Containers: []string{id}})
		items, err := container.RunPromise(ctx, r, inspect, policy)
		if err != nil {
			t.Fatalf("RunPromise(InspectContainers) error = %v", err)
		}
		if len(items) != 1 || items[0].Env["GREETING"] != "hello world" {
			t.Errorf("InspectContainers() = %+v", items)
		}

		rm, err := client.RemoveContainers(container.RemoveContainersOptions{Containers: []string{id}, Force: true})
		if err != nil {
			t.Fatalf("RemoveContainers() error = %v", err)
		}
		removed, err := container.RunPromise(ctx, r, rm, policy)
		if err != nil {
			t.Fatalf("RunPromise(RemoveContainers) error = %v", err)
		}
		if !slices.Contains(removed, id) {
			t.Errorf("RemoveContainers() = %q, want %q", removed, id)
		}
	})

	t.Run("LogsFixture", func(t *testing.T) {
		resp, err := client.LogsForContainer(container.LogsForContainerOptions{Container: fixture.GetContainerID()})
		if err != nil {
			t.Fatalf("LogsForContainer() error = %v", err)
		}
		s, err := container.RunGenerator(ctx, r, resp, policy)
		if err != nil {
			t.Fatalf("RunGenerator() error = %v", err)
		}
		defer testutil.MustClose(t, s)

		lines, err := s.Collect()
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		if !slices.Contains(lines, "ready") {
			t.Errorf("logs = %q, want ready", lines)
		}
	})
}
