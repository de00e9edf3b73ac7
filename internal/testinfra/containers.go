// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

//go:build integration

package testinfra

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

var (
	dockerOnce sync.Once
	dockerUp   bool
)

// DockerAvailable reports whether `docker info` succeeds. The probe runs once
// per test binary.
func DockerAvailable() bool {
	dockerOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		dockerUp = exec.CommandContext(ctx, "docker", "info").Run() == nil
	})
	return dockerUp
}

// Start runs start and terminates the container when t finishes. The test
// is skipped when Docker is missing or the container does not come up.
func Start[C testcontainers.Container](t *testing.T, start func(context.Context) (C, error)) C {
	t.Helper()
	if !DockerAvailable() {
		t.Skip("docker not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()
	c, err := start(ctx)
	if err != nil {
		t.Skipf("container did not start: %v", err)
	}
	t.Cleanup(func() {
		stopCtx, stop := context.WithTimeout(context.Background(), 30*time.Second)
		defer stop()
		if err := c.Terminate(stopCtx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})
	return c
}
