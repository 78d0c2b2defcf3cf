//go:build integration

package testutil

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	config "task-service.com/task-service/internal/configs"
)

const (
	postgresImage = "postgres:16-alpine"
	redisImage    = "redis:7-alpine"
)

// SkipIfNoDocker skips the test when no Docker daemon is reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// StartPostgres runs a throwaway postgres container and returns the settings
// to reach it. The container is terminated on test cleanup.
func StartPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "tasks",
			"POSTGRES_PASSWORD": "tasks",
			"POSTGRES_DB":       "tasks",
			"TZ":                "Pacific/Kiritimati",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(time.Minute),
	}

	container := startContainer(t, ctx, req)
	host, port := endpoint(t, ctx, container, "5432")

	return config.DatabaseConfig{
		Driver:            "postgres",
		Host:              host,
		Port:              port,
		Name:              "tasks",
		User:              "tasks",
		Password:          "tasks",
		SSLMode:           "disable",
		MaxConnections:    4,
		IdleTimeout:       time.Minute,
		ConnectionTimeout: 5 * time.Second,
	}
}

// StartRedis runs a throwaway redis container and returns its host:port.
func StartRedis(t *testing.T) string {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        redisImage,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
	}

	container := startContainer(t, ctx, req)
	host, port := endpoint(t, ctx, container, "6379")
	return host + ":" + port
}

func startContainer(t *testing.T, ctx context.Context, req testcontainers.ContainerRequest) testcontainers.Container {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start %s: %v", req.Image, err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})
	return container
}

func endpoint(t *testing.T, ctx context.Context, container testcontainers.Container, port string) (string, string) {
	t.Helper()

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("failed to get mapped port %s: %v", port, err)
	}
	return host, mapped.Port()
}
