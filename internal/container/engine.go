package container

import (
	"context"
	"fmt"
	"io"
	"strings"

	containertypes "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/rs/zerolog"
)

// EngineAPI is the part of the docker client used by Engine.
type EngineAPI interface {
	ContainerList(ctx context.Context, options containertypes.ListOptions) ([]containertypes.Summary, error)
	ContainerStop(ctx context.Context, containerID string, options containertypes.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options containertypes.RemoveOptions) error
}

// Engine talks to the Docker Engine API directly.
type Engine struct {
	cli EngineAPI
}

// NewEngine connects using the DOCKER_HOST family of environment variables.
func NewEngine() (*Engine, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Engine{cli: cli}, nil
}

func NewEngineWithClient(cli EngineAPI) *Engine {
	return &Engine{cli: cli}
}

// Find implements Manager.
func (e *Engine) Find(ctx context.Context, name string) (string, bool, error) {
	containers, err := e.cli.ContainerList(ctx, containertypes.ListOptions{All: true})
	if err != nil {
		return "", false, fmt.Errorf("failed to list containers: %w", err)
	}
	for _, c := range containers {
		for _, n := range c.Names {
			if strings.Contains(strings.TrimPrefix(n, "/"), name) {
				zerolog.Ctx(ctx).Debug().Str("container", c.ID).Str("name", n).Msg("found container")
				return c.ID, true, nil
			}
		}
	}
	return "", false, nil
}

// Stop implements Manager.
func (e *Engine) Stop(ctx context.Context, id string) error {
	if err := e.cli.ContainerStop(ctx, id, containertypes.StopOptions{}); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	return nil
}

// Shutdown closes the underlying client when the injector shuts down.
func (e *Engine) Shutdown() error {
	if c, ok := e.cli.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Remove implements Manager.
func (e *Engine) Remove(ctx context.Context, id string) error {
	if err := e.cli.ContainerRemove(ctx, id, containertypes.RemoveOptions{}); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}
	return nil
}
