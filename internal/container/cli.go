package container

import (
	"bufio"
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yz4230/hookdeploy/internal/process"
)

// CLI drives the docker command line client.
type CLI struct {
	runner process.Runner
	docker string
}

func NewCLI(runner process.Runner) *CLI {
	return &CLI{runner: runner, docker: "docker"}
}

// Find implements Manager.
func (c *CLI) Find(ctx context.Context, name string) (string, bool, error) {
	out := c.runner.Run(ctx, c.docker, "ps", "-a", "--format", "{{.ID}} {{.Names}}")
	if err := out.Err(); err != nil {
		return "", false, err
	}
	s := bufio.NewScanner(strings.NewReader(out.Stdout))
	for s.Scan() {
		id, names, ok := strings.Cut(strings.TrimSpace(s.Text()), " ")
		if !ok {
			continue
		}
		if strings.Contains(names, name) {
			zerolog.Ctx(ctx).Debug().Str("container", id).Str("names", names).Msg("found container")
			return id, true, nil
		}
	}
	return "", false, nil
}

// Stop implements Manager.
func (c *CLI) Stop(ctx context.Context, id string) error {
	return c.runner.Run(ctx, c.docker, "stop", id).Err()
}

// Remove implements Manager.
func (c *CLI) Remove(ctx context.Context, id string) error {
	return c.runner.Run(ctx, c.docker, "rm", id).Err()
}
