package container

import (
	"context"
	"fmt"
	"strings"

	"github.com/yz4230/hookdeploy/internal/entity"
)

// Manager finds and retires the container currently running a service.
type Manager interface {
	// Find returns the id of the first container whose name contains name.
	Find(ctx context.Context, name string) (id string, found bool, err error)
	Stop(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
}

type Backend string

const (
	BackendCLI Backend = "cli"
	BackendAPI Backend = "api"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "", BackendCLI:
		return BackendCLI, nil
	case BackendAPI:
		return b, nil
	}
	return "", fmt.Errorf("%w: container backend %q", entity.ErrInvalid, s)
}
