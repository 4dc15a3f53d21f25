package container

import (
	"context"
	"errors"
	"testing"

	containertypes "github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yz4230/hookdeploy/internal/entity"
	"github.com/yz4230/hookdeploy/internal/process"
	"github.com/yz4230/hookdeploy/internal/testutil"
)

const psOutput = "0a1b2c3d web-svcB-1\n9f8e7d6c proj-svcA-1\n"

func TestCLIFind(t *testing.T) {
	runner := testutil.NewRunner().On("docker ps", process.Outcome{Stdout: psOutput})
	cli := NewCLI(runner)
	ctx := testutil.Context()

	id, found, err := cli.Find(ctx, "svcA")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "9f8e7d6c", id)
	assert.Equal(t, []string{"docker", "ps", "-a", "--format", "{{.ID}} {{.Names}}"}, runner.Calls()[0])

	_, found, err = cli.Find(ctx, "svcC")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCLIFindEmptyOutput(t *testing.T) {
	cli := NewCLI(testutil.NewRunner())
	_, found, err := cli.Find(testutil.Context(), "svcA")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCLIFindFailure(t *testing.T) {
	runner := testutil.NewRunner().Fail("docker ps", "Cannot connect to the Docker daemon")
	_, _, err := NewCLI(runner).Find(testutil.Context(), "svcA")
	assert.EqualError(t, err, "Cannot connect to the Docker daemon")
}

func TestCLIStopRemove(t *testing.T) {
	runner := testutil.NewRunner().Fail("docker rm", "removal in progress")
	cli := NewCLI(runner)
	ctx := testutil.Context()

	assert.NoError(t, cli.Stop(ctx, "9f8e7d6c"))
	assert.EqualError(t, cli.Remove(ctx, "9f8e7d6c"), "removal in progress")
	assert.Equal(t, []string{"docker stop 9f8e7d6c", "docker rm 9f8e7d6c"}, runner.Commands())
}

type fakeEngine struct {
	containers []containertypes.Summary
	listErr    error
	stopErr    error
	stopped    []string
	removed    []string
}

func (f *fakeEngine) ContainerList(ctx context.Context, options containertypes.ListOptions) ([]containertypes.Summary, error) {
	return f.containers, f.listErr
}

func (f *fakeEngine) ContainerStop(ctx context.Context, id string, options containertypes.StopOptions) error {
	f.stopped = append(f.stopped, id)
	return f.stopErr
}

func (f *fakeEngine) ContainerRemove(ctx context.Context, id string, options containertypes.RemoveOptions) error {
	f.removed = append(f.removed, id)
	return nil
}

func TestEngine(t *testing.T) {
	api := &fakeEngine{containers: []containertypes.Summary{
		{ID: "aaa", Names: []string{"/proj-svcB-1"}},
		{ID: "bbb", Names: []string{"/proj-svcA-1"}},
	}}
	e := NewEngineWithClient(api)
	ctx := testutil.Context()

	id, found, err := e.Find(ctx, "svcA")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "bbb", id)

	require.NoError(t, e.Stop(ctx, id))
	require.NoError(t, e.Remove(ctx, id))
	assert.Equal(t, []string{"bbb"}, api.stopped)
	assert.Equal(t, []string{"bbb"}, api.removed)
}

func TestEngineErrors(t *testing.T) {
	api := &fakeEngine{listErr: errors.New("daemon down"), stopErr: errors.New("timeout")}
	e := NewEngineWithClient(api)
	ctx := testutil.Context()

	_, _, err := e.Find(ctx, "svcA")
	assert.ErrorContains(t, err, "daemon down")
	assert.ErrorContains(t, e.Stop(ctx, "x"), "failed to stop container: timeout")
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendCLI, b)

	b, err = ParseBackend("API")
	require.NoError(t, err)
	assert.Equal(t, BackendAPI, b)

	_, err = ParseBackend("podman")
	assert.ErrorIs(t, err, entity.ErrInvalid)
}
