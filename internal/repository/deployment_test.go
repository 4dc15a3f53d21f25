package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yz4230/hookdeploy/internal/entity"
)

func newTestRepository(t *testing.T) DeploymentRepository {
	t.Helper()
	db, err := NewSQLiteDB()
	require.NoError(t, err)
	return NewDeploymentRepository(db)
}

func TestDeploymentRepository(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, &entity.Deployment{Service: "svcA", Commit: "abc123", Trigger: entity.EventPush, Status: entity.DeploymentStatusRunning})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	_, err = repo.Create(ctx, &entity.Deployment{Service: "svcB", Commit: "def456", Trigger: entity.EventCheckRun, Status: entity.DeploymentStatusRunning})
	require.NoError(t, err)

	a.Status = entity.DeploymentStatusFailed
	a.Stage = entity.StageBuild
	a.Detail = "Failed to build service svcA: boom"
	updated, err := repo.Update(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, entity.DeploymentStatusFailed, updated.Status)
	assert.Equal(t, entity.StageBuild, updated.Stage)
	assert.Equal(t, "abc123", updated.Commit)
	assert.Equal(t, entity.EventPush, updated.Trigger)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "svcB", all[0].Service, "newest first")

	onlyA, err := repo.ListByService(ctx, "svcA")
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, a.ID, onlyA[0].ID)
}

func TestDeploymentRepositoryNotFound(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.GetByID(context.Background(), entity.NewID(42))
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
