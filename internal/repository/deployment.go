package repository

import (
	"context"

	"github.com/yz4230/hookdeploy/internal/entity"
	"gorm.io/gorm"
)

type DeploymentRepository interface {
	Create(ctx context.Context, dep *entity.Deployment) (*entity.Deployment, error)
	GetByID(ctx context.Context, id entity.ID) (*entity.Deployment, error)
	List(ctx context.Context) ([]*entity.Deployment, error)
	ListByService(ctx context.Context, service string) ([]*entity.Deployment, error)
	Update(ctx context.Context, dep *entity.Deployment) (*entity.Deployment, error)
}

type deploymentRepositoryImpl struct {
	db *gorm.DB
}

func NewDeploymentRepository(db *gorm.DB) DeploymentRepository {
	return &deploymentRepositoryImpl{db: db}
}

// Create a new deployment record.
func (r *deploymentRepositoryImpl) Create(ctx context.Context, dep *entity.Deployment) (*entity.Deployment, error) {
	var model Deployment
	model.FromEntity(dep)
	if err := gorm.G[Deployment](r.db).Create(ctx, &model); err != nil {
		return nil, err
	}
	return model.ToEntity(), nil
}

// GetByID finds deployment by id.
func (r *deploymentRepositoryImpl) GetByID(ctx context.Context, id entity.ID) (*entity.Deployment, error) {
	found, err := gorm.G[Deployment](r.db).Where("id = ?", id.Uint()).First(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return found.ToEntity(), nil
}

// List returns all deployments, newest first.
func (r *deploymentRepositoryImpl) List(ctx context.Context) ([]*entity.Deployment, error) {
	founds, err := gorm.G[Deployment](r.db).Order("id desc").Find(ctx)
	if err != nil {
		return nil, err
	}
	return toEntities(founds), nil
}

// ListByService lists deployments of one service, newest first.
func (r *deploymentRepositoryImpl) ListByService(ctx context.Context, service string) ([]*entity.Deployment, error) {
	founds, err := gorm.G[Deployment](r.db).Where("service = ?", service).Order("id desc").Find(ctx)
	if err != nil {
		return nil, err
	}
	return toEntities(founds), nil
}

// Update deployment record (status, stage, detail).
func (r *deploymentRepositoryImpl) Update(ctx context.Context, dep *entity.Deployment) (*entity.Deployment, error) {
	var model Deployment
	model.FromEntity(dep)
	_, err := gorm.G[Deployment](r.db).Where("id = ?", dep.ID.Uint()).Updates(ctx, model)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, dep.ID)
}

func toEntities(founds []Deployment) []*entity.Deployment {
	res := make([]*entity.Deployment, len(founds))
	for i, f := range founds {
		res[i] = f.ToEntity()
	}
	return res
}
