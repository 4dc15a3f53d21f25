package usecase

import (
	"context"

	"github.com/samber/do"
	"github.com/yz4230/hookdeploy/internal/entity"
	"github.com/yz4230/hookdeploy/internal/repository"
)

type GetDeploymentUsecase interface {
	Execute(ctx context.Context, id entity.ID) (*entity.Deployment, error)
}

type getDeploymentUsecaseImpl struct {
	deploymentRepository repository.DeploymentRepository
}

// Execute implements GetDeploymentUsecase.
func (g *getDeploymentUsecaseImpl) Execute(ctx context.Context, id entity.ID) (*entity.Deployment, error) {
	return g.deploymentRepository.GetByID(ctx, id)
}

func NewGetDeploymentUsecase(injector *do.Injector) (GetDeploymentUsecase, error) {
	return &getDeploymentUsecaseImpl{
		deploymentRepository: do.MustInvoke[repository.DeploymentRepository](injector),
	}, nil
}
