package usecase

import (
	"context"

	"github.com/samber/do"
	"github.com/yz4230/hookdeploy/internal/entity"
	"github.com/yz4230/hookdeploy/internal/repository"
)

type ListDeploymentUsecase interface {
	// Execute lists deployments newest first, optionally restricted to one service.
	Execute(ctx context.Context, service string) ([]*entity.Deployment, error)
}

type listDeploymentUsecaseImpl struct {
	deploymentRepository repository.DeploymentRepository
}

// Execute implements ListDeploymentUsecase.
func (l *listDeploymentUsecaseImpl) Execute(ctx context.Context, service string) ([]*entity.Deployment, error) {
	if service == "" {
		return l.deploymentRepository.List(ctx)
	}
	return l.deploymentRepository.ListByService(ctx, service)
}

func NewListDeploymentUsecase(injector *do.Injector) (ListDeploymentUsecase, error) {
	return &listDeploymentUsecaseImpl{
		deploymentRepository: do.MustInvoke[repository.DeploymentRepository](injector),
	}, nil
}
