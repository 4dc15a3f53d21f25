package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/samber/do"
	"github.com/yz4230/hookdeploy/internal/entity"
	"github.com/yz4230/hookdeploy/internal/repository"
)

// Deployer runs the deployment pipeline for one service.
type Deployer interface {
	Deploy(ctx context.Context, service string) entity.PipelineResult
}

type DeployServiceUsecase interface {
	Execute(ctx context.Context, req entity.DeployRequest) entity.PipelineResult
}

type deployServiceUsecaseImpl struct {
	deployer             Deployer
	deploymentRepository repository.DeploymentRepository
}

// Execute implements DeployServiceUsecase. History bookkeeping is best
// effort and never changes the pipeline result.
func (d *deployServiceUsecaseImpl) Execute(ctx context.Context, req entity.DeployRequest) entity.PipelineResult {
	log := zerolog.Ctx(ctx)

	dep, err := d.deploymentRepository.Create(ctx, &entity.Deployment{
		Service: req.Service,
		Commit:  req.Commit,
		Trigger: req.Trigger,
		Status:  entity.DeploymentStatusRunning,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to record deployment")
	}

	res := d.deployer.Deploy(ctx, req.Service)

	if dep != nil {
		dep.Status = res.Status()
		dep.Stage = res.Stage
		dep.Detail = res.Message()
		if _, err := d.deploymentRepository.Update(ctx, dep); err != nil {
			log.Error().Err(err).Str("deployment", dep.ID.String()).Msg("failed to update deployment")
		}
	}
	return res
}

func NewDeployServiceUsecase(injector *do.Injector) (DeployServiceUsecase, error) {
	return &deployServiceUsecaseImpl{
		deployer:             do.MustInvoke[Deployer](injector),
		deploymentRepository: do.MustInvoke[repository.DeploymentRepository](injector),
	}, nil
}
