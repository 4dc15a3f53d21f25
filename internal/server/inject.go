package server

import (
	"github.com/rs/zerolog"
	"github.com/samber/do"
	"github.com/yz4230/hookdeploy/internal/config"
	"github.com/yz4230/hookdeploy/internal/container"
	"github.com/yz4230/hookdeploy/internal/dedup"
	"github.com/yz4230/hookdeploy/internal/descriptor"
	"github.com/yz4230/hookdeploy/internal/notify"
	"github.com/yz4230/hookdeploy/internal/pipeline"
	"github.com/yz4230/hookdeploy/internal/policy"
	"github.com/yz4230/hookdeploy/internal/process"
	"github.com/yz4230/hookdeploy/internal/repository"
	"github.com/yz4230/hookdeploy/internal/storage"
	"github.com/yz4230/hookdeploy/internal/usecase"
	"github.com/yz4230/hookdeploy/internal/webhook"
	"gorm.io/gorm"
)

// NewInjector wires every component of the agent. Components are built
// lazily on first use, so commands that only deploy never open the
// webhook router.
func NewInjector(cfg *config.Config, logger zerolog.Logger) *do.Injector {
	injector := do.New()
	do.ProvideValue(injector, cfg)

	do.Provide(injector, func(i *do.Injector) (notify.Notifier, error) {
		return notify.New(cfg.TelegramToken, cfg.TelegramChatID, logger), nil
	})
	do.Provide(injector, func(i *do.Injector) (process.Runner, error) {
		return process.NewExecRunner(), nil
	})
	do.Provide(injector, func(i *do.Injector) (container.Manager, error) {
		if cfg.ContainerBackend == container.BackendAPI {
			return container.NewEngine()
		}
		return container.NewCLI(do.MustInvoke[process.Runner](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (storage.WorkTrees, error) {
		return storage.NewWorkTrees(cfg.WorkDir, logger), nil
	})
	do.Provide(injector, func(i *do.Injector) (usecase.Deployer, error) {
		return pipeline.New(pipeline.Options{
			Runner:     do.MustInvoke[process.Runner](i),
			Containers: do.MustInvoke[container.Manager](i),
			Descriptor: descriptor.New(cfg.ComposeFile, cfg.DescriptorMode),
			WorkTrees:  do.MustInvoke[storage.WorkTrees](i),
			Notifier:   do.MustInvoke[notify.Notifier](i),
			Compose:    cfg.ComposeCommand,
		}), nil
	})

	do.Provide(injector, func(i *do.Injector) (*gorm.DB, error) {
		return repository.NewSQLiteDB()
	})
	do.Provide(injector, func(i *do.Injector) (repository.DeploymentRepository, error) {
		db := do.MustInvoke[*gorm.DB](i)
		return repository.NewDeploymentRepository(db), nil
	})
	do.Provide(injector, usecase.NewDeployServiceUsecase)
	do.Provide(injector, usecase.NewListDeploymentUsecase)
	do.Provide(injector, usecase.NewGetDeploymentUsecase)

	do.Provide(injector, func(i *do.Injector) (*webhook.Router, error) {
		n := do.MustInvoke[notify.Notifier](i)
		return webhook.NewRouter(
			policy.NewFilter(cfg.Policy, n),
			dedup.New(cfg.CommitCacheSize, n),
			do.MustInvoke[usecase.DeployServiceUsecase](i),
			n,
		), nil
	})
	return injector
}
