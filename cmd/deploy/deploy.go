package deploy

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yz4230/hookdeploy/internal/config"
	"github.com/yz4230/hookdeploy/internal/entity"
	"github.com/yz4230/hookdeploy/internal/server"
	"github.com/yz4230/hookdeploy/internal/usecase"
)

var deployFlags struct {
	commit string
}

// DeployCmd runs the pipeline once for a service, bypassing branch and
// repository policy and commit deduplication.
var DeployCmd = &cobra.Command{
	Use:           "deploy <service>",
	Short:         "Pull, build and restart one compose service now",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		logger := log.Logger
		injector := server.NewInjector(cfg, logger)
		defer injector.Shutdown()

		ctx := logger.WithContext(cmd.Context())
		deploy := do.MustInvoke[usecase.DeployServiceUsecase](injector)
		res := deploy.Execute(ctx, entity.DeployRequest{
			Service: args[0],
			Commit:  deployFlags.commit,
			Trigger: entity.EventManual,
		})

		switch res.Outcome {
		case entity.OutcomeSuccess:
			logger.Info().Str("service", res.Service).Msg("deployment finished")
			return nil
		case entity.OutcomeSkipped:
			logger.Warn().Str("service", res.Service).Msg(res.Message())
			return nil
		}
		logger.Error().Str("service", res.Service).Str("stage", string(res.Stage)).Msg(res.Message())
		return fmt.Errorf("deploy %s: %s", res.Service, res.Message())
	},
}

func init() {
	DeployCmd.Flags().StringVar(&deployFlags.commit, "commit", "", "Commit recorded with the deployment")
}
