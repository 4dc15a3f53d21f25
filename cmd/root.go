package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yz4230/hookdeploy/cmd/deploy"
	"github.com/yz4230/hookdeploy/internal/config"
)

var rootFlags struct {
	verbose bool
	envFile string
}

var rootCmd = &cobra.Command{
	Use:   "hookdeploy",
	Short: "Redeploy docker compose services when their repository changes",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if rootFlags.verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}

		config.LoadDotEnv(rootFlags.envFile)
		return config.Bind(viper.GetViper(), cmd.Flags())
	},
	SilenceUsage: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&rootFlags.envFile, "env-file", ".env", "Optional dotenv file loaded before reading the environment")
	config.AddFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(deploy.DeployCmd)
}
