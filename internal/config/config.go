package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/yz4230/hookdeploy/internal/container"
	"github.com/yz4230/hookdeploy/internal/dedup"
	"github.com/yz4230/hookdeploy/internal/descriptor"
	"github.com/yz4230/hookdeploy/internal/entity"
	"github.com/yz4230/hookdeploy/internal/utils"
)

const (
	KeyPort                 = "port"
	KeyTelegramToken        = "telegram-token"
	KeyTelegramChatID       = "telegram-chat-id"
	KeyComposeFile          = "compose-file"
	KeyComposeCommand       = "compose-command"
	KeyWorkDir              = "work-dir"
	KeyAllowedBranches      = "allowed-branches"
	KeyAllowedPushRepos     = "allowed-push-repos"
	KeyAllowedCheckRunRepos = "allowed-check-run-repos"
	KeyDescriptorMode       = "descriptor-mode"
	KeyContainerBackend     = "container-backend"
	KeyCommitCacheSize      = "commit-cache-size"
)

// envNames keeps the variable names used by existing deployments of the agent.
var envNames = map[string]string{
	KeyPort:                 "PORT",
	KeyTelegramToken:        "BOT_TELEGRAM_TOKEN",
	KeyTelegramChatID:       "ID_TELEGRAM_FOR_LOG",
	KeyComposeFile:          "COMPOSE_FILE",
	KeyComposeCommand:       "COMPOSE_COMMAND",
	KeyWorkDir:              "WORK_DIR",
	KeyAllowedBranches:      "ALLOWED_BRANCHES",
	KeyAllowedPushRepos:     "ALLOWED_PUSH_REPOS",
	KeyAllowedCheckRunRepos: "ALLOWED_CHECK_RUN_REPOS",
	KeyDescriptorMode:       "DESCRIPTOR_MODE",
	KeyContainerBackend:     "CONTAINER_BACKEND",
	KeyCommitCacheSize:      "COMMIT_CACHE_SIZE",
}

// listKeys are the allow-lists, where an empty value means "allow all".
var listKeys = []string{KeyAllowedBranches, KeyAllowedPushRepos, KeyAllowedCheckRunRepos}

type Config struct {
	Port             int
	TelegramToken    string
	TelegramChatID   string
	ComposeFile      string
	ComposeCommand   []string
	WorkDir          string
	Policy           entity.Policy
	DescriptorMode   descriptor.Mode
	ContainerBackend container.Backend
	CommitCacheSize  int
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Port:             8080,
		ComposeFile:      "./docker-compose.yml",
		ComposeCommand:   []string{"docker-compose"},
		WorkDir:          ".",
		Policy:           entity.Policy{AllowedBranches: []string{"main", "master"}},
		DescriptorMode:   descriptor.ModeSubstring,
		ContainerBackend: container.BackendCLI,
		CommitCacheSize:  dedup.DefaultSize,
	}
}

// AddFlags registers every configuration flag on fs.
func AddFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.IntP(KeyPort, "p", d.Port, "Port to listen on")
	fs.String(KeyTelegramToken, "", "Telegram bot token used for notifications")
	fs.String(KeyTelegramChatID, "", "Telegram chat receiving notifications")
	fs.StringP(KeyComposeFile, "f", d.ComposeFile, "Path to the docker compose file")
	fs.String(KeyComposeCommand, strings.Join(d.ComposeCommand, " "), "Compose command, e.g. \"docker compose\"")
	fs.StringP(KeyWorkDir, "w", d.WorkDir, "Directory holding one git working copy per service")
	fs.String(KeyAllowedBranches, strings.Join(d.Policy.AllowedBranches, ","), "Comma separated default branches to deploy (empty allows all)")
	fs.String(KeyAllowedPushRepos, "", "Comma separated repositories deployed on push (empty allows all)")
	fs.String(KeyAllowedCheckRunRepos, "", "Comma separated repositories deployed on completed check runs (empty allows all)")
	fs.String(KeyDescriptorMode, string(d.DescriptorMode), "How services are found in the compose file: substring or services")
	fs.String(KeyContainerBackend, string(d.ContainerBackend), "How old containers are stopped: cli or api")
	fs.Int(KeyCommitCacheSize, d.CommitCacheSize, "Number of recent commits remembered for deduplication")
}

// Bind wires flags and environment variables into v. Flags set on the
// command line win over the environment, which wins over flag defaults.
func Bind(v *viper.Viper, fs *pflag.FlagSet) error {
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	// viper skips empty env values, which would bring back the flag default.
	for _, key := range listKeys {
		if val, ok := os.LookupEnv(envNames[key]); ok && val == "" && !fs.Changed(key) {
			v.Set(key, "")
		}
	}
	return nil
}

// LoadDotEnv loads .env files if present. Variables already set in the
// environment are left untouched.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

func Load(v *viper.Viper) (*Config, error) {
	mode, err := descriptor.ParseMode(v.GetString(KeyDescriptorMode))
	if err != nil {
		return nil, err
	}
	backend, err := container.ParseBackend(v.GetString(KeyContainerBackend))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:           v.GetInt(KeyPort),
		TelegramToken:  v.GetString(KeyTelegramToken),
		TelegramChatID: v.GetString(KeyTelegramChatID),
		ComposeFile:    v.GetString(KeyComposeFile),
		ComposeCommand: strings.Fields(v.GetString(KeyComposeCommand)),
		WorkDir:        v.GetString(KeyWorkDir),
		Policy: entity.Policy{
			AllowedBranches:      utils.SplitList(v.GetString(KeyAllowedBranches)),
			AllowedPushRepos:     utils.SplitList(v.GetString(KeyAllowedPushRepos)),
			AllowedCheckRunRepos: utils.SplitList(v.GetString(KeyAllowedCheckRunRepos)),
		},
		DescriptorMode:   mode,
		ContainerBackend: backend,
		CommitCacheSize:  v.GetInt(KeyCommitCacheSize),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d", entity.ErrInvalid, c.Port)
	}
	if c.ComposeFile == "" {
		return fmt.Errorf("%w: compose file must be set", entity.ErrInvalid)
	}
	if len(c.ComposeCommand) == 0 {
		return fmt.Errorf("%w: compose command must be set", entity.ErrInvalid)
	}
	if c.CommitCacheSize <= 0 {
		return fmt.Errorf("%w: commit cache size %d", entity.ErrInvalid, c.CommitCacheSize)
	}
	return nil
}

// HasTelegram reports whether notifications go to Telegram rather than the log.
func (c *Config) HasTelegram() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}
