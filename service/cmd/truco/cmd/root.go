package cmd

import (
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jason-s-yu/truco/service/internal/config"
)

// flagKeys maps each persistent flag to its config key.
var flagKeys = map[string]string{
	"seed":                  config.KeySeed,
	"run-pays-raised-stake": config.KeyRunPaysRaisedStake,
	"redis-addr":            config.KeyRedisAddr,
	"log-level":             config.KeyLogLevel,
	"log-format":            config.KeyLogFormat,
	"bot-raise-chance":      config.KeyBotRaiseChance,
	"bot-accept-chance":     config.KeyBotAcceptChance,
	"workers":               config.KeySimWorkers,
}

// NewRootCmd creates the truco command tree. It is called once in main.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var envFile string

	rootCmd := &cobra.Command{
		Use:          "truco",
		Short:        "Truco paulista against a bot, or bot against bot",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			pterm.SetDefaultOutput(cmd.OutOrStdout())
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", "", "dotenv file to load (default ./.env)")
	flags.Uint64("seed", 0, "match seed, 0 picks one from the clock")
	flags.Bool("run-pays-raised-stake", false, "running from a raise pays the raised stake instead of the previous one")
	flags.String("redis-addr", "", "Redis address for the action history (empty disables it)")
	flags.String("log-level", "info", "log level")
	flags.String("log-format", "text", "log format: text or json")
	flags.Float64("bot-raise-chance", 0.4, "chance the bot raises a qualifying hand")
	flags.Float64("bot-accept-chance", 0.5, "chance the bot accepts a raise without a manilha")
	flags.Int("workers", 4, "parallel matches in simulate")
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	load := func() (config.Config, *logrus.Logger, error) {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		cfg, err := config.Load(v, files...)
		if err != nil {
			return config.Config{}, nil, err
		}
		return cfg, cfg.NewLogger(rootCmd.ErrOrStderr()), nil
	}

	rootCmd.AddCommand(newPlayCmd(load), newSimulateCmd(load))
	return rootCmd
}

// loadFunc resolves the configuration and logger for a subcommand.
type loadFunc func() (config.Config, *logrus.Logger, error)
