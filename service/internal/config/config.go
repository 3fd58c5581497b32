// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	engine "github.com/jason-s-yu/truco/engine"
	"github.com/jason-s-yu/truco/engine/agent"
)

// EnvPrefix prefixes every environment variable read, e.g. TRUCO_SEED.
const EnvPrefix = "TRUCO"

// Keys understood by Load. Cobra flags bind to the same names.
const (
	KeySeed               = "seed"
	KeyRunPaysRaisedStake = "run_pays_raised_stake"
	KeyRedisAddr          = "redis_addr"
	KeyLogLevel           = "log_level"
	KeyLogFormat          = "log_format"
	KeyBotRaiseChance     = "bot_raise_chance"
	KeyBotAcceptChance    = "bot_accept_chance"
	KeySimWorkers         = "sim_workers"
)

// Config is the resolved runtime configuration.
type Config struct {
	Seed               uint64
	RunPaysRaisedStake bool
	RedisAddr          string
	LogLevel           logrus.Level
	LogFormat          string
	BotRaiseChance     float64
	BotAcceptChance    float64
	SimWorkers         int
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySeed, 0)
	v.SetDefault(KeyRunPaysRaisedStake, false)
	v.SetDefault(KeyRedisAddr, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyBotRaiseChance, 0.4)
	v.SetDefault(KeyBotAcceptChance, 0.5)
	v.SetDefault(KeySimWorkers, 4)
}

// Load reads .env files, then resolves every key through v from flags,
// TRUCO_* variables and defaults. With no files given it reads ./.env if
// present; files named explicitly must exist.
func Load(v *viper.Viper, envFiles ...string) (Config, error) {
	err := godotenv.Load(envFiles...)
	if err != nil && (len(envFiles) > 0 || !errors.Is(err, os.ErrNotExist)) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	level, err := logrus.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	cfg := Config{
		Seed:               v.GetUint64(KeySeed),
		RunPaysRaisedStake: v.GetBool(KeyRunPaysRaisedStake),
		RedisAddr:          v.GetString(KeyRedisAddr),
		LogLevel:           level,
		LogFormat:          strings.ToLower(v.GetString(KeyLogFormat)),
		BotRaiseChance:     v.GetFloat64(KeyBotRaiseChance),
		BotAcceptChance:    v.GetFloat64(KeyBotAcceptChance),
		SimWorkers:         v.GetInt(KeySimWorkers),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%s must be text or json, got %q", KeyLogFormat, c.LogFormat)
	}
	if c.BotRaiseChance < 0 || c.BotRaiseChance > 1 {
		return fmt.Errorf("%s must be within [0,1], got %v", KeyBotRaiseChance, c.BotRaiseChance)
	}
	if c.BotAcceptChance < 0 || c.BotAcceptChance > 1 {
		return fmt.Errorf("%s must be within [0,1], got %v", KeyBotAcceptChance, c.BotAcceptChance)
	}
	if c.SimWorkers < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeySimWorkers, c.SimWorkers)
	}
	return nil
}

// MatchSeed returns the configured seed, or a time-based one when unset.
func (c Config) MatchSeed() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(time.Now().UnixNano())
}

// Rules maps the configuration to engine rules.
func (c Config) Rules() engine.Rules {
	r := engine.DefaultRules()
	r.RunPaysRaisedStake = c.RunPaysRaisedStake
	return r
}

// Policy maps the configuration to the bot policy.
func (c Config) Policy() agent.Policy {
	cfg := agent.DefaultConfig()
	cfg.RaiseChance = c.BotRaiseChance
	cfg.AcceptChance = c.BotAcceptChance
	return agent.New(cfg)
}

// NewLogger builds a logger with the configured level and formatter.
func (c Config) NewLogger(out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
