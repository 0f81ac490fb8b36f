// Package config handles loading and validating the application configuration.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"teebot/pkg/log"
)

var (
	ErrReadConfig     = errors.New("failed to read config file")
	ErrFormatConfig   = errors.New("invalid config file format")
	ErrMissingEcon    = errors.New("econ host, port and password are required")
	ErrMissingDiscord = errors.New("discord token and guild_id are required when discord is enabled")
	ErrMissingAIKey   = errors.New("ai api_key is required when ai is enabled")
)

type EconConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
}

func (e EconConfig) Addr() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

type DiscordConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
	GuildID string `mapstructure:"guild_id"`
}

type AIConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type LogConfig struct {
	Level     log.Level `mapstructure:"level"`
	File      string    `mapstructure:"file"`
	SentryDSN string    `mapstructure:"sentry_dsn"`
}

type Config struct {
	Econ    EconConfig    `mapstructure:"econ"`
	Discord DiscordConfig `mapstructure:"discord"`
	AI      AIConfig      `mapstructure:"ai"`
	Log     LogConfig     `mapstructure:"log"`
}

// Read reads in the config file and TEEBOT_ prefixed env variables if set.
func Read(cfgFile string) (Config, error) {
	viper.SetConfigName("teebot")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("teebot")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if errRead := viper.ReadInConfig(); errRead != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(errRead, &notFound) {
			return Config{}, errors.Join(errRead, ErrReadConfig)
		}
	}

	var conf Config
	if errUnmarshal := viper.Unmarshal(&conf); errUnmarshal != nil {
		return Config{}, errors.Join(errUnmarshal, ErrFormatConfig)
	}

	if errValidate := validate(conf); errValidate != nil {
		return Config{}, errValidate
	}

	return conf, nil
}

// validate enforces the startup-fatal configuration requirements. A missing
// collaborator credential is a hard error, not something to retry around.
func validate(conf Config) error {
	if conf.Econ.Host == "" || conf.Econ.Port == 0 || conf.Econ.Password == "" {
		return ErrMissingEcon
	}

	if conf.Discord.Enabled && (conf.Discord.Token == "" || conf.Discord.GuildID == "") {
		return ErrMissingDiscord
	}

	if conf.AI.Enabled && conf.AI.APIKey == "" {
		return ErrMissingAIKey
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("econ.host", "")
	viper.SetDefault("econ.port", 8303)
	viper.SetDefault("econ.password", "")

	viper.SetDefault("discord.enabled", true)
	viper.SetDefault("discord.token", "")
	viper.SetDefault("discord.guild_id", "")

	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.model", "claude-haiku-4-5-20251001")
	viper.SetDefault("ai.max_tokens", 512)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")
	viper.SetDefault("log.sentry_dsn", "")
}
