package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config file discovery
const (
	ConfigName = "omnitool"
	ConfigType = "yaml"
	EnvPrefix  = "OMNITOOL"
)

// Config describes the application configuration loaded from YAML and ENV.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Downloads DownloadsConfig `mapstructure:"downloads"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// LoggingConfig controls logger behaviour.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// DownloadsConfig configures the download engine.
type DownloadsConfig struct {
	Directory   string `mapstructure:"directory"`
	AutoInstall bool   `mapstructure:"auto_install"`
}

// MetricsConfig configures the Prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from path, or from omnitool.yaml in the working
// directory or $HOME/.config/omnitool when path is empty. A missing default
// file is not an error. A .env file in the working directory is loaded first;
// environment variables override file values (prefix OMNITOOL_, dots replaced
// with underscores).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName(ConfigName)
		v.SetConfigType(ConfigType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
		}
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults populates defaults for optional fields.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("downloads.directory", "")
	v.SetDefault("downloads.auto_install", false)

	v.SetDefault("metrics.addr", "")
}

// Validate performs basic sanity checks on configuration values.
func (c *Config) Validate() error {
	var lvl zapcore.Level
	if err := lvl.Set(strings.ToLower(c.Logging.Level)); err != nil {
		return fmt.Errorf("logging.level %q is invalid", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	return nil
}
