package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	DashboardDir string `mapstructure:"dashboard_dir"`
	UsersFile    string `mapstructure:"users_file"`
}

type TelemetryConfig struct {
	// File is a path or glob pattern for the simulator's telemetry log.
	File                string `mapstructure:"file"`
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds"`
	StaleTimeoutSeconds int    `mapstructure:"stale_timeout_seconds"`
}

type RelayConfig struct {
	URL             string `mapstructure:"url"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	TokenEnv        string `mapstructure:"token_env"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Relay     RelayConfig     `mapstructure:"relay"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Telemetry.PollIntervalSeconds) * time.Second
}

func (c *Config) StaleTimeout() time.Duration {
	return time.Duration(c.Telemetry.StaleTimeoutSeconds) * time.Second
}

// Load reads configuration from an optional YAML file plus the environment.
// With an empty path, groundstation.yaml in the working directory is used if
// present. The legacy TELEM_FILE and PORT variables from earlier deployments
// keep working alongside the SRG_* prefix.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("groundstation")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SRG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("telemetry.file", "SRG_TELEMETRY_FILE", "TELEM_FILE")
	_ = v.BindEnv("server.port", "SRG_SERVER_PORT", "PORT")

	// Defaults match the original ground-station deployment.
	v.SetDefault("server.port", 5050)
	v.SetDefault("server.dashboard_dir", "..")
	v.SetDefault("server.users_file", "users.json")
	v.SetDefault("telemetry.file", "telem.txt")
	v.SetDefault("telemetry.poll_interval_seconds", 1)
	v.SetDefault("telemetry.stale_timeout_seconds", 120)
	v.SetDefault("relay.interval_seconds", 5)
	v.SetDefault("relay.timeout_seconds", 10)
	v.SetDefault("relay.token_env", "SRG_RELAY_TOKEN")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; anything else is not.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Telemetry.PollIntervalSeconds < 1 {
		cfg.Telemetry.PollIntervalSeconds = 1
	}
	if cfg.Telemetry.StaleTimeoutSeconds < 1 {
		cfg.Telemetry.StaleTimeoutSeconds = 120
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		cfg.Server.Port = 5050
	}

	return &cfg, nil
}
