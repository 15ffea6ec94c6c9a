package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "OBJECT_LOG"

// Config holds the application configuration
type Config struct {
	Port     int    `mapstructure:"port"`
	DBPath   string `mapstructure:"db_path"`
	LogLevel string `mapstructure:"log_level"`
	UseHTTPS bool   `mapstructure:"use_https"`

	// UserLogsDesc lists a user's actions newest first
	UserLogsDesc bool `mapstructure:"user_logs_desc"`

	OIDC OIDCConfig `mapstructure:"oidc"`
}

// OIDCConfig holds the OpenID Connect login settings
type OIDCConfig struct {
	Domain       string `mapstructure:"domain"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	CallbackURL  string `mapstructure:"callback_url"`
}

// Enabled reports whether login is configured
func (c OIDCConfig) Enabled() bool {
	return c.Domain != ""
}

// Load reads configuration from defaults, an optional config file, .env,
// OBJECT_LOG_* environment variables and flags, in increasing precedence.
// A missing file at path is not an error.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	// Load environment variables from .env file when present
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("db_path", "object_log.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("use_https", false)
	v.SetDefault("user_logs_desc", true)
	v.SetDefault("oidc.domain", "")
	v.SetDefault("oidc.client_id", "")
	v.SetDefault("oidc.client_secret", "")
	v.SetDefault("oidc.callback_url", "")
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.DBPath == "" {
		return errors.New("db_path is required")
	}
	if c.OIDC.Enabled() {
		if c.OIDC.ClientID == "" {
			return errors.New("oidc.client_id is required")
		}
		if c.OIDC.ClientSecret == "" {
			return errors.New("oidc.client_secret is required")
		}
		if c.OIDC.CallbackURL == "" {
			return errors.New("oidc.callback_url is required")
		}
	}
	return nil
}
