// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"vriksh/internal/apperrors"

	"github.com/spf13/viper"
)

const (
	IdentityLocal    = "local"
	IdentitySupabase = "supabase"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Identity IdentityConfig
	OpenAI   OpenAIConfig
	RabbitMQ RabbitMQConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port          string
	MaxImageBytes int
}

type DatabaseConfig struct {
	Driver string // postgres or sqlite
	DSN    string
}

type JWTConfig struct {
	Secret string
}

type IdentityConfig struct {
	Provider    string
	SupabaseURL string
	SupabaseKey string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type RabbitMQConfig struct {
	URL string // empty disables event publishing
}

type LogConfig struct {
	Level  string
	Format string
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("MAX_IMAGE_BYTES", 10<<20)
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("IDENTITY_PROVIDER", IdentityLocal)
	v.SetDefault("OPENAI_MODEL", "gpt-4o")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com")
	v.SetDefault("OPENAI_TIMEOUT", "60s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads configuration from v. Missing secrets are a ConfigurationError:
// the process must not start without them.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()
	if p := v.GetString("CONFIG_FILE"); p != "" {
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.Wrap(apperrors.KindConfiguration, fmt.Sprintf("failed to read config file %s", p), err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          v.GetString("APP_PORT"),
			MaxImageBytes: v.GetInt("MAX_IMAGE_BYTES"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Identity: IdentityConfig{
			Provider:    strings.ToLower(v.GetString("IDENTITY_PROVIDER")),
			SupabaseURL: v.GetString("SUPABASE_URL"),
			SupabaseKey: v.GetString("SUPABASE_KEY"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  v.GetString("OPENAI_API_KEY"),
			Model:   v.GetString("OPENAI_MODEL"),
			BaseURL: v.GetString("OPENAI_BASE_URL"),
			Timeout: v.GetDuration("OPENAI_TIMEOUT"),
		},
		RabbitMQ: RabbitMQConfig{
			URL: v.GetString("RABBITMQ_URL"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required values and enumerations.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.DSN == "" {
		missing = append(missing, "DATABASE_DSN")
	}
	if c.JWT.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.OpenAI.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.Identity.Provider == IdentitySupabase {
		if c.Identity.SupabaseURL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if c.Identity.SupabaseKey == "" {
			missing = append(missing, "SUPABASE_KEY")
		}
	}
	if len(missing) > 0 {
		return apperrors.Configuration(fmt.Sprintf("missing required configuration: %s", strings.Join(missing, ", ")))
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return apperrors.Configuration(fmt.Sprintf("unsupported DATABASE_DRIVER %q", c.Database.Driver))
	}
	switch c.Identity.Provider {
	case IdentityLocal, IdentitySupabase:
	default:
		return apperrors.Configuration(fmt.Sprintf("unsupported IDENTITY_PROVIDER %q", c.Identity.Provider))
	}
	if c.Server.MaxImageBytes <= 0 {
		return apperrors.Configuration("MAX_IMAGE_BYTES must be positive")
	}
	return nil
}
