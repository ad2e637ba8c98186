package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	sharedConfig "karnex/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server" yaml:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Auth      sharedConfig.AuthConfig      `mapstructure:"auth" yaml:"auth"`
	Email     sharedConfig.EmailConfig     `mapstructure:"email" yaml:"email"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis" yaml:"redis"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"ratelimit" yaml:"ratelimit"`
	Quota     sharedConfig.QuotaConfig     `mapstructure:"quota" yaml:"quota"`
	AI        sharedConfig.AIConfig        `mapstructure:"ai" yaml:"ai"`
	Metrics   sharedConfig.MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// configPath overrides the default search locations when set; a missing
// config file is not an error, defaults and KARNEX_* variables still apply.
func Load(env string, configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("KARNEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// RedisRequired reports whether the process needs a redis connection.
func (c *Config) RedisRequired() bool {
	return c.Redis.Enabled || c.RateLimit.Backend == "redis"
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate checks struct constraints and the plan table.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, ok := cfg.Quota.Plans["free"]; !ok {
		return fmt.Errorf("invalid configuration: quota.plans must define the free tier")
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.timezone", "Asia/Tehran")

	// Database defaults
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "karnex_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Auth defaults
	v.SetDefault("auth.jwt.secret", "change-me-in-production")

	// Email defaults
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.from_address", "noreply@karnex.local")
	v.SetDefault("email.from_name", "کارنکس")
	v.SetDefault("email.base_url", "http://localhost:3000")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Rate limit defaults: 30 requests per 60s window
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.backend", "memory")
	v.SetDefault("ratelimit.requests", 30)
	v.SetDefault("ratelimit.window", "60s")
	v.SetDefault("ratelimit.max_entries", 10000)
	v.SetDefault("ratelimit.sweep_interval", "1m")

	// Plan tier ceilings, -1 is unlimited
	v.SetDefault("quota.plans", map[string]any{
		"free":       map[string]any{"ai_calls": 5000, "projects": 3},
		"plus":       map[string]any{"ai_calls": 50000, "projects": 20},
		"pro":        map[string]any{"ai_calls": -1, "projects": -1},
		"enterprise": map[string]any{"ai_calls": -1, "projects": -1},
	})
	v.SetDefault("quota.retention_months", 12)

	// AI upstream defaults
	v.SetDefault("ai.upstream_url", "")
	v.SetDefault("ai.timeout", "120s")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
