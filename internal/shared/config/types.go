package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host" yaml:"host" validate:"required"`
	Port           int      `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
	Mode           string   `mapstructure:"mode" yaml:"mode"`
	Timezone       string   `mapstructure:"timezone" yaml:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	// TrustedProxies is passed to gin; empty means no proxy is trusted for ClientIP.
	TrustedProxies []string `mapstructure:"trusted_proxies" yaml:"trusted_proxies"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver is "mysql" or "sqlite".
	Driver          string `mapstructure:"driver" yaml:"driver" validate:"oneof=mysql sqlite"`
	Host            string `mapstructure:"host" yaml:"host"`
	Port            int    `mapstructure:"port" yaml:"port"`
	Username        string `mapstructure:"username" yaml:"username"`
	Password        string `mapstructure:"password" yaml:"-"`
	Database        string `mapstructure:"database" yaml:"database" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Database
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret" yaml:"-" validate:"required"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt" yaml:"jwt"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled" yaml:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host" yaml:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port" yaml:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user" yaml:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password" yaml:"-"`
	FromAddress  string `mapstructure:"from_address" yaml:"from_address"`
	FromName     string `mapstructure:"from_name" yaml:"from_name"`
	BaseURL      string `mapstructure:"base_url" yaml:"base_url"`
}

// RedisConfig configures the optional shared store. It is always used by
// the redis rate limit backend; Enabled turns it on for the account cache
// and reset broadcast with the memory backend.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Password string `mapstructure:"password" yaml:"-"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RateLimitConfig configures the per-client fixed-window limiter.
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Backend selects the window store: "memory" (per instance) or "redis" (shared).
	Backend       string        `mapstructure:"backend" yaml:"backend" validate:"oneof=memory redis"`
	Requests      int           `mapstructure:"requests" yaml:"requests" validate:"min=1"`
	Window        time.Duration `mapstructure:"window" yaml:"window" validate:"min=1s"`
	MaxEntries    int           `mapstructure:"max_entries" yaml:"max_entries" validate:"min=1"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" yaml:"sweep_interval"`
}

// PlanLimitConfig holds the ceilings of one plan tier. -1 means unlimited.
type PlanLimitConfig struct {
	AICalls  int64 `mapstructure:"ai_calls" yaml:"ai_calls" validate:"min=-1"`
	Projects int64 `mapstructure:"projects" yaml:"projects" validate:"min=-1"`
}

type QuotaConfig struct {
	Plans map[string]PlanLimitConfig `mapstructure:"plans" yaml:"plans" validate:"required,dive"`
	// RetentionMonths is how many past billing periods of usage rows are kept.
	RetentionMonths int `mapstructure:"retention_months" yaml:"retention_months" validate:"min=1"`
}

type AIConfig struct {
	UpstreamURL string        `mapstructure:"upstream_url" yaml:"upstream_url" validate:"omitempty,url"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}
