package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
	// WebhookSecret authenticates the LINE bot webhook endpoint.
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// BindingConfig controls binding-code issuance and consumption.
type BindingConfig struct {
	// CodeTTLMinutes is the lifetime of an issued binding code.
	CodeTTLMinutes int `mapstructure:"code_ttl_minutes"`
	// SweepIntervalMinutes controls the expired-code housekeeping pass.
	// Zero disables the sweeper.
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes"`
	// MaxConsumeAttempts is the failed-attempt budget per external identity
	// before the rate limiter locks it out.
	MaxConsumeAttempts int `mapstructure:"max_consume_attempts"`
	// LockoutMinutes is the lockout duration after the attempt budget is spent.
	LockoutMinutes int `mapstructure:"lockout_minutes"`
}

func (b *BindingConfig) CodeTTL() time.Duration {
	if b.CodeTTLMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(b.CodeTTLMinutes) * time.Minute
}

func (b *BindingConfig) SweepInterval() time.Duration {
	return time.Duration(b.SweepIntervalMinutes) * time.Minute
}

func (b *BindingConfig) LockoutTTL() time.Duration {
	if b.LockoutMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(b.LockoutMinutes) * time.Minute
}
