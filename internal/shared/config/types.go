package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config is the fully loaded and validated process configuration.
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database DatabaseConfig  `mapstructure:"database"`
	Redis    RedisConfig     `mapstructure:"redis"`
	Logger   LoggerConfig    `mapstructure:"logger"`
	Auth     AuthConfig      `mapstructure:"auth"`
	Throttle ThrottleConfig  `mapstructure:"throttle"`
	Jobs     SchedulerConfig `mapstructure:"jobs"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host" validate:"required"`
	Port           int      `mapstructure:"port" validate:"min=1,max=65535"`
	Mode           string   `mapstructure:"mode" validate:"oneof=debug release test"`
	Timezone       string   `mapstructure:"timezone" validate:"required,timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" validate:"oneof=postgres mysql sqlite"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" validate:"min=0"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" validate:"min=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN returns the driver specific connection string. For sqlite the
// database field is the file path (or ":memory:").
func (d *DatabaseConfig) GetDSN() string {
	switch d.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
			d.Username, d.Password, d.Host, d.Port, d.Database)
	case "sqlite":
		return d.Database
	default:
		sslMode := d.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.Username, d.Password),
			Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
			Path:     d.Database,
			RawQuery: "sslmode=" + sslMode + "&TimeZone=UTC",
		}
		return u.String()
	}
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=console json"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	AccessSecret   string `mapstructure:"access_secret" validate:"min=20"`
	RefreshSecret  string `mapstructure:"refresh_secret" validate:"min=20,nefield=AccessSecret"`
	AccessTTL      string `mapstructure:"access_ttl" validate:"required,ttl"`
	RefreshTTLDays int    `mapstructure:"refresh_ttl_days" validate:"min=1,max=365"`
}

// AccessTTLDuration parses AccessTTL. Validation guarantees it parses.
func (j *JWTConfig) AccessTTLDuration() time.Duration {
	d, _ := ParseTTL(j.AccessTTL)
	return d
}

func (j *JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshTTLDays) * 24 * time.Hour
}

type CookieConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site" validate:"oneof=lax strict none"`
	Domain   string `mapstructure:"domain"`
}

type AuthConfig struct {
	JWT               JWTConfig    `mapstructure:"jwt"`
	Cookie            CookieConfig `mapstructure:"cookie"`
	RefreshHashPepper string       `mapstructure:"refresh_hash_pepper" validate:"min=10"`
}

type ThrottleConfig struct {
	TTLSeconds   int `mapstructure:"ttl_seconds" validate:"min=1,max=3600"`
	DefaultLimit int `mapstructure:"default_limit" validate:"min=1,max=10000"`
	LoginLimit   int `mapstructure:"login_limit" validate:"min=1,max=1000"`
	RefreshLimit int `mapstructure:"refresh_limit" validate:"min=1,max=5000"`
}

func (t *ThrottleConfig) Window() time.Duration {
	return time.Duration(t.TTLSeconds) * time.Second
}

// RedisConfig is optional. An empty host selects the in-process limiter.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type SchedulerConfig struct {
	AutoLockInterval time.Duration `mapstructure:"auto_lock_interval" validate:"min=1s"`
}

// ParseTTL parses a Go duration string and additionally accepts a whole
// number of days with a "d" suffix ("7d").
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid ttl %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid ttl %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid ttl %q: must be positive", s)
	}
	return d, nil
}
